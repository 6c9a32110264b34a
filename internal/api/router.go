package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/psw4/psw-backend/internal/api/handlers"
	custommiddleware "github.com/psw4/psw-backend/internal/api/middleware"
	"github.com/psw4/psw-backend/internal/config"
	"github.com/psw4/psw-backend/internal/service"
)

// Services holds the services the HTTP layer delegates to.
type Services struct {
	System    *service.SystemService
	Auth      *service.AuthService
	Company   *service.CompanyService
	Dividend  *service.DividendService
	Portfolio *service.PortfolioService
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, cfg *config.Config, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(log))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	requireAuth := custommiddleware.RequireAuth(svc.Auth)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(svc.System)
			r.Get("/health", systemHandler.Health)
		})

		r.Route("/auth", func(r chi.Router) {
			authHandler := handlers.NewAuthHandler(svc.Auth)
			r.Post("/login", authHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/logout", authHandler.Logout)
				r.Get("/me", authHandler.Me)
			})
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Use(requireAuth)
			dashboardHandler := handlers.NewDashboardHandler(svc.Portfolio)
			r.Get("/summary", dashboardHandler.Summary)
			r.Get("/allocation", dashboardHandler.Allocation)
		})

		r.Route("/dividend", func(r chi.Router) {
			r.Use(requireAuth)
			dividendHandler := handlers.NewDividendHandler(svc.Dividend, cfg.DateRange.MonthsBack)
			r.Get("/statistics", dividendHandler.Statistics)
			r.Get("/logs", dividendHandler.Logs)
			r.Get("/logs/summary", dividendHandler.LogSummary)
			r.Get("/companies", dividendHandler.CompanyBreakdown)
			r.Get("/estimate", dividendHandler.Estimate)
		})

		r.Route("/company", func(r chi.Router) {
			r.Use(requireAuth)
			companyHandler := handlers.NewCompanyHandler(svc.Company)
			r.With(custommiddleware.RequireAdmin).Get("/", companyHandler.ListCompanies)

			r.Route("/{isin}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateISINMiddleware)
				r.Get("/", companyHandler.GetCompany)
			})
		})
	})

	return r
}
