package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/psw4/psw-backend/internal/api"
	"github.com/psw4/psw-backend/internal/config"
	"github.com/psw4/psw-backend/internal/database"
	"github.com/psw4/psw-backend/internal/logger"
	"github.com/psw4/psw-backend/internal/repository"
	"github.com/psw4/psw-backend/internal/scheduler"
	"github.com/psw4/psw-backend/internal/service"
)

// sessionPurgeSchedule is how often expired sessions are removed.
const sessionPurgeSchedule = "@every 15m"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	zlog.Logger = log

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server exited with error")
	}
	log.Info().Msg("server exited")
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Open and migrate the databases
	registry := database.NewRegistry(map[database.Name]string{
		database.Foundation: cfg.Database.Foundation,
		database.Marketdata: cfg.Database.Marketdata,
		database.Portfolio:  cfg.Database.Portfolio,
	}, log)
	defer func() {
		if err := registry.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close databases")
		}
	}()

	if err := registry.OpenAll(ctx); err != nil {
		return err
	}
	foundationDB, err := registry.Conn(ctx, database.Foundation)
	if err != nil {
		return err
	}
	portfolioDB, err := registry.Conn(ctx, database.Portfolio)
	if err != nil {
		return err
	}

	// Create repositories
	companyRepo := repository.NewCompanyRepository(foundationDB, log)
	userRepo := repository.NewUserRepository(foundationDB, log)
	dividendRepo := repository.NewDividendRepository(portfolioDB, log)

	// Create services
	systemService := service.NewSystemService(registry)
	companyService := service.NewCompanyService(companyRepo, log)
	dividendService := service.NewDividendService(dividendRepo, companyService, cfg.DateRange.DisplayFormat, log)
	portfolioService := service.NewPortfolioService(dividendService, log)
	authService, err := service.NewAuthService(userRepo, service.AuthConfig{
		Key:     cfg.Session.Key,
		Timeout: cfg.Session.Timeout,
	}, log)
	if err != nil {
		return err
	}

	if cfg.Session.AdminUsername != "" && cfg.Session.AdminPassword != "" {
		created, err := authService.EnsureAdmin(ctx, cfg.Session.AdminUsername, cfg.Session.AdminPassword)
		if err != nil {
			return err
		}
		if created {
			log.Info().Str("username", cfg.Session.AdminUsername).Msg("admin account bootstrapped")
		}
	}

	// Background jobs
	sched := scheduler.New(time.Minute, log)
	purgeJob := scheduler.NewPurgeSessionsJob(authService, log)
	if err := sched.AddJob(sessionPurgeSchedule, purgeJob); err != nil {
		return err
	}
	if err := sched.RunNow(ctx, purgeJob); err != nil {
		log.Warn().Err(err).Msg("initial session purge failed")
	}

	// Create router
	router := api.NewRouter(api.Services{
		System:    systemService,
		Auth:      authService,
		Company:   companyService,
		Dividend:  dividendService,
		Portfolio: portfolioService,
	}, cfg, log)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return sched.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server")

		// Graceful shutdown with timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
