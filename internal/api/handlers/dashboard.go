package handlers

import (
	"net/http"

	"github.com/psw4/psw-backend/internal/api/response"
	"github.com/psw4/psw-backend/internal/service"
)

// DashboardHandler serves the portfolio dashboard cards.
type DashboardHandler struct {
	portfolioService *service.PortfolioService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(portfolioService *service.PortfolioService) *DashboardHandler {
	return &DashboardHandler{
		portfolioService: portfolioService,
	}
}

// Summary returns the dashboard headline figures.
// A data error does not fail the request: the figures are zero and
// "degraded" is true.
//
// Endpoint: GET /api/dashboard/summary
// Response: 200 OK with PortfolioSummary
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, _ := h.portfolioService.Summary(r.Context(), principal(r))
	response.RespondJSON(w, http.StatusOK, summary)
}

// Allocation returns the portfolio breakdown by country and currency.
// A data error does not fail the request: the amounts are zero and
// "degraded" is true.
//
// Endpoint: GET /api/dashboard/allocation
// Response: 200 OK with Allocation
func (h *DashboardHandler) Allocation(w http.ResponseWriter, r *http.Request) {
	allocation, _ := h.portfolioService.Allocation(r.Context(), principal(r))
	response.RespondJSON(w, http.StatusOK, allocation)
}
