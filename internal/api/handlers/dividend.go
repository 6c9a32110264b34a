package handlers

import (
	"errors"
	"net/http"

	"github.com/psw4/psw-backend/internal/api/request"
	"github.com/psw4/psw-backend/internal/api/response"
	"github.com/psw4/psw-backend/internal/apperrors"
	"github.com/psw4/psw-backend/internal/daterange"
	"github.com/psw4/psw-backend/internal/service"
)

// DividendHandler handles HTTP requests for dividend endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the dividendService.
type DividendHandler struct {
	dividendService *service.DividendService
	monthsBack      int
}

// NewDividendHandler creates a new DividendHandler. monthsBack sizes the
// default range of the log endpoints when no dates are given.
func NewDividendHandler(dividendService *service.DividendService, monthsBack int) *DividendHandler {
	return &DividendHandler{
		dividendService: dividendService,
		monthsBack:      monthsBack,
	}
}

// Statistics returns the dividend statistics for the dashboard.
// The figures always cover the current year and all time; from/to are
// not accepted here and are ignored when sent.
// By default a data error yields all-zero statistics with 200 OK.
// With strict=true the error is returned instead.
//
// Endpoint: GET /api/dividend/statistics
// Query Parameters: strict (optional, boolean)
// Response: 200 OK with DividendStatistics
// Error: 400 Bad Request if strict is not a boolean
// Error: 500 Internal Server Error if strict=true and computing fails
func (h *DividendHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	q, err := request.ParseDividendQuery(r.URL.Query(), daterange.Range{})
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	result := h.dividendService.Statistics(r.Context(), principal(r))
	if result.Err != nil && q.Strict {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToComputeStatistics.Error(), result.Err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, result.Value)
}

// Logs returns one page of the enriched dividend log, newest first.
// Without from/to the range covers the configured number of months back
// through the end of the current month.
//
// Endpoint: GET /api/dividend/logs
// Query Parameters: from, to (optional, YYYY-MM-DD), page, per_page (optional)
// Response: 200 OK with DividendLogPage
// Error: 400 Bad Request if pagination parameters are invalid
// Error: 500 Internal Server Error if retrieval fails
func (h *DividendHandler) Logs(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	dateRange := request.ParseDateRangeOrDefault(values, h.dividendService.Today(), h.monthsBack)

	q, err := request.ParseDividendQuery(values, dateRange)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	page, err := h.dividendService.Logs(r.Context(), q.Range, q.Page, q.PerPage)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidPagination) {
			response.RespondError(w, http.StatusBadRequest, err.Error(), "")
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveDividends.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, page)
}

// LogSummary returns aggregate figures for the dividend log.
// The range defaults the same way as Logs.
//
// Endpoint: GET /api/dividend/logs/summary
// Query Parameters: from, to (optional, YYYY-MM-DD)
// Response: 200 OK with DividendLogSummary
// Error: 500 Internal Server Error if retrieval fails
func (h *DividendHandler) LogSummary(w http.ResponseWriter, r *http.Request) {
	dateRange := request.ParseDateRangeOrDefault(r.URL.Query(), h.dividendService.Today(), h.monthsBack)

	summary, err := h.dividendService.LogSummary(r.Context(), dateRange)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveDividends.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, summary)
}

// CompanyBreakdown returns dividend totals per company, largest first.
//
// Endpoint: GET /api/dividend/companies
// Query Parameters: from, to (optional, YYYY-MM-DD), limit (optional, 0 = all)
// Response: 200 OK with array of CompanyDividendTotal
// Error: 400 Bad Request if limit is invalid
// Error: 500 Internal Server Error if retrieval fails
func (h *DividendHandler) CompanyBreakdown(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()

	q, err := request.ParseDividendQuery(values, request.ParseDateRange(values))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	totals, err := h.dividendService.CompanyBreakdown(r.Context(), q.Range, q.Limit)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveDividends.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, totals)
}

// Estimate returns the current year projection with monthly and quarterly views.
//
// Endpoint: GET /api/dividend/estimate
// Response: 200 OK with DividendEstimate
// Error: 500 Internal Server Error if retrieval fails
func (h *DividendHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	estimate, err := h.dividendService.Estimate(r.Context(), principal(r))
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveDividends.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, estimate)
}
