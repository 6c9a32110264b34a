package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/psw4/psw-backend/internal/api/response"
	"github.com/psw4/psw-backend/internal/apperrors"
	"github.com/psw4/psw-backend/internal/service"
)

// CompanyHandler serves masterlist records.
type CompanyHandler struct {
	companyService *service.CompanyService
}

// NewCompanyHandler creates a new CompanyHandler.
func NewCompanyHandler(companyService *service.CompanyService) *CompanyHandler {
	return &CompanyHandler{
		companyService: companyService,
	}
}

// GetCompany returns one masterlist record.
//
// Endpoint: GET /api/company/{isin}
// Response: 200 OK with Company
// Error: 400 Bad Request if the ISIN is malformed (validated by middleware)
// Error: 404 Not Found if the ISIN is not in the masterlist
// Error: 500 Internal Server Error if retrieval fails
func (h *CompanyHandler) GetCompany(w http.ResponseWriter, r *http.Request) {
	isin := chi.URLParam(r, "isin")

	company, err := h.companyService.GetCompany(r.Context(), isin)
	if err != nil {
		if errors.Is(err, apperrors.ErrCompanyNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrCompanyNotFound.Error(), isin)
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveCompanies.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, company)
}

// ListCompanies returns the masterlist ordered by name.
//
// Endpoint: GET /api/company
// Query Parameters: include_delisted (optional, boolean)
// Response: 200 OK with array of Company
// Error: 400 Bad Request if include_delisted is not a boolean
// Error: 500 Internal Server Error if retrieval fails
func (h *CompanyHandler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	includeDelisted := false
	if v := r.URL.Query().Get("include_delisted"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid include_delisted: must be true or false", "")
			return
		}
		includeDelisted = parsed
	}

	companies, err := h.companyService.ListCompanies(r.Context(), includeDelisted)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveCompanies.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, companies)
}
