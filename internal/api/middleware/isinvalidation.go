// Package middleware provides HTTP middleware for request validation and processing.
package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/psw4/psw-backend/internal/api/response"
	"github.com/psw4/psw-backend/internal/validation"
)

// ValidateISINMiddleware normalizes the {isin} URL parameter to upper case
// and rejects the request with 400 Bad Request when it is not a well-formed ISIN.
//
// Example usage in router:
//
//	r.Route("/{isin}", func(r chi.Router) {
//	    r.Use(middleware.ValidateISINMiddleware)
//	    r.Get("/", handler.Lookup)
//	})
func ValidateISINMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := chi.URLParam(r, "isin")
		if raw == "" {
			response.RespondError(w, http.StatusBadRequest, "valid ISIN is required", "")
			return
		}

		isin := validation.NormalizeISIN(raw)
		if err := validation.ValidateISIN(isin); err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid ISIN format", err.Error())
			return
		}

		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			for i, key := range rctx.URLParams.Keys {
				if key == "isin" {
					rctx.URLParams.Values[i] = isin
				}
			}
		}

		next.ServeHTTP(w, r)
	})
}
