package testutil

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"
	"github.com/psw4/psw-backend/internal/api/middleware"
	"github.com/psw4/psw-backend/internal/model"
)

// TestPrincipal is a regular user for handler tests that bypass RequireAuth.
var TestPrincipal = model.Principal{
	UserID:    "00000000-0000-0000-0000-000000000001",
	Username:  "tester",
	Role:      model.RoleUser,
	SessionID: "00000000-0000-0000-0000-0000000000aa",
}

// NewRequestWithURLParams creates an HTTP request with chi URL parameters.
//
// Example:
//
//	req := testutil.NewRequestWithURLParams(
//	    http.MethodGet,
//	    "/api/company/SE0000108656",
//	    map[string]string{"isin": "SE0000108656"},
//	)
func NewRequestWithURLParams(method, path string, params map[string]string) *http.Request {
	req := httptest.NewRequest(method, path, nil)

	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for key, value := range params {
			rctx.URLParams.Add(key, value)
		}
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	return req
}

// NewRequestWithQueryParams creates an HTTP request with query parameters.
//
// Example:
//
//	req := testutil.NewRequestWithQueryParams(
//	    http.MethodGet,
//	    "/api/dividend/logs",
//	    map[string]string{
//	        "from": "2025-01-01",
//	        "to":   "2025-12-31",
//	    },
//	)
func NewRequestWithQueryParams(method, path string, queryParams map[string]string) *http.Request {
	req := httptest.NewRequest(method, path, nil)

	if len(queryParams) > 0 {
		q := req.URL.Query()
		for key, value := range queryParams {
			q.Add(key, value)
		}
		req.URL.RawQuery = q.Encode()
	}

	return req
}

// WithPrincipal returns req carrying p as the authenticated caller, as
// RequireAuth would store it.
func WithPrincipal(req *http.Request, p model.Principal) *http.Request {
	return req.WithContext(middleware.WithPrincipal(req.Context(), p))
}
