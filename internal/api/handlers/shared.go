package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/psw4/psw-backend/internal/api/middleware"
	"github.com/psw4/psw-backend/internal/model"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// parseJSON decodes the request body into a T. Unknown fields are rejected.
func parseJSON[T any](r *http.Request) (T, error) {
	var req T
	if r.Body == nil {
		return req, errors.New("request body is empty")
	}

	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return req, err
	}
	return req, nil
}

// principal returns the caller stored by the auth middleware. Routes
// mounted without authentication get the zero Principal.
func principal(r *http.Request) model.Principal {
	p, _ := middleware.PrincipalFromContext(r.Context())
	return p
}
