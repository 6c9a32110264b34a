package handlers

import (
	"errors"
	"net/http"

	"github.com/psw4/psw-backend/internal/api/request"
	"github.com/psw4/psw-backend/internal/api/response"
	"github.com/psw4/psw-backend/internal/apperrors"
	"github.com/psw4/psw-backend/internal/service"
	"github.com/psw4/psw-backend/internal/validation"
)

// AuthHandler handles login, logout and the current user.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Login verifies credentials and returns a bearer token.
//
// Endpoint: POST /api/auth/login
// Request Body: LoginRequest (username, password)
// Response: 200 OK with LoginResult
// Error: 400 Bad Request if the body is invalid or a field is missing
// Error: 401 Unauthorized on wrong credentials
// Error: 403 Forbidden if the account is inactive
// Error: 429 Too Many Requests while the account is locked
// Error: 500 Internal Server Error if the login could not be stored
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.LoginRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateLogin(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	result, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		status := response.StatusForAuthError(err)
		if status == http.StatusInternalServerError {
			response.RespondError(w, status, apperrors.ErrFailedToLogin.Error(), err.Error())
			return
		}
		response.RespondError(w, status, err.Error(), "")
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}

// Logout ends the caller's session.
//
// Endpoint: POST /api/auth/logout
// Response: 204 No Content
// Error: 500 Internal Server Error if the session could not be removed
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.Logout(r.Context(), principal(r)); err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			response.RespondError(w, http.StatusUnauthorized, err.Error(), "")
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to logout", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// Me returns the account of the authenticated caller.
//
// Endpoint: GET /api/auth/me
// Response: 200 OK with User
// Error: 401 Unauthorized if the account no longer exists
// Error: 500 Internal Server Error if retrieval fails
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.authService.CurrentUser(r.Context(), principal(r))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			response.RespondError(w, http.StatusUnauthorized, apperrors.ErrUnauthorized.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to retrieve user", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, user)
}
