package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/psw4/psw-backend/internal/api/response"
	"github.com/psw4/psw-backend/internal/apperrors"
	"github.com/psw4/psw-backend/internal/model"
)

type principalKey struct{}

// Authenticator resolves a bearer token to a principal.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (model.Principal, error)
}

// WithPrincipal stores p in ctx.
func WithPrincipal(ctx context.Context, p model.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal stored by RequireAuth.
func PrincipalFromContext(ctx context.Context) (model.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(model.Principal)
	return p, ok
}

// RequireAuth rejects requests without a valid "Authorization: Bearer"
// token and stores the caller's principal in the request context.
func RequireAuth(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				response.RespondError(w, http.StatusUnauthorized, apperrors.ErrUnauthorized.Error(), "missing bearer token")
				return
			}

			principal, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				status := response.StatusForAuthError(err)
				if status == http.StatusInternalServerError {
					response.RespondError(w, status, "failed to authenticate", err.Error())
					return
				}
				response.RespondError(w, status, err.Error(), "")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

// RequireAdmin allows only principals with the admin role. It must run
// after RequireAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := PrincipalFromContext(r.Context())
		if !ok {
			response.RespondError(w, http.StatusUnauthorized, apperrors.ErrUnauthorized.Error(), "")
			return
		}
		if !principal.IsAdmin() {
			response.RespondError(w, http.StatusForbidden, apperrors.ErrForbidden.Error(), "")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
