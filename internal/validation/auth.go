package validation

import (
	"strings"

	"github.com/psw4/psw-backend/internal/api/request"
)

// ValidateLogin checks that both credentials are present.
func ValidateLogin(req request.LoginRequest) error {
	errs := make(map[string]string)

	if strings.TrimSpace(req.Username) == "" {
		errs["username"] = "username is required"
	}
	if req.Password == "" {
		errs["password"] = "password is required"
	}

	if len(errs) > 0 {
		return &Error{Fields: errs}
	}
	return nil
}
