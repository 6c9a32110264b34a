package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/psw4/psw-backend/internal/apperrors"
)

var isinPattern = regexp.MustCompile(`^[A-Z]{2}[A-Z0-9]{9}[0-9]$`)

// ValidateUUID checks if a string is a valid UUID
func ValidateUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid UUID format: %s", id)
	}
	return nil
}

// ValidateISIN checks the ISIN shape: two letter country code, nine
// alphanumerics and a check digit. The check digit itself is not verified.
func ValidateISIN(isin string) error {
	if !isinPattern.MatchString(isin) {
		return fmt.Errorf("%w: %q", apperrors.ErrInvalidISIN, isin)
	}
	return nil
}

// NormalizeISIN trims and upper-cases an ISIN.
func NormalizeISIN(isin string) string {
	return strings.ToUpper(strings.TrimSpace(isin))
}
