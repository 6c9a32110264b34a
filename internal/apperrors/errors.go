package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrCompanyNotFound indicates that no masterlist record matches the ISIN.
	ErrCompanyNotFound = errors.New("company not found")

	// ErrUserNotFound indicates that no user matches the given id or username.
	ErrUserNotFound = errors.New("user not found")

	// ErrSessionNotFound indicates that a session does not exist or was removed.
	ErrSessionNotFound = errors.New("session not found")
)

// Authentication errors represent rejected credentials or sessions.
var (
	// ErrInvalidCredentials is returned for an unknown user or a wrong password.
	// Both cases share one error so callers cannot probe for usernames.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrAccountLocked indicates too many failed logins in a short time.
	ErrAccountLocked = errors.New("account temporarily locked")

	// ErrAccountInactive indicates a disabled account.
	ErrAccountInactive = errors.New("account is inactive")

	ErrSessionExpired = errors.New("session expired")
	ErrInvalidToken   = errors.New("invalid session token")
	ErrUnauthorized   = errors.New("authentication required")
	ErrForbidden      = errors.New("insufficient permissions")
)

// Business logic errors represent validation failures or constraint violations.
var (
	// ErrInvalidISIN indicates an ISIN that is not 12 alphanumeric characters.
	ErrInvalidISIN = errors.New("invalid ISIN")

	// ErrInvalidPagination indicates a page or page size that is not a positive integer.
	ErrInvalidPagination = errors.New("invalid pagination parameters")

	// ErrDuplicateEntry indicates that an entity with the same unique constraint already exists.
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrMissingRequiredField indicates that a required field is missing or empty.
	ErrMissingRequiredField = errors.New("missing required field")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
var (
	ErrFailedToRetrieveDividends = errors.New("failed to retrieve dividends")
	ErrFailedToComputeStatistics = errors.New("failed to compute dividend statistics")
	ErrFailedToRetrieveCompanies = errors.New("failed to retrieve companies")
	ErrFailedToLogin             = errors.New("failed to log in")
)
