package testutil

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/psw4/psw-backend/internal/daterange"
	"github.com/psw4/psw-backend/internal/model"
	"github.com/psw4/psw-backend/internal/repository"
	"github.com/psw4/psw-backend/internal/service"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// TestPassword is the password CreateTestUser assigns.
const TestPassword = "correct-horse-battery"

// FixedClock returns a clock pinned to midday on date (YYYY-MM-DD).
//
// Example usage:
//
//	svc := testutil.NewTestDividendService(t, dbs, testutil.FixedClock("2025-03-01"))
func FixedClock(date string) func() time.Time {
	d, ok := daterange.ParseDate(date)
	if !ok {
		panic("testutil: invalid clock date " + date)
	}
	at := d.Add(12 * time.Hour)
	return func() time.Time { return at }
}

func NewTestCompanyService(t *testing.T, dbs *TestDBs) *service.CompanyService {
	t.Helper()

	companyRepo := repository.NewCompanyRepository(dbs.Foundation, zerolog.Nop())

	return service.NewCompanyService(companyRepo, zerolog.Nop())
}

func NewTestDividendService(t *testing.T, dbs *TestDBs, clock func() time.Time) *service.DividendService {
	t.Helper()

	dividendRepo := repository.NewDividendRepository(dbs.Portfolio, zerolog.Nop())

	svc := service.NewDividendService(
		dividendRepo,
		NewTestCompanyService(t, dbs),
		daterange.DefaultDisplayLayout,
		zerolog.Nop(),
	)
	if clock != nil {
		svc.WithClock(clock)
	}
	return svc
}

func NewTestPortfolioService(t *testing.T, dbs *TestDBs, clock func() time.Time) *service.PortfolioService {
	t.Helper()

	return service.NewPortfolioService(
		NewTestDividendService(t, dbs, clock),
		zerolog.Nop(),
	)
}

func NewTestSystemService(t *testing.T, dbs *TestDBs) *service.SystemService {
	t.Helper()

	return service.NewSystemService(dbs.Registry)
}

// NewTestAuthService creates an AuthService with a generated key, a one
// hour session timeout and the cheapest bcrypt cost.
func NewTestAuthService(t *testing.T, dbs *TestDBs, clock func() time.Time) *service.AuthService {
	t.Helper()

	userRepo := repository.NewUserRepository(dbs.Foundation, zerolog.Nop())

	svc, err := service.NewAuthService(userRepo, service.AuthConfig{
		Timeout:    time.Hour,
		BcryptCost: bcrypt.MinCost,
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Failed to create auth service: %v", err)
	}
	if clock != nil {
		svc.WithClock(clock)
	}
	return svc
}

// CreateTestUser registers a user with TestPassword.
func CreateTestUser(t *testing.T, svc *service.AuthService, username, role string) model.User {
	t.Helper()

	user, err := svc.CreateUser(context.Background(), username, username+"@example.com", TestPassword, role)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

// LoginTestUser creates a user and logs in, returning the bearer token.
func LoginTestUser(t *testing.T, svc *service.AuthService, username, role string) string {
	t.Helper()

	CreateTestUser(t, svc, username, role)
	result, err := svc.Login(context.Background(), username, TestPassword)
	if err != nil {
		t.Fatalf("Failed to log in test user: %v", err)
	}
	return result.Token
}

// Test data generators

// MakeID generates a unique UUID for testing.
func MakeID() string {
	return uuid.New().String()
}

// MakeISIN generates a well formed ISIN code for testing.
//
// Example usage:
//
//	isin := testutil.MakeISIN("SE")
//	// Returns: "SE1A2B3C4D57"
func MakeISIN(prefix string) string {
	if prefix == "" {
		prefix = "SE"
	}
	//nolint:gosec // G404: Using math/rand for test data generation is acceptable
	return prefix + randomAlphanumeric(9) + string(rune('0'+rand.Intn(10)))
}

// MakeTicker generates a stock ticker symbol for testing.
//
// Example usage:
//
//	ticker := testutil.MakeTicker("ERIC")
//	// Returns: "ERIC1A2B"
func MakeTicker(base string) string {
	if base == "" {
		base = "TEST"
	}
	return base + randomAlphanumeric(4)
}

// MakeCompanyName generates a unique company name for testing.
//
// Example usage:
//
//	name := testutil.MakeCompanyName("Industrials")
//	// Returns: "Industrials XYZ789"
func MakeCompanyName(base string) string {
	if base == "" {
		base = "Company"
	}
	return base + " " + randomAlphanumeric(6)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
