package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fernet/fernet-go"
	"github.com/google/uuid"
	"github.com/psw4/psw-backend/internal/apperrors"
	"github.com/psw4/psw-backend/internal/model"
	"github.com/psw4/psw-backend/internal/repository"
	"github.com/psw4/psw-backend/internal/validation"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const (
	// MaxFailedLogins is how many wrong passwords lock an account.
	MaxFailedLogins = 5
	// LockoutDuration is how long a locked account stays locked.
	LockoutDuration = 15 * time.Minute
	// MaxTokenAge bounds a token's lifetime regardless of session activity.
	MaxTokenAge = 24 * time.Hour
	// MinPasswordLength is enforced when creating users.
	MinPasswordLength = 8
)

// AuthConfig configures the AuthService.
type AuthConfig struct {
	// Key is a base64 encoded fernet key. An empty key generates a fresh one.
	Key string
	// Timeout is the idle lifetime of a session.
	Timeout time.Duration
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
}

// AuthService handles users, logins and sessions.
//
// A session lives in the user_sessions table with a sliding idle expiry.
// The bearer token handed to clients is the session id sealed with fernet,
// so tokens cannot be forged or read without the key.
type AuthService struct {
	userRepo *repository.UserRepository
	key      *fernet.Key
	timeout  time.Duration
	cost     int
	log      zerolog.Logger
	now      func() time.Time

	// dummyHash is compared against for unknown usernames so both login
	// failures spend the same bcrypt time.
	dummyHash []byte
}

// NewAuthService creates an AuthService.
func NewAuthService(userRepo *repository.UserRepository, cfg AuthConfig, log zerolog.Logger) (*AuthService, error) {
	log = log.With().Str("service", "auth").Logger()

	var key *fernet.Key
	if cfg.Key == "" {
		key = new(fernet.Key)
		if err := key.Generate(); err != nil {
			return nil, fmt.Errorf("failed to generate session key: %w", err)
		}
		log.Warn().Msg("no session key configured, sessions will not survive a restart")
	} else {
		var err error
		key, err = fernet.DecodeKey(cfg.Key)
		if err != nil {
			return nil, fmt.Errorf("invalid session key: %w", err)
		}
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Hour
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}

	dummyHash, err := bcrypt.GenerateFromPassword([]byte(uuid.New().String()), cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare password hashing: %w", err)
	}

	return &AuthService{
		userRepo:  userRepo,
		key:       key,
		timeout:   cfg.Timeout,
		cost:      cfg.BcryptCost,
		log:       log,
		now:       time.Now,
		dummyHash: dummyHash,
	}, nil
}

// WithClock replaces the source of the current time. Used by tests.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

// CreateUser registers a new account with a hashed password.
func (s *AuthService) CreateUser(ctx context.Context, username, email, password, role string) (model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return model.User{}, fmt.Errorf("%w: username", apperrors.ErrMissingRequiredField)
	}
	if len(password) < MinPasswordLength {
		return model.User{}, fmt.Errorf("%w: password must be at least %d characters", apperrors.ErrMissingRequiredField, MinPasswordLength)
	}
	if role != model.RoleAdmin {
		role = model.RoleUser
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := model.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        strings.TrimSpace(email),
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return model.User{}, err
	}

	s.log.Info().Str("username", username).Str("role", role).Msg("user created")
	return user, nil
}

// EnsureAdmin creates an admin account unless username already exists.
// It reports whether a user was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	_, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return false, err
	}

	if _, err := s.CreateUser(ctx, username, "", password, model.RoleAdmin); err != nil {
		return false, err
	}
	return true, nil
}

// Login verifies credentials and opens a session.
//
// An unknown username and a wrong password both return
// apperrors.ErrInvalidCredentials after a bcrypt comparison. Failed
// attempts count towards MaxFailedLogins; reaching it locks the account
// for LockoutDuration.
func (s *AuthService) Login(ctx context.Context, username, password string) (model.LoginResult, error) {
	now := s.now().UTC()

	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, apperrors.ErrUserNotFound) {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return model.LoginResult{}, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return model.LoginResult{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToLogin, err)
	}

	if !user.Active {
		return model.LoginResult{}, apperrors.ErrAccountInactive
	}
	if user.LockedUntil != nil && now.Before(*user.LockedUntil) {
		return model.LoginResult{}, apperrors.ErrAccountLocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return model.LoginResult{}, s.recordFailure(ctx, user, now)
	}

	if err := s.userRepo.RecordLogin(ctx, user.ID, now); err != nil {
		return model.LoginResult{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToLogin, err)
	}

	session := model.Session{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		CreatedAt: now,
		LastSeen:  now,
		ExpiresAt: now.Add(s.timeout),
	}
	if err := s.userRepo.CreateSession(ctx, session); err != nil {
		return model.LoginResult{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToLogin, err)
	}

	token, err := fernet.EncryptAndSign([]byte(session.ID), s.key)
	if err != nil {
		return model.LoginResult{}, fmt.Errorf("failed to seal session token: %w", err)
	}

	user.LastLogin = &now
	user.FailedAttempts = 0
	user.LockedUntil = nil

	s.log.Info().Str("username", user.Username).Msg("user logged in")
	return model.LoginResult{
		Token:     string(token),
		ExpiresAt: session.ExpiresAt,
		User:      user,
	}, nil
}

func (s *AuthService) recordFailure(ctx context.Context, user model.User, now time.Time) error {
	attempts := user.FailedAttempts + 1
	var lockedUntil *time.Time
	if attempts >= MaxFailedLogins {
		until := now.Add(LockoutDuration)
		lockedUntil = &until
		attempts = 0
	}

	if err := s.userRepo.RecordFailedLogin(ctx, user.ID, attempts, lockedUntil); err != nil {
		s.log.Error().Err(err).Str("username", user.Username).Msg("failed to record failed login")
	}

	if lockedUntil != nil {
		s.log.Warn().Str("username", user.Username).Time("locked_until", *lockedUntil).Msg("account locked after repeated failed logins")
		return apperrors.ErrAccountLocked
	}
	return apperrors.ErrInvalidCredentials
}

// Authenticate resolves a bearer token to the calling principal and
// extends the session's idle expiry.
func (s *AuthService) Authenticate(ctx context.Context, token string) (model.Principal, error) {
	now := s.now().UTC()

	sessionID := fernet.VerifyAndDecrypt([]byte(token), MaxTokenAge, []*fernet.Key{s.key})
	if sessionID == nil || validation.ValidateUUID(string(sessionID)) != nil {
		return model.Principal{}, apperrors.ErrInvalidToken
	}

	session, err := s.userRepo.GetSession(ctx, string(sessionID))
	if errors.Is(err, apperrors.ErrSessionNotFound) {
		return model.Principal{}, apperrors.ErrInvalidToken
	}
	if err != nil {
		return model.Principal{}, err
	}

	if !now.Before(session.ExpiresAt) {
		if err := s.userRepo.DeleteSession(ctx, session.ID); err != nil {
			s.log.Error().Err(err).Msg("failed to delete expired session")
		}
		return model.Principal{}, apperrors.ErrSessionExpired
	}

	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if errors.Is(err, apperrors.ErrUserNotFound) {
		return model.Principal{}, apperrors.ErrInvalidToken
	}
	if err != nil {
		return model.Principal{}, err
	}
	if !user.Active {
		return model.Principal{}, apperrors.ErrAccountInactive
	}

	if err := s.userRepo.TouchSession(ctx, session.ID, now, now.Add(s.timeout)); err != nil {
		s.log.Error().Err(err).Msg("failed to extend session")
	}

	return model.Principal{
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		SessionID: session.ID,
	}, nil
}

// Logout ends the principal's session.
func (s *AuthService) Logout(ctx context.Context, principal model.Principal) error {
	if principal.SessionID == "" {
		return apperrors.ErrUnauthorized
	}
	return s.userRepo.DeleteSession(ctx, principal.SessionID)
}

// CurrentUser returns the account behind principal.
func (s *AuthService) CurrentUser(ctx context.Context, principal model.Principal) (model.User, error) {
	return s.userRepo.GetByID(ctx, principal.UserID)
}

// PurgeExpiredSessions deletes sessions past their expiry.
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return s.userRepo.DeleteExpiredSessions(ctx, s.now().UTC())
}
