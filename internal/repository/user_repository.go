package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/psw4/psw-backend/internal/apperrors"
	"github.com/psw4/psw-backend/internal/model"
	"github.com/rs/zerolog"
)

const userColumns = `id, username, email, password_hash, role, active, failed_attempts, locked_until, last_login, created_at`

// UserRepository manages accounts and login sessions in the foundation database.
type UserRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewUserRepository creates a UserRepository.
func NewUserRepository(db *sql.DB, log zerolog.Logger) *UserRepository {
	return &UserRepository{
		db:  db,
		log: log.With().Str("repository", "user").Logger(),
	}
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, u model.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, username, email, password_hash, role, active, failed_attempts, created_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, ?)`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.Role, u.Active, formatTime(u.CreatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%w: username %s", apperrors.ErrDuplicateEntry, u.Username)
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetByUsername returns the user with the given username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (model.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
}

// GetByID returns the user with the given id.
func (r *UserRepository) GetByID(ctx context.Context, id string) (model.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg string) (model.User, error) {
	var u model.User
	var lockedUntil, lastLogin sql.NullString
	var createdAt string

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.Active,
		&u.FailedAttempts,
		&lockedUntil,
		&lastLogin,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, apperrors.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to query user: %w", err)
	}

	if u.LockedUntil, err = parseNullTime(lockedUntil); err != nil {
		return model.User{}, err
	}
	if u.LastLogin, err = parseNullTime(lastLogin); err != nil {
		return model.User{}, err
	}
	if u.CreatedAt, err = ParseTime(createdAt); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// RecordFailedLogin stores the failed attempt counter and lock expiry.
func (r *UserRepository) RecordFailedLogin(ctx context.Context, id string, attempts int, lockedUntil *time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET failed_attempts = ?, locked_until = ? WHERE id = ?`,
		attempts, formatNullTime(lockedUntil), id,
	)
	if err != nil {
		return fmt.Errorf("failed to record failed login: %w", err)
	}
	return nil
}

// RecordLogin resets the failure counter and stamps the login time.
func (r *UserRepository) RecordLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET failed_attempts = 0, locked_until = NULL, last_login = ? WHERE id = ?`,
		formatTime(at), id,
	)
	if err != nil {
		return fmt.Errorf("failed to record login: %w", err)
	}
	return nil
}

// CreateSession inserts a login session.
func (r *UserRepository) CreateSession(ctx context.Context, s model.Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_sessions (id, user_id, created_at, last_seen, expires_at)
		VALUES (?, ?, ?, ?, ?)`,
		s.ID, s.UserID, formatTime(s.CreatedAt), formatTime(s.LastSeen), formatTime(s.ExpiresAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// GetSession returns the session with the given id.
func (r *UserRepository) GetSession(ctx context.Context, id string) (model.Session, error) {
	var s model.Session
	var createdAt, lastSeen, expiresAt string

	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, created_at, last_seen, expires_at FROM user_sessions WHERE id = ?`, id,
	).Scan(&s.ID, &s.UserID, &createdAt, &lastSeen, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Session{}, apperrors.ErrSessionNotFound
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to query session: %w", err)
	}

	if s.CreatedAt, err = ParseTime(createdAt); err != nil {
		return model.Session{}, err
	}
	if s.LastSeen, err = ParseTime(lastSeen); err != nil {
		return model.Session{}, err
	}
	if s.ExpiresAt, err = ParseTime(expiresAt); err != nil {
		return model.Session{}, err
	}
	return s, nil
}

// TouchSession slides the session expiry forward.
func (r *UserRepository) TouchSession(ctx context.Context, id string, lastSeen, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE user_sessions SET last_seen = ?, expires_at = ? WHERE id = ?`,
		formatTime(lastSeen), formatTime(expiresAt), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	return nil
}

// DeleteSession removes a session. Deleting a missing session is not an error.
func (r *UserRepository) DeleteSession(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM user_sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes sessions that expired before now and
// returns how many were removed.
func (r *UserRepository) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM user_sessions WHERE expires_at < ?`, formatTime(now))
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted sessions: %w", err)
	}
	if n > 0 {
		r.log.Info().Int64("count", n).Msg("expired sessions removed")
	}
	return n, nil
}
