package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// ErrUnknownDatabase is returned for a name that has no configured path.
var ErrUnknownDatabase = errors.New("unknown database")

// Registry opens each logical database on first use and hands out the same
// pool for the rest of the process lifetime.
type Registry struct {
	mu    sync.Mutex
	paths map[Name]string
	conns map[Name]*sql.DB
	log   zerolog.Logger
}

// NewRegistry creates a registry for the given database paths.
func NewRegistry(paths map[Name]string, log zerolog.Logger) *Registry {
	return &Registry{
		paths: paths,
		conns: make(map[Name]*sql.DB, len(paths)),
		log:   log.With().Str("component", "database").Logger(),
	}
}

// Conn returns the pool for name, opening and migrating it on first call.
func (r *Registry) Conn(ctx context.Context, name Name) (*sql.DB, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if db, ok := r.conns[name]; ok {
		return db, nil
	}

	path, ok := r.paths[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDatabase, name)
	}

	db, err := Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if err := Migrate(ctx, db, name); err != nil {
		db.Close()
		return nil, err
	}

	r.log.Info().Str("database", string(name)).Str("path", path).Msg("database opened")
	r.conns[name] = db
	return db, nil
}

// OpenAll opens every configured database.
func (r *Registry) OpenAll(ctx context.Context) error {
	for _, name := range Names {
		if _, ok := r.paths[name]; !ok {
			continue
		}
		if _, err := r.Conn(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

// HealthCheck pings every opened database.
func (r *Registry) HealthCheck(ctx context.Context) map[Name]error {
	r.mu.Lock()
	conns := make(map[Name]*sql.DB, len(r.conns))
	for name, db := range r.conns {
		conns[name] = db
	}
	r.mu.Unlock()

	result := make(map[Name]error, len(r.paths))
	for name := range r.paths {
		db, ok := conns[name]
		if !ok {
			result[name] = errors.New("not connected")
			continue
		}
		result[name] = HealthCheck(ctx, db)
	}
	return result
}

// Close closes every opened database.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for name, db := range r.conns {
		if err := db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
		delete(r.conns, name)
	}
	return errors.Join(errs...)
}
