package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // SQLite driver
)

// Name identifies one of the logical databases.
type Name string

const (
	// Foundation holds the company masterlist, users and sessions.
	Foundation Name = "foundation"
	// Marketdata holds exchange rates.
	Marketdata Name = "marketdata"
	// Portfolio holds the dividend log.
	Portfolio Name = "portfolio"
)

// Names lists every logical database in startup order.
var Names = []Name{Foundation, Marketdata, Portfolio}

//go:embed migrations/*/*.sql
var migrations embed.FS

const pragmas = "_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"

// Open opens a connection pool to the SQLite database at path.
// The parent directory is created when missing.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}

	db, err := sql.Open("sqlite", path+sep+pragmas)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Migrate applies all pending migrations of the named database.
func Migrate(ctx context.Context, db *sql.DB, name Name) error {
	fsys, err := fs.Sub(migrations, "migrations/"+string(name))
	if err != nil {
		return fmt.Errorf("failed to load %s migrations: %w", name, err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, fsys)
	if err != nil {
		return fmt.Errorf("failed to create %s migration provider: %w", name, err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("failed to migrate %s database: %w", name, err)
	}
	return nil
}

// HealthCheck performs a simple health check on the database
func HealthCheck(ctx context.Context, db *sql.DB) error {
	return db.PingContext(ctx)
}
