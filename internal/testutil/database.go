package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/psw4/psw-backend/internal/database"
	"github.com/rs/zerolog"
)

// TestDBs holds the three migrated test databases.
type TestDBs struct {
	Registry   *database.Registry
	Foundation *sql.DB
	Marketdata *sql.DB
	Portfolio  *sql.DB
}

// SetupTestDBs creates file backed SQLite databases in a temporary directory
// and runs the production migrations against them.
// The databases are automatically closed when the test completes.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    dbs := testutil.SetupTestDBs(t)
//	    // dbs.Portfolio holds an empty log_dividends table
//	}
func SetupTestDBs(t *testing.T) *TestDBs {
	t.Helper()

	// File databases, so every pooled connection sees the same data
	dir := t.TempDir()
	registry := database.NewRegistry(map[database.Name]string{
		database.Foundation: filepath.Join(dir, "foundation.db"),
		database.Marketdata: filepath.Join(dir, "marketdata.db"),
		database.Portfolio:  filepath.Join(dir, "portfolio.db"),
	}, zerolog.Nop())

	// Cleanup when test ends
	t.Cleanup(func() {
		registry.Close()
	})

	ctx := context.Background()
	if err := registry.OpenAll(ctx); err != nil {
		t.Fatalf("Failed to open test databases: %v", err)
	}

	dbs := &TestDBs{Registry: registry}
	for name, target := range map[database.Name]**sql.DB{
		database.Foundation: &dbs.Foundation,
		database.Marketdata: &dbs.Marketdata,
		database.Portfolio:  &dbs.Portfolio,
	} {
		db, err := registry.Conn(ctx, name)
		if err != nil {
			t.Fatalf("Failed to get %s database: %v", name, err)
		}
		*target = db
	}

	return dbs
}

// CloseDB closes db so that later queries fail. Used to exercise error paths.
func CloseDB(t *testing.T, db *sql.DB) {
	t.Helper()
	if err := db.Close(); err != nil {
		t.Fatalf("Failed to close database: %v", err)
	}
}
