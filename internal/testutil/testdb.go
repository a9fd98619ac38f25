package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/sentinelsec/sentinel/internal/db"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// The database is closed when the test completes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	return database
}

// NewFileTestDB creates a file-backed SQLite database in a temp directory.
// Unlike :memory:, a file-backed DB shares state across all connections in
// the pool, which is required to test real concurrent access with WAL mode.
func NewFileTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "concurrent_test.db")
	database, err := db.OpenDB(dbPath)
	if err != nil {
		t.Fatalf("failed to create file-backed test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

// NewTestUoW creates a UnitOfWork backed by the given test database.
func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}
