// Package testutil provides shared test helpers: a migrated in-memory SQLite
// store and a programmable in-memory store for concurrency tests.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/finance-tracker/internal/model"
	"github.com/Veraticus/finance-tracker/internal/storage"
)

// TestDB represents a test database with associated test utilities.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates a new migrated in-memory SQLite database that is closed
// when the test ends.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{
		Storage: store,
		t:       t,
	}
}

// MustCreateUser inserts a user or fails the test.
func (db *TestDB) MustCreateUser(email string) model.UserID {
	db.t.Helper()
	id, err := db.Storage.CreateUser(context.Background(), "Test", "User", email, "hash")
	if err != nil {
		db.t.Fatalf("failed to create user %s: %v", email, err)
	}
	return id
}

// MustStats returns the row counts or fails the test.
func (db *TestDB) MustStats() model.StoreStats {
	db.t.Helper()
	stats, err := db.Storage.Stats(context.Background())
	if err != nil {
		db.t.Fatalf("failed to read stats: %v", err)
	}
	return stats
}
