package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_FreshDatabase(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	version, err := store.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)

	for _, index := range []string{"idx_transactions_user_category", "idx_transactions_date", "idx_budgets_user_category"} {
		var count int
		err := store.db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='index' AND name=?`, index).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count, "index %s missing", index)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.CreateUser(ctx, "User1", "Demo", "user1@example.com", "hash")
	require.NoError(t, err)

	require.NoError(t, store.Migrate(ctx))
	require.NoError(t, store.Migrate(ctx))

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Users)
}

func TestMigrate_ResumesFromRecordedVersion(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "partial.db")
	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	tx, err := store.db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, migrations[0].Up(tx))
	_, err = tx.Exec("PRAGMA user_version = 1")
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	require.NoError(t, store.Migrate(ctx))

	version, err := store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, version)
}

func TestMigrations_Ordered(t *testing.T) {
	for i, migration := range migrations {
		assert.Equal(t, i+1, migration.Version)
		assert.NotEmpty(t, migration.Description)
	}
	require.Len(t, postgresMigrations, len(migrations))
	for i, migration := range postgresMigrations {
		assert.Equal(t, migrations[i].Version, migration.Version)
		assert.Equal(t, migrations[i].Description, migration.Description)
	}
	assert.Equal(t, migrations[len(migrations)-1].Version, ExpectedSchemaVersion)
}
