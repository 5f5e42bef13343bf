package main

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/finance-tracker/internal/config"
	"github.com/Veraticus/finance-tracker/internal/model"
	"github.com/Veraticus/finance-tracker/internal/testutil"
)

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "plain:" + password, nil }

func testSeedOptions(users, perCategory int) seedOptions {
	return seedOptions{
		progress: &bytes.Buffer{},
		hasher:   plainHasher{},
		clock:    func() time.Time { return time.Date(2026, time.October, 14, 9, 0, 0, 0, time.UTC) },
		cfg: config.SeedConfig{
			Users:                   users,
			TransactionsPerCategory: perCategory,
			PasswordCost:            4,
			RandomSeed:              11,
		},
	}
}

func TestSeedStore_SQLite(t *testing.T) {
	db := testutil.SetupTestDB(t)
	db.MustCreateUser("leftover@example.com")

	summary, err := seedStore(context.Background(), db.Storage, testSeedOptions(10, 5))
	require.NoError(t, err)

	assert.Equal(t, model.StoreStats{Users: 10, Transactions: 400, Budgets: 320}, db.MustStats())
	assert.Equal(t, 10, summary.Users)
	assert.Equal(t, 400, summary.Transactions)
	assert.Equal(t, 320, summary.Budgets)
	assert.Equal(t, 90, summary.Workers)
	assert.Equal(t, 90, summary.Completed)
	assert.Equal(t, uint64(11), summary.Seed)
}

func TestSeedStore_PartialFailure(t *testing.T) {
	store := testutil.NewMemoryStore()
	store.FailBudget = func(budget *model.Budget) error {
		if budget.UserID == 1 {
			return errors.New("budget rejected")
		}
		return nil
	}

	summary, err := seedStore(context.Background(), store, testSeedOptions(2, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 32, summary.Budgets)
	assert.Equal(t, 16, summary.Transactions)
}

func TestSeedStore_Cancelled(t *testing.T) {
	store := testutil.NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := seedStore(ctx, store, testSeedOptions(2, 1))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSeedStore_InvalidConfig(t *testing.T) {
	_, err := seedStore(context.Background(), testutil.NewMemoryStore(), testSeedOptions(0, 1))
	assert.Error(t, err)
}
