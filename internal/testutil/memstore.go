package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Veraticus/finance-tracker/internal/common"
	"github.com/Veraticus/finance-tracker/internal/model"
)

// MemoryStore is an in-memory service.Storage with hooks for slow or failing
// inserts. It is safe for concurrent use.
type MemoryStore struct {
	// FailTransaction, when set, is consulted before every transaction insert.
	FailTransaction func(txn *model.Transaction) error
	// FailBudget, when set, is consulted before every budget insert.
	FailBudget func(budget *model.Budget) error
	// FailUser, when set, is consulted before every user insert.
	FailUser func(email string) error

	users        []model.User
	transactions []model.Transaction
	budgets      []model.Budget
	// Delay is slept before every insert, honoring ctx.
	Delay time.Duration
	// ResetCalls counts Reset invocations.
	ResetCalls int
	nextUserID int64
	nextTxnID  int64
	nextBudID  int64
	mu         sync.Mutex
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) wait(ctx context.Context) error {
	if m.Delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(m.Delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Reset clears every table and restarts ids at 1.
func (m *MemoryStore) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ResetCalls++
	m.users = nil
	m.transactions = nil
	m.budgets = nil
	m.nextUserID, m.nextTxnID, m.nextBudID = 0, 0, 0
	return nil
}

// CreateUser implements service.UserRepository.
func (m *MemoryStore) CreateUser(ctx context.Context, firstName, lastName, email, passwordHash string) (model.UserID, error) {
	if err := m.wait(ctx); err != nil {
		return 0, err
	}
	if m.FailUser != nil {
		if err := m.FailUser(email); err != nil {
			return 0, err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == email {
			return 0, fmt.Errorf("%w: email %s", common.ErrDuplicateEntry, email)
		}
	}

	m.nextUserID++
	now := time.Now()
	m.users = append(m.users, model.User{
		ID:           model.UserID(m.nextUserID),
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	return model.UserID(m.nextUserID), nil
}

// FindUserByEmail implements service.UserRepository.
func (m *MemoryStore) FindUserByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, fmt.Errorf("%w: user %s", common.ErrNotFound, email)
}

// InsertTransaction implements service.TransactionRepository.
func (m *MemoryStore) InsertTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := m.wait(ctx); err != nil {
		return err
	}
	if m.FailTransaction != nil {
		if err := m.FailTransaction(txn); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextTxnID++
	row := *txn
	row.ID = m.nextTxnID
	row.CreatedAt = time.Now()
	m.transactions = append(m.transactions, row)
	return nil
}

// ListTransactionsByUser implements service.TransactionRepository.
func (m *MemoryStore) ListTransactionsByUser(_ context.Context, userID model.UserID) ([]model.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []model.Transaction
	for _, txn := range m.transactions {
		if txn.UserID == userID {
			out = append(out, txn)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// InsertBudget implements service.BudgetRepository.
func (m *MemoryStore) InsertBudget(ctx context.Context, budget *model.Budget) error {
	if err := m.wait(ctx); err != nil {
		return err
	}
	if m.FailBudget != nil {
		if err := m.FailBudget(budget); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextBudID++
	row := *budget
	row.ID = m.nextBudID
	row.CreatedAt = time.Now()
	m.budgets = append(m.budgets, row)
	return nil
}

// ListBudgetsByUser implements service.BudgetRepository.
func (m *MemoryStore) ListBudgetsByUser(_ context.Context, userID model.UserID) ([]model.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []model.Budget
	for _, b := range m.budgets {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Users returns a copy of every stored user.
func (m *MemoryStore) Users() []model.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.User(nil), m.users...)
}

// Stats implements service.Storage.
func (m *MemoryStore) Stats(_ context.Context) (model.StoreStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return model.StoreStats{
		Users:        len(m.users),
		Transactions: len(m.transactions),
		Budgets:      len(m.budgets),
	}, nil
}

// Migrate implements service.Storage.
func (m *MemoryStore) Migrate(_ context.Context) error { return nil }

// Close implements service.Storage.
func (m *MemoryStore) Close() error { return nil }
