// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/Veraticus/finance-tracker/internal/model"
)

// UserRepository persists users.
type UserRepository interface {
	// CreateUser inserts a user and returns the id assigned by the store.
	CreateUser(ctx context.Context, firstName, lastName, email, passwordHash string) (model.UserID, error)
	FindUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// TransactionRepository persists transactions one row at a time.
type TransactionRepository interface {
	InsertTransaction(ctx context.Context, txn *model.Transaction) error
	ListTransactionsByUser(ctx context.Context, userID model.UserID) ([]model.Transaction, error)
}

// BudgetRepository persists budgets one row at a time.
type BudgetRepository interface {
	InsertBudget(ctx context.Context, budget *model.Budget) error
	ListBudgetsByUser(ctx context.Context, userID model.UserID) ([]model.Budget, error)
}

// Resetter wipes every tracker table and restarts id sequences.
type Resetter interface {
	Reset(ctx context.Context) error
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	UserRepository
	TransactionRepository
	BudgetRepository
	Resetter

	// Stats returns row counts for every table.
	Stats(ctx context.Context) (model.StoreStats, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}
