package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/Veraticus/finance-tracker/internal/common"
	"github.com/Veraticus/finance-tracker/internal/model"
)

// SQLiteStorage implements service.Storage using SQLite.
type SQLiteStorage struct {
	db     *sqlx.DB
	dbPath string
	stmts  statements
}

// NewSQLiteStorage creates a new SQLite storage instance.
// Use ":memory:" for a private in-memory database.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sqlx.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection serializes writers and keeps ":memory:" databases
	// shared between every caller.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: failed to ping database: %v", common.ErrStoreUnavailable, err)
	}

	return &SQLiteStorage{
		db:     db,
		dbPath: dbPath,
		stmts:  newStatements(dialectSQLite),
	}, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// Reset deletes every row and restarts the AUTOINCREMENT sequences.
func (s *SQLiteStorage) Reset(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", classifyError(err))
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range resetTables {
		query, args, buildErr := s.stmts.dialect.Delete(table).Prepared(true).ToSQL()
		if buildErr != nil {
			return fmt.Errorf("failed to build delete for %s: %w", table, buildErr)
		}
		if _, execErr := tx.ExecContext(ctx, query, args...); execErr != nil {
			return fmt.Errorf("failed to clear %s: %w", table, classifyError(execErr))
		}
	}

	query, args, err := s.stmts.dialect.Delete("sqlite_sequence").Prepared(true).
		Where(sequenceNames(resetTables)).ToSQL()
	if err != nil {
		return fmt.Errorf("failed to build sequence reset: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to restart sequences: %w", classifyError(err))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reset: %w", classifyError(err))
	}
	return nil
}

// CreateUser inserts a user and returns its generated id.
func (s *SQLiteStorage) CreateUser(ctx context.Context, firstName, lastName, email, passwordHash string) (model.UserID, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateUser(firstName, lastName, email, passwordHash); err != nil {
		return 0, err
	}

	query, args, err := s.stmts.insertUser(firstName, lastName, email, passwordHash).ToSQL()
	if err != nil {
		return 0, fmt.Errorf("failed to build user insert: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to insert user %s: %w", email, classifyError(err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read user id: %w", err)
	}
	return model.UserID(id), nil
}

// FindUserByEmail returns the user with the given email or common.ErrNotFound.
func (s *SQLiteStorage) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(email, "email"); err != nil {
		return nil, err
	}

	query, args, err := s.stmts.selectUserByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to build user query: %w", err)
	}

	var user model.User
	if err := s.db.GetContext(ctx, &user, query, args...); err != nil {
		return nil, fmt.Errorf("failed to find user %s: %w", email, classifyError(err))
	}
	return &user, nil
}

// InsertTransaction inserts a single transaction row.
func (s *SQLiteStorage) InsertTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransaction(txn); err != nil {
		return err
	}

	query, args, err := s.stmts.insertTransaction(txn)
	if err != nil {
		return fmt.Errorf("failed to build transaction insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert transaction for user %d: %w", txn.UserID, classifyError(err))
	}
	return nil
}

// ListTransactionsByUser returns a user's transactions in insertion order.
func (s *SQLiteStorage) ListTransactionsByUser(ctx context.Context, userID model.UserID) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query, args, err := s.stmts.selectTransactionsByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to build transaction query: %w", err)
	}

	var txns []model.Transaction
	if err := s.db.SelectContext(ctx, &txns, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list transactions for user %d: %w", userID, classifyError(err))
	}
	return txns, nil
}

// InsertBudget inserts a single budget row.
func (s *SQLiteStorage) InsertBudget(ctx context.Context, budget *model.Budget) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateBudget(budget); err != nil {
		return err
	}

	query, args, err := s.stmts.insertBudget(budget)
	if err != nil {
		return fmt.Errorf("failed to build budget insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert %s budget for user %d: %w", budget.Period, budget.UserID, classifyError(err))
	}
	return nil
}

// ListBudgetsByUser returns a user's budgets in insertion order.
func (s *SQLiteStorage) ListBudgetsByUser(ctx context.Context, userID model.UserID) ([]model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query, args, err := s.stmts.selectBudgetsByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to build budget query: %w", err)
	}

	var budgets []model.Budget
	if err := s.db.SelectContext(ctx, &budgets, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list budgets for user %d: %w", userID, classifyError(err))
	}
	return budgets, nil
}

// Stats returns row counts for every tracker table.
func (s *SQLiteStorage) Stats(ctx context.Context) (model.StoreStats, error) {
	var stats model.StoreStats
	if err := validateContext(ctx); err != nil {
		return stats, err
	}
	if err := s.db.GetContext(ctx, &stats, statsQuery); err != nil {
		return stats, fmt.Errorf("failed to count rows: %w", classifyError(err))
	}
	return stats, nil
}
