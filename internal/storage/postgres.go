package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Veraticus/finance-tracker/internal/common"
	"github.com/Veraticus/finance-tracker/internal/model"
)

// PostgresStorage implements service.Storage on a pgx connection pool.
// The pool is safe for concurrent use, so workers share it directly.
type PostgresStorage struct {
	pool  *pgxpool.Pool
	stmts statements
}

// NewPostgresStorage connects a pool from the given configuration.
func NewPostgresStorage(ctx context.Context, poolConfig *pgxpool.Config) (*PostgresStorage, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if poolConfig == nil {
		return nil, fmt.Errorf("%w: poolConfig", ErrNilParameter)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create pool: %v", common.ErrStoreUnavailable, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: failed to ping database: %v", common.ErrStoreUnavailable, err)
	}

	return NewPostgresStorageFromPool(pool), nil
}

// NewPostgresStorageFromPool wraps an existing pool.
func NewPostgresStorageFromPool(pool *pgxpool.Pool) *PostgresStorage {
	return &PostgresStorage{
		pool:  pool,
		stmts: newStatements(dialectPostgres),
	}
}

// Close releases every pooled connection.
func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

// resetSQL truncates all tracker tables, restarts their sequences and cascades
// to anything referencing them.
func (p *PostgresStorage) resetSQL() (string, error) {
	tables := make([]any, len(resetTables))
	for i, table := range resetTables {
		tables[i] = table
	}
	query, _, err := p.stmts.dialect.Truncate(tables...).Identity("RESTART").Cascade().ToSQL()
	return query, err
}

// Reset truncates every table and restarts identity sequences.
func (p *PostgresStorage) Reset(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	query, err := p.resetSQL()
	if err != nil {
		return fmt.Errorf("failed to build truncate: %w", err)
	}
	if _, err := p.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to truncate tables: %w", classifyError(err))
	}
	return nil
}

// CreateUser inserts a user and returns the id generated by the users sequence.
func (p *PostgresStorage) CreateUser(ctx context.Context, firstName, lastName, email, passwordHash string) (model.UserID, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateUser(firstName, lastName, email, passwordHash); err != nil {
		return 0, err
	}

	query, args, err := p.stmts.insertUser(firstName, lastName, email, passwordHash).
		Returning(colUserID).ToSQL()
	if err != nil {
		return 0, fmt.Errorf("failed to build user insert: %w", err)
	}

	var id int64
	if err := p.pool.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert user %s: %w", email, classifyError(err))
	}
	return model.UserID(id), nil
}

// FindUserByEmail returns the user with the given email or common.ErrNotFound.
func (p *PostgresStorage) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(email, "email"); err != nil {
		return nil, err
	}

	query, args, err := p.stmts.selectUserByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to build user query: %w", err)
	}

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to find user %s: %w", email, classifyError(err))
	}
	user, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.User])
	if err != nil {
		return nil, fmt.Errorf("failed to find user %s: %w", email, classifyError(err))
	}
	return &user, nil
}

// InsertTransaction inserts a single transaction row.
func (p *PostgresStorage) InsertTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransaction(txn); err != nil {
		return err
	}

	query, args, err := p.stmts.insertTransaction(txn)
	if err != nil {
		return fmt.Errorf("failed to build transaction insert: %w", err)
	}

	if _, err := p.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert transaction for user %d: %w", txn.UserID, classifyError(err))
	}
	return nil
}

// ListTransactionsByUser returns a user's transactions in insertion order.
func (p *PostgresStorage) ListTransactionsByUser(ctx context.Context, userID model.UserID) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query, args, err := p.stmts.selectTransactionsByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to build transaction query: %w", err)
	}

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for user %d: %w", userID, classifyError(err))
	}
	txns, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Transaction])
	if err != nil {
		return nil, fmt.Errorf("failed to scan transactions for user %d: %w", userID, classifyError(err))
	}
	return txns, nil
}

// InsertBudget inserts a single budget row.
func (p *PostgresStorage) InsertBudget(ctx context.Context, budget *model.Budget) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateBudget(budget); err != nil {
		return err
	}

	query, args, err := p.stmts.insertBudget(budget)
	if err != nil {
		return fmt.Errorf("failed to build budget insert: %w", err)
	}

	if _, err := p.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert %s budget for user %d: %w", budget.Period, budget.UserID, classifyError(err))
	}
	return nil
}

// ListBudgetsByUser returns a user's budgets in insertion order.
func (p *PostgresStorage) ListBudgetsByUser(ctx context.Context, userID model.UserID) ([]model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query, args, err := p.stmts.selectBudgetsByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to build budget query: %w", err)
	}

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets for user %d: %w", userID, classifyError(err))
	}
	budgets, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Budget])
	if err != nil {
		return nil, fmt.Errorf("failed to scan budgets for user %d: %w", userID, classifyError(err))
	}
	return budgets, nil
}

// Stats returns row counts for every tracker table.
func (p *PostgresStorage) Stats(ctx context.Context) (model.StoreStats, error) {
	var stats model.StoreStats
	if err := validateContext(ctx); err != nil {
		return stats, err
	}

	var users, txns, budgets int64
	if err := p.pool.QueryRow(ctx, statsQuery).Scan(&users, &txns, &budgets); err != nil {
		return stats, fmt.Errorf("failed to count rows: %w", classifyError(err))
	}

	stats.Users = int(users)
	stats.Transactions = int(txns)
	stats.Budgets = int(budgets)
	return stats, nil
}
