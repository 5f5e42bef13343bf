package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
)

// postgresMigration is a versioned schema change applied inside one transaction.
type postgresMigration struct {
	Description string
	Statements  []string
	Version     int
}

var postgresMigrations = []postgresMigration{
	{
		Version:     1,
		Description: "Initial schema",
		Statements: []string{
			`DO $$ BEGIN
				CREATE TYPE transaction_type AS ENUM ('expense', 'income');
			EXCEPTION WHEN duplicate_object THEN NULL;
			END $$`,
			`DO $$ BEGIN
				CREATE TYPE period_type AS ENUM ('daily', 'weekly', 'monthly', 'yearly');
			EXCEPTION WHEN duplicate_object THEN NULL;
			END $$`,
			`CREATE TABLE IF NOT EXISTS users (
				user_id SERIAL PRIMARY KEY,
				first_name VARCHAR(255) NOT NULL,
				last_name VARCHAR(255) NOT NULL,
				email VARCHAR(255) UNIQUE NOT NULL,
				password VARCHAR(255) NOT NULL,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`,
			`CREATE TABLE IF NOT EXISTS transactions (
				transaction_id SERIAL PRIMARY KEY,
				user_id INT NOT NULL REFERENCES users(user_id),
				title VARCHAR(255) NOT NULL,
				category VARCHAR(50) NOT NULL,
				sub_category VARCHAR(50) NOT NULL DEFAULT '',
				transaction_type transaction_type NOT NULL,
				amount DECIMAL(10, 2) NOT NULL,
				date TIMESTAMP WITH TIME ZONE NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				location VARCHAR(100) NOT NULL DEFAULT '',
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`,
			`CREATE TABLE IF NOT EXISTS budgets (
				budget_id SERIAL PRIMARY KEY,
				user_id INT NOT NULL REFERENCES users(user_id),
				category VARCHAR(50) NOT NULL,
				sub_category VARCHAR(50) NOT NULL DEFAULT '',
				budget_limit DECIMAL(10, 2) NOT NULL,
				period_type period_type NOT NULL,
				start_date DATE NOT NULL,
				end_date DATE NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`,
		},
	},
	{
		Version:     2,
		Description: "Add per-user lookup indexes",
		Statements: []string{
			`CREATE INDEX IF NOT EXISTS idx_transactions_user_category ON transactions(user_id, category)`,
			`CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date)`,
			`CREATE INDEX IF NOT EXISTS idx_budgets_user_category ON budgets(user_id, category)`,
		},
	},
}

// Migrate applies every pending migration, tracking versions in schema_migrations.
func (p *PostgresStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	if _, err := p.pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INT PRIMARY KEY,
		description TEXT NOT NULL,
		applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", classifyError(err))
	}

	currentVersion, err := p.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	for _, migration := range postgresMigrations {
		if migration.Version <= currentVersion {
			continue
		}

		err := pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
			for _, stmt := range migration.Statements {
				if _, execErr := tx.Exec(ctx, stmt); execErr != nil {
					return fmt.Errorf("failed to execute query '%s': %w", stmt, execErr)
				}
			}
			_, execErr := tx.Exec(ctx,
				`INSERT INTO schema_migrations (version, description) VALUES ($1, $2)`,
				migration.Version, migration.Description)
			return execErr
		})
		if err != nil {
			return fmt.Errorf("migration %d failed: %w", migration.Version, classifyError(err))
		}

		slog.Info("Applied migration",
			"driver", dialectPostgres,
			"version", migration.Version,
			"description", migration.Description)
	}

	finalVersion, err := p.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}
	return nil
}

// SchemaVersion reports the highest applied migration.
func (p *PostgresStorage) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := p.pool.QueryRow(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", classifyError(err))
	}
	return version, nil
}
