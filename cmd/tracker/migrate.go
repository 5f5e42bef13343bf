package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Veraticus/finance-tracker/internal/storage"
)

// schemaVersioner is implemented by both storage backends.
type schemaVersioner interface {
	SchemaVersion(ctx context.Context) (int, error)
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Initialize or update the database schema to the latest version.

This command creates the users, transactions and budgets tables
and their indexes on the configured backend.`,
		RunE: runMigrate,
	}

	cmd.Flags().Bool("status", false, "Show current migration status without applying changes")

	return cmd
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	status, _ := cmd.Flags().GetBool("status")
	ctx := cmd.Context()

	store, dbCfg, err := openStoreNoMigrate(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	slog.Info("Starting database migration",
		"driver", dbCfg.Driver,
		"database", describeLocation(dbCfg),
		"status_only", status)

	versioner, ok := store.(schemaVersioner)
	if !ok {
		return fmt.Errorf("driver %s does not report schema versions", dbCfg.Driver)
	}

	if status {
		current, err := versioner.SchemaVersion(ctx)
		if err != nil {
			return err
		}
		slog.Info("Database migration status",
			"current_version", current,
			"latest_version", storage.ExpectedSchemaVersion,
			"pending", storage.ExpectedSchemaVersion-current)
		return nil
	}

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("Database migrations completed successfully", "version", storage.ExpectedSchemaVersion)
	return nil
}
