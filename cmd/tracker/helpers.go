package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/viper"

	"github.com/Veraticus/finance-tracker/internal/config"
	"github.com/Veraticus/finance-tracker/internal/service"
	"github.com/Veraticus/finance-tracker/internal/storage"
)

// openStore opens the configured backend and runs pending migrations.
func openStore(ctx context.Context) (service.Storage, error) {
	store, dbCfg, err := openStoreNoMigrate(ctx)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	slog.Debug("Opened store", "driver", dbCfg.Driver, "location", describeLocation(dbCfg))
	return store, nil
}

func openStoreNoMigrate(ctx context.Context) (service.Storage, config.DatabaseConfig, error) {
	dbCfg, err := config.LoadDatabaseConfig(viper.GetViper())
	if err != nil {
		return nil, dbCfg, err
	}

	store, err := storage.Open(ctx, dbCfg)
	if err != nil {
		return nil, dbCfg, fmt.Errorf("failed to open %s database: %w", dbCfg.Driver, err)
	}
	return store, dbCfg, nil
}

// describeLocation names the database without leaking credentials.
func describeLocation(cfg config.DatabaseConfig) string {
	if cfg.Driver != config.DriverPostgres {
		return cfg.Path
	}
	poolConfig, err := cfg.PGXPoolConfig()
	if err != nil {
		return "postgres"
	}
	conn := poolConfig.ConnConfig
	return fmt.Sprintf("postgres://%s:%d/%s", conn.Host, conn.Port, conn.Database)
}
