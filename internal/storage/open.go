package storage

import (
	"context"
	"fmt"

	"github.com/Veraticus/finance-tracker/internal/common"
	"github.com/Veraticus/finance-tracker/internal/config"
	"github.com/Veraticus/finance-tracker/internal/service"
)

var (
	_ service.Storage = (*SQLiteStorage)(nil)
	_ service.Storage = (*PostgresStorage)(nil)
)

// Open connects the backend selected by cfg.Driver. Migrations are not run.
func Open(ctx context.Context, cfg config.DatabaseConfig) (service.Storage, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Driver {
	case config.DriverSQLite:
		return NewSQLiteStorage(cfg.Path)
	case config.DriverPostgres:
		poolConfig, err := cfg.PGXPoolConfig()
		if err != nil {
			return nil, err
		}
		return NewPostgresStorage(ctx, poolConfig)
	default:
		return nil, fmt.Errorf("%w: unknown database.driver %q", common.ErrInvalidConfig, cfg.Driver)
	}
}
