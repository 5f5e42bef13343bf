package config

import (
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/viper"

	"github.com/Veraticus/finance-tracker/internal/common"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const (
	defaultMaxConnections    = int32(8)
	defaultMinConnections    = int32(2)
	defaultMaxConnLifetime   = time.Hour
	defaultMaxConnIdleTime   = time.Minute * 5
	defaultHealthCheckPeriod = time.Minute
	defaultConnectTimeout    = time.Second * 5
)

// DatabaseConfig selects and tunes the backing store.
type DatabaseConfig struct {
	Driver          string
	Path            string
	DSN             string
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	MaxConns        int32
	MinConns        int32
}

// LoadDatabaseConfig reads the database.* keys from v.
func LoadDatabaseConfig(v *viper.Viper) (DatabaseConfig, error) {
	cfg := DatabaseConfig{
		Driver:          v.GetString("database.driver"),
		Path:            ExpandPath(v.GetString("database.path")),
		DSN:             v.GetString("database.dsn"),
		MaxConns:        v.GetInt32("database.max_conns"),
		MinConns:        v.GetInt32("database.min_conns"),
		MaxConnLifetime: v.GetDuration("database.max_conn_lifetime"),
		MaxConnIdleTime: v.GetDuration("database.max_conn_idle_time"),
	}

	if cfg.Driver == "" {
		cfg.Driver = DriverSQLite
	}
	if cfg.Path == "" {
		cfg.Path = ExpandPath(DefaultDatabasePath)
	}

	return cfg, cfg.Validate()
}

// Validate checks that the selected driver has what it needs.
func (c DatabaseConfig) Validate() error {
	switch c.Driver {
	case DriverSQLite:
		if c.Path == "" {
			return fmt.Errorf("%w: database.path", common.ErrMissingConfig)
		}
	case DriverPostgres:
		if c.DSN == "" {
			return fmt.Errorf("%w: database.dsn", common.ErrMissingConfig)
		}
		if c.MaxConns < 0 || c.MinConns < 0 || (c.MaxConns > 0 && c.MinConns > c.MaxConns) {
			return fmt.Errorf("%w: database.min_conns=%d database.max_conns=%d",
				common.ErrInvalidConfig, c.MinConns, c.MaxConns)
		}
	default:
		return fmt.Errorf("%w: unknown database.driver %q", common.ErrInvalidConfig, c.Driver)
	}
	return nil
}

// PGXPoolConfig builds a pgxpool configuration from the DSN and pool settings.
func (c DatabaseConfig) PGXPoolConfig() (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(c.DSN)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse database.dsn: %v", common.ErrInvalidConfig, err)
	}

	poolConfig.MaxConns = defaultMaxConnections
	poolConfig.MinConns = defaultMinConnections
	poolConfig.MaxConnLifetime = defaultMaxConnLifetime
	poolConfig.MaxConnIdleTime = defaultMaxConnIdleTime
	poolConfig.HealthCheckPeriod = defaultHealthCheckPeriod
	poolConfig.ConnConfig.ConnectTimeout = defaultConnectTimeout

	if c.MaxConns > 0 {
		poolConfig.MaxConns = c.MaxConns
	}
	if c.MinConns > 0 {
		poolConfig.MinConns = c.MinConns
	}
	if poolConfig.MinConns > poolConfig.MaxConns {
		poolConfig.MinConns = poolConfig.MaxConns
	}
	if c.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = c.MaxConnLifetime
	}
	if c.MaxConnIdleTime > 0 {
		poolConfig.MaxConnIdleTime = c.MaxConnIdleTime
	}

	return poolConfig, nil
}
