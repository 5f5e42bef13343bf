package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/Veraticus/finance-tracker/internal/common"
)

// Demo data defaults.
const (
	DefaultDemoUsers               = 10
	DefaultTransactionsPerCategory = 5
	DefaultPasswordCost            = 12
)

// SeedConfig controls the demo data pipeline.
type SeedConfig struct {
	// RandomSeed seeds transaction generation. Zero picks a random seed per run.
	RandomSeed uint64
	// Users is the number of demo users created in the sequential phase.
	Users int
	// TransactionsPerCategory is generated for every (user, category) pair.
	TransactionsPerCategory int
	// MaxConcurrentWorkers bounds running generators. Zero means unbounded.
	MaxConcurrentWorkers int
	// PasswordCost is the bcrypt cost used for demo passwords.
	PasswordCost int
}

// SetDefaults registers default values for every key this package reads.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.path", DefaultDatabasePath)

	v.SetDefault("seed.users", DefaultDemoUsers)
	v.SetDefault("seed.transactions_per_category", DefaultTransactionsPerCategory)
	v.SetDefault("seed.max_concurrent_workers", 0)
	v.SetDefault("seed.random_seed", 0)
	v.SetDefault("seed.password_cost", DefaultPasswordCost)
}

// LoadSeedConfig reads the seed.* keys from v.
func LoadSeedConfig(v *viper.Viper) (SeedConfig, error) {
	cfg := SeedConfig{
		Users:                   v.GetInt("seed.users"),
		TransactionsPerCategory: v.GetInt("seed.transactions_per_category"),
		MaxConcurrentWorkers:    v.GetInt("seed.max_concurrent_workers"),
		RandomSeed:              v.GetUint64("seed.random_seed"),
		PasswordCost:            v.GetInt("seed.password_cost"),
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings the pipeline cannot run with.
func (c SeedConfig) Validate() error {
	if c.Users <= 0 {
		return fmt.Errorf("%w: seed.users must be positive, got %d", common.ErrInvalidConfig, c.Users)
	}
	if c.TransactionsPerCategory < 0 {
		return fmt.Errorf("%w: seed.transactions_per_category must not be negative, got %d",
			common.ErrInvalidConfig, c.TransactionsPerCategory)
	}
	if c.MaxConcurrentWorkers < 0 {
		return fmt.Errorf("%w: seed.max_concurrent_workers must not be negative, got %d",
			common.ErrInvalidConfig, c.MaxConcurrentWorkers)
	}
	// bcrypt.MinCost..bcrypt.MaxCost
	if c.PasswordCost < 4 || c.PasswordCost > 31 {
		return fmt.Errorf("%w: seed.password_cost must be between 4 and 31, got %d",
			common.ErrInvalidConfig, c.PasswordCost)
	}
	return nil
}
