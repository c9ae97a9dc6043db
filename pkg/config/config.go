// Package config loads the engine's runtime configuration from the
// environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds everything the engine reads from the environment.
type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`

	WalletsTable        string `env:"DYNAMODB_WALLETS_TABLE_NAME,required"`
	LedgerTable         string `env:"DYNAMODB_LEDGER_TABLE_NAME,required"`
	RequestsTable       string `env:"DYNAMODB_REQUESTS_TABLE_NAME,required"`
	OffersTable         string `env:"DYNAMODB_OFFERS_TABLE_NAME,required"`
	PoliciesTable       string `env:"DYNAMODB_POLICIES_TABLE_NAME,required"`
	DisputesTable       string `env:"DYNAMODB_DISPUTES_TABLE_NAME,required"`
	DisputeRepliesTable string `env:"DYNAMODB_DISPUTE_REPLIES_TABLE_NAME,required"`
	WithdrawalsTable    string `env:"DYNAMODB_WITHDRAWALS_TABLE_NAME,required"`

	EventsQueueURL string `env:"SQS_EVENTS_QUEUE_URL"`

	PlatformFeePercent int64  `env:"PLATFORM_FEE_PERCENT" envDefault:"10"`
	DisputeWindowDays  int    `env:"DISPUTE_WINDOW_DAYS" envDefault:"7"`
	DefaultCurrency    string `env:"DEFAULT_CURRENCY" envDefault:"USD"`
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.PlatformFeePercent < 0 || cfg.PlatformFeePercent > 100 {
		return nil, fmt.Errorf("PLATFORM_FEE_PERCENT must be between 0 and 100, got %d", cfg.PlatformFeePercent)
	}
	if cfg.DisputeWindowDays < 0 {
		return nil, fmt.Errorf("DISPUTE_WINDOW_DAYS cannot be negative, got %d", cfg.DisputeWindowDays)
	}
	return &cfg, nil
}

// DisputeWindow is the post-completion period during which a dispute may
// still be opened.
func (c *Config) DisputeWindow() time.Duration {
	return time.Duration(c.DisputeWindowDays) * 24 * time.Hour
}
