// Package config loads ledger settings from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/pkg/logging"
)

// Environment variable names.
const (
	EnvPort            = "LEDGER_PORT"
	EnvLogLevel        = "LEDGER_LOG_LEVEL"
	EnvDBPath          = "LEDGER_DB_PATH"
	EnvDBBusyTimeout   = "LEDGER_DB_BUSY_TIMEOUT"
	EnvJWTSecret       = "LEDGER_JWT_SECRET"
	EnvJWTTTL          = "LEDGER_JWT_TTL"
	EnvCurrency        = "LEDGER_CURRENCY"
	EnvRecentExpenses  = "LEDGER_RECENT_EXPENSES"
	EnvShutdownTimeout = "LEDGER_SHUTDOWN_TIMEOUT"
)

type Config struct {
	App AppConfig
	DB  DBConfig
	JWT JWTConfig
}

type AppConfig struct {
	Port            int           `envconfig:"LEDGER_PORT" default:"8080"`
	LogLevel        string        `envconfig:"LEDGER_LOG_LEVEL" default:"info"`
	Currency        string        `envconfig:"LEDGER_CURRENCY" default:"USD"`
	RecentExpenses  int           `envconfig:"LEDGER_RECENT_EXPENSES" default:"10"`
	ShutdownTimeout time.Duration `envconfig:"LEDGER_SHUTDOWN_TIMEOUT" default:"10s"`
}

type DBConfig struct {
	Path        string        `envconfig:"LEDGER_DB_PATH" default:"./data/ledger.db"`
	BusyTimeout time.Duration `envconfig:"LEDGER_DB_BUSY_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret string        `envconfig:"LEDGER_JWT_SECRET" required:"true"`
	TTL    time.Duration `envconfig:"LEDGER_JWT_TTL" default:"24h"`
}

// Load reads the configuration from the process environment. Callers that
// want .env support load it with godotenv first.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("%s: invalid port %d", EnvPort, c.App.Port)
	}
	if _, err := logging.ParseLevel(c.App.LogLevel); err != nil {
		return fmt.Errorf("%s: %w", EnvLogLevel, err)
	}
	c.App.Currency = strings.ToUpper(strings.TrimSpace(c.App.Currency))
	if _, err := models.CurrencyFraction(c.App.Currency); err != nil {
		return fmt.Errorf("%s: %w", EnvCurrency, err)
	}
	if c.App.RecentExpenses <= 0 {
		return fmt.Errorf("%s: must be positive, got %d", EnvRecentExpenses, c.App.RecentExpenses)
	}
	if c.DB.Path == "" {
		return fmt.Errorf("%s: must not be empty", EnvDBPath)
	}
	if c.DB.BusyTimeout < 0 {
		return fmt.Errorf("%s: must not be negative", EnvDBBusyTimeout)
	}
	if len(c.JWT.Secret) < 16 {
		return fmt.Errorf("%s: must be at least 16 bytes", EnvJWTSecret)
	}
	if c.JWT.TTL <= 0 {
		return fmt.Errorf("%s: must be positive", EnvJWTTTL)
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (a AppConfig) Addr() string {
	return fmt.Sprintf(":%d", a.Port)
}
