// Package config loads runtime settings from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds everything the server and the CLI tools read from the
// environment.
type Config struct {
	// DatabaseDSN is the Postgres connection string. Required.
	DatabaseDSN string

	// Port the HTTP server listens on.
	Port string

	// AutoMigrate controls whether startup reconciles the schema and
	// re-installs the updated_at trigger. Disable it when migrations are
	// applied out of band.
	AutoMigrate bool

	// SeedUserEmail, when set, inserts a placeholder account at startup so
	// ingestion has something to attach rows to. The insert is idempotent.
	SeedUserEmail string

	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	// Development switches logging to the human-readable encoder.
	Development bool
}

// Load reads .env if present, then the process environment. Real environment
// variables win over the file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseDSN:   os.Getenv("DB_DSN"),
		Port:          getenvDefault("PORT", "8081"),
		AutoMigrate:   parseBool(os.Getenv("DB_AUTO_MIGRATE"), true),
		SeedUserEmail: strings.TrimSpace(os.Getenv("SEED_USER_EMAIL")),
		LogLevel:      strings.ToLower(getenvDefault("LOG_LEVEL", "info")),
		Development:   strings.EqualFold(os.Getenv("APP_ENV"), "development"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first missing or malformed setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DatabaseDSN) == "" {
		return fmt.Errorf("DB_DSN is not set. This project requires a Postgres DSN in DB_DSN")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not one of debug, info, warn, error", c.LogLevel)
	}
	return nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseBool(v string, def bool) bool {
	if v == "" {
		return def
	}
	switch strings.ToLower(v) {
	case "false", "0", "no":
		return false
	case "true", "1", "yes":
		return true
	}
	return def
}
