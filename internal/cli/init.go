// Package cli provides the initialization shared by cmd/walletmate,
// cmd/walletmate-worker and cmd/walletmate-cli, and the command tree of the
// latter.
package cli

import (
	"io"
	"os"

	"github.com/joho/godotenv"

	"walletmate/internal/config"
	applog "walletmate/internal/log"
)

// SetupLogger initializes structured logging from the configured level and
// format and sets it as the process default.
func SetupLogger(cfg *config.Config, component string) *applog.Logger {
	return setupLogger(cfg, component, os.Stdout)
}

func setupLogger(cfg *config.Config, component string, w io.Writer) *applog.Logger {
	lc := applog.DefaultConfig()
	lc.Component = component
	lc.Writer = w
	if cfg != nil {
		lc.Level = applog.ParseLevel(cfg.LogLevel)
		lc.Format = cfg.LogFormat
	}
	logger := applog.New(lc)
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed",
			applog.FieldError, err,
			applog.FieldErrorType, applog.ErrorTypeConfiguration)
		os.Exit(1)
	}
	return cfg
}
