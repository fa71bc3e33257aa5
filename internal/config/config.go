package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Unlock store backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Config holds the application configuration.
type Config struct {
	SaveDir        string        `env:"NOODLE_SAVE_DIR" envDefault:".saves"`
	UnlockBackend  string        `env:"NOODLE_UNLOCK_BACKEND" envDefault:"json"`
	Seed           uint64        `env:"NOODLE_SEED" envDefault:"0"`
	InterviewDelay time.Duration `env:"NOODLE_INTERVIEW_DELAY" envDefault:"2s"`
	LogLevel       string        `env:"NOODLE_LOG_LEVEL" envDefault:"info"`
	LogFile        string        `env:"NOODLE_LOG_FILE"`
	GeminiAPIKey   string        `env:"GEMINI_API_KEY"`
}

// LoadConfig loads the configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerated values.
func (c *Config) Validate() error {
	var errs []error
	switch c.UnlockBackend {
	case BackendJSON, BackendSQLite:
	default:
		errs = append(errs, fmt.Errorf("unknown unlock backend %q", c.UnlockBackend))
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log level: %w", err))
	}
	if c.InterviewDelay < 0 {
		errs = append(errs, fmt.Errorf("interview delay must not be negative"))
	}
	return errors.Join(errs...)
}

// LogPath is where logs go. The TUI owns the terminal, so the default is a
// file next to the unlock store.
func (c *Config) LogPath() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return filepath.Join(c.SaveDir, "game.log")
}

// SQLitePath is the database file for the sqlite unlock backend.
func (c *Config) SQLitePath() string {
	return filepath.Join(c.SaveDir, "noodle.db")
}

// NewLogger builds a production zap logger honoring the level and output.
func (c *Config) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{c.LogPath()}
	zc.ErrorOutputPaths = []string{c.LogPath()}
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
