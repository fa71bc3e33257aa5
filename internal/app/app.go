// Package app wires configuration, logging, the unlock store and the engine
// together for the entry points.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/tatianab/noodle-king/internal/config"
	"github.com/tatianab/noodle-king/internal/engine"
	"github.com/tatianab/noodle-king/internal/narrator"
	"github.com/tatianab/noodle-king/internal/unlocks"
	"go.uber.org/zap"
)

// App holds the long-lived collaborators of one process.
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Unlocks  *unlocks.Tracker
	Narrator narrator.Narrator

	closers []func() error
}

// New builds the app from cfg. The narrator is only created when an API key
// is configured.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := os.MkdirAll(cfg.SaveDir, 0755); err != nil {
		return nil, fmt.Errorf("create save dir: %w", err)
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		return nil, err
	}
	a := &App{Config: cfg, Logger: logger}
	a.closers = append(a.closers, func() error {
		// Sync on stderr fails on some platforms.
		_ = logger.Sync()
		return nil
	})

	backend, err := a.openBackend()
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Unlocks = unlocks.Open(ctx, backend, logger)

	if cfg.GeminiAPIKey != "" {
		g, err := narrator.NewGemini(ctx, cfg.GeminiAPIKey)
		if err != nil {
			logger.Warn("Narrator disabled", zap.Error(err))
		} else {
			a.Narrator = g
			a.closers = append(a.closers, func() error { g.Close(); return nil })
		}
	}

	logger.Info("Started",
		zap.String("save_dir", cfg.SaveDir),
		zap.String("unlock_backend", cfg.UnlockBackend),
		zap.Bool("narrator", a.Narrator != nil),
		zap.Int("unlocked", len(a.Unlocks.List())))
	return a, nil
}

func (a *App) openBackend() (unlocks.Backend, error) {
	switch a.Config.UnlockBackend {
	case config.BackendSQLite:
		db, err := unlocks.OpenSQLite(a.Config.SQLitePath())
		if err != nil {
			return nil, fmt.Errorf("open unlock store: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		return db, nil
	default:
		return unlocks.NewFileBackend(a.Config.SaveDir), nil
	}
}

// NewEngine builds an engine on the app's unlock store and logger.
func (a *App) NewEngine(opts ...engine.Option) *engine.Engine {
	base := []engine.Option{
		engine.WithRand(engine.NewRand(a.Config.Seed)),
		engine.WithLogger(a.Logger),
		engine.WithUnlocks(a.Unlocks),
		engine.WithInterviewDelay(a.Config.InterviewDelay),
	}
	return engine.New(append(base, opts...)...)
}

// Close releases everything in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

var _ io.Closer = (*App)(nil)
