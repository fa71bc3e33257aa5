package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tatianab/noodle-king/internal/config"
	"github.com/tatianab/noodle-king/internal/models"
	"github.com/tatianab/noodle-king/internal/sim"
)

type portfolioPolicy struct{}

func (portfolioPolicy) ChooseAction(models.GameState) models.Action { return models.ActionPortfolio }
func (portfolioPolicy) AcceptCall(models.GameState) bool            { return false }

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	return &config.Config{
		SaveDir:        filepath.Join(t.TempDir(), "saves"),
		UnlockBackend:  backend,
		Seed:           1,
		InterviewDelay: time.Millisecond,
		LogLevel:       "debug",
	}
}

func TestAppPersistsEndings(t *testing.T) {
	for _, backend := range []string{config.BackendJSON, config.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			ctx := context.Background()
			cfg := testConfig(t, backend)

			a, err := New(ctx, cfg)
			require.NoError(t, err)
			assert.Nil(t, a.Narrator)

			eng := a.NewEngine()
			final, err := sim.Play(ctx, eng, portfolioPolicy{}, "apron", nil)
			require.NoError(t, err)
			eng.Close()
			require.NoError(t, a.Close())

			reopened, err := New(ctx, cfg)
			require.NoError(t, err)
			defer reopened.Close()
			assert.Equal(t, []models.EndingType{final.Ending}, reopened.Unlocks.List())

			_, err = os.Stat(cfg.LogPath())
			assert.NoError(t, err, "log file is created in the save dir")
		})
	}
}
