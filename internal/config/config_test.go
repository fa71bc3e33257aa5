package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"NOODLE_SAVE_DIR", "NOODLE_UNLOCK_BACKEND", "NOODLE_SEED", "NOODLE_INTERVIEW_DELAY", "NOODLE_LOG_LEVEL", "NOODLE_LOG_FILE", "GEMINI_API_KEY"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ".saves", cfg.SaveDir)
	assert.Equal(t, BackendJSON, cfg.UnlockBackend)
	assert.Zero(t, cfg.Seed)
	assert.Equal(t, 2*time.Second, cfg.InterviewDelay)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.GeminiAPIKey, "the narrator is optional")
	assert.Equal(t, filepath.Join(".saves", "game.log"), cfg.LogPath())
}

func TestLoadConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("NOODLE_SAVE_DIR", dir)
	t.Setenv("NOODLE_UNLOCK_BACKEND", "sqlite")
	t.Setenv("NOODLE_SEED", "42")
	t.Setenv("NOODLE_INTERVIEW_DELAY", "150ms")
	t.Setenv("NOODLE_LOG_LEVEL", "debug")
	t.Setenv("NOODLE_LOG_FILE", "stderr")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, cfg.UnlockBackend)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, 150*time.Millisecond, cfg.InterviewDelay)
	assert.Equal(t, "stderr", cfg.LogPath())
	assert.Equal(t, filepath.Join(dir, "noodle.db"), cfg.SQLitePath())
}

func TestValidate(t *testing.T) {
	cfg := &Config{UnlockBackend: "redis", LogLevel: "loud", InterviewDelay: -time.Second}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown unlock backend "redis"`)
	assert.Contains(t, err.Error(), "log level")
	assert.Contains(t, err.Error(), "interview delay")
}

func TestNewLogger(t *testing.T) {
	cfg := &Config{SaveDir: t.TempDir(), LogLevel: "warn"}
	logger, err := cfg.NewLogger()
	require.NoError(t, err)
	defer logger.Sync()

	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel), "debug is disabled at warn")
	logger.Warn("written to the save dir")
}
