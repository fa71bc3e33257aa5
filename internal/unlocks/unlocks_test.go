package unlocks

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tatianab/noodle-king/internal/models"
	"go.uber.org/zap/zaptest"
)

func TestTrackerMonotonic(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend(nil)
	tr := Open(ctx, backend, zaptest.NewLogger(t))

	added, err := tr.Record(ctx, models.EndingNE)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = tr.Record(ctx, models.EndingNE)
	require.NoError(t, err)
	assert.False(t, added)
	assert.Len(t, tr.List(), 1)
	assert.Equal(t, 1, backend.Writes, "repeat ending must not rewrite the record")

	_, err = tr.Record(ctx, models.EndingBE1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []models.EndingType{models.EndingBE1, models.EndingNE}, tr.List())
	assert.JSONEq(t, `["BE1","NE"]`, string(backend.Payload()))
	assert.True(t, tr.Has(models.EndingBE1))
	assert.False(t, tr.Has(models.EndingGE1))
}

func TestTrackerLoadsExisting(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend([]byte(`["GE3","NE","GE3","XX9"]`))
	tr := Open(ctx, backend, zaptest.NewLogger(t))

	assert.Equal(t, []models.EndingType{models.EndingGE3, models.EndingNE}, tr.List())

	_, err := tr.Record(ctx, models.EndingGE1)
	require.NoError(t, err)
	assert.JSONEq(t, `["GE1","GE3","NE"]`, string(backend.Payload()))
}

func TestTrackerToleratesCorruptRecord(t *testing.T) {
	for _, payload := range []string{`{not json`, `"NE"`, `{"a":1}`} {
		t.Run(payload, func(t *testing.T) {
			tr := Open(context.Background(), NewMemoryBackend([]byte(payload)), zaptest.NewLogger(t))
			assert.Empty(t, tr.List())
		})
	}
}

func TestTrackerReset(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend([]byte(`["BE4"]`))
	tr := Open(ctx, backend, nil)

	require.NoError(t, tr.Reset(ctx))
	assert.Empty(t, tr.List())
	assert.JSONEq(t, `[]`, string(backend.Payload()))
}

func TestFileBackend(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "saves")
	backend := NewFileBackend(dir)

	payload, err := backend.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, payload, "missing file reads as empty")

	tr := Open(ctx, backend, zaptest.NewLogger(t))
	_, err = tr.Record(ctx, models.EndingGE2)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "unlocked_endings.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `["GE2"]`, string(data))

	reopened := Open(ctx, NewFileBackend(dir), zaptest.NewLogger(t))
	assert.Equal(t, []models.EndingType{models.EndingGE2}, reopened.List())
}

func TestFileBackendCorrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "unlocked_endings.json"), []byte("garbage"), 0644))

	tr := Open(context.Background(), NewFileBackend(dir), zaptest.NewLogger(t))
	assert.Empty(t, tr.List())
}

func TestSQLiteBackend(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "unlocks.db")

	backend, err := OpenSQLite(path)
	require.NoError(t, err)

	payload, err := backend.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, payload)

	tr := Open(ctx, backend, zaptest.NewLogger(t))
	_, err = tr.Record(ctx, models.EndingBE4)
	require.NoError(t, err)
	_, err = tr.Record(ctx, models.EndingGE4)
	require.NoError(t, err)
	require.NoError(t, backend.Close())

	backend, err = OpenSQLite(path)
	require.NoError(t, err)
	defer backend.Close()

	reopened := Open(ctx, backend, zaptest.NewLogger(t))
	assert.Equal(t, []models.EndingType{models.EndingGE4, models.EndingBE4}, reopened.List())
}

func TestOpenSQLiteRequiresPath(t *testing.T) {
	_, err := OpenSQLite("  ")
	assert.Error(t, err)
}
