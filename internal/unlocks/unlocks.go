// Package unlocks persists the set of endings a player has ever reached.
package unlocks

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/tatianab/noodle-king/internal/models"
	"go.uber.org/zap"
)

// RecordName is the name of the single persisted record.
const RecordName = "unlocked_endings"

// Backend stores the raw record. Load returns (nil, nil) when nothing has
// been written yet.
type Backend interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, payload []byte) error
}

// Tracker is the in-memory set, read once at open and written through on
// every new ending.
type Tracker struct {
	mu      sync.Mutex
	backend Backend
	logger  *zap.Logger
	set     map[models.EndingType]bool
}

// Open reads the backend once. A missing or unreadable record yields an
// empty set; the problem is logged and never returned.
func Open(ctx context.Context, backend Backend, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Tracker{
		backend: backend,
		logger:  logger,
		set:     make(map[models.EndingType]bool),
	}

	payload, err := backend.Load(ctx)
	if err != nil {
		logger.Warn("Failed to read unlocked endings, starting empty", zap.Error(err))
		return t
	}
	if len(payload) == 0 {
		return t
	}
	ids, err := decode(payload)
	if err != nil {
		logger.Warn("Corrupt unlocked endings record, starting empty", zap.Error(err))
		return t
	}
	for _, id := range ids {
		t.set[id] = true
	}
	logger.Debug("Loaded unlocked endings", zap.Int("count", len(t.set)))
	return t
}

// Record adds e to the set. The backend is only written when e is new, and
// then with the whole union. It reports whether e was new.
func (t *Tracker) Record(ctx context.Context, e models.EndingType) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.set[e] {
		return false, nil
	}
	t.set[e] = true

	payload, err := json.Marshal(t.sortedLocked())
	if err != nil {
		return true, fmt.Errorf("encode unlocked endings: %w", err)
	}
	if err := t.backend.Save(ctx, payload); err != nil {
		return true, fmt.Errorf("save unlocked endings: %w", err)
	}
	t.logger.Info("Unlocked ending", zap.String("ending", string(e)), zap.Int("total", len(t.set)))
	return true, nil
}

// Has reports whether e has been unlocked.
func (t *Tracker) Has(e models.EndingType) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.set[e]
}

// List returns the unlocked endings in canonical order.
func (t *Tracker) List() []models.EndingType {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sortedLocked()
}

// Reset empties the set and the backend record.
func (t *Tracker) Reset(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.set = make(map[models.EndingType]bool)
	if err := t.backend.Save(ctx, []byte("[]")); err != nil {
		return fmt.Errorf("reset unlocked endings: %w", err)
	}
	return nil
}

func (t *Tracker) sortedLocked() []models.EndingType {
	out := make([]models.EndingType, 0, len(t.set))
	for _, e := range models.AllEndings {
		if t.set[e] {
			out = append(out, e)
		}
	}
	return out
}

func decode(payload []byte) ([]models.EndingType, error) {
	var raw []string
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, err
	}
	out := make([]models.EndingType, 0, len(raw))
	for _, s := range raw {
		e := models.EndingType(s)
		// Endings removed from the game are dropped.
		if e.Valid() && !slices.Contains(out, e) {
			out = append(out, e)
		}
	}
	return out, nil
}

// MemoryBackend keeps the record in memory.
type MemoryBackend struct {
	mu      sync.Mutex
	payload []byte
	Writes  int
}

// NewMemoryBackend returns a backend pre-loaded with payload, which may be nil.
func NewMemoryBackend(payload []byte) *MemoryBackend {
	return &MemoryBackend{payload: payload}
}

func (m *MemoryBackend) Load(context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.payload), nil
}

func (m *MemoryBackend) Save(_ context.Context, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payload = slices.Clone(payload)
	m.Writes++
	return nil
}

// Payload returns the last saved record.
func (m *MemoryBackend) Payload() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.payload)
}
