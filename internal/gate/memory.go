package gate

import (
	"context"
	"sync"
	"time"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore is an in-process Store for tests and single-node setups.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]time.Time)}
}

// LastShown returns the stored timestamp for key, false when absent.
func (m *MemoryStore) LastShown(_ context.Context, key string) (time.Time, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.records[key]
	return t, ok, nil
}

// MarkShown stores t for key. The window is ignored: the gate compares
// ages itself, expiry only matters for shared stores.
func (m *MemoryStore) MarkShown(_ context.Context, key string, t time.Time, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[key] = t
	return nil
}
