package audit

import (
	"context"
	"sync"

	"github.com/Sahil-1827/task-management-system-backend/internal/entities"
)

// MemoryStore is a per-tenant byte- and count-bounded FIFO. Each tenant has
// its own mutex, so insert-then-trim is atomic per tenant.
type MemoryStore struct {
	mu      sync.Mutex
	tenants map[string]*tenantRing
}

type tenantRing struct {
	mu        sync.Mutex
	entries   []ringEntry
	totalSize int
	evicted   uint64
}

type ringEntry struct {
	entry entities.ActivityLogEntry
	size  int
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tenants: make(map[string]*tenantRing)}
}

func (m *MemoryStore) ring(tenantID string) *tenantRing {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.tenants[tenantID]
	if !ok {
		r = &tenantRing{}
		m.tenants[tenantID] = r
	}
	return r
}

// AppendCapped implements Store.
func (m *MemoryStore) AppendCapped(_ context.Context, entry entities.ActivityLogEntry, size int, limits Limits) error {
	r := m.ring(entry.TenantID)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, ringEntry{entry: entry, size: size})
	r.totalSize += size

	for len(r.entries) > 1 && (len(r.entries) > limits.MaxEntries || r.totalSize > limits.MaxBytes) {
		old := r.entries[0]
		r.entries[0] = ringEntry{}
		r.entries = r.entries[1:]
		r.totalSize -= old.size
		r.evicted++
	}
	return nil
}

// RecentActivity implements Store.
func (m *MemoryStore) RecentActivity(_ context.Context, tenantID string, limit int) ([]entities.ActivityLogEntry, error) {
	r := m.ring(tenantID)

	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]entities.ActivityLogEntry, 0, len(r.entries))
	for i := len(r.entries) - 1; i >= 0; i-- {
		out = append(out, r.entries[i].entry)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// Evicted returns how many entries the tenant has lost to the bounds.
func (m *MemoryStore) Evicted(tenantID string) uint64 {
	r := m.ring(tenantID)
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.evicted
}
