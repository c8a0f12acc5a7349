package kvstore

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-memory Store implementation for testing.
// Thread-safe for concurrent reads and writes.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
	ttls map[string]float64
	puts int
}

// NewMemoryStore creates a new in-memory document store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs: make(map[string][]byte),
		ttls: make(map[string]float64),
	}
}

// Get fetches the document stored under id.
func (m *MemoryStore) Get(_ context.Context, id string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.docs[id]
	if !ok {
		return nil, ErrNotFound
	}

	// Return a copy to prevent external mutation
	copied := make([]byte, len(doc))
	copy(copied, doc)
	return copied, nil
}

// Put writes the document under id.
func (m *MemoryStore) Put(_ context.Context, id string, doc []byte, ttlDays float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := make([]byte, len(doc))
	copy(copied, doc)
	m.docs[id] = copied
	m.ttls[id] = ttlDays
	m.puts++
	return nil
}

// Delete removes the document stored under id.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.docs, id)
	delete(m.ttls, id)
	return nil
}

// ListKeys returns up to limit ids in lexical order, resuming after cursor.
func (m *MemoryStore) ListKeys(_ context.Context, limit int, cursor string) (Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.docs))
	for id := range m.docs {
		if cursor == "" || id > cursor {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	var page Page
	if limit > 0 && len(ids) > limit {
		page.Keys = ids[:limit]
		page.NextCursor = ids[limit-1]
	} else {
		page.Keys = ids
	}
	return page, nil
}

// Enabled reports whether the store is usable. Always true.
func (m *MemoryStore) Enabled() bool { return true }

// PutCount returns the number of Put calls, for assertions in tests.
func (m *MemoryStore) PutCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.puts
}

// TTLDays returns the ttl recorded for id by the last Put.
func (m *MemoryStore) TTLDays(id string) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ttls[id]
}
