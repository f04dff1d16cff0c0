package store

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Memory is the single-process implementation of Store. State does not
// survive a restart, which is acceptable for CSRF records and rate-limit
// counters in this deployment.
type Memory[V any] struct {
	mu      sync.Mutex
	entries map[string]entry[V]
	now     func() time.Time
}

func NewMemory[V any]() *Memory[V] {
	return &Memory[V]{
		entries: map[string]entry[V]{},
		now:     time.Now,
	}
}

func (m *Memory[V]) Get(key string) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		var zero V
		return zero, false
	}

	if m.expiredLocked(e) {
		delete(m.entries, key)
		var zero V
		return zero, false
	}

	return e.value, true
}

func (m *Memory[V]) Set(key string, value V, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := entry[V]{value: value}
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}

	m.entries[key] = e
}

func (m *Memory[V]) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, key)
}

func (m *Memory[V]) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key, e := range m.entries {
		if m.expiredLocked(e) {
			delete(m.entries, key)
			removed++
		}
	}

	return removed
}

func (m *Memory[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.entries)
}

func (m *Memory[V]) expiredLocked(e entry[V]) bool {
	return !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt)
}
