package cache

import (
	"bytes"
	"sync"
	"time"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStore is an in-process implementation of Store. It exists for tests
// and for non-production environments running without a shared Redis.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]entry
	windows map[string][]time.Time
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]entry),
		windows: make(map[string][]time.Time),
		now:     time.Now,
	}
}

// SetNow overrides the clock, used in tests.
func (m *MemoryStore) SetNow(now func() time.Time) {
	m.now = now
}

func (m *MemoryStore) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, found := m.entries[key]
	if !found || m.expired(e) {
		delete(m.entries, key)
		return nil, ErrCacheNotFound
	}
	return e.value, nil
}

func (m *MemoryStore) Set(key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = entry{value: value, expiresAt: m.deadline(ttl)}
	return nil
}

func (m *MemoryStore) Del(keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	deleted := 0
	for _, key := range keys {
		if _, found := m.entries[key]; found {
			delete(m.entries, key)
			deleted++
		}
	}
	if deleted == 0 {
		return ErrCacheNotFound
	}
	return nil
}

func (m *MemoryStore) SetIfAbsent(key string, value []byte, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, found := m.entries[key]; found && !m.expired(e) {
		return false, nil
	}
	m.entries[key] = entry{value: value, expiresAt: m.deadline(ttl)}
	return true, nil
}

func (m *MemoryStore) DelIfEquals(key string, value []byte) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, found := m.entries[key]
	if !found || m.expired(e) || !bytes.Equal(e.value, value) {
		return false, nil
	}
	delete(m.entries, key)
	return true, nil
}

func (m *MemoryStore) AddToWindow(key string, at time.Time, window time.Duration) (int64, time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := at.Add(-window)
	kept := make([]time.Time, 0, len(m.windows[key])+1)
	for _, ts := range m.windows[key] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	kept = append(kept, at)
	m.windows[key] = kept

	return int64(len(kept)), kept[0], nil
}

func (m *MemoryStore) expired(e entry) bool {
	return !e.expiresAt.IsZero() && m.now().After(e.expiresAt)
}

func (m *MemoryStore) deadline(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return m.now().Add(ttl)
}
