package cache

import (
	"context"
	"sync"
	"time"
)

// Cache is a read-through store for enrichment lookups. Company data rarely
// changes between runs, so provider results are cached by company key to
// avoid re-paying for the same lookups on every run.
type Cache interface {
	// Get unmarshals the cached value for key into v. The bool reports
	// whether the key was present.
	Get(ctx context.Context, key string, v any) (bool, error)

	// Set stores v under key for ttl. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, v any, ttl time.Duration) error
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// Memory is a process-local Cache used when no redis URL is configured, and
// in tests.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewMemory creates an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]memoryEntry)}
}

// Get implements Cache.
func (m *Memory) Get(_ context.Context, key string, v any) (bool, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return false, nil
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return false, nil
	}
	return true, unmarshal(entry.data, v)
}

// Set implements Cache.
func (m *Memory) Set(_ context.Context, key string, v any, ttl time.Duration) error {
	data, err := marshal(v)
	if err != nil {
		return err
	}

	entry := memoryEntry{data: data}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}

	m.mu.Lock()
	m.entries[key] = entry
	m.mu.Unlock()
	return nil
}
