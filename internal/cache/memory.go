package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultCleanupInterval is how often expired entries are purged.
const DefaultCleanupInterval = time.Minute

// MemoryStore keeps entries in process memory.
type MemoryStore struct {
	items *gocache.Cache
}

// NewMemoryStore creates an empty MemoryStore that purges expired entries
// every cleanupInterval. A non-positive interval disables the janitor;
// expired entries are still reported as misses.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	return &MemoryStore{
		items: gocache.New(gocache.NoExpiration, cleanupInterval),
	}
}

// Get returns a copy of the stored bytes.
func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.items.Get(key)
	if !ok {
		return nil, ErrCacheMiss
	}
	data, ok := v.([]byte)
	if !ok {
		return nil, ErrCacheMiss
	}
	return append([]byte(nil), data...), nil
}

// Set stores a copy of value for ttl.
func (m *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	m.items.Set(key, append([]byte(nil), value...), ttl)
	return nil
}

// Ping always succeeds.
func (m *MemoryStore) Ping(context.Context) error {
	return nil
}

// Len returns the number of entries, including expired ones not yet purged.
func (m *MemoryStore) Len() int {
	return m.items.ItemCount()
}
