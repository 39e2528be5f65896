// Package cache provides time-bounded storage for directory lookups and the
// cache-or-fetch helper the directory service is built on.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Cache keys.
const (
	userKeyPrefix = "User_"

	// AllUsersKey holds the full directory listing.
	AllUsersKey = "AllUsers"

	// DefaultTTL is how long an entry lives after it is written.
	DefaultTTL = 10 * time.Minute
)

// Common cache errors.
var (
	ErrCacheMiss = errors.New("cache miss")
)

// Store is a byte-oriented key/value store with per-entry TTL.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns ErrCacheMiss when the key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Ping(ctx context.Context) error
}

// UserKey returns the cache key for a single user lookup.
func UserKey(id int) string {
	return fmt.Sprintf("%s%d", userKeyPrefix, id)
}

// Fetcher produces a fresh value on a cache miss.
type Fetcher[T any] func(ctx context.Context) (T, error)

// Result describes how GetOrFetch produced its value.
type Result struct {
	// Hit is true when the value came from the store.
	Hit bool
	// WriteErr is set when a fetched value could not be stored.
	// The value is still returned.
	WriteErr error
}

// GetOrFetch returns the value stored under key, or calls fetch and stores
// its result for ttl. Fetch errors are returned as-is and nothing is stored.
// Undecodable entries and store read failures are treated as misses.
func GetOrFetch[T any](ctx context.Context, store Store, key string, ttl time.Duration, fetch Fetcher[T]) (T, Result, error) {
	if data, err := store.Get(ctx, key); err == nil {
		var cached T
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, Result{Hit: true}, nil
		}
	}

	value, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, Result{}, err
	}

	data, err := json.Marshal(value)
	if err != nil {
		return value, Result{WriteErr: fmt.Errorf("encode cache entry: %w", err)}, nil
	}
	if err := store.Set(ctx, key, data, ttl); err != nil {
		return value, Result{WriteErr: err}, nil
	}

	return value, Result{}, nil
}
