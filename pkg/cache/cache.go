// Package cache stores rendered diagram artifacts keyed by content hash.
//
// Three backends implement [Cache]: [NullCache] disables caching,
// [FileCache] keeps entries on local disk for the CLI, and [RedisCache]
// shares entries between server replicas. Keys come from a [Keyer], which
// derives them from the DOT source hash and the requested output format, so
// identical family tables never render twice.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional per-entry expiry.
// Implementations are safe for concurrent use.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Clear empties c if it implements [Clearer]. It reports whether anything
// was attempted.
func Clear(ctx context.Context, c Cache) (bool, error) {
	cl, ok := c.(Clearer)
	if !ok {
		return false, nil
	}
	return true, cl.Clear(ctx)
}
