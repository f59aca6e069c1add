// Package cache stores rendered artifacts and reduced series between runs.
//
// Three backends share the [Cache] interface:
//
//   - [FileCache] writes entries under a directory (the CLI default)
//   - [RedisCache] shares entries between processes through Redis
//   - [NullCache] stores nothing, for --no-cache and tests
//
// Keys are built by a [Keyer] so that every input that changes an artifact
// also changes its key:
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.ArtifactKey(sceneHash, cache.ArtifactKeyOpts{Format: "svg", Width: 1200, Height: 800})
//	if data, hit, err := c.Get(ctx, key); err == nil && hit {
//	    return data, nil
//	}
package cache

import (
	"context"
	"time"
)

// TTLs per entry type.
const (
	TTLArtifact = 7 * 24 * time.Hour
	TTLSeries   = 30 * 24 * time.Hour
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the stored value and whether it was found. A miss is not
	// an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes every entry and returns how many were removed.
	Clear(ctx context.Context) (int, error)

	// Close releases backend resources.
	Close() error
}
