// Package cache stores rendered artifacts so repeated requests for the same
// fingerprint skip the walk and the rasterizer.
//
// Three backends implement [Cache]:
//   - [NullCache]: stores nothing, used when caching is disabled
//   - [FileCache]: one JSON file per entry under the user cache directory
//   - [RedisCache]: shared storage for the HTTP service
//
// Keys come from a [Keyer] so every backend agrees on the key layout:
//
//	k := cache.NewDefaultKeyer()
//	key := k.ArtifactKey(fp.Bytes, cache.ArtifactKeyOpts{Format: "png", Tile: 25})
//	data, ok, err := c.Get(ctx, key)
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional per-entry expiry. A ttl of zero means
// the entry does not expire. Get reports a miss with ok == false and a nil
// error.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// DefaultTTL is how long rendered artifacts are kept.
const DefaultTTL = 7 * 24 * time.Hour
