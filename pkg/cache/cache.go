// Package cache stores rendered artifacts keyed by computation and options.
//
// Three backends implement [Cache]:
//   - [NullCache]: caching disabled
//   - [FileCache]: JSON entries on disk, the CLI default
//   - [RedisCache]: shared cache for several server instances
//
// Keys are built by a [Keyer] so that the CLI, the pipeline and the server
// agree on them. A [ScopedKeyer] prefixes every key, e.g. per session.
package cache

import (
	"context"
	"time"
)

// Default entry lifetimes.
const (
	TTLArtifact = 24 * time.Hour
	TTLExport   = 24 * time.Hour
	TTLGraph    = 7 * 24 * time.Hour
)

// Cache is a byte store with optional expiry. A miss is reported through
// the hit flag, not as an error.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	// Set stores data. ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
