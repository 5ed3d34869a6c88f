// Package cache stores settled render results so an unchanged dataset does
// not have to run the force simulation again.
//
// Settling is deterministic for a fixed seed, frame budget and viewport, so
// the dataset hash plus those options fully determine the layout and every
// artifact exported from it.
//
// Two backends are provided: [FileCache] for the CLI and [NullCache] when
// caching is disabled.
package cache

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/forcegraph/pkg/observability"
)

// Default time-to-live for cached entries.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value for key. A miss is reported with hit == false
	// and a nil error.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}

// Entry kinds, as they appear in keys built by [DefaultKeyer].
const (
	KindLayout   = "layout"
	KindArtifact = "artifact"
)

// KeyKind returns the entry kind encoded in a key, ignoring any scope
// prefix, or "other" for keys not built by a [Keyer].
func KeyKind(key string) string {
	parts := strings.Split(key, ":")
	if len(parts) >= 2 {
		switch k := parts[len(parts)-2]; k {
		case KindLayout, KindArtifact:
			return k
		}
	}
	return "other"
}

func observe(ctx context.Context, key string, hit bool) {
	observability.Pipeline().OnCacheLookup(ctx, KeyKind(key), hit)
}
