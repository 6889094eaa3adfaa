// Package cache provides artifact caching for rendered figures.
//
// Raster and PDF exports are the slow part of a render (font loading,
// Lanczos resampling, the external rsvg-convert process). Because the
// whole pipeline is deterministic, a rendered artifact is fully
// determined by the configuration and the format, so repeat renders of
// an unchanged config can be served from disk.
//
// Two implementations are provided: FileCache for CLI usage and
// NullCache to disable caching.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// TTLArtifact is how long rendered artifacts stay valid. Artifacts are
// content-addressed, so the TTL only bounds disk usage.
const TTLArtifact = 30 * 24 * time.Hour

// Cache stores rendered artifacts keyed by content hash.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL. A zero TTL never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// ArtifactKey builds the cache key for one rendered artifact. The
// encoded config must exclude volatile metadata (timestamps, figure
// ids) or every run would miss.
func ArtifactKey(encodedConfig []byte, format string) string {
	return hashKey("artifact", string(encodedConfig), format)
}

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
