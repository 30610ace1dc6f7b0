// Package cache stores translation results keyed by a fingerprint of the
// normalized request.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"querybridge/internal/translator"
)

// keySeparator joins the key fields before hashing; the unit separator is
// not expected in normal text.
const keySeparator = "\x1f"

// Key identifies a translation request. Two logically identical requests
// always map to the same fingerprint; that is the only uniqueness guarantee.
type Key struct {
	Text       string
	SourceLang string
	TargetLang string
}

// Fingerprint derives the fixed-length cache key via SHA-256.
func (k Key) Fingerprint() string {
	sum := sha256.Sum256([]byte(k.Text + keySeparator + k.SourceLang + keySeparator + k.TargetLang))
	return hex.EncodeToString(sum[:])
}

// Stats describes the cache population.
type Stats struct {
	TotalEntries   int           `json:"total_entries"`
	ActiveEntries  int           `json:"active_entries"`
	ExpiredEntries int           `json:"expired_entries"`
	TTL            time.Duration `json:"ttl"`
}

// TranslationCache is the interface used by the pipeline.
// Implemented by the memory cache (default) and the Redis cache.
type TranslationCache interface {
	Get(ctx context.Context, key Key) (*translator.Result, bool, error)
	Set(ctx context.Context, key Key, result *translator.Result) error
	// EvictExpired sweeps expired entries and returns the number removed.
	// Expiration is otherwise lazy, applied on Get.
	EvictExpired(ctx context.Context) (int, error)
	Stats(ctx context.Context) (Stats, error)
	Close() error
}
