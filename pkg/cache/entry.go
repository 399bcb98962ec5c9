package cache

import (
	"time"
)

// Entry represents one cached payload with its expiry metadata.
// Entries are immutable once written; a Set with the same key creates a
// replacement entry, never an in-place mutation.
type Entry struct {
	// Key is the namespaced cache key.
	Key string `json:"key"`

	// Data is the serialized payload, possibly compressed.
	Data []byte `json:"data"`

	// Compressed marks Data as gzip-compressed.
	Compressed bool `json:"compressed,omitempty"`

	// CachedAt is the insertion timestamp.
	CachedAt time.Time `json:"cached_at"`

	// TTL is how long the entry stays fresh after insertion.
	TTL time.Duration `json:"ttl"`
}

// IsExpired reports whether the entry is logically expired at the given
// instant: now - CachedAt > TTL.
func (e *Entry) IsExpired(now time.Time) bool {
	return now.Sub(e.CachedAt) > e.TTL
}

// ExpiresAt returns the instant the entry becomes stale.
func (e *Entry) ExpiresAt() time.Time {
	return e.CachedAt.Add(e.TTL)
}
