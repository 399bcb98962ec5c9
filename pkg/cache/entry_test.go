package cache

import (
	"testing"
	"time"
)

func TestEntry_IsExpired(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		entry   Entry
		now     time.Time
		expired bool
	}{
		{
			name:    "fresh entry",
			entry:   Entry{CachedAt: base, TTL: time.Minute},
			now:     base.Add(30 * time.Second),
			expired: false,
		},
		{
			name:    "exactly at ttl is still fresh",
			entry:   Entry{CachedAt: base, TTL: time.Minute},
			now:     base.Add(time.Minute),
			expired: false,
		},
		{
			name:    "past ttl",
			entry:   Entry{CachedAt: base, TTL: time.Minute},
			now:     base.Add(time.Minute + time.Nanosecond),
			expired: true,
		},
		{
			name:    "long past ttl",
			entry:   Entry{CachedAt: base, TTL: time.Second},
			now:     base.Add(time.Hour),
			expired: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.entry.IsExpired(tt.now); got != tt.expired {
				t.Errorf("IsExpired = %v, want %v", got, tt.expired)
			}
		})
	}
}

func TestEntry_ExpiresAt(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	entry := Entry{CachedAt: base, TTL: 5 * time.Minute}

	want := base.Add(5 * time.Minute)
	if got := entry.ExpiresAt(); !got.Equal(want) {
		t.Errorf("ExpiresAt = %v, want %v", got, want)
	}
}
