package cache

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// memoryStore is the bounded, process-local secondary tier. Mutation is
// serialized with a mutex; each operation holds the lock for bounded time
// so the periodic sweep never starves concurrently arriving requests.
type memoryStore struct {
	mu       sync.Mutex
	entries  map[string]*Entry
	maxItems int
	logger   zerolog.Logger

	// now is injectable for tests.
	now func() time.Time
}

func newMemoryStore(maxItems int, logger zerolog.Logger) *memoryStore {
	return &memoryStore{
		entries:  make(map[string]*Entry),
		maxItems: maxItems,
		logger:   logger,
		now:      time.Now,
	}
}

// get returns the entry for key, expiring it lazily if stale.
func (s *memoryStore) get(key string) (*Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if entry.IsExpired(s.now()) {
		delete(s.entries, key)
		CacheSecondaryEntries.Set(float64(len(s.entries)))
		return nil, false
	}
	return entry, true
}

// set inserts or replaces an entry, then enforces the item bound by
// evicting oldest-inserted entries until the store is back at the limit.
func (s *memoryStore) set(entry *Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[entry.Key] = entry
	s.enforceBoundLocked()
	CacheSecondaryEntries.Set(float64(len(s.entries)))
}

// remove deletes a key. Idempotent.
func (s *memoryStore) remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	CacheSecondaryEntries.Set(float64(len(s.entries)))
}

// clear flushes the whole tier.
func (s *memoryStore) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]*Entry)
	CacheSecondaryEntries.Set(0)
}

// size returns the current entry count.
func (s *memoryStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// sweep purges expired entries and enforces the item bound. Called from
// the manager's periodic sweep task; the whole pass runs under one lock
// acquisition over an in-memory map, so it completes in bounded time.
func (s *memoryStore) sweep() (expired int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, entry := range s.entries {
		if entry.IsExpired(now) {
			delete(s.entries, key)
			expired++
		}
	}
	s.enforceBoundLocked()
	CacheSecondaryEntries.Set(float64(len(s.entries)))
	return expired
}

// enforceBoundLocked evicts oldest-inserted entries until the store is
// within maxItems. Caller must hold the lock.
func (s *memoryStore) enforceBoundLocked() {
	if s.maxItems <= 0 {
		return
	}
	for len(s.entries) > s.maxItems {
		oldestKey := ""
		var oldestAt time.Time
		for key, entry := range s.entries {
			if oldestKey == "" || entry.CachedAt.Before(oldestAt) {
				oldestKey = key
				oldestAt = entry.CachedAt
			}
		}
		delete(s.entries, oldestKey)
		CacheEvictions.Inc()
		s.logger.Debug().Str("key", oldestKey).Msg("Evicted oldest entry from secondary tier")
	}
}
