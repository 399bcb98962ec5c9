package cache

import "sync"

// Stats is a snapshot of cache activity. HitRate is always recomputed
// from hits and misses, never independently stored.
type Stats struct {
	Hits             int64   `json:"hits"`
	Misses           int64   `json:"misses"`
	Sets             int64   `json:"sets"`
	Deletes          int64   `json:"deletes"`
	Errors           int64   `json:"errors"`
	SecondaryEntries int     `json:"secondary_entries"`
	PrimaryConnected bool    `json:"primary_connected"`
	HitRate          float64 `json:"hit_rate"`
}

// counters accumulates operation counts. Owned by a Manager instance so
// independent managers never share hidden state.
type counters struct {
	mu      sync.Mutex
	hits    int64
	misses  int64
	sets    int64
	deletes int64
	errors  int64
}

func (c *counters) hit() {
	c.mu.Lock()
	c.hits++
	c.mu.Unlock()
}

func (c *counters) miss() {
	c.mu.Lock()
	c.misses++
	c.mu.Unlock()
}

func (c *counters) set() {
	c.mu.Lock()
	c.sets++
	c.mu.Unlock()
}

func (c *counters) del() {
	c.mu.Lock()
	c.deletes++
	c.mu.Unlock()
}

func (c *counters) fail() {
	c.mu.Lock()
	c.errors++
	c.mu.Unlock()
}

// snapshot copies the current counts.
func (c *counters) snapshot() (hits, misses, sets, deletes, errors int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses, c.sets, c.deletes, c.errors
}

// hitRate computes 100 * hits / (hits + misses), clamped to [0, 100].
// Returns 0 when no lookups have happened.
func hitRate(hits, misses int64) float64 {
	total := hits + misses
	if total <= 0 {
		return 0
	}
	rate := 100 * float64(hits) / float64(total)
	if rate < 0 {
		return 0
	}
	if rate > 100 {
		return 100
	}
	return rate
}
