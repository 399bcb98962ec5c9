package cache

import "testing"

func TestHitRate(t *testing.T) {
	tests := []struct {
		name     string
		hits     int64
		misses   int64
		expected float64
	}{
		{"no lookups", 0, 0, 0},
		{"all hits", 10, 0, 100},
		{"all misses", 0, 10, 0},
		{"half and half", 5, 5, 50},
		{"three quarters", 3, 1, 75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hitRate(tt.hits, tt.misses); got != tt.expected {
				t.Errorf("hitRate(%d, %d) = %v, want %v", tt.hits, tt.misses, got, tt.expected)
			}
		})
	}
}

func TestCounters_Snapshot(t *testing.T) {
	var c counters

	c.hit()
	c.hit()
	c.miss()
	c.set()
	c.del()
	c.fail()

	hits, misses, sets, deletes, errors := c.snapshot()

	if hits != 2 || misses != 1 || sets != 1 || deletes != 1 || errors != 1 {
		t.Errorf("snapshot = %d/%d/%d/%d/%d, want 2/1/1/1/1",
			hits, misses, sets, deletes, errors)
	}
}
