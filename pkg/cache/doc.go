// Package cache implements a resilient dual-tier caching layer.
//
// The primary tier is an optional shared Redis store reachable across
// process instances. The secondary tier is a bounded in-process map that
// is always populated on writes, so it remains a complete fallback even
// while the primary tier is healthy.
//
// Reads try the primary tier first when connected and fall through to the
// secondary tier on miss, error or disconnection. Tier failures never
// propagate to callers: every operation returns a Result object, failures
// are logged and counted, and a broken tier is simply treated as a miss.
//
// Entries are immutable once written; a Set with an existing key replaces
// the entry. Expired entries are never returned as hits, whether detected
// lazily on read or by the periodic sweep that also enforces the secondary
// tier's item bound (oldest-inserted entries are evicted first).
//
// Usage:
//
//	manager := cache.NewManager(cache.Config{
//		Redis:          redisClient, // nil for secondary-only mode
//		Namespace:      "portfolio",
//		DefaultTTL:     5 * time.Minute,
//		MaxMemoryItems: 1000,
//	})
//	defer manager.Close()
//
//	manager.Set(ctx, "videos", videos)
//	result := manager.Get(ctx, "videos")
//	if result.FromCache {
//		var videos []Video
//		_ = result.Decode(&videos)
//	}
package cache
