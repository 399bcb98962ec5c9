package cache

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/nrivas/portfolio-core/pkg/health"
	"github.com/nrivas/portfolio-core/pkg/logging"
)

// Source identifies which tier answered a cache operation.
type Source string

const (
	// SourcePrimary is the shared Redis tier.
	SourcePrimary Source = "primary"

	// SourceSecondary is the bounded in-process tier.
	SourceSecondary Source = "secondary"

	// SourceNone means no tier held the key.
	SourceNone Source = "none"
)

// Error-rate thresholds for health classification, in percent.
const (
	errorRateUnhealthy = 10.0
	errorRateDegraded  = 5.0
)

// Result is returned from every manager operation. Tier failures are
// absorbed internally; callers never see an error value from the cache.
type Result struct {
	Success   bool   `json:"success"`
	Data      []byte `json:"data,omitempty"`
	FromCache bool   `json:"from_cache"`
	Source    Source `json:"source"`
}

// Decode unmarshals the cached payload into dest.
func (r Result) Decode(dest any) error {
	return json.Unmarshal(r.Data, dest)
}

// Config holds manager configuration.
type Config struct {
	// Redis is the optional primary tier. Nil runs the manager in
	// secondary-tier-only mode; this is logged once at construction.
	Redis *redis.Client

	// Namespace prefixes every key to avoid collisions when the store
	// is shared across deployments.
	Namespace string

	// DefaultTTL applies when Set is called without an explicit TTL.
	DefaultTTL time.Duration

	// MaxMemoryItems bounds the secondary tier. Breaching the bound
	// evicts oldest-inserted entries first.
	MaxMemoryItems int

	// SweepInterval is how often the periodic sweep purges expired
	// secondary entries. Zero disables the sweep task.
	SweepInterval time.Duration

	// Compression gzips payloads before storage. Compression failures
	// silently fall back to uncompressed storage.
	Compression bool

	// Logger overrides the default component logger (mainly for tests).
	Logger *zerolog.Logger
}

// DefaultConfig returns a safe default configuration for the given
// optional Redis client.
func DefaultConfig(redisClient *redis.Client) Config {
	return Config{
		Redis:          redisClient,
		Namespace:      "portfolio",
		DefaultTTL:     5 * time.Minute,
		MaxMemoryItems: 1000,
		SweepInterval:  60 * time.Second,
	}
}

// Manager orchestrates reads and writes across both cache tiers, tracks
// statistics and exposes health. All state is owned by the instance, so
// multiple independent managers can coexist.
type Manager struct {
	primary   *redis.Client
	secondary *memoryStore
	codec     codec

	namespace  string
	defaultTTL time.Duration

	// primaryUp tracks the last observed primary-tier state.
	primaryUp atomic.Bool

	stats  counters
	logger zerolog.Logger

	sweepStop chan struct{}
	sweepDone chan struct{}
}

// NewManager creates a cache manager. A nil Redis client is tolerated:
// the manager logs once and operates on the secondary tier alone.
func NewManager(cfg Config) *Manager {
	logger := logging.NewLogger("cache-manager")
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	if cfg.DefaultTTL <= 0 {
		cfg.DefaultTTL = 5 * time.Minute
	}

	m := &Manager{
		primary:    cfg.Redis,
		secondary:  newMemoryStore(cfg.MaxMemoryItems, logger),
		codec:      codec{compression: cfg.Compression, logger: logger},
		namespace:  cfg.Namespace,
		defaultTTL: cfg.DefaultTTL,
		logger:     logger,
	}

	if m.primary == nil {
		logger.Info().Msg("No primary store configured, running in secondary-tier-only mode")
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := m.primary.Ping(ctx).Err(); err != nil {
			logger.Warn().Err(err).Msg("Primary store unreachable at startup, secondary tier is serving alone")
		} else {
			m.primaryUp.Store(true)
			logger.Info().Msg("Primary store connected")
		}
	}

	if cfg.SweepInterval > 0 {
		m.sweepStop = make(chan struct{})
		m.sweepDone = make(chan struct{})
		go m.sweepLoop(cfg.SweepInterval)
	}

	return m
}

// Get retrieves a cached value. It tries the primary tier first when
// connected and falls through to the secondary tier on miss, error or
// disconnection. Never returns an error: any tier failure is logged,
// counted, and treated as a miss for that tier.
func (m *Manager) Get(ctx context.Context, key string) Result {
	nsKey := namespaced(m.namespace, key)

	primaryFailed := false

	if m.primary != nil {
		payload, hit, failed := m.getPrimary(ctx, nsKey)
		primaryFailed = failed
		if hit {
			m.stats.hit()
			CacheHits.WithLabelValues(string(SourcePrimary)).Inc()
			return Result{Success: true, Data: payload, FromCache: true, Source: SourcePrimary}
		}
	}

	secondaryFailed := false
	if entry, ok := m.secondary.get(nsKey); ok {
		payload, err := m.codec.decode(entry.Data, entry.Compressed)
		if err == nil {
			m.stats.hit()
			CacheHits.WithLabelValues(string(SourceSecondary)).Inc()
			return Result{Success: true, Data: payload, FromCache: true, Source: SourceSecondary}
		}
		secondaryFailed = true
		m.stats.fail()
		CacheErrors.WithLabelValues("get").Inc()
		m.logger.Warn().Err(err).Str("key", nsKey).Msg("Secondary entry decode failed")
		m.secondary.remove(nsKey)
	}

	m.stats.miss()
	CacheMisses.Inc()

	// A clean miss is still a successful operation. Success is false only
	// when every consulted tier failed rather than answered.
	allFailed := secondaryFailed && (m.primary == nil || primaryFailed)
	return Result{Success: !allFailed, FromCache: false, Source: SourceNone}
}

// getPrimary reads one key from the primary tier. Returns the decoded
// payload on a fresh hit; failed reports an operational error (as opposed
// to a clean miss). A primary hit repopulates the secondary tier so the
// fallback stays complete.
func (m *Manager) getPrimary(ctx context.Context, nsKey string) (payload []byte, hit, failed bool) {
	data, err := m.primary.Get(ctx, nsKey).Bytes()
	if err == redis.Nil {
		return nil, false, false
	}
	if err != nil {
		m.primaryUp.Store(false)
		m.stats.fail()
		CacheErrors.WithLabelValues("get").Inc()
		m.logger.Warn().Err(err).Str("key", nsKey).Msg("Primary tier get failed, falling back to secondary")
		return nil, false, true
	}

	m.primaryUp.Store(true)

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		m.stats.fail()
		CacheErrors.WithLabelValues("get").Inc()
		m.logger.Warn().Err(err).Str("key", nsKey).Msg("Primary entry corrupted, treating as miss")
		return nil, false, true
	}

	if entry.IsExpired(time.Now()) {
		// Expired entries are never hits; drop them from both tiers.
		_ = m.primary.Del(ctx, nsKey).Err()
		m.secondary.remove(nsKey)
		return nil, false, false
	}

	payload, err = m.codec.decode(entry.Data, entry.Compressed)
	if err != nil {
		m.stats.fail()
		CacheErrors.WithLabelValues("get").Inc()
		m.logger.Warn().Err(err).Str("key", nsKey).Msg("Primary entry decode failed, treating as miss")
		return nil, false, true
	}

	m.secondary.set(&entry)
	return payload, true, false
}

// Set stores a value in both tiers: the primary write is best-effort and
// failure-tolerated, the secondary write is unconditional so the fallback
// is always complete. Succeeds if at least one tier persisted the value.
func (m *Manager) Set(ctx context.Context, key string, value any, ttl ...time.Duration) Result {
	nsKey := namespaced(m.namespace, key)

	entryTTL := m.defaultTTL
	if len(ttl) > 0 && ttl[0] > 0 {
		entryTTL = ttl[0]
	}

	data, compressed, err := m.codec.encode(value)
	if err != nil {
		m.stats.fail()
		CacheErrors.WithLabelValues("set").Inc()
		m.logger.Error().Err(err).Str("key", nsKey).Msg("Failed to serialize value")
		return Result{Success: false, Source: SourceNone}
	}

	entry := &Entry{
		Key:        nsKey,
		Data:       data,
		Compressed: compressed,
		CachedAt:   time.Now(),
		TTL:        entryTTL,
	}

	source := SourceSecondary
	if m.primary != nil {
		if err := m.setPrimary(ctx, entry); err != nil {
			m.primaryUp.Store(false)
			m.stats.fail()
			CacheErrors.WithLabelValues("set").Inc()
			m.logger.Warn().Err(err).Str("key", nsKey).Msg("Primary tier set failed, secondary tier holds the value")
		} else {
			m.primaryUp.Store(true)
			source = SourcePrimary
		}
	}

	m.secondary.set(entry)
	m.stats.set()

	m.logger.Debug().
		Str("key", nsKey).
		Dur("ttl", entryTTL).
		Bool("compressed", compressed).
		Str("tier", string(source)).
		Msg("Cached value")

	return Result{Success: true, Source: source}
}

func (m *Manager) setPrimary(ctx context.Context, entry *Entry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return m.primary.Set(ctx, entry.Key, payload, entry.TTL).Err()
}

// Delete removes a key from both tiers. Idempotent: succeeds even if the
// key was absent.
func (m *Manager) Delete(ctx context.Context, key string) Result {
	nsKey := namespaced(m.namespace, key)

	if m.primary != nil {
		if err := m.primary.Del(ctx, nsKey).Err(); err != nil {
			m.primaryUp.Store(false)
			m.stats.fail()
			CacheErrors.WithLabelValues("delete").Inc()
			m.logger.Warn().Err(err).Str("key", nsKey).Msg("Primary tier delete failed")
		}
	}

	m.secondary.remove(nsKey)
	m.stats.del()

	return Result{Success: true, Source: SourceNone}
}

// Clear flushes both tiers. Administrative: not exposed to untrusted
// input. Only keys under the manager's namespace are removed from the
// shared primary store.
func (m *Manager) Clear(ctx context.Context) {
	if m.primary != nil {
		pattern := namespaced(m.namespace, "*")
		iter := m.primary.Scan(ctx, 0, pattern, 0).Iterator()
		for iter.Next(ctx) {
			if err := m.primary.Del(ctx, iter.Val()).Err(); err != nil {
				m.stats.fail()
				CacheErrors.WithLabelValues("clear").Inc()
				m.logger.Warn().Err(err).Str("key", iter.Val()).Msg("Primary tier clear failed for key")
			}
		}
		if err := iter.Err(); err != nil {
			m.primaryUp.Store(false)
			m.stats.fail()
			CacheErrors.WithLabelValues("clear").Inc()
			m.logger.Warn().Err(err).Msg("Primary tier scan failed during clear")
		}
	}

	m.secondary.clear()
	m.logger.Info().Msg("Cache cleared")
}

// GetStats returns a snapshot of cache activity.
func (m *Manager) GetStats() Stats {
	hits, misses, sets, deletes, errors := m.stats.snapshot()
	return Stats{
		Hits:             hits,
		Misses:           misses,
		Sets:             sets,
		Deletes:          deletes,
		Errors:           errors,
		SecondaryEntries: m.secondary.size(),
		PrimaryConnected: m.primaryUp.Load(),
		HitRate:          hitRate(hits, misses),
	}
}

// GetHealthStatus classifies the manager's health: unhealthy when the
// error rate across all operations exceeds 10%, degraded when a
// configured primary tier is disconnected or the error rate is 5-10%,
// healthy otherwise. Running without a configured primary tier is not by
// itself a degradation.
func (m *Manager) GetHealthStatus() health.Status {
	stats := m.GetStats()

	totalOps := stats.Hits + stats.Misses + stats.Sets + stats.Deletes + stats.Errors
	errorRate := 0.0
	if totalOps > 0 {
		errorRate = 100 * float64(stats.Errors) / float64(totalOps)
	}

	details := map[string]any{
		"errorRate":        errorRate,
		"hitRate":          stats.HitRate,
		"primaryConnected": stats.PrimaryConnected,
		"secondaryEntries": stats.SecondaryEntries,
	}

	switch {
	case errorRate > errorRateUnhealthy:
		return health.Unhealthy(details)
	case errorRate >= errorRateDegraded:
		return health.Degraded(details)
	case m.primary != nil && !stats.PrimaryConnected:
		return health.Degraded(details)
	default:
		return health.Healthy(details)
	}
}

// Close stops the periodic sweep task. The Redis client is owned by the
// caller and is not closed.
func (m *Manager) Close() {
	if m.sweepStop != nil {
		close(m.sweepStop)
		<-m.sweepDone
	}
}

// sweepLoop purges expired secondary entries and enforces the item bound
// on a fixed interval, independent of request handling.
func (m *Manager) sweepLoop(interval time.Duration) {
	defer close(m.sweepDone)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.sweepStop:
			return
		case <-ticker.C:
			if expired := m.secondary.sweep(); expired > 0 {
				m.logger.Debug().Int("expired", expired).Msg("Sweep purged expired entries")
			}
		}
	}
}
