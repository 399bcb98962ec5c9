package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks cache hits by tier (primary, secondary).
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_cache_hits_total",
			Help: "Total number of cache hits by tier",
		},
		[]string{"tier"},
	)

	// CacheMisses tracks cache misses across both tiers.
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "portfolio_cache_misses_total",
			Help: "Total number of cache misses",
		},
	)

	// CacheErrors tracks absorbed tier failures by operation.
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete", "clear", "sweep"
	)

	// CacheEvictions tracks secondary-tier evictions from the item bound.
	CacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "portfolio_cache_evictions_total",
			Help: "Total number of secondary-tier evictions",
		},
	)

	// CacheSecondaryEntries tracks the current secondary-tier entry count.
	CacheSecondaryEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "portfolio_cache_secondary_entries",
			Help: "Current number of entries in the secondary tier",
		},
	)
)
