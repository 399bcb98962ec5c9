// Package ratelimit implements per-client request gating with two
// independent ceilings: a sliding 60-second window and a daily counter.
// A breach of either ceiling blocks the call; there is no queueing, the
// caller retries later on its own schedule.
package ratelimit

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Prometheus metrics for rate limit gating.
var (
	rateLimitBlocksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_rate_limit_blocks_total",
		Help: "Total number of requests blocked by the rate limiter",
	}, []string{"client", "ceiling"})

	rateLimitRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_rate_limit_requests_total",
		Help: "Total number of requests recorded against the rate limiter",
	}, []string{"client"})
)

const (
	// windowSize is the trailing interval for the per-minute ceiling.
	windowSize = 60 * time.Second

	// dailyPeriod is the fixed reset period for the daily counter,
	// measured from the last reset instant, not calendar midnight.
	dailyPeriod = 24 * time.Hour
)

// Limits holds the two request ceilings for one service client.
type Limits struct {
	// MaxPerMinute is the ceiling for the trailing 60-second window.
	MaxPerMinute int

	// MaxPerDay is the ceiling for the 24-hour counter.
	MaxPerDay int
}

// DefaultLimits returns conservative ceilings suitable for free-tier
// third-party API quotas.
func DefaultLimits() Limits {
	return Limits{
		MaxPerMinute: 10,
		MaxPerDay:    500,
	}
}

// Limiter tracks request timestamps for a single service client.
// It is owned by the client instance, never shared process-wide, so
// independent clients can be tested in isolation.
type Limiter struct {
	mu sync.Mutex

	name   string
	limits Limits
	logger zerolog.Logger

	// window holds timestamps of recorded requests; entries older than
	// windowSize are pruned on each RecordRequest.
	window []time.Time

	dailyCount int
	lastReset  time.Time

	// now is injectable for tests.
	now func() time.Time
}

// NewLimiter creates a limiter for the named client.
func NewLimiter(name string, limits Limits, logger zerolog.Logger) *Limiter {
	if limits.MaxPerMinute <= 0 {
		limits.MaxPerMinute = DefaultLimits().MaxPerMinute
	}
	if limits.MaxPerDay <= 0 {
		limits.MaxPerDay = DefaultLimits().MaxPerDay
	}
	now := time.Now()
	return &Limiter{
		name:      name,
		limits:    limits,
		logger:    logger,
		lastReset: now,
		now:       time.Now,
	}
}

// CheckLimit reports whether a request would currently be allowed.
// It is read-only so callers can check speculatively before committing;
// RecordRequest must be called separately once the request proceeds.
func (l *Limiter) CheckLimit() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	if l.countInWindow(now) >= l.limits.MaxPerMinute {
		rateLimitBlocksTotal.WithLabelValues(l.name, "minute").Inc()
		l.logger.Warn().
			Str("client", l.name).
			Int("max_per_minute", l.limits.MaxPerMinute).
			Msg("Rate limit reached for sliding window")
		return false
	}

	if l.effectiveDailyCount(now) >= l.limits.MaxPerDay {
		rateLimitBlocksTotal.WithLabelValues(l.name, "day").Inc()
		l.logger.Warn().
			Str("client", l.name).
			Int("max_per_day", l.limits.MaxPerDay).
			Msg("Rate limit reached for daily ceiling")
		return false
	}

	return true
}

// RecordRequest appends the current timestamp to the sliding window and
// increments the daily counter. Kept separate from CheckLimit so limits
// can be evaluated without side effects.
func (l *Limiter) RecordRequest() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	if now.Sub(l.lastReset) >= dailyPeriod {
		l.dailyCount = 0
		l.lastReset = now
		l.logger.Debug().Str("client", l.name).Msg("Daily request counter reset")
	}

	l.prune(now)
	l.window = append(l.window, now)
	l.dailyCount++

	rateLimitRequestsTotal.WithLabelValues(l.name).Inc()
}

// MinuteRemaining returns the headroom left in the sliding window.
func (l *Limiter) MinuteRemaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	remaining := l.limits.MaxPerMinute - l.countInWindow(l.now())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// DayRemaining returns the headroom left in the daily counter.
func (l *Limiter) DayRemaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	remaining := l.limits.MaxPerDay - l.effectiveDailyCount(l.now())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Limits returns the configured ceilings.
func (l *Limiter) Limits() Limits {
	return l.limits
}

// countInWindow counts recorded timestamps inside the trailing window
// without mutating state, keeping CheckLimit side-effect free.
func (l *Limiter) countInWindow(now time.Time) int {
	cutoff := now.Add(-windowSize)
	count := 0
	for _, ts := range l.window {
		if ts.After(cutoff) {
			count++
		}
	}
	return count
}

// effectiveDailyCount returns the daily count, treating an overdue reset
// as zero without mutating state.
func (l *Limiter) effectiveDailyCount(now time.Time) int {
	if now.Sub(l.lastReset) >= dailyPeriod {
		return 0
	}
	return l.dailyCount
}

// prune drops window entries older than the trailing 60 seconds.
func (l *Limiter) prune(now time.Time) {
	cutoff := now.Add(-windowSize)
	kept := l.window[:0]
	for _, ts := range l.window {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	l.window = kept
}
