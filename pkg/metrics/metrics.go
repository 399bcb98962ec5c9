// Package metrics provides the centralized Prometheus metrics registry
// for the portfolio proxy. All metrics are defined in their respective
// packages (client, cache, ratelimit) to maintain modularity and avoid
// circular dependencies.
//
// This package provides documentation and reference for all available
// metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the proxy.
// All metrics are automatically registered via promauto in their
// respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Rate Limit Metrics (pkg/ratelimit):
//   - portfolio_rate_limit_blocks_total{client, ceiling} (Counter): Requests blocked by the limiter, by ceiling (minute, day)
//   - portfolio_rate_limit_requests_total{client} (Counter): Requests recorded against the limiter
//
// Cache Metrics (pkg/cache):
//   - portfolio_cache_hits_total{tier} (Counter): Cache hits by tier (primary, secondary)
//   - portfolio_cache_misses_total (Counter): Cache misses across all tiers
//   - portfolio_cache_errors_total{operation} (Counter): Cache operation errors
//   - portfolio_cache_evictions_total (Counter): Secondary-tier evictions from the item bound
//   - portfolio_cache_secondary_entries (Gauge): Current secondary-tier entry count
//
// Request Metrics (pkg/client):
//   - portfolio_client_requests_total{client, status} (Counter): Upstream requests by integration and HTTP status
//   - portfolio_client_request_duration_seconds{client} (Histogram): Upstream request duration
//
// Retry Metrics (pkg/client):
//   - portfolio_client_retries_total{client, error_type} (Counter): Retry attempts by error type
//   - portfolio_client_retry_exhausted_total{client} (Counter): Requests that exhausted max retries
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(portfolio_cache_hits_total[5m])) /
//   (sum(rate(portfolio_cache_hits_total[5m])) + sum(rate(portfolio_cache_misses_total[5m])))
//
//   # Rate Limit Pressure
//   rate(portfolio_rate_limit_blocks_total[5m])
//
//   # Upstream Error Rate
//   sum(rate(portfolio_client_requests_total{status=~"5.."}[5m]))
//
//   # P95 Upstream Latency
//   histogram_quantile(0.95, rate(portfolio_client_request_duration_seconds_bucket[5m]))
