// Package metrics provides the central Prometheus registry reference
// for the chain data client. All metrics are defined in their
// respective packages (client, cache, ratelimit) to maintain modularity
// and avoid circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the client.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Rate Limit Metrics (pkg/ratelimit):
//   - chaindata_requests_remaining (Gauge): Requests left in the current window
//   - chaindata_rate_limit_blocks_total (Counter): Requests blocked, budget critical
//   - chaindata_rate_limit_throttles_total (Counter): Requests throttled, budget low
//
// Cache Metrics (pkg/cache):
//   - chaindata_cache_hits_total{layer="redis"} (Counter): Cache hits by layer
//   - chaindata_cache_misses_total (Counter): Cache misses
//   - chaindata_cache_size_bytes{layer="redis"} (Gauge): Current cache size in bytes
//   - chaindata_cache_errors_total{operation} (Counter): Cache operation errors
//
// Request Metrics (pkg/client):
//   - chaindata_requests_total{endpoint, status} (Counter): Requests by endpoint and status
//   - chaindata_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//   - chaindata_errors_total{class} (Counter): Errors by class (client, server, rate_limit, network)
//
// Retry Metrics (pkg/client):
//   - chaindata_retries_total{error_class} (Counter): Retry attempts by error class
//   - chaindata_retry_backoff_seconds{error_class} (Histogram): Backoff duration by error class
//   - chaindata_retry_exhausted_total{error_class} (Counter): Requests that exhausted max retries
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(chaindata_cache_hits_total[5m])) /
//   (sum(rate(chaindata_cache_hits_total[5m])) + sum(rate(chaindata_cache_misses_total[5m])))
//
//   # Budget Status
//   chaindata_requests_remaining < 20
//
//   # Request Error Rate
//   rate(chaindata_errors_total[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(chaindata_request_duration_seconds_bucket[5m]))
