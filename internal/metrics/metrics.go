package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Lookup results recorded on ProductLookups.
const (
	LookupFreshHit    = "fresh_hit"
	LookupMiss        = "miss"
	LookupStale       = "stale"
	LookupNotFound    = "not_found"
	LookupOriginError = "origin_error"
	LookupCacheError  = "cache_error"
)

var (
	// ProductLookups counts barcode lookups by cache outcome.
	ProductLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "airecipes_product_lookups_total",
			Help: "Total number of product lookups by cache outcome",
		},
		[]string{"result"},
	)

	// CacheWriteFailures counts upserts that failed after a successful origin fetch.
	CacheWriteFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "airecipes_cache_write_failures_total",
			Help: "Total number of product cache writes that failed",
		},
	)

	// OriginRequests counts Open Food Facts calls by operation and outcome.
	OriginRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "airecipes_origin_requests_total",
			Help: "Total number of Open Food Facts requests",
		},
		[]string{"op", "status"},
	)

	// HTTPLatency measures HTTP request latencies.
	HTTPLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "airecipes_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
