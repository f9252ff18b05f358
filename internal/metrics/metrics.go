package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medialib_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "medialib_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "medialib_http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		},
	)
)

// Scanner metrics
var (
	ScannerOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medialib_scanner_operations_total",
			Help: "Total number of scanner operations",
		},
		[]string{"operation", "status"},
	)

	ScannerItemsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medialib_scanner_items_skipped_total",
			Help: "Directory entries skipped due to per-item errors",
		},
		[]string{"operation"},
	)
)

// Metadata adapter metrics
var (
	TagReadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medialib_tag_reads_total",
			Help: "Total number of tag-reader invocations",
		},
		[]string{"status"},
	)

	TagWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medialib_tag_writes_total",
			Help: "Total number of tag-writer invocations",
		},
		[]string{"target", "status"},
	)

	TagOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "medialib_tag_operation_duration_seconds",
			Help:    "Duration of external tag tool invocations",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"operation"},
	)
)

// Cache metrics
var (
	CacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medialib_cache_hits_total",
			Help: "Thumbnail/preview cache hits",
		},
		[]string{"variant"},
	)

	CacheMissesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medialib_cache_misses_total",
			Help: "Thumbnail/preview cache misses",
		},
		[]string{"variant"},
	)

	GenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medialib_generations_total",
			Help: "Thumbnail/preview generation attempts",
		},
		[]string{"variant", "status"},
	)

	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "medialib_generation_duration_seconds",
			Help:    "Thumbnail/preview generation duration",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"variant"},
	)
)

// Worker pool metrics
var (
	PoolQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "medialib_pool_queue_depth",
			Help: "Number of jobs waiting in the thumbnail queue",
		},
	)

	PoolJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medialib_pool_jobs_total",
			Help: "Thumbnail jobs processed by the worker pool",
		},
		[]string{"status"},
	)
)
