// Package metrics provides Prometheus metrics for the scorevault service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Ingestion pipeline
	ingestRuns      prometheus.Counter
	ingestFailures  prometheus.Counter
	ingestDuration  prometheus.Histogram
	lastIngestUnix  prometheus.Gauge
	scrapeDuration  prometheus.Histogram
	scrapeErrors    prometheus.Counter
	mergeDuration   prometheus.Histogram
	rebuildDuration prometheus.Histogram

	// Store
	snapshotCount      prometheus.Gauge
	snapshotLoads      prometheus.Histogram
	snapshotLoadErrors prometheus.Counter
	cacheHits          prometheus.Counter
	cacheMisses        prometheus.Counter

	// Derived state
	trackedUsers prometheus.Gauge
	trackedGames prometheus.Gauge

	// Avatar mirror
	avatarDownloads      prometheus.Counter
	avatarDownloadErrors prometheus.Counter

	// Queries and HTTP
	queryDuration       *prometheus.HistogramVec
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Runtime
	systemMemoryBytes prometheus.Gauge
	systemGoroutines  prometheus.Gauge
}

// customRegistry keeps service metrics apart from the default global
// registry; /healthz serves exactly this set.
var customRegistry = prometheus.NewRegistry()

var globalManager *Manager

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "scorevault",
		subsystem:        "archive",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.ingestRuns = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "ingest_runs_total",
		Help: "Total number of completed ingestion runs",
	})
	m.ingestFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "ingest_failures_total",
		Help: "Total number of ingestion runs that failed before persisting",
	})
	m.ingestDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "ingest_duration_milliseconds",
		Help:    "Histogram of full ingestion run duration in milliseconds",
		Buckets: m.histogramBuckets,
	})
	m.lastIngestUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "last_ingest_timestamp_seconds",
		Help: "Unix time of the last successful ingestion run",
	})
	m.scrapeDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "scrape_duration_milliseconds",
		Help:    "Histogram of page fetch and extraction duration in milliseconds",
		Buckets: m.histogramBuckets,
	})
	m.scrapeErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "scrape_errors_total",
		Help: "Total number of failed page scrapes",
	})
	m.mergeDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "merge_duration_milliseconds",
		Help:    "Histogram of all-time merge duration in milliseconds",
		Buckets: m.histogramBuckets,
	})
	m.rebuildDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "user_index_rebuild_duration_milliseconds",
		Help:    "Histogram of user index rebuild duration in milliseconds",
		Buckets: m.histogramBuckets,
	})

	m.snapshotCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "snapshots",
		Help: "Number of daily snapshots on disk",
	})
	m.snapshotLoads = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "snapshot_load_duration_milliseconds",
		Help:    "Histogram of single snapshot load duration in milliseconds",
		Buckets: m.histogramBuckets,
	})
	m.snapshotLoadErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "snapshot_load_errors_total",
		Help: "Total number of snapshot loads that failed for reasons other than absence",
	})
	m.cacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "snapshot_cache_hits_total",
		Help: "Total number of session cache hits",
	})
	m.cacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "snapshot_cache_misses_total",
		Help: "Total number of session cache misses",
	})

	m.trackedUsers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "tracked_users",
		Help: "Number of users in the derived user index",
	})
	m.trackedGames = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "tracked_games",
		Help: "Number of games in the all-time record",
	})

	m.avatarDownloads = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "avatar_downloads_total",
		Help: "Total number of avatar files mirrored",
	})
	m.avatarDownloadErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "avatar_download_errors_total",
		Help: "Total number of avatar downloads that failed",
	})

	m.queryDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "query_duration_milliseconds",
		Help:    "Histogram of period query duration in milliseconds",
		Buckets: m.histogramBuckets,
	}, []string{"period"})
	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "http_request_duration_milliseconds",
		Help:    "Histogram of HTTP request duration in milliseconds",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.systemMemoryBytes = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "system_memory_bytes",
		Help: "Current allocated heap bytes",
	})
	m.systemGoroutines = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "system_goroutines",
		Help: "Current number of goroutines",
	})
}

// Ingestion helpers.

func RecordIngestRun()                { globalManager.ingestRuns.Inc() }
func RecordIngestFailure()            { globalManager.ingestFailures.Inc() }
func RecordIngestDuration(ms float64) { globalManager.ingestDuration.Observe(ms) }
func UpdateLastIngestUnix(sec int64)  { globalManager.lastIngestUnix.Set(float64(sec)) }
func RecordScrapeDuration(ms float64) { globalManager.scrapeDuration.Observe(ms) }
func RecordScrapeError()              { globalManager.scrapeErrors.Inc() }
func RecordMergeDuration(ms float64)  { globalManager.mergeDuration.Observe(ms) }

func RecordIndexRebuildDuration(ms float64) {
	globalManager.rebuildDuration.Observe(ms)
}

// Store helpers.

func UpdateSnapshotCount(n int)     { globalManager.snapshotCount.Set(float64(n)) }
func RecordSnapshotLoad(ms float64) { globalManager.snapshotLoads.Observe(ms) }
func RecordSnapshotLoadError()      { globalManager.snapshotLoadErrors.Inc() }
func RecordSnapshotCacheHit()       { globalManager.cacheHits.Inc() }
func RecordSnapshotCacheMiss()      { globalManager.cacheMisses.Inc() }

// Derived state helpers.

func UpdateTrackedUsers(n int) { globalManager.trackedUsers.Set(float64(n)) }
func UpdateTrackedGames(n int) { globalManager.trackedGames.Set(float64(n)) }

// Avatar mirror helpers.

func RecordAvatarDownload()      { globalManager.avatarDownloads.Inc() }
func RecordAvatarDownloadError() { globalManager.avatarDownloadErrors.Inc() }

// Query and HTTP helpers.

func RecordQueryDuration(period string, ms float64) {
	globalManager.queryDuration.WithLabelValues(period).Observe(ms)
}

func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

func RecordHTTPRequestDuration(endpoint, method, statusCode string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(ms)
}

// Runtime helpers.

func UpdateSystemMemoryUsage(bytes uint64) { globalManager.systemMemoryBytes.Set(float64(bytes)) }
func UpdateSystemGoroutineCount(count int) { globalManager.systemGoroutines.Set(float64(count)) }

// GetRegistry returns the registry backing /healthz.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
