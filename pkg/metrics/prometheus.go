// Package metrics provides Prometheus metrics for the podium pipeline.
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

	// Pipeline metrics - one batch run end to end
	rowsParsed          prometheus.Counter
	rowsSkipped         prometheus.Counter
	duplicatesCollapsed prometheus.Counter
	runsTotal           prometheus.Counter
	runDuration         prometheus.Histogram

	// Result shape - size of the last computed run
	athleteCount     prometheus.Gauge
	cohortCount      prometheus.Gauge
	leaderboardCount prometheus.Gauge

	// HTTP metrics - serve mode only
	uploadsTotal        prometheus.Counter
	uploadErrors        prometheus.Counter
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "podium",
		subsystem:        "pipeline",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.rowsParsed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rows_parsed_total",
		Help:      "Total number of source rows parsed",
	})

	m.rowsSkipped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rows_skipped_total",
		Help:      "Total number of rows dropped for missing identity fields",
	})

	m.duplicatesCollapsed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "duplicates_collapsed_total",
		Help:      "Total number of multi-division entries collapsed during dedup",
	})

	m.runsTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "runs_total",
		Help:      "Total number of pipeline runs completed",
	})

	m.runDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "run_duration_milliseconds",
		Help:      "Histogram of end-to-end pipeline run duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.athleteCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "athlete_count",
		Help:      "Number of canonical athletes in the last run",
	})

	m.cohortCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cohort_count",
		Help:      "Number of cohorts in the last run",
	})

	m.leaderboardCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "leaderboard_count",
		Help:      "Number of leaderboards built in the last run",
	})

	m.uploadsTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "uploads_total",
		Help:      "Total number of result files uploaded over HTTP",
	})

	m.uploadErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "upload_errors_total",
		Help:      "Total number of uploads rejected or failed",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)
}

// AddRowsParsed adds to the parsed rows counter.
func AddRowsParsed(n int) {
	globalManager.rowsParsed.Add(float64(n))
}

// AddRowsSkipped adds to the skipped rows counter.
func AddRowsSkipped(n int) {
	globalManager.rowsSkipped.Add(float64(n))
}

// AddDuplicatesCollapsed adds to the collapsed duplicates counter.
func AddDuplicatesCollapsed(n int) {
	globalManager.duplicatesCollapsed.Add(float64(n))
}

// RecordRun increments the run counter and records its duration.
func RecordRun(durationMs float64) {
	globalManager.runsTotal.Inc()
	globalManager.runDuration.Observe(durationMs)
}

// UpdateAthleteCount sets the canonical athlete count for the last run.
func UpdateAthleteCount(count int) {
	globalManager.athleteCount.Set(float64(count))
}

// UpdateCohortCount sets the cohort count for the last run.
func UpdateCohortCount(count int) {
	globalManager.cohortCount.Set(float64(count))
}

// UpdateLeaderboardCount sets the leaderboard count for the last run.
func UpdateLeaderboardCount(count int) {
	globalManager.leaderboardCount.Set(float64(count))
}

// RecordUpload increments the uploads counter.
func RecordUpload() {
	globalManager.uploadsTotal.Inc()
}

// RecordUploadError increments the failed uploads counter.
func RecordUploadError() {
	globalManager.uploadErrors.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
