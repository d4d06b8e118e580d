// Package metrics provides Prometheus metrics for the hirefunnel service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// latencyBuckets are the default millisecond buckets for latency histograms.
var latencyBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000} //nolint:gochecknoglobals // read-only defaults

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Report metrics
	reportsBuilt       *prometheus.CounterVec
	reportFailures     *prometheus.CounterVec
	reportLatency      prometheus.Histogram
	orphanRecords      *prometheus.CounterVec
	anomalies          *prometheus.CounterVec
	sourceFetchLatency *prometheus.HistogramVec
	rejectedRecords    *prometheus.CounterVec

	// Fit scoring metrics
	fitScores       *prometheus.CounterVec
	fitScoreLatency prometheus.Histogram
	scorerErrors    prometheus.Counter

	// Queue, worker and store metrics
	queueSize        prometheus.Gauge
	queueCapacity    prometheus.Gauge
	queueEnqueued    prometheus.Counter
	queueRejected    *prometheus.CounterVec
	workerCount      prometheus.Gauge
	workerBusy       prometheus.Gauge
	duplicateReports prometheus.Counter
	storedReports    prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "hirefunnel",
		subsystem:        "service",
		histogramBuckets: latencyBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
		ConstLabels: m.constLabels, Buckets: m.histogramBuckets,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // flat list of collectors
	auto := promauto.With(m.registry)

	m.reportsBuilt = auto.NewCounterVec(m.counterOpts("reports_built_total",
		"Total number of reports built, by mode (sync, async)"), []string{"mode"})
	m.reportFailures = auto.NewCounterVec(m.counterOpts("report_failures_total",
		"Total number of report builds that failed, by stage"), []string{"stage"})
	m.reportLatency = auto.NewHistogram(m.histogramOpts("report_build_latency_milliseconds",
		"Report build latency in milliseconds, snapshot fetch included"))
	m.orphanRecords = auto.NewCounterVec(m.counterOpts("orphan_records_total",
		"Records skipped because a reference did not resolve, by kind"), []string{"kind"})
	m.anomalies = auto.NewCounterVec(m.counterOpts("report_anomalies_total",
		"Inconsistent metric values flagged on built reports, by metric"), []string{"metric"})
	m.sourceFetchLatency = auto.NewHistogramVec(m.histogramOpts("source_fetch_latency_milliseconds",
		"Snapshot fetch latency in milliseconds, by data source"), []string{"source"})
	m.rejectedRecords = auto.NewCounterVec(m.counterOpts("rejected_records_total",
		"Source records dropped or degraded because a field failed to parse, by source"), []string{"source"})

	m.fitScores = auto.NewCounterVec(m.counterOpts("fit_scores_total",
		"Fit scores computed, by provenance (ai, fallback)"), []string{"provenance"})
	m.fitScoreLatency = auto.NewHistogram(m.histogramOpts("fit_score_latency_milliseconds",
		"Fit score latency in milliseconds"))
	m.scorerErrors = auto.NewCounter(m.counterOpts("scorer_errors_total",
		"Remote scorer failures that triggered the local fallback"))

	m.queueSize = auto.NewGauge(m.gaugeOpts("queue_size", "Current number of queued report jobs"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("queue_capacity", "Maximum number of queued report jobs"))
	m.queueEnqueued = auto.NewCounter(m.counterOpts("queue_enqueued_total", "Report jobs accepted by the queue"))
	m.queueRejected = auto.NewCounterVec(m.counterOpts("queue_rejected_total",
		"Report jobs rejected by the queue, by reason"), []string{"reason"})
	m.workerCount = auto.NewGauge(m.gaugeOpts("worker_count", "Number of report workers"))
	m.workerBusy = auto.NewGauge(m.gaugeOpts("worker_busy", "Number of workers currently building a report"))
	m.duplicateReports = auto.NewCounter(m.counterOpts("duplicate_report_requests_total",
		"Report submissions ignored because the request id was already seen"))
	m.storedReports = auto.NewGauge(m.gaugeOpts("stored_reports", "Report jobs held in the report store"))

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total",
		"Total number of HTTP requests by endpoint and method"), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds"), []string{"endpoint", "method", "status_code"})
	m.httpErrors = auto.NewCounterVec(m.counterOpts("http_errors_total",
		"HTTP error responses by endpoint, method and error type"), []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_bytes", "Heap bytes allocated"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutines", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_milliseconds",
		"Average GC pause in milliseconds"))
}

// Report metrics.

// RecordReportBuilt counts a built report and its latency.
func RecordReportBuilt(mode string, latencyMs float64) {
	globalManager.reportsBuilt.WithLabelValues(mode).Inc()
	globalManager.reportLatency.Observe(latencyMs)
}

// RecordReportFailure counts a failed report build.
func RecordReportFailure(stage string) {
	globalManager.reportFailures.WithLabelValues(stage).Inc()
}

// RecordOrphans adds skipped records of one orphan kind.
func RecordOrphans(kind string, n int) {
	globalManager.orphanRecords.WithLabelValues(kind).Add(float64(n))
}

// RecordAnomaly counts a flagged metric.
func RecordAnomaly(metric string) {
	globalManager.anomalies.WithLabelValues(metric).Inc()
}

// RecordSourceFetch records snapshot fetch latency for a data source.
func RecordSourceFetch(source string, latencyMs float64) {
	globalManager.sourceFetchLatency.WithLabelValues(source).Observe(latencyMs)
}

// RecordRejectedRecords adds records a data source could not fully parse.
func RecordRejectedRecords(source string, n int) {
	globalManager.rejectedRecords.WithLabelValues(source).Add(float64(n))
}

// Fit scoring metrics.

// RecordFitScore counts a computed fit score and its latency.
func RecordFitScore(provenance string, latencyMs float64) {
	globalManager.fitScores.WithLabelValues(provenance).Inc()
	globalManager.fitScoreLatency.Observe(latencyMs)
}

// RecordScorerError counts a remote scorer failure.
func RecordScorerError() {
	globalManager.scorerErrors.Inc()
}

// Queue, worker and store metrics.

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) { globalManager.queueSize.Set(float64(size)) }

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) { globalManager.queueCapacity.Set(float64(capacity)) }

// RecordQueueEnqueue counts an accepted job.
func RecordQueueEnqueue() { globalManager.queueEnqueued.Inc() }

// RecordQueueRejected counts a rejected job.
func RecordQueueRejected(reason string) {
	globalManager.queueRejected.WithLabelValues(reason).Inc()
}

// UpdateWorkerCount sets the number of workers.
func UpdateWorkerCount(count int) { globalManager.workerCount.Set(float64(count)) }

// WorkerBusy adjusts the busy worker gauge by delta.
func WorkerBusy(delta int) { globalManager.workerBusy.Add(float64(delta)) }

// RecordDuplicateReport counts an ignored duplicate submission.
func RecordDuplicateReport() { globalManager.duplicateReports.Inc() }

// UpdateStoredReports sets the number of stored report jobs.
func UpdateStoredReports(count int) { globalManager.storedReports.Set(float64(count)) }

// HTTP metrics.

// RecordHTTPRequest records an HTTP request and its duration.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordHTTPError records an error response.
func RecordHTTPError(endpoint, method, errorType string) {
	globalManager.httpErrors.WithLabelValues(endpoint, method, errorType).Inc()
}

// System metrics.

// UpdateSystemMemoryUsage sets the heap bytes allocated.
func UpdateSystemMemoryUsage(bytes uint64) { globalManager.systemMemoryUsage.Set(float64(bytes)) }

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) { globalManager.systemGoroutineCount.Set(float64(count)) }

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) { globalManager.systemGCPauseTime.Observe(pauseMs) }

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
