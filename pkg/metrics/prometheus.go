// Package metrics provides Prometheus metrics for the muster service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the muster service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Pipeline metrics
	documentsProcessed prometheus.Counter
	recordsSkipped     prometheus.Counter
	unknownUnits       prometheus.Counter
	membershipsTotal   prometheus.Gauge
	runDuration        prometheus.Histogram
	lastRunUnix        prometheus.Gauge
	runsTotal          prometheus.Counter
	emptyRuns          prometheus.Counter

	// Acquisition metrics
	fetchSuccess   prometheus.Counter
	fetchFailures  prometheus.Counter
	fetchLatency   prometheus.Histogram
	membersDeduped prometheus.Counter

	// Queue metrics
	queueSize        prometheus.Gauge
	queueCapacity    prometheus.Gauge
	queueUtilization prometheus.Gauge
	queueEnqueues    prometheus.Counter
	queueDequeues    prometheus.Counter
	queueEnqueueErrs prometheus.Counter

	// Worker metrics
	workerCount       prometheus.Gauge
	workerFoldLatency prometheus.Histogram
	workerErrors      prometheus.Counter

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "muster",
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

	m.documentsProcessed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "documents_processed_total",
		Help: "Member documents folded into membership intervals",
	})
	m.recordsSkipped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "records_skipped_total",
		Help: "Raw records dropped for bad dates or missing fields",
	})
	m.unknownUnits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "unknown_unit_intervals_total",
		Help: "Membership intervals whose unit designator has no known level",
	})
	m.membershipsTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "memberships",
		Help: "Membership intervals in the latest published run",
	})
	m.runDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "run_duration_seconds",
		Help:    "Wall time of a full analysis run",
		Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
	})
	m.lastRunUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "last_run_timestamp_seconds",
		Help: "Unix time the latest run was published",
	})
	m.runsTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "runs_total",
		Help: "Completed analysis runs",
	})
	m.emptyRuns = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "empty_runs_total",
		Help: "Runs where the population yielded zero memberships",
	})

	m.fetchSuccess = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "fetch",
		Name: "success_total",
		Help: "Profile fetches that returned a document",
	})
	m.fetchFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "fetch",
		Name: "failures_total",
		Help: "Profile fetches that failed or returned no record",
	})
	m.fetchLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: "fetch",
		Name:    "latency_milliseconds",
		Help:    "Profile fetch latency in milliseconds",
		Buckets: []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	})
	m.membersDeduped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "fetch",
		Name: "members_deduplicated_total",
		Help: "Member IDs seen again on a later roster and skipped",
	})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: "queue",
		Name: "size",
		Help: "Documents currently queued",
	})
	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: "queue",
		Name: "capacity",
		Help: "Configured queue capacity",
	})
	m.queueUtilization = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: "queue",
		Name: "utilization",
		Help: "Queue fill ratio in [0,1]",
	})
	m.queueEnqueues = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "queue",
		Name: "enqueues_total",
		Help: "Documents enqueued",
	})
	m.queueDequeues = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "queue",
		Name: "dequeues_total",
		Help: "Documents dequeued",
	})
	m.queueEnqueueErrs = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "queue",
		Name: "enqueue_errors_total",
		Help: "Enqueue attempts rejected (full, closed or canceled)",
	})

	m.workerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: "worker",
		Name: "count",
		Help: "Workers in the fold pool",
	})
	m.workerFoldLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: "worker",
		Name:    "fold_latency_milliseconds",
		Help:    "Per-document extract+fold latency in milliseconds",
		Buckets: m.histogramBuckets,
	})
	m.workerErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "worker",
		Name: "errors_total",
		Help: "Documents the workers failed to process",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "http",
		Name: "requests_total",
		Help: "HTTP requests by endpoint, method and status",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: "http",
		Name:    "request_duration_milliseconds",
		Help:    "HTTP request duration by endpoint, method and status",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})
}

// RecordDocumentProcessed increments the processed-documents counter.
func RecordDocumentProcessed() { globalManager.documentsProcessed.Inc() }

// RecordRecordsSkipped adds n to the skipped-records counter.
func RecordRecordsSkipped(n int) { globalManager.recordsSkipped.Add(float64(n)) }

// RecordUnknownUnitInterval increments the unknown-unit interval counter.
func RecordUnknownUnitInterval() { globalManager.unknownUnits.Inc() }

// UpdateMemberships sets the published membership count.
func UpdateMemberships(n int) { globalManager.membershipsTotal.Set(float64(n)) }

// RecordRunDuration records the wall time of a run in seconds.
func RecordRunDuration(seconds float64) { globalManager.runDuration.Observe(seconds) }

// UpdateLastRunUnix sets the publish time of the latest run.
func UpdateLastRunUnix(unix float64) { globalManager.lastRunUnix.Set(unix) }

// RecordRun increments the completed-runs counter.
func RecordRun() { globalManager.runsTotal.Inc() }

// RecordEmptyRun increments the empty-runs counter.
func RecordEmptyRun() { globalManager.emptyRuns.Inc() }

// RecordFetchSuccess increments the fetch-success counter.
func RecordFetchSuccess() { globalManager.fetchSuccess.Inc() }

// RecordFetchFailure increments the fetch-failure counter.
func RecordFetchFailure() { globalManager.fetchFailures.Inc() }

// RecordFetchLatency records profile fetch latency in milliseconds.
func RecordFetchLatency(latencyMs float64) { globalManager.fetchLatency.Observe(latencyMs) }

// RecordMemberDeduplicated increments the deduplicated-members counter.
func RecordMemberDeduplicated() { globalManager.membersDeduped.Inc() }

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) { globalManager.queueSize.Set(float64(size)) }

// UpdateQueueCapacity sets the configured queue capacity.
func UpdateQueueCapacity(capacity int) { globalManager.queueCapacity.Set(float64(capacity)) }

// UpdateQueueUtilization sets the queue fill ratio.
func UpdateQueueUtilization(u float64) { globalManager.queueUtilization.Set(u) }

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() { globalManager.queueEnqueues.Inc() }

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() { globalManager.queueDequeues.Inc() }

// RecordQueueEnqueueError increments the rejected-enqueue counter.
func RecordQueueEnqueueError() { globalManager.queueEnqueueErrs.Inc() }

// UpdateWorkerCount sets the worker pool size.
func UpdateWorkerCount(count int) { globalManager.workerCount.Set(float64(count)) }

// RecordWorkerFoldLatency records per-document fold latency in milliseconds.
func RecordWorkerFoldLatency(latencyMs float64) { globalManager.workerFoldLatency.Observe(latencyMs) }

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() { globalManager.workerErrors.Inc() }

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, status string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(durationMs)
}

// GetRegistry returns the custom registry for the /metrics handler.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
