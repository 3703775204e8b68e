// Package metrics provides Prometheus metrics for the pickgate engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Scoring
	scoresTotal          *prometheus.CounterVec
	scoringErrors        *prometheus.CounterVec
	scoringLatency       prometheus.Histogram
	scoreConfidence      *prometheus.HistogramVec
	componentUnavailable *prometheus.CounterVec
	riskFlags            *prometheus.CounterVec

	// Eligibility
	eligibilityTotal *prometheus.CounterVec
	checkFailures    *prometheus.CounterVec

	// Composer
	contractsComposed    *prometheus.CounterVec
	contractCompleteness prometheus.Histogram

	// Backtest
	backtestRuns     *prometheus.CounterVec
	backtestRows     *prometheus.CounterVec
	backtestDuration prometheus.Histogram
	backtestHitRate  *prometheus.GaugeVec
	backtestROI      *prometheus.GaugeVec
	backtestCalError *prometheus.GaugeVec

	// Worker pool
	workerActive      prometheus.Gauge
	workerTasks       prometheus.Counter
	workerTaskErrors  prometheus.Counter
	workerTaskLatency prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	errorsByComponent *prometheus.CounterVec

	// System
	systemMemory     prometheus.Gauge
	systemGoroutines prometheus.Gauge
	systemGCPause    prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "pickgate",
		subsystem:        "engine",
		histogramBuckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
	}, labels)
}

func (m *Manager) gaugeVec(name, help string, labels ...string) *prometheus.GaugeVec {
	return promauto.With(m.registry).NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
	}, labels)
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	})
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.scoresTotal = m.counterVec("scores_total", "Scoring results produced, by market and pick", "market", "pick")
	m.scoringErrors = m.counterVec("scoring_errors_total", "Scoring calls that aborted, by market and kind", "market", "kind")
	m.scoringLatency = m.histogram("scoring_latency_milliseconds", "Time to score one contract for one market", m.histogramBuckets)
	m.scoreConfidence = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "score_confidence",
		Help:      "Distribution of confidence scores, by market",
		Buckets:   prometheus.LinearBuckets(0, 10, 11),
	}, []string{"market"})
	m.componentUnavailable = m.counterVec("component_unavailable_total",
		"Model components that could not be evaluated", "market", "component")
	m.riskFlags = m.counterVec("risk_flags_total", "Risk flags attached to results", "flag", "severity")

	m.eligibilityTotal = m.counterVec("eligibility_total", "Publish gate verdicts, by market", "market", "verdict")
	m.checkFailures = m.counterVec("eligibility_check_failures_total", "Publish gate check failures", "check")

	m.contractsComposed = m.counterVec("contracts_composed_total",
		"Feature contracts built, by source and link method", "source", "link_method")
	m.contractCompleteness = m.histogram("contract_completeness_ratio",
		"Completeness ratio of composed contracts", prometheus.LinearBuckets(0, 0.1, 11))

	m.backtestRuns = m.counterVec("backtest_runs_total", "Backtest runs, by market and validation outcome", "market", "validation")
	m.backtestRows = m.counterVec("backtest_rows_total", "Historical rows processed, by market and status", "market", "status")
	m.backtestDuration = m.histogram("backtest_duration_seconds", "Wall time of one backtest run", prometheus.DefBuckets)
	m.backtestHitRate = m.gaugeVec("backtest_hit_rate", "Hit rate of the last backtest, by market", "market")
	m.backtestROI = m.gaugeVec("backtest_roi", "ROI of the last backtest, by market", "market")
	m.backtestCalError = m.gaugeVec("backtest_calibration_error", "Calibration error of the last backtest, by market", "market")

	m.workerActive = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_active",
		Help:      "Tasks currently running in the worker pool",
	})
	m.workerTasks = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_tasks_total",
		Help:      "Tasks executed by the worker pool",
	})
	m.workerTaskErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_task_errors_total",
		Help:      "Tasks that returned an error",
	})
	m.workerTaskLatency = m.histogram("worker_task_latency_milliseconds", "Worker task latency", m.histogramBuckets)

	m.httpRequests = m.counterVec("http_requests_total", "Total number of HTTP requests", "endpoint", "method", "status_code")
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByComponent = m.counterVec("errors_by_component_total", "Errors by component and type", "component", "error_type")

	m.systemMemory = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "memory_alloc_bytes",
		Help:      "Bytes of allocated heap objects",
	})
	m.systemGoroutines = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "goroutines",
		Help:      "Number of goroutines",
	})
	m.systemGCPause = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "gc_pause_avg_milliseconds",
		Help:      "Average GC pause time",
	})
}

// RecordScore counts a produced result and observes its confidence.
func RecordScore(market, pick string, confidence int) {
	globalManager.scoresTotal.WithLabelValues(market, pick).Inc()
	globalManager.scoreConfidence.WithLabelValues(market).Observe(float64(confidence))
}

// RecordScoringError counts an aborted scoring call.
func RecordScoringError(market, kind string) {
	globalManager.scoringErrors.WithLabelValues(market, kind).Inc()
}

// RecordScoringLatency records scoring latency in milliseconds.
func RecordScoringLatency(latencyMs float64) {
	globalManager.scoringLatency.Observe(latencyMs)
}

// RecordComponentUnavailable counts a component that could not be evaluated.
func RecordComponentUnavailable(market, component string) {
	globalManager.componentUnavailable.WithLabelValues(market, component).Inc()
}

// RecordRiskFlag counts an attached risk flag.
func RecordRiskFlag(flag, severity string) {
	globalManager.riskFlags.WithLabelValues(flag, severity).Inc()
}

// RecordEligibility counts a gate verdict.
func RecordEligibility(market string, canPublish bool) {
	verdict := "blocked"
	if canPublish {
		verdict = "publishable"
	}
	globalManager.eligibilityTotal.WithLabelValues(market, verdict).Inc()
}

// RecordCheckFailure counts a failed gate check.
func RecordCheckFailure(check string) {
	globalManager.checkFailures.WithLabelValues(check).Inc()
}

// RecordContractComposed counts a composed contract.
func RecordContractComposed(source, linkMethod string, completeness float64) {
	globalManager.contractsComposed.WithLabelValues(source, linkMethod).Inc()
	globalManager.contractCompleteness.Observe(completeness)
}

// RecordBacktestRun records the outcome of one backtest run.
func RecordBacktestRun(market string, passed bool, seconds, hitRate, roi, calibrationError float64) {
	validation := "failed"
	if passed {
		validation = "passed"
	}
	globalManager.backtestRuns.WithLabelValues(market, validation).Inc()
	globalManager.backtestDuration.Observe(seconds)
	globalManager.backtestHitRate.WithLabelValues(market).Set(hitRate)
	globalManager.backtestROI.WithLabelValues(market).Set(roi)
	globalManager.backtestCalError.WithLabelValues(market).Set(calibrationError)
}

// RecordBacktestRows adds n rows with the given status.
func RecordBacktestRows(market, status string, n int) {
	globalManager.backtestRows.WithLabelValues(market, status).Add(float64(n))
}

// AddWorkerActive adjusts the running task gauge.
func AddWorkerActive(delta int) {
	globalManager.workerActive.Add(float64(delta))
}

// RecordWorkerTask records one finished task.
func RecordWorkerTask(latencyMs float64, failed bool) {
	globalManager.workerTasks.Inc()
	globalManager.workerTaskLatency.Observe(latencyMs)
	if failed {
		globalManager.workerTaskErrors.Inc()
	}
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateSystemMetrics sets the runtime gauges.
func UpdateSystemMetrics(allocBytes uint64, goroutines int, avgGCPauseMs float64) {
	globalManager.systemMemory.Set(float64(allocBytes))
	globalManager.systemGoroutines.Set(float64(goroutines))
	globalManager.systemGCPause.Set(avgGCPauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
