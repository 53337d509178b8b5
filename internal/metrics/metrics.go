package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every Credence collector on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	runsTotal     *prometheus.CounterVec
	failuresTotal *prometheus.CounterVec
	runDuration   *prometheus.HistogramVec
	stageDuration *prometheus.HistogramVec
	runsInFlight  prometheus.Gauge
	historySize   prometheus.Gauge
	feedbackTotal *prometheus.CounterVec
	exportsTotal  prometheus.Counter

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New creates and registers all collectors
func New() *Metrics {
	registry := prometheus.NewRegistry()

	runsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "credence",
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Completed analysis runs.",
		},
		[]string{"type", "credibility"},
	)
	failuresTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "credence",
			Subsystem: "pipeline",
			Name:      "failures_total",
			Help:      "Analysis runs that did not complete.",
		},
		[]string{"type", "reason"},
	)
	runDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "credence",
			Subsystem: "pipeline",
			Name:      "run_duration_seconds",
			Help:      "Wall time of a complete analysis run.",
			Buckets:   []float64{0.01, 0.1, 1, 2.5, 4, 5, 6, 8, 15, 30},
		},
		[]string{"type"},
	)
	stageDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "credence",
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Time spent in each pipeline stage.",
			Buckets:   []float64{0.001, 0.1, 0.5, 0.6, 0.7, 0.8, 0.9, 1, 5},
		},
		[]string{"stage"},
	)
	runsInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "credence",
			Subsystem: "pipeline",
			Name:      "runs_in_flight",
			Help:      "Analysis runs currently executing.",
		},
	)
	historySize := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "credence",
			Subsystem: "history",
			Name:      "entries",
			Help:      "Analyses held in session history.",
		},
	)
	feedbackTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "credence",
			Subsystem: "session",
			Name:      "feedback_total",
			Help:      "Feedback submissions by kind.",
		},
		[]string{"kind"},
	)
	exportsTotal := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "credence",
			Subsystem: "export",
			Name:      "reports_total",
			Help:      "Exported analysis reports.",
		},
	)
	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "credence",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "credence",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	registry.MustRegister(
		runsTotal,
		failuresTotal,
		runDuration,
		stageDuration,
		runsInFlight,
		historySize,
		feedbackTotal,
		exportsTotal,
		requestTotal,
		requestDuration,
	)

	return &Metrics{
		registry:        registry,
		runsTotal:       runsTotal,
		failuresTotal:   failuresTotal,
		runDuration:     runDuration,
		stageDuration:   stageDuration,
		runsInFlight:    runsInFlight,
		historySize:     historySize,
		feedbackTotal:   feedbackTotal,
		exportsTotal:    exportsTotal,
		requestTotal:    requestTotal,
		requestDuration: requestDuration,
	}
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) StartRun() {
	if m == nil {
		return
	}
	m.runsInFlight.Inc()
}

// FinishRun records a run outcome. reason is empty on success.
func (m *Metrics) FinishRun(contentType, credibility, reason string, duration time.Duration) {
	if m == nil {
		return
	}
	m.runsInFlight.Dec()
	if reason != "" {
		m.failuresTotal.WithLabelValues(contentType, reason).Inc()
		return
	}
	m.runsTotal.WithLabelValues(contentType, credibility).Inc()
	m.runDuration.WithLabelValues(contentType).Observe(duration.Seconds())
}

// RejectRun counts a run refused before it started
func (m *Metrics) RejectRun(contentType, reason string) {
	if m == nil {
		return
	}
	m.failuresTotal.WithLabelValues(contentType, reason).Inc()
}

func (m *Metrics) ObserveStage(stage string, duration time.Duration) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

func (m *Metrics) SetHistorySize(n int) {
	if m == nil {
		return
	}
	m.historySize.Set(float64(n))
}

// RecordFeedback counts one submission; kinds outside the known set share the "other" series
func (m *Metrics) RecordFeedback(kind string) {
	if m == nil {
		return
	}
	m.feedbackTotal.WithLabelValues(feedbackLabel(kind)).Inc()
}

func feedbackLabel(kind string) string {
	switch k := strings.ToLower(strings.TrimSpace(kind)); k {
	case "accurate", "inaccurate":
		return k
	default:
		return "other"
	}
}

func (m *Metrics) RecordExport() {
	if m == nil {
		return
	}
	m.exportsTotal.Inc()
}

// ObserveRequest records one HTTP request; path should be the route template
func (m *Metrics) ObserveRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}
