package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the Prometheus collectors exposed on /metrics.
type Metrics struct {
	requestCount        *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	errorCount          *prometheus.CounterVec
	ingestCount         *prometheus.CounterVec
	classifierFallbacks prometheus.Counter
}

// NewMetrics registers collectors on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requestCount: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by path, method and status code.",
		}, []string{"path", "method", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"path", "method"}),
		errorCount: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Request errors by path, method and domain error code.",
		}, []string{"path", "method", "code"}),
		ingestCount: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "report_ingest_total",
			Help: "Report submissions by outcome (created or duplicate).",
		}, []string{"result"}),
		classifierFallbacks: factory.NewCounter(prometheus.CounterOpts{
			Name: "classifier_fallback_total",
			Help: "Classifications replaced by the deterministic fallback.",
		}),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestCount.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(path, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errorCount.WithLabelValues(path, method, code).Inc()
}

// RecordIngest increments the submission outcome counter.
func (m *Metrics) RecordIngest(duplicate bool) {
	if m == nil {
		return
	}
	result := "created"
	if duplicate {
		result = "duplicate"
	}
	m.ingestCount.WithLabelValues(result).Inc()
}

// RecordClassifierFallback counts a substituted fallback classification.
func (m *Metrics) RecordClassifierFallback() {
	if m == nil {
		return
	}
	m.classifierFallbacks.Inc()
}
