package collector

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for a collection run.
type Metrics struct {
	Registry           *prometheus.Registry
	RequestsTotal      *prometheus.CounterVec
	RequestDuration    prometheus.Histogram
	AppsCollectedTotal prometheus.Counter
	DuplicatesTotal    prometheus.Counter
	ErrorsTotal        *prometheus.CounterVec
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collector_requests_total",
			Help: "Total search requests issued, by query kind (term, genre, term_genre).",
		},
		[]string{"kind"},
	)
	requestDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "collector_request_duration_seconds",
			Help:    "Search request latency.",
			Buckets: prometheus.DefBuckets,
		},
	)
	appsCollected := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "collector_apps_collected_total",
			Help: "Total unique apps retained in the collection.",
		},
	)
	duplicates := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "collector_duplicates_total",
			Help: "Total records discarded as duplicates or invalid.",
		},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collector_errors_total",
			Help: "Total request failures by type.",
		},
		[]string{"error_type"},
	)

	registry.MustRegister(requests, requestDuration, appsCollected, duplicates, errorsTotal)

	return &Metrics{
		Registry:           registry,
		RequestsTotal:      requests,
		RequestDuration:    requestDuration,
		AppsCollectedTotal: appsCollected,
		DuplicatesTotal:    duplicates,
		ErrorsTotal:        errorsTotal,
	}
}

// IncRequest increments the requests total counter for a query kind.
func (m *Metrics) IncRequest(kind string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(kind).Inc()
}

// ObserveDuration records a request duration.
func (m *Metrics) ObserveDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.Observe(d.Seconds())
}

// IncApps increments the retained apps counter.
func (m *Metrics) IncApps() {
	if m == nil {
		return
	}
	m.AppsCollectedTotal.Inc()
}

// IncDuplicate increments the discarded records counter.
func (m *Metrics) IncDuplicate() {
	if m == nil {
		return
	}
	m.DuplicatesTotal.Inc()
}

// IncError increments the errors counter for a type label.
func (m *Metrics) IncError(errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}
