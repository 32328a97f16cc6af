package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce           sync.Once
	analyticsRequestsTotal *prometheus.CounterVec
	analyticsLatency       *prometheus.HistogramVec
	analyticsErrorsTotal   *prometheus.CounterVec
	docstoreOpsTotal       *prometheus.CounterVec
	docstoreOpLatency      *prometheus.HistogramVec
	docstoreBackend        *prometheus.GaugeVec
	eventsPublishedTotal   *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the analytics API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		analyticsRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "analytics_requests_total",
			Help: "Total number of analytics API requests served.",
		}, []string{"method", "route", "status"})

		analyticsLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "analytics_latency_seconds",
			Help:    "Latency distribution for analytics API requests.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		analyticsErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "analytics_errors_total",
			Help: "Total number of error responses returned by analytics endpoints.",
		}, []string{"method", "route", "status"})

		docstoreOpsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "docstore_operations_total",
			Help: "Document store operations by backend, collection, operation and outcome.",
		}, []string{"backend", "collection", "operation", "outcome"})

		docstoreOpLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "docstore_operation_seconds",
			Help:    "Latency distribution for document store operations.",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.5, 1.0},
		}, []string{"backend", "collection", "operation"})

		docstoreBackend = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "docstore_backend_selected",
			Help: "Set to 1 for the document store backend selected at startup.",
		}, []string{"backend"})

		eventsPublishedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "analytics_events_published_total",
			Help: "Analytics events forwarded to the message broker.",
		}, []string{"subject", "outcome"})

		prometheus.MustRegister(
			analyticsRequestsTotal,
			analyticsLatency,
			analyticsErrorsTotal,
			docstoreOpsTotal,
			docstoreOpLatency,
			docstoreBackend,
			eventsPublishedTotal,
		)
	})
}

// AnalyticsRequests exposes the counter for analytics requests.
func AnalyticsRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return analyticsRequestsTotal
}

// AnalyticsLatency exposes the latency histogram for analytics requests.
func AnalyticsLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return analyticsLatency
}

// AnalyticsErrors exposes the counter for analytics error responses.
func AnalyticsErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return analyticsErrorsTotal
}

// DocstoreOperations exposes the document store operation counter.
func DocstoreOperations() *prometheus.CounterVec {
	RegisterMetrics()
	return docstoreOpsTotal
}

// DocstoreLatency exposes the document store latency histogram.
func DocstoreLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return docstoreOpLatency
}

// DocstoreBackend exposes the selected-backend gauge.
func DocstoreBackend() *prometheus.GaugeVec {
	RegisterMetrics()
	return docstoreBackend
}

// EventsPublished exposes the broker publish counter.
func EventsPublished() *prometheus.CounterVec {
	RegisterMetrics()
	return eventsPublishedTotal
}
