// Package metrics exposes Prometheus instrumentation for the API and the catalog client.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Catalog call outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeTimeout = "timeout"
)

var (
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moodtunes_api_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "moodtunes_api_active_requests",
			Help: "Number of HTTP requests currently being served",
		},
	)

	CatalogCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodtunes_catalog_calls_total",
			Help: "Catalog calls by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	CatalogCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moodtunes_catalog_call_duration_seconds",
			Help:    "Duration of catalog calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	CatalogBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "moodtunes_catalog_breaker_state",
			Help: "Catalog circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	RecommendedSongs = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "moodtunes_recommended_songs",
			Help:    "Number of songs returned per recommendation",
			Buckets: []float64{0, 1, 2, 5, 8, 10},
		},
	)
)

// RecordAPIRequest records one served HTTP request.
func RecordAPIRequest(method, route, status string, duration time.Duration) {
	APIRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight gauge.
func TrackActiveRequest(start bool) {
	if start {
		APIActiveRequests.Inc()
		return
	}
	APIActiveRequests.Dec()
}

// RecordCatalogCall records one catalog call outcome and its duration.
func RecordCatalogCall(operation, outcome string, duration time.Duration) {
	CatalogCalls.WithLabelValues(operation, outcome).Inc()
	CatalogCallDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
