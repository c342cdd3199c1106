// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ProvidersGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telemed_providers_generated_total",
			Help: "Total number of synthetic provider records generated",
		},
		[]string{"region"},
	)

	TriageAssessments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telemed_triage_assessments_total",
			Help: "Total number of triage assessments by outcome",
		},
		[]string{"category", "urgency"},
	)

	Bookings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telemed_bookings_total",
			Help: "Total number of booking attempts by outcome",
		},
		[]string{"outcome"},
	)

	Consultations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telemed_consultations_total",
			Help: "Total number of consultation sessions by event",
		},
		[]string{"event"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "telemed_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "telemed_http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		},
	)
)

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
