package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deadstock_analyses_total",
			Help: "Product analyses by outcome",
		},
		[]string{"outcome"}, // "ok", "degraded", "invalid", "failed"
	)

	StageFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deadstock_stage_fallbacks_total",
			Help: "Pipeline stages that were replaced by their static fallback",
		},
		[]string{"stage"},
	)

	NarrativeOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deadstock_narrative_outcomes_total",
			Help: "Discount narrative collaborator outcomes",
		},
		[]string{"outcome"}, // "ok", "error", "rejected", "unparsable"
	)

	NarrativeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "deadstock_narrative_duration_seconds",
			Help:    "Latency of discount narrative calls",
			Buckets: prometheus.DefBuckets,
		},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "deadstock_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "deadstock_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// ObserveHTTP records one finished request.
func ObserveHTTP(method, route string, status int, started time.Time) {
	HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(time.Since(started).Seconds())
}
