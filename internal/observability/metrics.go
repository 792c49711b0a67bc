package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// total requests per endpoint, method and status code
	RequestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slotserve_requests_total",
			Help: "Total API requests received",
		},
		[]string{"endpoint", "method", "status"},
	)

	// request latency in seconds per endpoint/method
	RequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "slotserve_request_duration_seconds",
			Help:    "Histogram of request latencies",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method"},
	)

	// slots served, labelled by placement
	SlotsServed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slotserve_slots_served_total",
			Help: "Total slot instances served an ad",
		},
		[]string{"placement"},
	)

	// slots that fell back to the built-in house ad
	SentinelServed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "slotserve_sentinel_served_total",
			Help: "Total slot instances served the sentinel ad",
		},
	)

	// engagement events emitted toward the backend, labelled by type
	EventCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slotserve_events_total",
			Help: "Total engagement events emitted",
		},
		[]string{"type"},
	)

	// engagement events dropped on backend failure, labelled by type
	EventDropCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slotserve_events_dropped_total",
			Help: "Total engagement events dropped on emission failure",
		},
		[]string{"type"},
	)

	// interstitial gate decisions, labelled by outcome
	GateDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slotserve_gate_decisions_total",
			Help: "Total interstitial frequency gate decisions",
		},
		[]string{"state"},
	)
)

// MustRegister registers all collectors with the default Prometheus registry.
// Call once from main before serving /metrics.
func MustRegister() {
	prometheus.MustRegister(
		RequestCount,
		RequestLatency,
		SlotsServed,
		SentinelServed,
		EventCount,
		EventDropCount,
		GateDecisions,
	)
}
