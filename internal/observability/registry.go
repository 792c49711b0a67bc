package observability

import "time"

// MetricsRegistry provides an interface for recording application metrics.
// Components receive it by injection instead of touching the global
// Prometheus collectors directly, which keeps them testable.
type MetricsRegistry interface {
	// HTTP request metrics
	IncrementRequests(endpoint, method, status string)
	RecordRequestLatency(endpoint, method string, duration time.Duration)

	// Slot serving metrics
	IncrementSlotsServed(placement string)
	IncrementSentinelServed()

	// Engagement telemetry metrics
	IncrementEvent(eventType string)
	IncrementEventDrops(eventType string)

	// Interstitial gate metrics
	IncrementGateDecision(state string)
}

// PrometheusRegistry implements MetricsRegistry on the package collectors.
type PrometheusRegistry struct{}

// NewPrometheusRegistry creates a new PrometheusRegistry.
func NewPrometheusRegistry() *PrometheusRegistry {
	return &PrometheusRegistry{}
}

func (r *PrometheusRegistry) IncrementRequests(endpoint, method, status string) {
	RequestCount.WithLabelValues(endpoint, method, status).Inc()
}

func (r *PrometheusRegistry) RecordRequestLatency(endpoint, method string, duration time.Duration) {
	RequestLatency.WithLabelValues(endpoint, method).Observe(duration.Seconds())
}

func (r *PrometheusRegistry) IncrementSlotsServed(placement string) {
	SlotsServed.WithLabelValues(placement).Inc()
}

func (r *PrometheusRegistry) IncrementSentinelServed() {
	SentinelServed.Inc()
}

func (r *PrometheusRegistry) IncrementEvent(eventType string) {
	EventCount.WithLabelValues(eventType).Inc()
}

func (r *PrometheusRegistry) IncrementEventDrops(eventType string) {
	EventDropCount.WithLabelValues(eventType).Inc()
}

func (r *PrometheusRegistry) IncrementGateDecision(state string) {
	GateDecisions.WithLabelValues(state).Inc()
}

// NoOpRegistry implements MetricsRegistry with no-op methods for testing.
type NoOpRegistry struct{}

// NewNoOpRegistry creates a new NoOpRegistry.
func NewNoOpRegistry() *NoOpRegistry {
	return &NoOpRegistry{}
}

func (r *NoOpRegistry) IncrementRequests(endpoint, method, status string)                    {}
func (r *NoOpRegistry) RecordRequestLatency(endpoint, method string, duration time.Duration) {}
func (r *NoOpRegistry) IncrementSlotsServed(placement string)                                {}
func (r *NoOpRegistry) IncrementSentinelServed()                                             {}
func (r *NoOpRegistry) IncrementEvent(eventType string)                                      {}
func (r *NoOpRegistry) IncrementEventDrops(eventType string)                                 {}
func (r *NoOpRegistry) IncrementGateDecision(state string)                                   {}
