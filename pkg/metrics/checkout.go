package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records payment protocol outcomes.
type CheckoutMetrics struct {
	duration *prometheus.HistogramVec
	outcomes *prometheus.CounterVec
	blocked  prometheus.Counter
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_phase_duration_seconds",
		Help:    "Duration of checkout protocol phases in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"phase"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_outcomes_total",
		Help: "Checkout attempts by terminal outcome.",
	}, []string{"outcome"})
	blocked := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_attempts_blocked_total",
		Help: "Checkout attempts rejected by the consecutive-failure guard.",
	})
	reg.MustRegister(duration, outcomes, blocked)
	return &CheckoutMetrics{
		duration: duration,
		outcomes: outcomes,
		blocked:  blocked,
	}
}

// ObservePhase records the duration of a protocol phase.
func (c *CheckoutMetrics) ObservePhase(phase string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(phase)).Observe(duration.Seconds())
}

// IncOutcome increments the counter for a terminal outcome.
func (c *CheckoutMetrics) IncOutcome(outcome string) {
	if c == nil || c.outcomes == nil {
		return
	}
	c.outcomes.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncBlocked counts an attempt rejected by the retry guard.
func (c *CheckoutMetrics) IncBlocked() {
	if c == nil || c.blocked == nil {
		return
	}
	c.blocked.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
