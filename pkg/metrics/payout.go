package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PayoutMetrics tracks payout lifecycle outcomes.
type PayoutMetrics struct {
	outcomes        *prometheus.CounterVec
	providerLatency prometheus.Histogram
}

// NewPayoutMetrics registers the payout metrics on the provided registerer.
func NewPayoutMetrics(reg prometheus.Registerer) *PayoutMetrics {
	if reg == nil {
		return &PayoutMetrics{}
	}
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payout_outcomes_total",
		Help: "Payout attempts by terminal outcome.",
	}, []string{"outcome"})
	providerLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "payout_provider_latency_seconds",
		Help:    "Latency of payout provider API calls.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(outcomes, providerLatency)
	return &PayoutMetrics{
		outcomes:        outcomes,
		providerLatency: providerLatency,
	}
}

// IncOutcome increments the counter for a terminal payout outcome.
func (p *PayoutMetrics) IncOutcome(outcome string) {
	if p == nil || p.outcomes == nil {
		return
	}
	if outcome == "" {
		outcome = "unknown"
	}
	p.outcomes.WithLabelValues(outcome).Inc()
}

// ObserveProviderLatency records one provider round trip.
func (p *PayoutMetrics) ObserveProviderLatency(duration time.Duration) {
	if p == nil || p.providerLatency == nil {
		return
	}
	p.providerLatency.Observe(duration.Seconds())
}
