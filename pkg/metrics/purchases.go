package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PurchaseMetrics records outcomes of purchase eligibility checks.
type PurchaseMetrics struct {
	duration *prometheus.HistogramVec
	accepted prometheus.Counter
	rejected *prometheus.CounterVec
}

// NewPurchaseMetrics registers the purchase metrics on the provided registerer.
func NewPurchaseMetrics(reg prometheus.Registerer) *PurchaseMetrics {
	if reg == nil {
		return &PurchaseMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "purchase_process_duration_seconds",
		Help:    "Duration of purchase processing transactions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	accepted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "purchase_accepted_total",
		Help: "Purchases that passed the eligibility check.",
	})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "purchase_rejected_total",
		Help: "Purchases rejected, labelled with the rejection reason.",
	}, []string{"reason"})
	reg.MustRegister(duration, accepted, rejected)
	return &PurchaseMetrics{
		duration: duration,
		accepted: accepted,
		rejected: rejected,
	}
}

// ObserveDuration records how long a purchase transaction took.
func (p *PurchaseMetrics) ObserveDuration(outcome string, duration time.Duration) {
	if p == nil || p.duration == nil {
		return
	}
	p.duration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}

// IncAccepted increments the accepted purchase counter.
func (p *PurchaseMetrics) IncAccepted() {
	if p == nil || p.accepted == nil {
		return
	}
	p.accepted.Inc()
}

// IncRejected increments the rejection counter for the given reason.
func (p *PurchaseMetrics) IncRejected(reason string) {
	if p == nil || p.rejected == nil {
		return
	}
	p.rejected.WithLabelValues(normalizeLabel(reason)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
