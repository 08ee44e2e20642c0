package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPurchaseMetricsRecordsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPurchaseMetrics(reg)

	m.IncAccepted()
	m.IncAccepted()
	m.IncRejected("limit_exceeded")
	m.IncRejected("")
	m.ObserveDuration("accepted", 120*time.Millisecond)

	if got := testutil.ToFloat64(m.accepted); got != 2 {
		t.Fatalf("expected 2 accepted, got %v", got)
	}
	if got := testutil.ToFloat64(m.rejected.WithLabelValues("limit_exceeded")); got != 1 {
		t.Fatalf("expected 1 limit_exceeded rejection, got %v", got)
	}
	if got := testutil.ToFloat64(m.rejected.WithLabelValues("unknown")); got != 1 {
		t.Fatalf("expected empty reason to normalize to unknown, got %v", got)
	}
}

func TestPurchaseMetricsNilSafe(t *testing.T) {
	var m *PurchaseMetrics
	m.IncAccepted()
	m.IncRejected("limit_exceeded")
	m.ObserveDuration("accepted", time.Second)

	empty := NewPurchaseMetrics(nil)
	empty.IncAccepted()
	empty.ObserveDuration("rejected", time.Second)
}
