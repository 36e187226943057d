package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewLeadMetricsRegisters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLeadMetrics(reg)
	if m == nil {
		t.Fatal("expected metrics")
	}

	m.ObserveSubmission("accepted", 0.05)
	m.ObserveSubmission("rejected", 0.01)
	m.ObserveNotification("sent")

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(families) != 3 {
		t.Fatalf("expected 3 metric families, got %d", len(families))
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *LeadMetrics
	m.ObserveSubmission("accepted", 0.1)
	m.ObserveNotification("skipped")
}
