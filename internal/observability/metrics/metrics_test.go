package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestLeadMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLeadMetrics(reg)
	m.ObserveSubmission("demo", "accepted")
	m.ObserveSubmission("quote", "rate_limited")
	m.ObserveSpamScore(80)
	m.ObserveCaptureLatency("quote", 0.03)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(families) == 0 {
		t.Fatal("expected registered metric families")
	}
}

func TestLeadMetricsNilSafe(t *testing.T) {
	var m *LeadMetrics
	m.ObserveSubmission("demo", "accepted")
	m.ObserveSpamScore(10)
	m.ObserveCaptureLatency("demo", 0.1)
}
