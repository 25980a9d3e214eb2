package metrics

import "github.com/prometheus/client_golang/prometheus"

// LeadMetrics exposes counters/histograms for the lead capture flow.
type LeadMetrics struct {
	submissionsTotal *prometheus.CounterVec
	spamScore        prometheus.Histogram
	captureLatency   *prometheus.HistogramVec
}

func NewLeadMetrics(reg prometheus.Registerer) *LeadMetrics {
	m := &LeadMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "artemisa",
			Subsystem: "leads",
			Name:      "submissions_total",
			Help:      "Total demo/quote submissions by outcome",
		}, []string{"type", "status"}),
		spamScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "artemisa",
			Subsystem: "leads",
			Name:      "spam_score",
			Help:      "Distribution of heuristic spam scores",
			Buckets:   []float64{0, 10, 20, 30, 50, 80, 110},
		}),
		captureLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "artemisa",
			Subsystem: "leads",
			Name:      "capture_latency_seconds",
			Help:      "Latency of submission handling",
			Buckets:   prometheus.DefBuckets,
		}, []string{"type"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.spamScore, m.captureLatency)
	return m
}

func (m *LeadMetrics) ObserveSubmission(requestType, status string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(requestType, status).Inc()
}

func (m *LeadMetrics) ObserveSpamScore(score float64) {
	if m == nil {
		return
	}
	m.spamScore.Observe(score)
}

func (m *LeadMetrics) ObserveCaptureLatency(requestType string, seconds float64) {
	if m == nil {
		return
	}
	m.captureLatency.WithLabelValues(requestType).Observe(seconds)
}
