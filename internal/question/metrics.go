package question

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels.
const (
	outcomeOK              = "ok"
	outcomeCompletionError = "completion_error"
	outcomeParseError      = "parse_error"
	outcomeInvalid         = "invalid"
	outcomeAdded           = "added"
	outcomeDuplicate       = "duplicate"
	outcomeError           = "error"
)

// Metrics groups the Prometheus collectors for generation and verification.
type Metrics struct {
	generations       *prometheus.CounterVec
	verifications     *prometheus.CounterVec
	completionSeconds prometheus.Histogram
}

// NewMetrics builds the collectors and registers them with reg when non-nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "codeprep",
			Name:      "question_generations_total",
			Help:      "Question generation attempts by outcome.",
		}, []string{"outcome"}),
		verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "codeprep",
			Name:      "question_verifications_total",
			Help:      "Verified question submissions by outcome.",
		}, []string{"outcome"}),
		completionSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "codeprep",
			Name:      "completion_duration_seconds",
			Help:      "Latency of text-completion calls.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
		}),
	}
	if reg != nil {
		reg.MustRegister(m.generations, m.verifications, m.completionSeconds)
	}
	return m
}

func (m *Metrics) generation(outcome string) {
	if m == nil {
		return
	}
	m.generations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) verification(outcome string) {
	if m == nil {
		return
	}
	m.verifications.WithLabelValues(outcome).Inc()
}

func (m *Metrics) observeCompletion(seconds float64) {
	if m == nil {
		return
	}
	m.completionSeconds.Observe(seconds)
}
