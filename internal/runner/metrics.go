package runner

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace = "turingx"
	runnerSubsystem  = "runner"
)

// Metrics holds the Prometheus collectors for machine runs.
//
// All operations are thread-safe.
type Metrics struct {
	// RunsTotal counts finished runs. Labels: outcome.
	RunsTotal *prometheus.CounterVec

	// Steps observes the steps executed per run.
	Steps prometheus.Histogram

	// DurationSeconds observes wall-clock time per run.
	DurationSeconds prometheus.Histogram
}

// NewMetrics registers the collectors on reg. Outcome series are
// pre-initialized at zero.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	m := &Metrics{
		RunsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: runnerSubsystem,
			Name:      "runs_total",
			Help:      "Finished machine runs by outcome.",
		}, []string{"outcome"}),
		Steps: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: runnerSubsystem,
			Name:      "steps",
			Help:      "Steps executed per run.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 12),
		}),
		DurationSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: runnerSubsystem,
			Name:      "duration_seconds",
			Help:      "Wall-clock duration per run.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 14),
		}),
	}
	for _, o := range Outcomes {
		m.RunsTotal.WithLabelValues(string(o))
	}
	return m
}

// Observe records r.
func (m *Metrics) Observe(r Result) {
	m.RunsTotal.WithLabelValues(string(r.Outcome)).Inc()
	m.Steps.Observe(float64(r.Steps))
	m.DurationSeconds.Observe(r.Elapsed.Seconds())
}
