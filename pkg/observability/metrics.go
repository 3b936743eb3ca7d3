package observability

import (
	"context"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records run outcomes and resource usage as Prometheus series.
type Metrics struct {
	started  *prometheus.CounterVec
	halted   *prometheus.CounterVec
	steps    *prometheus.CounterVec
	space    *prometheus.HistogramVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		started: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "turing_runs_started_total",
				Help: "Total number of executions started",
			},
			[]string{"machine"},
		),
		halted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "turing_runs_total",
				Help: "Total number of executions that reached a final status",
			},
			[]string{"machine", "status"},
		),
		steps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "turing_steps_total",
				Help: "Total number of steps taken by halted executions",
			},
			[]string{"machine"},
		),
		space: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "turing_tape_cells",
				Help:    "Final tape length of halted executions",
				Buckets: prometheus.ExponentialBuckets(1, 4, 12),
			},
			[]string{"machine"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "turing_run_duration_seconds",
				Help:    "Wall-clock duration of halted executions",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"machine"},
		),
	}

	reg.MustRegister(m.started, m.halted, m.steps, m.space, m.duration)
	return m
}

// Hooks returns lifecycle hooks that feed the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(_ context.Context, e *domain.RunEvent) {
			m.started.WithLabelValues(e.Machine).Inc()
		},
		OnRunHalt: func(_ context.Context, e *domain.RunEvent) {
			m.halted.WithLabelValues(e.Machine, e.Status.String()).Inc()
			m.steps.WithLabelValues(e.Machine).Add(float64(e.Clock.Time))
			m.space.WithLabelValues(e.Machine).Observe(float64(e.Clock.Space))
			m.duration.WithLabelValues(e.Machine).Observe(e.Elapsed.Seconds())
		},
	}
}
