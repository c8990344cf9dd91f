package observability

import (
	"context"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors fed by engine hooks.
type Metrics struct {
	Steps        prometheus.Counter
	Halts        *prometheus.CounterVec
	ConfigErrors prometheus.Counter
	HeadPosition prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Steps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "turing_steps_total",
			Help: "Total number of transitions applied",
		}),
		Halts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "turing_halts_total",
				Help: "Total number of runs that reached a terminal state",
			},
			[]string{"outcome"},
		),
		ConfigErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "turing_config_errors_total",
			Help: "Total number of steps that failed on a missing transition or state",
		}),
		HeadPosition: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "turing_head_position",
			Help: "Head position after the most recent step",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Steps, m.Halts, m.ConfigErrors, m.HeadPosition)
	}
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStep: func(ctx context.Context, e *domain.StepEvent) {
			m.Steps.Inc()
			m.HeadPosition.Set(float64(e.Head))
		},
		OnHalt: func(ctx context.Context, e *domain.HaltEvent) {
			outcome := "accept"
			if e.State.Kind() == domain.KindReject {
				outcome = "reject"
			}
			m.Halts.WithLabelValues(outcome).Inc()
		},
		OnFault: func(ctx context.Context, e *domain.FaultEvent) {
			m.ConfigErrors.Inc()
		},
	}
}
