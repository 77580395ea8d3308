package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/arbor/pkg/domain"
)

// Metrics holds the Prometheus collectors fed by tree hooks.
type Metrics struct {
	Ticks        *prometheus.CounterVec
	TickDuration *prometheus.HistogramVec
	NodeVisits   *prometheus.CounterVec
	NodeResults  *prometheus.CounterVec
	Errors       *prometheus.CounterVec
}

// MetricsOption configures NewMetrics.
type MetricsOption func(*metricsConfig)

type metricsConfig struct {
	namespace string
	buckets   []float64
}

// WithNamespace overrides the metric namespace (default "arbor").
func WithNamespace(ns string) MetricsOption {
	return func(c *metricsConfig) {
		c.namespace = ns
	}
}

// WithBuckets sets the tick duration histogram buckets, in seconds.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *metricsConfig) {
		c.buckets = buckets
	}
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer, opts ...MetricsOption) (*Metrics, error) {
	cfg := metricsConfig{
		namespace: "arbor",
		buckets:   []float64{.00001, .0001, .001, .01, .1, 1},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	m := &Metrics{
		Ticks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.namespace,
				Name:      "ticks_total",
				Help:      "Total number of ticks by root result",
			},
			[]string{"tree", "result"},
		),
		TickDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.namespace,
				Name:      "tick_duration_seconds",
				Help:      "Duration of a full tick",
				Buckets:   cfg.buckets,
			},
			[]string{"tree"},
		),
		NodeVisits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.namespace,
				Name:      "node_visits_total",
				Help:      "Total number of node executions",
			},
			[]string{"tree", "node", "kind"},
		),
		NodeResults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.namespace,
				Name:      "node_results_total",
				Help:      "Node results by state",
			},
			[]string{"tree", "node", "result"},
		),
		Errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.namespace,
				Name:      "tick_errors_total",
				Help:      "Ticks aborted by an error",
			},
			[]string{"tree"},
		),
	}

	for _, c := range []prometheus.Collector{m.Ticks, m.TickDuration, m.NodeVisits, m.NodeResults, m.Errors} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks that update the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTickEnd: func(ctx context.Context, e *domain.Event) {
			m.Ticks.WithLabelValues(e.TreeID, e.State.String()).Inc()
			m.TickDuration.WithLabelValues(e.TreeID).Observe(e.Duration.Seconds())
			if e.Err != nil {
				m.Errors.WithLabelValues(e.TreeID).Inc()
			}
		},
		OnNodeEnter: func(ctx context.Context, e *domain.Event) {
			m.NodeVisits.WithLabelValues(e.TreeID, e.NodeID, e.NodeKind.String()).Inc()
		},
		OnNodeLeave: func(ctx context.Context, e *domain.Event) {
			m.NodeResults.WithLabelValues(e.TreeID, e.NodeID, e.State.String()).Inc()
		},
	}
}
