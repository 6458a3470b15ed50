package observability

import (
	"context"
	"log/slog"

	"github.com/hodaniel/graphwalker/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors fed by generator events.
type Metrics struct {
	Steps          *prometheus.CounterVec
	EdgeVisits     *prometheus.CounterVec
	Searches       *prometheus.CounterVec
	Expansions     prometheus.Counter
	SearchDuration prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg.
// A nil registerer leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Steps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "graphwalker_steps_total",
				Help: "Total number of steps taken on the real model position",
			},
			[]string{"generator"},
		),
		EdgeVisits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "graphwalker_edge_visits_total",
				Help: "Total number of visits per edge",
			},
			[]string{"edge"},
		),
		Searches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "graphwalker_searches_total",
				Help: "Total number of path searches by outcome",
			},
			[]string{"outcome"},
		),
		Expansions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "graphwalker_search_expansions_total",
			Help: "Total number of search nodes expanded",
		}),
		SearchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "graphwalker_search_duration_seconds",
			Help:    "Duration of path searches",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Steps, m.EdgeVisits, m.Searches, m.Expansions, m.SearchDuration)
	}
	return m
}

// Hooks returns lifecycle hooks recording into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStep: func(_ context.Context, e *domain.StepEvent) {
			m.Steps.WithLabelValues(e.Generator).Inc()
			m.EdgeVisits.WithLabelValues(e.Edge).Inc()
		},
		OnSearch: func(_ context.Context, e *domain.SearchEvent) {
			outcome := "found"
			if e.Err != nil {
				outcome = "failed"
			}
			m.Searches.WithLabelValues(outcome).Inc()
			m.Expansions.Add(float64(e.Expanded))
			m.SearchDuration.Observe(e.Duration.Seconds())
		},
	}
}

// Logging returns hooks that log every event at debug level and failed searches as warnings.
func Logging(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStep: func(ctx context.Context, e *domain.StepEvent) {
			logger.DebugContext(ctx, "step",
				"generator", e.Generator,
				"edge", e.Edge,
				"vertex", e.Vertex,
			)
		},
		OnSearch: func(ctx context.Context, e *domain.SearchEvent) {
			if e.Err != nil {
				logger.WarnContext(ctx, "search failed",
					"origin", e.Origin,
					"expanded", e.Expanded,
					"best", e.Best,
					"err", e.Err,
				)
				return
			}
			logger.DebugContext(ctx, "search",
				"origin", e.Origin,
				"expanded", e.Expanded,
				"pruned", e.Pruned,
				"path_length", e.PathLength,
				"duration", e.Duration,
			)
		},
	}
}
