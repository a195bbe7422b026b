package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/renfebot/internal/logging"
	"github.com/aretw0/renfebot/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the bot's Prometheus collectors.
type Metrics struct {
	NodeVisits     *prometheus.CounterVec
	Searches       *prometheus.CounterVec
	SearchDuration *prometheus.HistogramVec
	SearchesActive prometheus.Gauge

	logger *slog.Logger
}

// MetricsOption configures Metrics.
type MetricsOption func(*Metrics)

// WithLogger logs every lifecycle event at debug level.
func WithLogger(logger *slog.Logger) MetricsOption {
	return func(m *Metrics) {
		m.logger = logger
	}
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer, opts ...MetricsOption) (*Metrics, error) {
	m := &Metrics{
		NodeVisits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "renfebot_node_visits_total",
				Help: "Total number of conversation step visits",
			},
			[]string{"node_id"},
		),
		Searches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "renfebot_searches_total",
				Help: "Total number of searches by outcome",
			},
			[]string{"outcome"},
		),
		SearchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "renfebot_search_duration_seconds",
				Help:    "Duration of backend searches",
				Buckets: []float64{1, 5, 15, 30, 60, 120, 300},
			},
			[]string{"outcome"},
		),
		SearchesActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "renfebot_searches_active",
			Help: "Searches currently running in this process",
		}),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}

	for _, c := range []prometheus.Collector{m.NodeVisits, m.Searches, m.SearchDuration, m.SearchesActive} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks records every lifecycle event.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNodeEnter: func(ctx context.Context, e *domain.NodeEvent) {
			m.logger.Debug("node_enter", "session_id", e.SessionID, "node_id", e.NodeID, "type", e.NodeType)
			m.NodeVisits.WithLabelValues(e.NodeID).Inc()
		},
		OnNodeLeave: func(ctx context.Context, e *domain.NodeEvent) {
			m.logger.Debug("node_leave", "session_id", e.SessionID, "node_id", e.NodeID)
		},
		OnSearchStart: func(ctx context.Context, e *domain.SearchEvent) {
			m.logger.Debug("search_start", "session_id", e.SessionID)
			m.SearchesActive.Inc()
		},
		OnSearchFinish: func(ctx context.Context, e *domain.SearchEvent) {
			m.logger.Debug("search_finish", "session_id", e.SessionID, "outcome", e.Outcome, "trains", e.Trains)
			m.Searches.WithLabelValues(e.Outcome).Inc()
			// Refused searches never started.
			if e.Outcome == domain.OutcomeBusy {
				return
			}
			m.SearchesActive.Dec()
			m.SearchDuration.WithLabelValues(e.Outcome).Observe(e.Duration.Seconds())
		},
	}
}
