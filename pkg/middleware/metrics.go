package middleware

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/viaduct-ui/viaduct/pkg/nav"
)

// MetricsConfig configures the Prometheus navigation observer.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "viaduct").
	Namespace string

	// Subsystem is the metrics subsystem (default: "nav").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for navigation duration.
	// Default: prometheus.DefBuckets.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus navigation observer.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the duration histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "viaduct",
		Subsystem: "nav",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics is a nav.Observer exporting Prometheus metrics.
type Metrics struct {
	navigationsTotal *prometheus.CounterVec
	duration         prometheus.Histogram
	inFlight         prometheus.Gauge
	phaseChanges     *prometheus.CounterVec

	mu      sync.Mutex
	started map[uint64]time.Time
}

var _ nav.Observer = (*Metrics)(nil)

// NewMetrics creates and registers the navigation metrics.
func NewMetrics(opts ...MetricsOption) *Metrics {
	cfg := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	factory := promauto.With(cfg.Registry)

	return &Metrics{
		navigationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "navigations_total",
			Help:        "Navigations by outcome.",
			ConstLabels: cfg.ConstLabels,
		}, []string{"outcome"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "navigation_duration_seconds",
			Help:        "Wall time from navigation start to its final outcome.",
			ConstLabels: cfg.ConstLabels,
			Buckets:     cfg.Buckets,
		}),
		inFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "navigations_in_flight",
			Help:        "Navigations currently between start and finish.",
			ConstLabels: cfg.ConstLabels,
		}),
		phaseChanges: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "phase_changes_total",
			Help:        "Lifecycle phase entries by phase.",
			ConstLabels: cfg.ConstLabels,
		}, []string{"phase"}),
		started: make(map[uint64]time.Time),
	}
}

// NavigationStarted implements nav.Observer.
func (m *Metrics) NavigationStarted(ticket uint64, _ string) {
	m.mu.Lock()
	m.started[ticket] = time.Now()
	m.mu.Unlock()
	m.inFlight.Inc()
}

// PhaseChanged implements nav.Observer.
func (m *Metrics) PhaseChanged(_ uint64, phase nav.Phase) {
	m.phaseChanges.WithLabelValues(phase.String()).Inc()
}

// NavigationFinished implements nav.Observer.
func (m *Metrics) NavigationFinished(ticket uint64, outcome nav.Outcome) {
	m.navigationsTotal.WithLabelValues(string(outcome)).Inc()

	m.mu.Lock()
	start, ok := m.started[ticket]
	delete(m.started, ticket)
	m.mu.Unlock()
	if !ok {
		// Rejected navigations never started; nothing to time.
		return
	}
	m.inFlight.Dec()
	m.duration.Observe(time.Since(start).Seconds())
}
