package kernel

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels recorded for every request.
const (
	OutcomeOK       = "ok"
	OutcomeAborted  = "aborted"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// unmatchedRoute labels requests that matched no route.
const unmatchedRoute = "unmatched"

// MetricsConfig configures the dispatch metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "junction").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for dispatch duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the dispatch metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
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
		Namespace: "junction",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus collectors updated by the kernel.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	aborts   *prometheus.CounterVec
}

// NewMetrics registers the dispatch collectors:
//   - junction_requests_total: requests by route key and outcome
//   - junction_request_duration_seconds: dispatch duration by route key
//   - junction_filter_aborts_total: short-circuits by filter name
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "requests_total",
			Help:        "Total number of dispatched requests",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "outcome"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "request_duration_seconds",
			Help:        "Dispatch duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"route"}),

		aborts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "filter_aborts_total",
			Help:        "Total number of requests short-circuited by a route before filter",
			ConstLabels: config.ConstLabels,
		}, []string{"filter"}),
	}
}

func (m *Metrics) observe(route, outcome string, seconds float64) {
	if m == nil {
		return
	}
	if route == "" {
		route = unmatchedRoute
	}
	m.requests.WithLabelValues(route, outcome).Inc()
	m.duration.WithLabelValues(route).Observe(seconds)
}

func (m *Metrics) abort(name string) {
	if m == nil {
		return
	}
	m.aborts.WithLabelValues(name).Inc()
}
