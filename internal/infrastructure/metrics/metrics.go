package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "jotter"

// Metrics bundles the service's Prometheus collectors.
type Metrics struct {
	JobsProcessed   *prometheus.CounterVec
	JobDuration     prometheus.Histogram
	JobsInFlight    prometheus.Gauge
	QueueDepth      prometheus.Gauge
	ToolExecutions  *prometheus.CounterVec
	ModelRequests   *prometheus.CounterVec
	ModelIterations prometheus.Histogram
}

// New registers every collector against the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the collectors against the given registry. Tests
// use this with a fresh registry to avoid duplicate registration.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		JobsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_processed_total",
			Help:      "Message jobs processed by terminal status.",
		}, []string{"status"}),
		JobDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "job_duration_seconds",
			Help:      "Wall-clock time spent processing one message job.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 12),
		}),
		JobsInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "jobs_in_flight",
			Help:      "Message jobs currently being processed.",
		}),
		QueueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_depth",
			Help:      "Message jobs waiting in the queue.",
		}),
		ToolExecutions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_executions_total",
			Help:      "Tool invocations by tool name and outcome.",
		}, []string{"tool", "outcome"}),
		ModelRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_requests_total",
			Help:      "Chat completion requests by outcome.",
		}, []string{"outcome"}),
		ModelIterations: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "model_iterations_per_message",
			Help:      "Model invocations consumed per processed message.",
			Buckets:   []float64{1, 2, 3, 4, 5},
		}),
	}
}
