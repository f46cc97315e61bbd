package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// DefaultNamespace is the metric namespace when none is configured.
const DefaultNamespace = "parley"

// Collector owns the Prometheus registry and all gateway metrics.
type Collector struct {
	registry *prometheus.Registry

	// Total request count by path, method, status
	requestsTotal *prometheus.CounterVec

	// Request duration histogram by path
	requestDuration *prometheus.HistogramVec

	// Streamed SSE frames
	streamFramesTotal prometheus.Counter

	// Completion tokens reported by the provider
	tokensTotal *prometheus.CounterVec

	// Requests rejected by the gateway's own rate limiter
	rateLimitedTotal prometheus.Counter
}

// NewCollector creates a collector and registers all gateway metrics,
// along with the standard Go runtime and process collectors.
func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	c := &Collector{
		registry: registry,

		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total number of HTTP requests processed",
			},
			[]string{"path", "method", "status"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"path"},
		),

		streamFramesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stream_frames_total",
				Help:      "Total number of SSE frames relayed to clients",
			},
		),

		tokensTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tokens_total",
				Help:      "Total number of tokens reported by the provider",
			},
			[]string{"type"},
		),

		rateLimitedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_limited_total",
				Help:      "Total number of requests rejected by the rate limiter",
			},
		),
	}

	registry.MustRegister(
		c.requestsTotal,
		c.requestDuration,
		c.streamFramesTotal,
		c.tokensTotal,
		c.rateLimitedTotal,
	)

	return c
}

// RecordRequest records a completed HTTP request.
func (c *Collector) RecordRequest(path, method string, status string, duration time.Duration) {
	c.requestsTotal.WithLabelValues(path, method, status).Inc()
	c.requestDuration.WithLabelValues(path).Observe(duration.Seconds())
}

// RecordStreamFrame records one relayed SSE frame.
func (c *Collector) RecordStreamFrame() {
	c.streamFramesTotal.Inc()
}

// RecordTokens records provider-reported token usage.
func (c *Collector) RecordTokens(promptTokens, completionTokens int) {
	if promptTokens > 0 {
		c.tokensTotal.WithLabelValues("prompt").Add(float64(promptTokens))
	}
	if completionTokens > 0 {
		c.tokensTotal.WithLabelValues("completion").Add(float64(completionTokens))
	}
}

// RecordRateLimited records a request rejected by the rate limiter.
func (c *Collector) RecordRateLimited() {
	c.rateLimitedTotal.Inc()
}

// Registry returns the underlying Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
