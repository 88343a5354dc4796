// Package metrics exports bus activity to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/robotalks/xerxes.go/pkg/bus"
)

// Config configures the Collector.
type Config struct {
	// Namespace is the metrics namespace (default: "xerxes").
	Namespace string
	// Buckets are the histogram buckets for exchange duration, in seconds.
	Buckets []float64
	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the Collector.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

// DefaultBuckets covers bus exchanges from sub-millisecond to flash writes.
var DefaultBuckets = []float64{.0005, .001, .002, .005, .01, .02, .05, .1, .2}

// Collector implements bus.Observer.
type Collector struct {
	framesSent     prometheus.Counter
	framesReceived prometheus.Counter
	bytesSent      prometheus.Counter
	bytesReceived  prometheus.Counter
	framesDropped  *prometheus.CounterVec
	exchanges      *prometheus.CounterVec
	duration       *prometheus.HistogramVec
}

// New creates a Collector and registers its metrics.
func New(opts ...Option) *Collector {
	config := Config{
		Namespace: "xerxes",
		Buckets:   DefaultBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)
	return &Collector{
		framesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "frames_sent_total",
			Help:      "Frames written to the transport.",
		}),
		framesReceived: factory.NewCounter(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "frames_received_total",
			Help:      "Valid frames received.",
		}),
		bytesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "frame_bytes_sent_total",
			Help:      "Bytes of frames written to the transport.",
		}),
		bytesReceived: factory.NewCounter(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "frame_bytes_received_total",
			Help:      "Bytes of valid frames received.",
		}),
		framesDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "rx_dropped_total",
			Help:      "Bytes or frames discarded while resynchronizing.",
		}, []string{"reason"}),
		exchanges: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "exchanges_total",
			Help:      "Request/reply exchanges by operation and result.",
		}, []string{"op", "result"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "exchange_duration_seconds",
			Help:      "Duration of request/reply exchanges.",
			Buckets:   config.Buckets,
		}, []string{"op"}),
	}
}

// FrameSent implements bus.Observer.
func (c *Collector) FrameSent(size int) {
	c.framesSent.Inc()
	c.bytesSent.Add(float64(size))
}

// FrameReceived implements bus.Observer.
func (c *Collector) FrameReceived(size int) {
	c.framesReceived.Inc()
	c.bytesReceived.Add(float64(size))
}

// FrameDropped implements bus.Observer.
func (c *Collector) FrameDropped(reason bus.DropReason) {
	c.framesDropped.WithLabelValues(reason.String()).Inc()
}

// ExchangeDone implements bus.Observer.
func (c *Collector) ExchangeDone(op string, elapsed time.Duration, err error) {
	c.exchanges.WithLabelValues(op, Result(err)).Inc()
	c.duration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// Result classifies an exchange error into a label value.
func Result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case bus.IsTimeout(err):
		return "timeout"
	case bus.IsProtocolError(err):
		return "protocol_error"
	}
	return "error"
}
