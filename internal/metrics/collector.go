// Package metrics provides Prometheus-based metrics collection for the
// thumbnail cache: lookup outcomes by source and tier, store outcomes, and
// operation latencies, with an optional HTTP exposition endpoint.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Lookup result label values.
const (
	ResultHit  = "hit"
	ResultMiss = "miss"
)

// Lookup source label values.
const (
	SourcePrimary = "primary"
	SourceShared  = "shared"
	SourceNone    = "none"
)

// Store status label values.
const (
	StatusStored   = "stored"
	StatusRejected = "rejected"
	StatusFailed   = "failed"
)

// Config represents metrics configuration.
type Config struct {
	Enabled   bool   `yaml:"enabled"`
	Port      int    `yaml:"port"`
	Path      string `yaml:"path"`
	Namespace string `yaml:"namespace"`
}

// Collector aggregates and exports thumbnail cache metrics. A disabled or
// nil collector is a no-op, so the cache core can record unconditionally.
type Collector struct {
	config   *Config
	registry *prometheus.Registry

	lookupCounter     *prometheus.CounterVec
	storeCounter      *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec

	server *http.Server
}

// NewCollector creates a new metrics collector.
func NewCollector(config *Config) (*Collector, error) {
	if config == nil {
		config = &Config{
			Enabled:   true,
			Port:      9277,
			Path:      "/metrics",
			Namespace: "thumbcache",
		}
	}
	if config.Path == "" {
		config.Path = "/metrics"
	}
	if config.Namespace == "" {
		config.Namespace = "thumbcache"
	}

	if !config.Enabled {
		return &Collector{config: config}, nil
	}

	c := &Collector{
		config:   config,
		registry: prometheus.NewRegistry(),
	}

	c.lookupCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "lookups_total",
			Help:      "Total thumbnail cache lookups by result, source, and tier",
		},
		[]string{"result", "source", "tier"},
	)

	c.storeCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "stores_total",
			Help:      "Total thumbnail store attempts by status and tier",
		},
		[]string{"status", "tier"},
	)

	c.operationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of cache operations in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14), // 0.1ms to ~1.6s
		},
		[]string{"operation"},
	)

	for _, collector := range []prometheus.Collector{
		c.lookupCounter, c.storeCounter, c.operationDuration,
	} {
		if err := c.registry.Register(collector); err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
	}

	return c, nil
}

// Start serves the metrics endpoint in the background. It is a no-op for
// disabled collectors or when no port is configured.
func (c *Collector) Start(ctx context.Context) error {
	if c == nil || !c.config.Enabled || c.config.Port == 0 {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle(c.config.Path, promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))

	c.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", c.config.Port),
		Handler:           mux,
		ReadHeaderTimeout: 30 * time.Second,
	}

	go func() {
		if err := c.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("metrics server error: %v\n", err)
		}
	}()

	return nil
}

// Stop shuts the metrics endpoint down.
func (c *Collector) Stop(ctx context.Context) error {
	if c == nil || c.server == nil {
		return nil
	}
	return c.server.Shutdown(ctx)
}

// RecordLookup records one lookup outcome. tier may be empty when the
// lookup never reached tier selection (rejected requests).
func (c *Collector) RecordLookup(result, source, tier string, duration time.Duration) {
	if c == nil || !c.config.Enabled {
		return
	}
	if tier == "" {
		tier = "none"
	}
	c.lookupCounter.With(prometheus.Labels{
		"result": result,
		"source": source,
		"tier":   tier,
	}).Inc()
	c.operationDuration.With(prometheus.Labels{"operation": "lookup"}).Observe(duration.Seconds())
}

// RecordStore records one store outcome.
func (c *Collector) RecordStore(status, tier string, duration time.Duration) {
	if c == nil || !c.config.Enabled {
		return
	}
	if tier == "" {
		tier = "none"
	}
	c.storeCounter.With(prometheus.Labels{
		"status": status,
		"tier":   tier,
	}).Inc()
	c.operationDuration.With(prometheus.Labels{"operation": "store"}).Observe(duration.Seconds())
}

// Registry exposes the underlying registry for embedding the cache metrics
// into a host application's exposition.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}
