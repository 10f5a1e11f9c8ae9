package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics records pipeline, cache and HTTP events as Prometheus metrics.
// It implements [PipelineHooks], [CacheHooks] and [HTTPHooks], and owns its
// registry so several instances can coexist in tests.
type Metrics struct {
	registry *prometheus.Registry

	stageDuration *prometheus.HistogramVec
	stageErrors   *prometheus.CounterVec
	persons       prometheus.Histogram
	diagramSize   *prometheus.HistogramVec
	cacheEvents   *prometheus.CounterVec
	artifactBytes *prometheus.HistogramVec
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	httpInFlight  prometheus.Gauge
}

// NewMetrics creates and registers the familytree metrics on a fresh
// registry that also carries the Go runtime and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "familytree_stage_duration_seconds",
			Help:    "Pipeline stage duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10), // 0.1ms to ~26s
		}, []string{"stage"}),
		stageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "familytree_stage_errors_total",
			Help: "Pipeline stage failures",
		}, []string{"stage"}),
		persons: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "familytree_family_persons",
			Help:    "Persons per built family",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),
		diagramSize: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "familytree_diagram_elements",
			Help:    "Nodes and edges per assembled diagram",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}, []string{"kind"}),
		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "familytree_cache_events_total",
			Help: "Artifact cache lookups and writes",
		}, []string{"event", "key_type"}),
		artifactBytes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "familytree_artifact_bytes",
			Help:    "Size of rendered artifacts",
			Buckets: prometheus.ExponentialBuckets(256, 4, 10),
		}, []string{"format"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "familytree_http_requests_total",
			Help: "HTTP responses by route and status",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "familytree_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "familytree_http_in_flight_requests",
			Help: "Requests currently being served",
		}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.stageDuration, m.stageErrors, m.persons, m.diagramSize,
		m.cacheEvents, m.artifactBytes,
		m.httpRequests, m.httpDuration, m.httpInFlight,
	)
	return m
}

// Registry returns the registry holding the metrics.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) stage(name string, d time.Duration, err error) {
	m.stageDuration.WithLabelValues(name).Observe(d.Seconds())
	if err != nil {
		m.stageErrors.WithLabelValues(name).Inc()
	}
}

func (m *Metrics) OnParseStart(context.Context, int) {}

func (m *Metrics) OnParseComplete(_ context.Context, _ int, d time.Duration, err error) {
	m.stage("parse", d, err)
}

func (m *Metrics) OnBuildStart(context.Context, int) {}

func (m *Metrics) OnBuildComplete(_ context.Context, persons int, d time.Duration, err error) {
	m.stage("build", d, err)
	if err == nil {
		m.persons.Observe(float64(persons))
	}
}

func (m *Metrics) OnAssembleStart(context.Context, string) {}

func (m *Metrics) OnAssembleComplete(_ context.Context, nodes, edges int, d time.Duration, err error) {
	m.stage("assemble", d, err)
	if err == nil {
		m.diagramSize.WithLabelValues("node").Observe(float64(nodes))
		m.diagramSize.WithLabelValues("edge").Observe(float64(edges))
	}
}

func (m *Metrics) OnRenderStart(context.Context, string) {}

func (m *Metrics) OnRenderComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	m.stage("render_"+format, d, err)
	if err == nil {
		m.artifactBytes.WithLabelValues(format).Observe(float64(size))
	}
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues("hit", keyType).Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues("miss", keyType).Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheEvents.WithLabelValues("set", keyType).Inc()
}

func (m *Metrics) OnRequest(context.Context, string, string) {
	m.httpInFlight.Inc()
}

// OnResponse expects path to be a route pattern, not the raw URL path, to
// keep label cardinality bounded.
func (m *Metrics) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	m.httpInFlight.Dec()
	m.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

var (
	_ PipelineHooks = (*Metrics)(nil)
	_ CacheHooks    = (*Metrics)(nil)
	_ HTTPHooks     = (*Metrics)(nil)
)
