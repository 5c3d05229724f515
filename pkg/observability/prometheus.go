package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusHooks records pipeline, cache and HTTP events as Prometheus
// metrics. It implements [PipelineHooks], [CacheHooks] and [HTTPHooks].
type PrometheusHooks struct {
	documents     *prometheus.CounterVec
	parseDuration prometheus.Histogram
	records       prometheus.Histogram
	references    *prometheus.CounterVec

	renders        *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	renderBytes    *prometheus.HistogramVec

	cacheEvents *prometheus.CounterVec

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewPrometheusHooks creates the collectors and registers them with reg.
// It panics if a collector with the same name is already registered.
func NewPrometheusHooks(reg prometheus.Registerer) *PrometheusHooks {
	h := &PrometheusHooks{
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "plmgraph",
			Name:      "documents_parsed_total",
			Help:      "Documents parsed, by result.",
		}, []string{"result"}),
		parseDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "plmgraph",
			Name:      "parse_duration_seconds",
			Help:      "Time spent decoding, building and linking a document.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		records: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "plmgraph",
			Name:      "document_records",
			Help:      "Registered records per parsed document.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),
		references: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "plmgraph",
			Name:      "references_total",
			Help:      "Reference tokens processed, by outcome.",
		}, []string{"outcome"}),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "plmgraph",
			Name:      "renders_total",
			Help:      "Renders, by mode and result.",
		}, []string{"mode", "result"}),
		renderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "plmgraph",
			Name:      "render_duration_seconds",
			Help:      "Time spent rendering a view.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"mode"}),
		renderBytes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "plmgraph",
			Name:      "render_bytes",
			Help:      "Size of rendered output.",
			Buckets:   prometheus.ExponentialBuckets(256, 4, 8),
		}, []string{"mode"}),
		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "plmgraph",
			Name:      "cache_events_total",
			Help:      "Cache lookups and writes, by key type and event.",
		}, []string{"key_type", "event"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "plmgraph",
			Name:      "http_requests_total",
			Help:      "HTTP responses, by method, route and status code.",
		}, []string{"method", "route", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "plmgraph",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		h.documents, h.parseDuration, h.records, h.references,
		h.renders, h.renderDuration, h.renderBytes,
		h.cacheEvents,
		h.requests, h.requestDuration,
	)
	return h
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (h *PrometheusHooks) OnParseStart(context.Context, string) {}

func (h *PrometheusHooks) OnParseComplete(_ context.Context, _ string, records int, d time.Duration, err error) {
	h.documents.WithLabelValues(result(err)).Inc()
	if err != nil {
		return
	}
	h.parseDuration.Observe(d.Seconds())
	h.records.Observe(float64(records))
}

func (h *PrometheusHooks) OnResolve(_ context.Context, resolved, dropped int) {
	h.references.WithLabelValues("resolved").Add(float64(resolved))
	h.references.WithLabelValues("dropped").Add(float64(dropped))
}

func (h *PrometheusHooks) OnRenderStart(context.Context, string) {}

func (h *PrometheusHooks) OnRenderComplete(_ context.Context, mode string, size int, d time.Duration, err error) {
	h.renders.WithLabelValues(mode, result(err)).Inc()
	if err != nil {
		return
	}
	h.renderDuration.WithLabelValues(mode).Observe(d.Seconds())
	h.renderBytes.WithLabelValues(mode).Observe(float64(size))
}

func (h *PrometheusHooks) OnCacheHit(_ context.Context, keyType string) {
	h.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (h *PrometheusHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (h *PrometheusHooks) OnCacheSet(_ context.Context, keyType string, _ int) {
	h.cacheEvents.WithLabelValues(keyType, "set").Inc()
}

func (h *PrometheusHooks) OnRequest(context.Context, string, string) {}

func (h *PrometheusHooks) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	h.requests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	h.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ PipelineHooks = (*PrometheusHooks)(nil)
	_ CacheHooks    = (*PrometheusHooks)(nil)
	_ HTTPHooks     = (*PrometheusHooks)(nil)
)
