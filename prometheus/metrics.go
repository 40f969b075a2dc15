// Package prometheus records resolve, download and HTTP request metrics with
// Prometheus collectors.
package prometheus

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/fwojciec/makerfetch"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// outcomeOK labels successful resolutions and downloads.
const outcomeOK = "ok"

// Metrics holds the collectors. Collectors are registered on the registerer
// passed to NewMetrics, so tests can use a private registry.
type Metrics struct {
	resolveTotal     *prometheus.CounterVec
	resolveDuration  *prometheus.HistogramVec
	fallbackTotal    prometheus.Counter
	downloadTotal    *prometheus.CounterVec
	downloadBytes    prometheus.Counter
	httpRequestTotal *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	gatherer         prometheus.Gatherer
}

// NewMetrics creates and registers the collectors on reg.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		resolveTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "makerfetch_resolve_total",
			Help: "Total number of resolutions, labeled by source and outcome.",
		}, []string{"source", "outcome"}),
		resolveDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "makerfetch_resolve_duration_seconds",
			Help:    "Histogram of resolution latencies, labeled by outcome.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}, []string{"outcome"}),
		fallbackTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "makerfetch_resolve_fallback_total",
			Help: "Total number of resolutions that ran the embedded page data stage.",
		}),
		downloadTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "makerfetch_download_total",
			Help: "Total number of asset downloads, labeled by extension and outcome.",
		}, []string{"extension", "outcome"}),
		downloadBytes: f.NewCounter(prometheus.CounterOpts{
			Name: "makerfetch_download_bytes_total",
			Help: "Total number of asset bytes downloaded.",
		}),
		httpRequestTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "makerfetch_http_requests_total",
			Help: "Total number of HTTP requests served, labeled by method and code.",
		}, []string{"method", "code"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "makerfetch_http_request_duration_seconds",
			Help:    "Histogram of HTTP request latencies, labeled by method and route.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, []string{"method", "route"}),
		gatherer: reg,
	}
}

// Handler exposes the registered collectors.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObserveHTTPRequest records one served request.
func (m *Metrics) ObserveHTTPRequest(method, route string, code int, d time.Duration) {
	m.httpRequestTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// Ensure Resolver implements makerfetch.Resolver at compile time.
var _ makerfetch.Resolver = (*Resolver)(nil)

// Resolver counts resolutions of the wrapped resolver.
type Resolver struct {
	next    makerfetch.Resolver
	metrics *Metrics
}

// NewResolver wraps next.
func NewResolver(next makerfetch.Resolver, m *Metrics) *Resolver {
	return &Resolver{next: next, metrics: m}
}

// Resolve implements makerfetch.Resolver.
func (r *Resolver) Resolve(ctx context.Context, sourceURL string, opts makerfetch.ResolveOptions) *makerfetch.ResolveOutcome {
	begin := time.Now()
	out := r.next.Resolve(ctx, sourceURL, opts)

	source, outcome := "none", outcomeOK
	if out.OK() {
		source = string(out.Data.Source)
	} else {
		outcome = out.Failure.Reason
		if n := len(out.Diagnostics.Pipeline); n > 0 {
			source = string(out.Diagnostics.Pipeline[n-1])
		}
	}
	r.metrics.resolveTotal.WithLabelValues(source, outcome).Inc()
	r.metrics.resolveDuration.WithLabelValues(outcome).Observe(time.Since(begin).Seconds())
	if len(out.Diagnostics.Pipeline) > 1 {
		r.metrics.fallbackTotal.Inc()
	}
	return out
}

// Ensure Downloader implements makerfetch.Downloader at compile time.
var _ makerfetch.Downloader = (*Downloader)(nil)

// Downloader counts downloads of the wrapped downloader.
type Downloader struct {
	next    makerfetch.Downloader
	metrics *Metrics
}

// NewDownloader wraps next.
func NewDownloader(next makerfetch.Downloader, m *Metrics) *Downloader {
	return &Downloader{next: next, metrics: m}
}

// Download implements makerfetch.Downloader.
func (d *Downloader) Download(ctx context.Context, url string, opts makerfetch.DownloadOptions) *makerfetch.DownloadOutcome {
	out := d.next.Download(ctx, url, opts)
	if !out.OK() {
		d.metrics.downloadTotal.WithLabelValues("none", out.Failure.Reason).Inc()
		return out
	}
	d.metrics.downloadTotal.WithLabelValues(out.Asset.Extension, outcomeOK).Inc()
	d.metrics.downloadBytes.Add(float64(out.Asset.Size))
	return out
}
