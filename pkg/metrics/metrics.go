package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "packagepal"

// Metrics collects gateway measurements on its own registry.
type Metrics struct {
	registry *prometheus.Registry

	lookups          *prometheus.CounterVec
	lookupDuration   *prometheus.HistogramVec
	upstreamCalls    *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	cacheResults     *prometheus.CounterVec
	rateLimited      prometheus.Counter
	limiterFallback  prometheus.Counter
	storeDegraded    prometheus.Gauge
}

// New creates the collectors and registers them, plus the Go runtime and
// process collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookups_total",
			Help:      "Lookup requests by outcome",
		}, []string{"outcome"}),
		lookupDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "lookup_duration_seconds",
			Help:      "Lookup latency by outcome",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2.5, 10), // 5ms up to ~19s
		}, []string{"outcome"}),
		upstreamCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_calls_total",
			Help:      "Model calls by provider and outcome",
		}, []string{"provider", "outcome"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_duration_seconds",
			Help:      "Model call latency by provider",
			Buckets:   prometheus.ExponentialBuckets(0.1, 1.8, 10),
		}, []string{"provider"}),
		cacheResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_results_total",
			Help:      "Result cache operations by result",
		}, []string{"result"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the quota",
		}),
		limiterFallback: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "limiter_fallback_total",
			Help:      "Quota checks served by the in-process counter",
		}),
		storeDegraded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "limiter_store_degraded",
			Help:      "1 while the shared quota store is unreachable",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.lookups, m.lookupDuration,
		m.upstreamCalls, m.upstreamDuration,
		m.cacheResults, m.rateLimited,
		m.limiterFallback, m.storeDegraded,
	)
	return m
}

func (m *Metrics) ObserveLookup(outcome string, d time.Duration) {
	m.lookups.WithLabelValues(outcome).Inc()
	m.lookupDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

func (m *Metrics) ObserveUpstream(provider, outcome string, d time.Duration) {
	m.upstreamCalls.WithLabelValues(provider, outcome).Inc()
	m.upstreamDuration.WithLabelValues(provider).Observe(d.Seconds())
}

func (m *Metrics) IncCache(result string) { m.cacheResults.WithLabelValues(result).Inc() }
func (m *Metrics) IncRateLimited()        { m.rateLimited.Inc() }
func (m *Metrics) IncLimiterFallback()    { m.limiterFallback.Inc() }

// SetStoreDegraded records whether the shared quota store is down.
func (m *Metrics) SetStoreDegraded(degraded bool) {
	if degraded {
		m.storeDegraded.Set(1)
		return
	}
	m.storeDegraded.Set(0)
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
