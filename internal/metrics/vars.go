package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	CacheHits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "trendflow_cache_hits_total",
		Help: "Cache hits by operation",
	}, []string{"op"})

	CacheMisses = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "trendflow_cache_misses_total",
		Help: "Cache misses by operation",
	}, []string{"op"})

	UpstreamErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "trendflow_upstream_errors_total",
		Help: "Failed upstream fetches by collaborator",
	}, []string{"upstream"})

	QuoteLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "trendflow_quote_fetch_seconds",
		Help:    "Time to obtain one market quote",
		Buckets: prometheus.DefBuckets,
	})

	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "trendflow_http_request_duration_seconds",
		Help:    "HTTP request duration by route",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
)

func init() {
	prometheus.MustRegister(
		CacheHits,
		CacheMisses,
		UpstreamErrors,
		QuoteLatency,
		HTTPDuration,
	)
}
