package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TokenRenewals counts credential exchanges against the upstream
	// identity endpoint. Cache hits on a still-valid token do not count.
	TokenRenewals = promauto.NewCounter(prometheus.CounterOpts{
		Name: "parking_token_renewals_total",
		Help: "Number of upstream credential exchanges performed.",
	})

	// CacheHits and CacheMisses are labeled by cache name
	// ("metadata" or "availability").
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "parking_cache_hits_total",
		Help: "Cache reads served without an upstream fetch.",
	}, []string{"cache"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "parking_cache_misses_total",
		Help: "Cache reads that required an upstream fetch.",
	}, []string{"cache"})

	// UpstreamRequests is labeled by upstream endpoint
	// ("token", "carparks", "availability").
	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "parking_upstream_requests_total",
		Help: "Outbound requests to the TDX API by endpoint.",
	}, []string{"endpoint"})

	// SearchRequests is labeled by outcome ("ok" or "error").
	SearchRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "parking_search_requests_total",
		Help: "Search requests handled, by outcome.",
	}, []string{"outcome"})
)
