// Package metrics provides Prometheus metrics for the arXiv API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "arxivapi"

var (
	// HTTPRequestsTotal counts inbound requests by route pattern and status code.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of inbound HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration measures inbound request latency, including streamed bodies.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of inbound HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// UpstreamRequestsTotal counts calls to the article index by outcome.
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Total number of article index requests",
		},
		[]string{"outcome"},
	)

	// UpstreamDuration measures article index latency.
	UpstreamDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Duration of article index requests in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
	)

	// CacheLookupsTotal counts search cache lookups by result.
	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Total number of search cache lookups",
		},
		[]string{"result"},
	)

	// FramesEmittedTotal counts protocol frames by kind.
	FramesEmittedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_emitted_total",
			Help:      "Total number of protocol frames written to clients",
		},
		[]string{"kind"},
	)

	// DispatchesTotal counts dispatcher walks by mode and final state.
	DispatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatches_total",
			Help:      "Total number of generate requests by mode and outcome",
		},
		[]string{"mode", "outcome"},
	)
)

// RecordUpstream records one article index call.
func RecordUpstream(outcome string, seconds float64) {
	UpstreamRequestsTotal.WithLabelValues(outcome).Inc()
	UpstreamDuration.Observe(seconds)
}

// RecordCacheLookup records a cache hit or miss.
func RecordCacheLookup(hit bool) {
	if hit {
		CacheLookupsTotal.WithLabelValues("hit").Inc()
		return
	}
	CacheLookupsTotal.WithLabelValues("miss").Inc()
}

// RecordFrame records one frame written to a client.
func RecordFrame(kind string) {
	FramesEmittedTotal.WithLabelValues(kind).Inc()
}

// RecordDispatch records the end of one dispatcher walk.
func RecordDispatch(mode, outcome string) {
	DispatchesTotal.WithLabelValues(mode, outcome).Inc()
}
