// Package metrics provides Prometheus metrics for the proxy.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "devblog"

var (
	// HTTPRequestsTotal counts inbound requests by route template and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of inbound HTTP requests",
		},
		[]string{"route", "status"},
	)

	// HTTPRequestDuration measures inbound request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of inbound HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	// UpstreamRequestsTotal counts Dev.to calls by operation and outcome.
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Total number of upstream Dev.to requests",
		},
		[]string{"operation", "outcome"},
	)

	// ProbeTotal counts remaining-page probes by outcome.
	ProbeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "probe_total",
			Help:      "Total number of remaining-page probes",
		},
		[]string{"outcome"},
	)

	// MappingArticlesTotal counts articles indexed by the slug mapping generator.
	MappingArticlesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mapping_articles_total",
			Help:      "Total number of articles written to the slug mapping",
		},
	)
)

// RecordHTTP records one inbound request.
func RecordHTTP(route, status string, seconds float64) {
	HTTPRequestsTotal.WithLabelValues(route, status).Inc()
	HTTPRequestDuration.WithLabelValues(route).Observe(seconds)
}

// RecordUpstream records one upstream call.
func RecordUpstream(operation, outcome string) {
	UpstreamRequestsTotal.WithLabelValues(operation, outcome).Inc()
}

// RecordProbe records one remaining-page probe.
func RecordProbe(outcome string) {
	ProbeTotal.WithLabelValues(outcome).Inc()
}

// RecordMapped adds n indexed articles.
func RecordMapped(n int) {
	MappingArticlesTotal.Add(float64(n))
}
