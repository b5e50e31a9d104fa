// Package metrics defines Prometheus metrics for borderhop.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "borderhop_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "borderhop_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "borderhop_errors_total",
			Help: "Total errors by type",
		},
		[]string{"type"},
	)

	// ResolverRequests counts border lookups by result (ok, error, malformed, rate_wait).
	ResolverRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "borderhop_resolver_requests_total",
			Help: "Border lookups sent to the countries API",
		},
		[]string{"result"},
	)

	ResolverDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "borderhop_resolver_request_duration_seconds",
			Help:    "Border lookup round-trip time in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "borderhop_searches_total",
			Help: "Route searches by terminal outcome",
		},
		[]string{"outcome"},
	)

	SearchRequests = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "borderhop_search_resolver_requests",
			Help:    "Border lookups issued per route search",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
	)

	RouteHops = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "borderhop_route_hops",
			Help:    "Borders crossed by found routes",
			Buckets: prometheus.LinearBuckets(0, 1, 11),
		},
	)

	HistoryQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "borderhop_history_queue_depth",
			Help: "Current search history queue depth",
		},
	)

	WSStreams = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "borderhop_websocket_streams",
			Help: "Active route streaming connections",
		},
	)

	WSFeedClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "borderhop_websocket_feed_clients",
			Help: "Connected search feed subscribers",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestsTotal, ErrorsTotal,
		ResolverRequests, ResolverDuration,
		SearchesTotal, SearchRequests, RouteHops,
		HistoryQueueDepth, WSStreams, WSFeedClients,
	)
}
