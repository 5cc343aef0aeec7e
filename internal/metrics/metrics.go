// Package metrics exposes Prometheus collectors for graph builds, path
// queries, uploads and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Path query outcomes.
const (
	ResultOK           = "ok"
	ResultNodeNotFound = "node_not_found"
	ResultNoPath       = "no_path"
	ResultNoData       = "no_data"
	ResultInvalid      = "invalid"
	ResultError        = "error"
)

var (
	graphBuilds = promauto.NewCounter(prometheus.CounterOpts{
		Name: "netlatency_graph_builds_total",
		Help: "Total number of latency graphs built from the current dataset",
	})

	graphNodes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "netlatency_graph_nodes",
		Help:    "Node count of built graphs",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	})

	graphEdges = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "netlatency_graph_edges",
		Help:    "Edge count of built graphs",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	})

	pathQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "netlatency_path_queries_total",
		Help: "Total shortest path queries by result",
	}, []string{"result"})

	pathDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "netlatency_path_query_duration_seconds",
		Help:    "Duration of shortest path queries including graph construction",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14), // 0.1ms to ~800ms
	})

	pathSegments = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "netlatency_path_query_segments",
		Help:    "Number of segments (waypoints + 1) per path query",
		Buckets: []float64{1, 2, 3, 5, 8, 13, 21},
	})

	uploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "netlatency_uploads_total",
		Help: "Dataset uploads by result",
	}, []string{"result"})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "netlatency_http_requests_total",
		Help: "HTTP requests by route and status code",
	}, []string{"route", "status"})
)

// ObserveGraphBuild records one graph construction.
func ObserveGraphBuild(nodes, edges int) {
	graphBuilds.Inc()
	graphNodes.Observe(float64(nodes))
	graphEdges.Observe(float64(edges))
}

// ObservePathQuery records the outcome of one shortest path query.
func ObservePathQuery(result string, segments int, elapsed time.Duration) {
	pathQueries.WithLabelValues(result).Inc()
	pathDuration.Observe(elapsed.Seconds())
	if segments > 0 {
		pathSegments.Observe(float64(segments))
	}
}

// ObserveUpload records an upload attempt.
func ObserveUpload(result string) {
	uploads.WithLabelValues(result).Inc()
}

// ObserveHTTPRequest records a served request.
func ObserveHTTPRequest(route string, status int) {
	httpRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

// Handler serves the default registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}
