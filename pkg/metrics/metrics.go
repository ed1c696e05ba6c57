package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Global collectors, registered on the default registry through promauto.

var (
	// HttpRequestsTotal counts requests by method, path and status code.
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "comparator_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status"},
	)

	// HttpRequestDuration measures response time. Queries are served from an
	// in-memory snapshot, so the buckets stay in the sub-second range.
	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "comparator_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"method", "path"},
	)

	// PlayersLoaded is the number of players in the active snapshot.
	PlayersLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "comparator_players_loaded",
			Help: "Number of players in the active projection",
		},
	)

	// AttributesLoaded is the number of numeric attributes in the active snapshot.
	AttributesLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "comparator_attributes_loaded",
			Help: "Number of numeric attributes used by the active projection",
		},
	)

	// ModelFitsTotal counts pipeline runs by outcome ("ok", "error", "cached").
	ModelFitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "comparator_model_fits_total",
			Help: "Total number of dataset loads by outcome",
		},
		[]string{"outcome"},
	)

	// ModelFitDuration measures parse + standardize + decompose + project.
	ModelFitDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "comparator_model_fit_duration_seconds",
			Help:    "Duration of a full PCA fit in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		},
	)

	// NeighborQueriesTotal counts neighbor searches by pool scope ("global", "position").
	NeighborQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "comparator_neighbor_queries_total",
			Help: "Total number of nearest-neighbor searches",
		},
		[]string{"scope"},
	)
)
