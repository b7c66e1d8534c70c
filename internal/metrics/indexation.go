package metrics

import "github.com/prometheus/client_golang/prometheus"

// Indexation and search Prometheus metrics.
var (
	ReindexRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "piecedex",
			Name:      "reindex_runs_total",
			Help:      "Total number of reindex runs by outcome and last step reached",
		},
		[]string{"status", "step"},
	)

	ReindexDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "piecedex",
			Name:      "reindex_duration_seconds",
			Help:      "Reindex run duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"status"},
	)

	BulkItemsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "piecedex",
			Name:      "bulk_items_total",
			Help:      "Engine bulk items by action and outcome",
		},
		[]string{"action", "status"},
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "piecedex",
			Name:      "search_duration_seconds",
			Help:      "Search execution duration in seconds, count and page included",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"status"},
	)
)

var indexationMetricsRegistered bool

// RegisterIndexationMetrics registers indexation and search metrics. Must be called once from main.
func RegisterIndexationMetrics() {
	if indexationMetricsRegistered {
		return
	}
	prometheus.MustRegister(ReindexRunsTotal)
	prometheus.MustRegister(ReindexDuration)
	prometheus.MustRegister(BulkItemsTotal)
	prometheus.MustRegister(SearchDuration)
	indexationMetricsRegistered = true
}
