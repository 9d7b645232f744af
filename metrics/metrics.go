package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Extraction metrics
	CommentsFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meta_comments_fetched_total",
			Help: "Total number of normalized comment records produced",
		},
		[]string{"source", "country"},
	)

	PagesFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meta_pages_fetched_total",
			Help: "Total number of upstream pages consumed",
		},
		[]string{"source", "country"},
	)

	MalformedSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meta_comments_skipped_total",
			Help: "Total number of malformed comment entries skipped",
		},
		[]string{"source", "country"},
	)

	SourceErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meta_source_errors_total",
			Help: "Total number of pair extractions cut short by a fetch failure",
		},
		[]string{"source", "country"},
	)

	PairDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "meta_pair_duration_seconds",
			Help:    "Wall-clock duration of one (country, source) extraction",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
		[]string{"source", "country"},
	)

	// Warehouse metrics
	SinkWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meta_sink_writes_total",
			Help: "Total number of batch appends by table and status",
		},
		[]string{"table", "status"},
	)

	// Application health metrics
	ApplicationInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "application_info",
			Help: "Application information",
		},
		[]string{"service", "version", "environment"},
	)
)

// Initialize metrics with default values
func Init(serviceName, version, environment string) {
	ApplicationInfo.WithLabelValues(serviceName, version, environment).Set(1)
}
