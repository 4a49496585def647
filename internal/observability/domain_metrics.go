package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	askTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "askdata_ask_total",
			Help: "Total number of answered questions by pipeline outcome.",
		},
		[]string{"outcome"},
	)
	askDurationMs = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "askdata_ask_duration_ms",
			Help:    "End-to-end question answering latency in milliseconds.",
			Buckets: []float64{100, 250, 500, 1000, 2000, 5000, 10000, 20000, 45000, 90000},
		},
	)
	completionDurationMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "askdata_completion_duration_ms",
			Help:    "Completion service call latency in milliseconds.",
			Buckets: []float64{100, 250, 500, 1000, 2000, 5000, 10000, 20000, 45000},
		},
		[]string{"status"},
	)
	completionRetriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "askdata_completion_retries_total",
			Help: "Total number of retried completion service calls.",
		},
	)
	queryDurationMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "askdata_query_duration_ms",
			Help:    "Database statement latency in milliseconds.",
			Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 5000, 30000},
		},
		[]string{"kind", "status"},
	)
	guardRejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "askdata_guard_rejections_total",
			Help: "Total number of generated statements rejected before execution.",
		},
		[]string{"reason"},
	)
	chartsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "askdata_charts_total",
			Help: "Total number of chart specs emitted.",
		},
		[]string{"kind"},
	)
	exportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "askdata_exports_total",
			Help: "Total number of CSV exports.",
		},
		[]string{"archived"},
	)
)

func init() {
	prometheus.MustRegister(
		askTotal,
		askDurationMs,
		completionDurationMs,
		completionRetriesTotal,
		queryDurationMs,
		guardRejectionsTotal,
		chartsTotal,
		exportsTotal,
	)
}

func ObserveAsk(outcome string, elapsed time.Duration) {
	askTotal.WithLabelValues(outcome).Inc()
	askDurationMs.Observe(float64(elapsed.Milliseconds()))
}

func ObserveCompletion(err error, elapsed time.Duration) {
	completionDurationMs.WithLabelValues(statusLabel(err)).Observe(float64(elapsed.Milliseconds()))
}

func IncrementCompletionRetry() {
	completionRetriesTotal.Inc()
}

func ObserveQuery(kind string, err error, elapsed time.Duration) {
	queryDurationMs.WithLabelValues(kind, statusLabel(err)).Observe(float64(elapsed.Milliseconds()))
}

func IncrementGuardRejection(reason string) {
	guardRejectionsTotal.WithLabelValues(reason).Inc()
}

func IncrementChart(kind string) {
	chartsTotal.WithLabelValues(kind).Inc()
}

func IncrementExport(archived bool) {
	label := "false"
	if archived {
		label = "true"
	}
	exportsTotal.WithLabelValues(label).Inc()
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
