package observability

import "github.com/prometheus/client_golang/prometheus"

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "askdata_http_requests_total",
			Help: "Total number of HTTP requests by route and status.",
		},
		[]string{"method", "path", "status"},
	)
	httpRequestDurationMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "askdata_http_request_duration_ms",
			Help: "HTTP request latency in milliseconds by route.",
			// /v1/ask spans a completion call and a query, so the tail reaches the completion timeout.
			Buckets: []float64{5, 25, 100, 250, 1000, 2500, 5000, 15000, 45000, 90000},
		},
		[]string{"method", "path"},
	)
	authFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "askdata_auth_failures_total",
			Help: "Total number of rejected API keys by reason.",
		},
		[]string{"reason"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal, httpRequestDurationMs, authFailuresTotal)
}

func IncrementAuthFailure(reason string) {
	authFailuresTotal.WithLabelValues(reason).Inc()
}
