package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ecom_api_http_requests_total",
		Help: "Total number of HTTP requests handled, by method, path and status.",
	},
		[]string{"method", "path", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ecom_api_http_request_duration_seconds",
		Help:    "HTTP request handling latency in seconds.",
		Buckets: prometheus.DefBuckets,
	},
		[]string{"method", "path"},
	)
)
