package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestTotal counts HTTP requests by method, route and status.
	RequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aptsearch_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	// RequestDuration is the latency of HTTP requests.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aptsearch_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	// QueriesTotal counts executed searches by serving source and outcome.
	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aptsearch_queries_total",
			Help: "Total number of executed searches",
		},
		[]string{"source", "status"},
	)
	StoreUp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "aptsearch_store_up",
			Help: "1 when the database is serving searches, 0 in sample mode",
		},
	)
	StoreFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "aptsearch_store_fallbacks_total",
			Help: "Number of times a failing store sent a request to sample data",
		},
	)
)
