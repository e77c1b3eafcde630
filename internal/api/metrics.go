package api

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reporter_http_requests_total",
			Help: "HTTP requests by route and status code",
		},
		[]string{"method", "route", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reporter_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	RequestErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reporter_request_errors_total",
			Help: "Rejected or failed requests by error kind",
		},
		[]string{"kind"},
	)
	UploadBytes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reporter_country_upload_bytes",
			Help:    "Size of accepted country mapping uploads",
			Buckets: prometheus.ExponentialBuckets(256, 4, 8),
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequests)
	prometheus.MustRegister(HTTPDuration)
	prometheus.MustRegister(RequestErrors)
	prometheus.MustRegister(UploadBytes)
}
