package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// CheckoutsTotal result: created, rejected, failed, replayed
	CheckoutsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lightbox_checkouts_total",
			Help: "Checkout attempts by result",
		},
		[]string{"result"},
	)

	PhotosUploaded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lightbox_photos_uploaded_total",
			Help: "Photos stored with all renditions",
		},
	)

	OrdersReconciled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lightbox_orders_reconciled_total",
			Help: "Stale pending orders marked failed by the reconciler",
		},
	)
)
