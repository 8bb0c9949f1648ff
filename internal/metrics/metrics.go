package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method, path and status",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and path",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	InvoicesCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "invoices_created_total",
			Help: "Invoices committed successfully",
		},
	)

	InvoicesAmendedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "invoices_amended_total",
			Help: "Invoice amendments committed successfully",
		},
	)

	InvoiceFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invoice_failures_total",
			Help: "Invoice operations rejected, by reason key",
		},
		[]string{"reason"},
	)
)
