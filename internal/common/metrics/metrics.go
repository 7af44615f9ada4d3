// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	BillsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_bills_created_total",
			Help: "Bills persisted, by payment mode",
		},
		[]string{"mode_payment"},
	)

	BillAmount = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pos_bill_amount",
			Help:    "Bill totals in the store currency",
			Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000},
		},
	)

	ReceiptsDelivered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_receipts_delivered_total",
			Help: "Receipt deliveries by channel and outcome",
		},
		[]string{"channel", "status"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_cache_lookups_total",
			Help: "Cache lookups by cache name and result",
		},
		[]string{"cache", "result"},
	)

	OutboundRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outbound_requests_total",
			Help: "HTTP calls to third-party services by status class",
		},
		[]string{"service", "method", "status"},
	)

	OutboundRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "outbound_request_duration_seconds",
			Help: "Latency of HTTP calls to third-party services",
		},
		[]string{"service"},
	)
)
