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

	// RemoteFetchTotal counts section API calls by outcome: ok, cached,
	// network, timeout, status, parse.
	RemoteFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bizplan_remote_fetch_total",
			Help: "Remote section fetches by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"},
	)

	SectionImportDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bizplan_section_import_duration_seconds",
			Help:    "Time to import one section including the remote fetch",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"section"},
	)

	// DocumentImportsTotal path is concurrent or sequential.
	DocumentImportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bizplan_document_imports_total",
			Help: "Full document imports by execution path and status",
		},
		[]string{"path", "status"},
	)

	PagesRenderedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bizplan_pages_rendered_total",
			Help: "Rendered pages by section",
		},
		[]string{"section"},
	)
)

// Outcome labels for RemoteFetchTotal.
const (
	OutcomeOK      = "ok"
	OutcomeCached  = "cached"
	OutcomeNetwork = "network"
	OutcomeTimeout = "timeout"
	OutcomeStatus  = "status"
	OutcomeParse   = "parse"
)
