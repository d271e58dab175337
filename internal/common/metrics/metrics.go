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

	DiagnosticEvaluations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diagnostic_evaluations_total",
			Help: "Completed diagnostic evaluations by institutional state and resolved tier",
		},
		[]string{"state", "tier"},
	)

	DiagnosticRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diagnostic_rejections_total",
			Help: "Diagnostic inputs rejected by validation, by offending field",
		},
		[]string{"field"},
	)

	DiagnosticCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diagnostic_cache_lookups_total",
			Help: "Evaluation cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	DispatchOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diagnostic_dispatch_outcomes_total",
			Help: "Dispatch side effects by sink (webhook, email, alert, process) and outcome",
		},
		[]string{"sink", "outcome"},
	)

	ReportRenderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "diagnostic_report_render_seconds",
			Help:    "Time spent rendering diagnostic reports",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"format"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diagnostic_http_requests_total",
			Help: "API requests by route and status code",
		},
		[]string{"route", "code"},
	)
)
