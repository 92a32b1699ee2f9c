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

	DatasetCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataset_cache_lookups_total",
			Help: "Dataset cache lookups by outcome (hit, miss)",
		},
		[]string{"outcome"},
	)

	DatasetLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataset_loads_total",
			Help: "Dataset bundle loads from the document source by result",
		},
		[]string{"dataset", "result"},
	)

	QualificationResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qualification_results_total",
			Help: "Generated qualification results by agent and bucket",
		},
		[]string{"agent_id", "bucket"},
	)

	ContactsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contacts_generated_total",
			Help: "Synthesized outreach contacts by status",
		},
		[]string{"status"},
	)
)
