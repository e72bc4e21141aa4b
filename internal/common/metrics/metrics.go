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
)

// Engine outcomes.
var (
	BatchesSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_batches_skipped_total",
			Help: "Batches left out of a comparison or ranking, by reason",
		},
		[]string{"task_type", "reason"},
	)

	ComparisonsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_comparisons_total",
			Help: "Comparison requests by outcome (valid or invalid)",
		},
		[]string{"outcome"},
	)

	RankingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_rankings_total",
			Help: "Ranking requests by selector and outcome",
		},
		[]string{"selector", "outcome"},
	)

	ForecastsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_forecasts_total",
			Help: "Forecast requests by KPI and outcome (forecast or insufficient_data)",
		},
		[]string{"kpi", "outcome"},
	)

	RegistryQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "registry_query_duration_seconds",
			Help:    "Batch registry query latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"query_type"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "comparison_cache_lookups_total",
			Help: "Comparison cache lookups by result (hit, miss or error)",
		},
		[]string{"result"},
	)
)

// Outcome renders a validity flag as a metric label.
func Outcome(valid bool) string {
	if valid {
		return "valid"
	}
	return "invalid"
}
