package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(sweepRunsTotal, sweepFailuresTotal) }

var (
	sweepRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "expiry_sweep_runs_total",
			Help: "Total number of expiry sweeps, labeled by outcome.",
		},
		[]string{"status"}, // 'completed', 'failed', 'skipped'
	)

	sweepFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "expiry_sweep_item_failures_total",
			Help: "Memberships the sweeper failed to process.",
		},
	)
)

func IncSweepRun(status string) {
	sweepRunsTotal.WithLabelValues(norm(status)).Inc()
}

func IncSweepItemFailure() {
	sweepFailuresTotal.Inc()
}
