package txn

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric status label values.
const (
	statusApplied    = "applied"
	statusFailed     = "failed"
	statusRolledBack = "rolled_back"
)

var (
	transactionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "txnkit_transactions_total",
			Help: "Total number of transaction runs by terminal status",
		},
		[]string{"status"},
	)

	stepsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "txnkit_steps_total",
			Help: "Total number of forward steps attempted, by result",
		},
		[]string{"status"},
	)

	rollbackStepsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "txnkit_rollback_steps_total",
			Help: "Total number of rollback steps attempted during unwinding, by result",
		},
		[]string{"status"},
	)

	runDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "txnkit_run_duration_seconds",
			Help:    "Wall-clock duration of transaction runs",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func recordTransaction(status string, duration time.Duration) {
	transactionsTotal.WithLabelValues(status).Inc()
	runDurationSeconds.Observe(duration.Seconds())
}

func recordStepApply(status string) {
	stepsTotal.WithLabelValues(status).Inc()
}

func recordRollbackStep(status string) {
	rollbackStepsTotal.WithLabelValues(status).Inc()
}
