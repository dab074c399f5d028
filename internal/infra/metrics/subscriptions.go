package metrics

import (
	"coaching-subscription/internal/domain/model"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		membershipsExpiredTotal,
		membershipsTotal,
		purchaseConflictsTotal,
		cycleArchiveFailuresTotal,
	)
}

var (
	membershipsExpiredTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "memberships_expired_total",
			Help: "Total number of memberships processed by the expiry sweeper.",
		},
		[]string{"kind"}, // 'lapsed', 'stale_pending'
	)

	membershipsTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "memberships_total",
			Help: "Current number of memberships by status.",
		},
		[]string{"status"},
	)

	purchaseConflictsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "purchase_conflicts_total",
			Help: "Purchases refused because the user already holds an open membership.",
		},
		[]string{"reason"},
	)

	cycleArchiveFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cycle_archive_failures_total",
			Help: "Best-effort archive of the previous billing cycle that failed during confirmation.",
		},
	)
)

func IncMembershipsExpired(kind string, count int) {
	membershipsExpiredTotal.WithLabelValues(norm(kind)).Add(float64(count))
}

func IncPurchaseConflict(reason string) {
	purchaseConflictsTotal.WithLabelValues(norm(reason)).Inc()
}

func IncCycleArchiveFailure() {
	cycleArchiveFailuresTotal.Inc()
}

func SetMembershipsTotal(counts map[model.MembershipStatus]int) {
	statuses := []model.MembershipStatus{
		model.MembershipStatusPending,
		model.MembershipStatusActive,
		model.MembershipStatusPendingCancellation,
		model.MembershipStatusExpired,
		model.MembershipStatusCancelled,
		model.MembershipStatusCompleted,
	}
	for _, status := range statuses {
		membershipsTotal.WithLabelValues(string(status)).Set(float64(counts[status]))
	}
}
