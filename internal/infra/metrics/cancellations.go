package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(cancellationTransitionsTotal, refundsPaidTotal) }

var (
	cancellationTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cancellation_transitions_total",
			Help: "Cancellation requests entering each workflow status.",
		},
		[]string{"status"}, // 'pending', 'approved', 'rejected', 'transfer_confirmed', 'completed'
	)

	refundsPaidTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "refunds_paid_total",
			Help: "Sum of refund amounts acknowledged by members.",
		},
	)
)

func IncCancellation(status string) {
	cancellationTransitionsTotal.WithLabelValues(norm(status)).Inc()
}

func AddRefundPaid(amount int64) {
	refundsPaidTotal.Add(float64(amount))
}
