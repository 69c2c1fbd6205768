package metrics

import "github.com/prometheus/client_golang/prometheus"

// OrderMetrics tracks the order lifecycle from the service layer.
type OrderMetrics struct {
	transitions *prometheus.CounterVec
	payments    *prometheus.CounterVec
}

// NewOrderMetrics registers order lifecycle metrics on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_transitions_total",
		Help: "Order status transitions applied, by target status.",
	}, []string{"status"})
	payments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_recorded_total",
		Help: "Payments recorded, by settlement method.",
	}, []string{"method"})
	reg.MustRegister(transitions, payments)
	return &OrderMetrics{
		transitions: transitions,
		payments:    payments,
	}
}

// IncTransition increments the counter for the target order status.
func (o *OrderMetrics) IncTransition(status string) {
	if o == nil || o.transitions == nil {
		return
	}
	o.transitions.WithLabelValues(normalizeLabel(status)).Inc()
}

// IncPayment increments the payments counter for the settlement method.
func (o *OrderMetrics) IncPayment(method string) {
	if o == nil || o.payments == nil {
		return
	}
	o.payments.WithLabelValues(normalizeLabel(method)).Inc()
}
