package enums

import "fmt"

// OrderStatus tracks the lifecycle of a purchase order.
type OrderStatus string

const (
	OrderStatusRequested      OrderStatus = "requested"
	OrderStatusApproved       OrderStatus = "approved"
	OrderStatusPaymentPending OrderStatus = "payment_pending"
	OrderStatusPaid           OrderStatus = "paid"
	OrderStatusCompleted      OrderStatus = "completed"
	OrderStatusRejected       OrderStatus = "rejected"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusRequested,
	OrderStatusApproved,
	OrderStatusPaymentPending,
	OrderStatusPaid,
	OrderStatusCompleted,
	OrderStatusRejected,
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition may leave this status.
func (o OrderStatus) IsTerminal() bool {
	return o == OrderStatusCompleted || o == OrderStatusRejected
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
