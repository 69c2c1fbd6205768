package enums

import "fmt"

// PaymentMethod distinguishes how a consumer intends to settle an order.
type PaymentMethod string

const (
	PaymentMethodOnline PaymentMethod = "online"
	PaymentMethodCash   PaymentMethod = "cash"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodOnline,
	PaymentMethodCash,
}

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentMethod.
func (p PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentMethod converts raw input into a PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	for _, candidate := range validPaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}

// SettlementMethod records how a payment was actually settled.
type SettlementMethod string

const (
	SettlementMethodCard SettlementMethod = "card"
	SettlementMethodUPI  SettlementMethod = "upi"
	SettlementMethodCash SettlementMethod = "cash"
	SettlementMethodMock SettlementMethod = "mock"
)

var validSettlementMethods = []SettlementMethod{
	SettlementMethodCard,
	SettlementMethodUPI,
	SettlementMethodCash,
	SettlementMethodMock,
}

// String implements fmt.Stringer.
func (s SettlementMethod) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SettlementMethod.
func (s SettlementMethod) IsValid() bool {
	for _, candidate := range validSettlementMethods {
		if candidate == s {
			return true
		}
	}
	return false
}
