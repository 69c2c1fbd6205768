package payments

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kisansetu/kisansetu-backend/pkg/db/models"
	"github.com/kisansetu/kisansetu-backend/pkg/enums"
)

// CheckoutSessionRequest asks for a hosted payment page for an order.
type CheckoutSessionRequest struct {
	OrderID uuid.UUID `json:"order_id" validate:"required"`
}

// VerifyPaymentRequest confirms a hosted checkout session against the provider.
type VerifyPaymentRequest struct {
	OrderID   uuid.UUID `json:"order_id" validate:"required"`
	SessionID string    `json:"session_id" validate:"required"`
}

// CashPaymentRequest records an offline settlement for a cash order.
type CashPaymentRequest struct {
	OrderID uuid.UUID `json:"order_id" validate:"required"`
}

// CheckoutSessionDTO is returned when a hosted session is created.
type CheckoutSessionDTO struct {
	SessionID   string          `json:"session_id"`
	CheckoutURL string          `json:"checkout_url"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
}

// PaymentDTO is the settlement record returned to clients.
type PaymentDTO struct {
	ID            uuid.UUID              `json:"id"`
	OrderID       uuid.UUID              `json:"order_id"`
	Amount        decimal.Decimal        `json:"amount"`
	Method        enums.SettlementMethod `json:"method"`
	Status        enums.PaymentStatus    `json:"status"`
	TransactionID *string                `json:"transaction_id,omitempty"`
	PaidAt        *time.Time             `json:"paid_at,omitempty"`
}

// FromModel maps a payment model onto the transport DTO.
func FromModel(p *models.Payment) *PaymentDTO {
	if p == nil {
		return nil
	}
	return &PaymentDTO{
		ID:            p.ID,
		OrderID:       p.OrderID,
		Amount:        p.Amount,
		Method:        p.Method,
		Status:        p.Status,
		TransactionID: p.TransactionID,
		PaidAt:        p.PaidAt,
	}
}
