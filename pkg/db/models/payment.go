package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kisansetu/kisansetu-backend/pkg/enums"
)

// Payment records a settlement attempt against an order. A success row is
// immutable and unique per order.
type Payment struct {
	ID            uuid.UUID              `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OrderID       uuid.UUID              `gorm:"column:order_id;type:uuid;not null;index" json:"order_id"`
	ConsumerID    uuid.UUID              `gorm:"column:consumer_id;type:uuid;not null" json:"consumer_id"`
	FarmerID      uuid.UUID              `gorm:"column:farmer_id;type:uuid;not null" json:"farmer_id"`
	Amount        decimal.Decimal        `gorm:"column:amount;type:numeric(12,2);not null" json:"amount"`
	Method        enums.SettlementMethod `gorm:"column:method;type:text;not null;default:'mock'" json:"method"`
	Status        enums.PaymentStatus    `gorm:"column:status;type:text;not null;default:'pending'" json:"status"`
	TransactionID *string                `gorm:"column:transaction_id" json:"transaction_id,omitempty"`
	PaidAt        *time.Time             `gorm:"column:paid_at" json:"paid_at,omitempty"`
	CreatedAt     time.Time              `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time              `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}
