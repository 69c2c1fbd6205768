package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kisansetu/kisansetu-backend/pkg/enums"
)

// Order captures a single negotiated purchase request. Prices are snapshots
// taken at creation time; later product edits never change them.
type Order struct {
	ID                uuid.UUID           `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ProductID         uuid.UUID           `gorm:"column:product_id;type:uuid;not null;index" json:"product_id"`
	FarmerID          uuid.UUID           `gorm:"column:farmer_id;type:uuid;not null;index" json:"farmer_id"`
	ConsumerID        uuid.UUID           `gorm:"column:consumer_id;type:uuid;not null;index" json:"consumer_id"`
	CropName          string              `gorm:"column:crop_name;not null" json:"crop_name"`
	RequestedQuantity int                 `gorm:"column:requested_quantity;not null" json:"requested_quantity"`
	OriginalPrice     decimal.Decimal     `gorm:"column:original_price;type:numeric(12,2);not null" json:"original_price"`
	NegotiatedPrice   decimal.Decimal     `gorm:"column:negotiated_price;type:numeric(12,2);not null" json:"negotiated_price"`
	FinalPrice        *decimal.Decimal    `gorm:"column:final_price;type:numeric(12,2)" json:"final_price,omitempty"`
	PaymentMethod     enums.PaymentMethod `gorm:"column:payment_method;type:text;not null" json:"payment_method"`
	Status            enums.OrderStatus   `gorm:"column:status;type:text;not null;default:'requested'" json:"status"`
	OrderDate         time.Time           `gorm:"column:order_date;not null" json:"order_date"`
	ApprovalDate      *time.Time          `gorm:"column:approval_date" json:"approval_date,omitempty"`
	PaymentDate       *time.Time          `gorm:"column:payment_date" json:"payment_date,omitempty"`
	CreatedAt         time.Time           `gorm:"column:created_at;autoCreateTime" json:"-"`
	UpdatedAt         time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

// EffectivePrice is the per-unit price money is owed at: the farmer's final
// price when set, the consumer's negotiated price otherwise.
func (o Order) EffectivePrice() decimal.Decimal {
	if o.FinalPrice != nil {
		return *o.FinalPrice
	}
	return o.NegotiatedPrice
}

// TotalAmount is the effective price multiplied by the requested quantity.
func (o Order) TotalAmount() decimal.Decimal {
	return o.EffectivePrice().Mul(decimal.NewFromInt(int64(o.RequestedQuantity)))
}
