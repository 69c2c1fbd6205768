package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kisansetu/kisansetu-backend/pkg/db/models"
	"github.com/kisansetu/kisansetu-backend/pkg/enums"
)

// CreateOrderRequest captures a consumer's purchase request.
type CreateOrderRequest struct {
	ProductID       uuid.UUID        `json:"product_id" validate:"required"`
	Quantity        int              `json:"quantity" validate:"required,gt=0"`
	NegotiatedPrice *decimal.Decimal `json:"negotiated_price,omitempty"`
	PaymentMethod   string           `json:"payment_method" validate:"required,oneof=online cash"`
}

// TransitionRequest carries a requested status change for an order.
type TransitionRequest struct {
	Status     string           `json:"status" validate:"required"`
	FinalPrice *decimal.Decimal `json:"final_price,omitempty"`
}

// OrderDTO is the order shape returned to clients.
type OrderDTO struct {
	ID                uuid.UUID           `json:"id"`
	ProductID         uuid.UUID           `json:"product_id"`
	FarmerID          uuid.UUID           `json:"farmer_id"`
	ConsumerID        uuid.UUID           `json:"consumer_id"`
	CropName          string              `json:"crop_name"`
	RequestedQuantity int                 `json:"requested_quantity"`
	OriginalPrice     decimal.Decimal     `json:"original_price"`
	NegotiatedPrice   decimal.Decimal     `json:"negotiated_price"`
	FinalPrice        *decimal.Decimal    `json:"final_price,omitempty"`
	EffectivePrice    decimal.Decimal     `json:"effective_price"`
	TotalAmount       decimal.Decimal     `json:"total_amount"`
	PaymentMethod     enums.PaymentMethod `json:"payment_method"`
	Status            enums.OrderStatus   `json:"status"`
	OrderDate         time.Time           `json:"order_date"`
	ApprovalDate      *time.Time          `json:"approval_date,omitempty"`
	PaymentDate       *time.Time          `json:"payment_date,omitempty"`
}

// FromModel maps an order model onto the transport DTO.
func FromModel(o *models.Order) *OrderDTO {
	if o == nil {
		return nil
	}
	return &OrderDTO{
		ID:                o.ID,
		ProductID:         o.ProductID,
		FarmerID:          o.FarmerID,
		ConsumerID:        o.ConsumerID,
		CropName:          o.CropName,
		RequestedQuantity: o.RequestedQuantity,
		OriginalPrice:     o.OriginalPrice,
		NegotiatedPrice:   o.NegotiatedPrice,
		FinalPrice:        o.FinalPrice,
		EffectivePrice:    o.EffectivePrice(),
		TotalAmount:       o.TotalAmount(),
		PaymentMethod:     o.PaymentMethod,
		Status:            o.Status,
		OrderDate:         o.OrderDate,
		ApprovalDate:      o.ApprovalDate,
		PaymentDate:       o.PaymentDate,
	}
}

// FromModels maps a slice of order models.
func FromModels(rows []models.Order) []OrderDTO {
	dtos := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos
}
