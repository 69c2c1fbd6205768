package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is a consumer's one-per-order rating of a farmer.
type Review struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OrderID    uuid.UUID `gorm:"column:order_id;type:uuid;not null;uniqueIndex:uq_reviews_order_consumer" json:"order_id"`
	ConsumerID uuid.UUID `gorm:"column:consumer_id;type:uuid;not null;uniqueIndex:uq_reviews_order_consumer" json:"consumer_id"`
	FarmerID   uuid.UUID `gorm:"column:farmer_id;type:uuid;not null;index" json:"farmer_id"`
	ProductID  uuid.UUID `gorm:"column:product_id;type:uuid;not null" json:"product_id"`
	Rating     int       `gorm:"column:rating;not null" json:"rating"`
	Comment    *string   `gorm:"column:comment" json:"comment,omitempty"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
