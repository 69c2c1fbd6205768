package reviews

import (
	"time"

	"github.com/google/uuid"
)

// CreateReviewRequest rates the farmer behind a settled order.
type CreateReviewRequest struct {
	OrderID uuid.UUID `json:"order_id" validate:"required"`
	Rating  int       `json:"rating" validate:"required,min=1,max=5"`
	Comment *string   `json:"comment,omitempty" validate:"omitempty,max=1000"`
}

// ReviewDTO is a review enriched with the reviewer's name and the crop it
// was about.
type ReviewDTO struct {
	ID           uuid.UUID `json:"id"`
	OrderID      uuid.UUID `json:"order_id"`
	ConsumerID   uuid.UUID `json:"consumer_id"`
	ConsumerName string    `json:"consumer_name,omitempty"`
	FarmerID     uuid.UUID `json:"farmer_id"`
	ProductID    uuid.UUID `json:"product_id"`
	CropName     string    `json:"crop_name,omitempty"`
	Rating       int       `json:"rating"`
	Comment      *string   `json:"comment,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// FarmerStatsDTO is a farmer's aggregate rating, zero-valued when the farmer
// has no reviews yet.
type FarmerStatsDTO struct {
	FarmerID uuid.UUID `json:"farmer_id"`
	Average  float64   `json:"average"`
	Count    int       `json:"count"`
}
