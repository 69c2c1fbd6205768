package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kisansetu/kisansetu-backend/pkg/db/models"
	"github.com/kisansetu/kisansetu-backend/pkg/enums"
)

// CreateProductRequest carries the fields a farmer submits for a new listing.
type CreateProductRequest struct {
	CropName string          `json:"crop_name" validate:"required"`
	Category string          `json:"category" validate:"omitempty,oneof=vegetables fruits grains others"`
	Quantity int             `json:"quantity" validate:"required,gt=0"`
	Price    decimal.Decimal `json:"price" validate:"required"`
	SellDate time.Time       `json:"sell_date" validate:"required"`
	Village  string          `json:"village"`
	District string          `json:"district"`
	State    string          `json:"state"`
	ImageURL *string         `json:"image_url,omitempty"`
}

// UpdateProductRequest carries the owner-editable listing fields. Nil means
// leave the field unchanged.
type UpdateProductRequest struct {
	CropName *string          `json:"crop_name,omitempty"`
	Category *string          `json:"category,omitempty"`
	Quantity *int             `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	Price    *decimal.Decimal `json:"price,omitempty"`
	SellDate *time.Time       `json:"sell_date,omitempty"`
	Village  *string          `json:"village,omitempty"`
	District *string          `json:"district,omitempty"`
	State    *string          `json:"state,omitempty"`
	ImageURL *string          `json:"image_url,omitempty"`
	Status   *string          `json:"status,omitempty"`
}

// ProductDTO is the listing shape returned to clients, enriched with the
// farmer's name and rating for the browse view.
type ProductDTO struct {
	ID          uuid.UUID             `json:"id"`
	FarmerID    uuid.UUID             `json:"farmer_id"`
	FarmerName  string                `json:"farmer_name,omitempty"`
	CropName    string                `json:"crop_name"`
	Category    enums.ProductCategory `json:"category"`
	Quantity    int                   `json:"quantity"`
	Price       decimal.Decimal       `json:"price"`
	SellDate    time.Time             `json:"sell_date"`
	Location    models.SellLocation   `json:"sell_location"`
	ImageURL    *string               `json:"image_url,omitempty"`
	Status      enums.ProductStatus   `json:"status"`
	AvgRating   *float64              `json:"avg_rating,omitempty"`
	ReviewCount int                   `json:"review_count,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
}

// ProductPage is one page of the public catalog.
type ProductPage struct {
	Items      []ProductDTO `json:"items"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// FromModel maps a product model onto the transport DTO.
func FromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:        p.ID,
		FarmerID:  p.FarmerID,
		CropName:  p.CropName,
		Category:  p.Category,
		Quantity:  p.Quantity,
		Price:     p.Price,
		SellDate:  p.SellDate,
		Location:  p.Location,
		ImageURL:  p.ImageURL,
		Status:    p.Status,
		CreatedAt: p.CreatedAt,
	}
}
