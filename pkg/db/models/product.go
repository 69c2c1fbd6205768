package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kisansetu/kisansetu-backend/pkg/enums"
)

// SellLocation is the embedded village/district/state triple on a listing.
type SellLocation struct {
	Village  string `gorm:"column:village" json:"village"`
	District string `gorm:"column:district" json:"district"`
	State    string `gorm:"column:state" json:"state"`
}

// Product is a farmer's produce listing. Quantity is mutated only by the
// order approval path; everything else is owner-editable.
type Product struct {
	ID        uuid.UUID             `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	FarmerID  uuid.UUID             `gorm:"column:farmer_id;type:uuid;not null;index" json:"farmer_id"`
	CropName  string                `gorm:"column:crop_name;not null" json:"crop_name"`
	Category  enums.ProductCategory `gorm:"column:category;type:text;not null;default:'vegetables'" json:"category"`
	Quantity  int                   `gorm:"column:quantity;not null" json:"quantity"`
	Price     decimal.Decimal       `gorm:"column:price;type:numeric(12,2);not null" json:"price"`
	SellDate  time.Time             `gorm:"column:sell_date;not null" json:"sell_date"`
	Location  SellLocation          `gorm:"embedded;embeddedPrefix:sell_" json:"sell_location"`
	ImageURL  *string               `gorm:"column:image_url" json:"image_url,omitempty"`
	Status    enums.ProductStatus   `gorm:"column:status;type:text;not null;default:'active'" json:"status"`
	CreatedAt time.Time             `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time             `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}
