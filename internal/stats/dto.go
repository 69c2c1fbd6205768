package stats

import (
	"github.com/shopspring/decimal"

	"github.com/kisansetu/kisansetu-backend/internal/orders"
	"github.com/kisansetu/kisansetu-backend/internal/products"
	"github.com/kisansetu/kisansetu-backend/internal/reviews"
)

// ConsumerDashboardDTO summarizes a consumer's activity.
type ConsumerDashboardDTO struct {
	TotalOrders   int64             `json:"total_orders"`
	PendingOrders int64             `json:"pending_orders"`
	TotalImpact   decimal.Decimal   `json:"total_impact"`
	RecentOrders  []orders.OrderDTO `json:"recent_orders"`
}

// FarmerDashboardDTO summarizes a farmer's listings, sales, and reputation.
type FarmerDashboardDTO struct {
	TotalEarnings  decimal.Decimal       `json:"total_earnings"`
	ActiveListings int64                 `json:"active_listings"`
	PendingOrders  int64                 `json:"pending_orders"`
	RecentProducts []products.ProductDTO `json:"recent_products"`
	Rating         RatingDTO             `json:"rating"`
	LatestReviews  []reviews.ReviewDTO   `json:"latest_reviews"`
}

// RatingDTO is the farmer's aggregate rating block.
type RatingDTO struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}
