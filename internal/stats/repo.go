package stats

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kisansetu/kisansetu-backend/pkg/db/models"
	"github.com/kisansetu/kisansetu-backend/pkg/enums"
)

var pendingStatuses = []enums.OrderStatus{
	enums.OrderStatusRequested,
	enums.OrderStatusApproved,
	enums.OrderStatusPaymentPending,
}

var settledStatuses = []enums.OrderStatus{
	enums.OrderStatusPaid,
	enums.OrderStatusCompleted,
}

// Repository runs the dashboard aggregate queries. Sums are computed in Go
// over the settled rows so decimal arithmetic stays exact across drivers.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CountOrders(ctx context.Context, column string, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Where(column+" = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *Repository) CountPendingOrders(ctx context.Context, column string, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Where(column+" = ?", userID).
		Where("status IN ?", pendingStatuses).
		Count(&count).Error
	return count, err
}

// SumSettled totals effective price x quantity over paid and completed orders.
func (r *Repository) SumSettled(ctx context.Context, column string, userID uuid.UUID) (decimal.Decimal, error) {
	var rows []models.Order
	err := r.db.WithContext(ctx).
		Where(column+" = ?", userID).
		Where("status IN ?", settledStatuses).
		Find(&rows).Error
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for i := range rows {
		total = total.Add(rows[i].TotalAmount())
	}
	return total, nil
}

func (r *Repository) CountActiveListings(ctx context.Context, farmerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("farmer_id = ? AND status = ?", farmerID, enums.ProductStatusActive).
		Count(&count).Error
	return count, err
}
