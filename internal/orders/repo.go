package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kisansetu/kisansetu-backend/pkg/db/models"
	"github.com/kisansetu/kisansetu-backend/pkg/enums"
)

// Repository exposes order persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new order.
func (r *Repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// FindByID loads an order by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByConsumer returns the consumer's orders, newest first.
func (r *Repository) ListByConsumer(ctx context.Context, consumerID uuid.UUID) ([]models.Order, error) {
	var rows []models.Order
	if err := r.db.WithContext(ctx).
		Where("consumer_id = ?", consumerID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByFarmer returns the farmer's incoming orders, newest first.
func (r *Repository) ListByFarmer(ctx context.Context, farmerID uuid.UUID) ([]models.Order, error) {
	var rows []models.Order
	if err := r.db.WithContext(ctx).
		Where("farmer_id = ?", farmerID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListRecentByConsumer returns the consumer's most recent orders.
func (r *Repository) ListRecentByConsumer(ctx context.Context, consumerID uuid.UUID, limit int) ([]models.Order, error) {
	var rows []models.Order
	if err := r.db.WithContext(ctx).
		Where("consumer_id = ?", consumerID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListRecentByFarmer returns the farmer's most recent orders.
func (r *Repository) ListRecentByFarmer(ctx context.Context, farmerID uuid.UUID, limit int) ([]models.Order, error) {
	var rows []models.Order
	if err := r.db.WithContext(ctx).
		Where("farmer_id = ?", farmerID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CompareAndSwapStatus moves status from one value to another, applying any
// extra column updates in the same statement. It reports whether the swap won.
func (r *Repository) CompareAndSwapStatus(ctx context.Context, id uuid.UUID, from, to enums.OrderStatus, extra map[string]any) (bool, error) {
	updates := map[string]any{"status": to}
	for col, val := range extra {
		updates[col] = val
	}
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// MarkApproved flips a requested order to approved, stamping the final price
// and approval time.
func (r *Repository) MarkApproved(ctx context.Context, id uuid.UUID, finalPrice decimal.Decimal, at time.Time) (bool, error) {
	return r.CompareAndSwapStatus(ctx, id, enums.OrderStatusRequested, enums.OrderStatusApproved, map[string]any{
		"final_price":   finalPrice,
		"approval_date": at,
	})
}

// MarkPaid flips an approved or payment-pending order to paid. The status
// guard makes repeated settlement attempts a no-op.
func (r *Repository) MarkPaid(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status IN ?", id, []enums.OrderStatus{
			enums.OrderStatusApproved,
			enums.OrderStatusPaymentPending,
		}).
		Updates(map[string]any{
			"status":       enums.OrderStatusPaid,
			"payment_date": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
