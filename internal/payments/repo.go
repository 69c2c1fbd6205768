package payments

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kisansetu/kisansetu-backend/pkg/db/models"
	"github.com/kisansetu/kisansetu-backend/pkg/enums"
)

// Repository exposes payment persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a payments repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a payment record.
func (r *Repository) Create(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		return nil, err
	}
	return payment, nil
}

// FindSuccessByOrder returns the settled payment for an order, or nil when
// the order has not settled yet.
func (r *Repository) FindSuccessByOrder(ctx context.Context, orderID uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND status = ?", orderID, enums.PaymentStatusSuccess).
		First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

// ListSuccessByFarmer returns all settled payments owed to a farmer.
func (r *Repository) ListSuccessByFarmer(ctx context.Context, farmerID uuid.UUID) ([]models.Payment, error) {
	var rows []models.Payment
	if err := r.db.WithContext(ctx).
		Where("farmer_id = ? AND status = ?", farmerID, enums.PaymentStatusSuccess).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
