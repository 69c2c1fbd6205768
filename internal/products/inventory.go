package products

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kisansetu/kisansetu-backend/pkg/enums"
	pkgerrors "github.com/kisansetu/kisansetu-backend/pkg/errors"
)

// InventoryReserver deducts stock when an order is approved.
type InventoryReserver interface {
	Reserve(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error
}

type inventoryReserverImpl struct{}

// NewInventoryReserver exposes the default stock deduction implementation.
func NewInventoryReserver() InventoryReserver {
	return inventoryReserverImpl{}
}

// Reserve atomically deducts qty from an active listing with enough stock.
// The listing flips to inactive when the deduction empties it. A zero
// rows-affected result means the stock check lost, never a partial write.
func (inventoryReserverImpl) Reserve(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error {
	if qty <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "reserve quantity must be positive")
	}
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for stock deduction")
	}

	res := tx.WithContext(ctx).Exec(`
		UPDATE products
		SET quantity = quantity - ?,
			status = CASE WHEN quantity - ? <= 0 THEN ? ELSE status END,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = ? AND quantity >= ?
	`, qty, qty, enums.ProductStatusInactive, productID, enums.ProductStatusActive, qty)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "deduct stock")
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeInsufficientStock, "not enough quantity available")
	}
	return nil
}
