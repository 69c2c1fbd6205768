package products

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kisansetu/kisansetu-backend/pkg/db/models"
	"github.com/kisansetu/kisansetu-backend/pkg/enums"
	"github.com/kisansetu/kisansetu-backend/pkg/pagination"
)

// Repository wires together product listing persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new listing.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// FindByID loads a listing without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Update persists the full listing row.
func (r *Repository) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes a listing.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}

// ListActive returns a page of active listings, newest first. The cursor is
// keyset-based on (created_at, id) so inserts never shift an open page.
func (r *Repository) ListActive(ctx context.Context, cursor *pagination.Cursor, limit int) ([]models.Product, error) {
	q := r.db.WithContext(ctx).
		Where("status = ?", enums.ProductStatusActive).
		Order("created_at DESC").
		Order("id DESC")
	if cursor != nil {
		q = q.Where("created_at < ? OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []models.Product
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByFarmer returns every listing owned by the farmer, newest first.
func (r *Repository) ListByFarmer(ctx context.Context, farmerID uuid.UUID) ([]models.Product, error) {
	var rows []models.Product
	if err := r.db.WithContext(ctx).
		Where("farmer_id = ?", farmerID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
