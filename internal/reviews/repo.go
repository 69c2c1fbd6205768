package reviews

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kisansetu/kisansetu-backend/internal/products"
	"github.com/kisansetu/kisansetu-backend/pkg/db/models"
)

// Repository persists reviews and computes rating aggregates.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, review *models.Review) (*models.Review, error) {
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		return nil, err
	}
	return review, nil
}

// FindByOrderAndConsumer returns nil, nil when the consumer has not reviewed
// the order yet.
func (r *Repository) FindByOrderAndConsumer(ctx context.Context, orderID, consumerID uuid.UUID) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND consumer_id = ?", orderID, consumerID).
		First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}

type reviewRow struct {
	ID           uuid.UUID `gorm:"column:id"`
	OrderID      uuid.UUID `gorm:"column:order_id"`
	ConsumerID   uuid.UUID `gorm:"column:consumer_id"`
	ConsumerName string    `gorm:"column:consumer_name"`
	FarmerID     uuid.UUID `gorm:"column:farmer_id"`
	ProductID    uuid.UUID `gorm:"column:product_id"`
	CropName     string    `gorm:"column:crop_name"`
	Rating       int       `gorm:"column:rating"`
	Comment      *string   `gorm:"column:comment"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

// ListByFarmer returns a farmer's reviews newest first, joined with the
// reviewer's name and the crop they bought.
func (r *Repository) ListByFarmer(ctx context.Context, farmerID uuid.UUID, limit int) ([]ReviewDTO, error) {
	query := r.db.WithContext(ctx).
		Table("reviews").
		Select("reviews.id, reviews.order_id, reviews.consumer_id, users.name AS consumer_name, "+
			"reviews.farmer_id, reviews.product_id, products.crop_name AS crop_name, "+
			"reviews.rating, reviews.comment, reviews.created_at").
		Joins("JOIN users ON users.id = reviews.consumer_id").
		Joins("JOIN products ON products.id = reviews.product_id").
		Where("reviews.farmer_id = ?", farmerID).
		Order("reviews.created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []reviewRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]ReviewDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, ReviewDTO{
			ID:           row.ID,
			OrderID:      row.OrderID,
			ConsumerID:   row.ConsumerID,
			ConsumerName: row.ConsumerName,
			FarmerID:     row.FarmerID,
			ProductID:    row.ProductID,
			CropName:     row.CropName,
			Rating:       row.Rating,
			Comment:      row.Comment,
			CreatedAt:    row.CreatedAt,
		})
	}
	return out, nil
}

type statsRow struct {
	FarmerID uuid.UUID `gorm:"column:farmer_id"`
	Average  float64   `gorm:"column:average"`
	Count    int       `gorm:"column:count"`
}

// StatsByFarmer aggregates a farmer's rating, returning zeros when the
// farmer has no reviews.
func (r *Repository) StatsByFarmer(ctx context.Context, farmerID uuid.UUID) (*FarmerStatsDTO, error) {
	var row statsRow
	err := r.db.WithContext(ctx).
		Table("reviews").
		Select("farmer_id, AVG(rating) AS average, COUNT(*) AS count").
		Where("farmer_id = ?", farmerID).
		Group("farmer_id").
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &FarmerStatsDTO{
		FarmerID: farmerID,
		Average:  roundRating(row.Average),
		Count:    row.Count,
	}, nil
}

// SummariesByFarmerIDs batches rating aggregates for catalog enrichment.
func (r *Repository) SummariesByFarmerIDs(ctx context.Context, farmerIDs []uuid.UUID) (map[uuid.UUID]products.RatingSummary, error) {
	out := make(map[uuid.UUID]products.RatingSummary, len(farmerIDs))
	if len(farmerIDs) == 0 {
		return out, nil
	}

	var rows []statsRow
	err := r.db.WithContext(ctx).
		Table("reviews").
		Select("farmer_id, AVG(rating) AS average, COUNT(*) AS count").
		Where("farmer_id IN ?", farmerIDs).
		Group("farmer_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		out[row.FarmerID] = products.RatingSummary{
			FarmerID:    row.FarmerID,
			AvgRating:   roundRating(row.Average),
			ReviewCount: row.Count,
		}
	}
	return out, nil
}

func roundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}
