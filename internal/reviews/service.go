package reviews

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kisansetu/kisansetu-backend/pkg/db"
	"github.com/kisansetu/kisansetu-backend/pkg/db/models"
	"github.com/kisansetu/kisansetu-backend/pkg/enums"
	pkgerrors "github.com/kisansetu/kisansetu-backend/pkg/errors"
)

const farmerReviewsLimit = 50

type orderReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
}

// Service handles review creation and farmer rating lookups.
type Service interface {
	Create(ctx context.Context, consumerID uuid.UUID, req CreateReviewRequest) (*ReviewDTO, error)
	ListByFarmer(ctx context.Context, farmerID uuid.UUID) ([]ReviewDTO, error)
	StatsByFarmer(ctx context.Context, farmerID uuid.UUID) (*FarmerStatsDTO, error)
}

type service struct {
	repo   *Repository
	orders orderReader
}

// ServiceParams names the dependencies for the review service.
type ServiceParams struct {
	Repo   *Repository
	Orders orderReader
}

// NewService constructs a review service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("reviews repository required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders reader required")
	}
	return &service{repo: params.Repo, orders: params.Orders}, nil
}

func (s *service) Create(ctx context.Context, consumerID uuid.UUID, req CreateReviewRequest) (*ReviewDTO, error) {
	if consumerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if req.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order_id is required")
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	order, err := s.orders.FindByID(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.ConsumerID != consumerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the order's consumer may review it")
	}
	if order.Status != enums.OrderStatusPaid && order.Status != enums.OrderStatusCompleted {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order has not been settled yet")
	}

	if existing, err := s.repo.FindByOrderAndConsumer(ctx, order.ID, consumerID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup review")
	} else if existing != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "order has already been reviewed")
	}

	review := &models.Review{
		OrderID:    order.ID,
		ConsumerID: consumerID,
		FarmerID:   order.FarmerID,
		ProductID:  order.ProductID,
		Rating:     req.Rating,
	}
	if req.Comment != nil {
		if trimmed := strings.TrimSpace(*req.Comment); trimmed != "" {
			review.Comment = &trimmed
		}
	}

	created, err := s.repo.Create(ctx, review)
	if err != nil {
		// lost the duplicate race to a concurrent create
		if db.IsUniqueViolation(err, "uq_reviews_order_consumer") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "order has already been reviewed")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create review")
	}

	return &ReviewDTO{
		ID:         created.ID,
		OrderID:    created.OrderID,
		ConsumerID: created.ConsumerID,
		FarmerID:   created.FarmerID,
		ProductID:  created.ProductID,
		CropName:   order.CropName,
		Rating:     created.Rating,
		Comment:    created.Comment,
		CreatedAt:  created.CreatedAt,
	}, nil
}

func (s *service) ListByFarmer(ctx context.Context, farmerID uuid.UUID) ([]ReviewDTO, error) {
	if farmerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "farmer_id is required")
	}
	list, err := s.repo.ListByFarmer(ctx, farmerID, farmerReviewsLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}
	return list, nil
}

func (s *service) StatsByFarmer(ctx context.Context, farmerID uuid.UUID) (*FarmerStatsDTO, error) {
	if farmerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "farmer_id is required")
	}
	stats, err := s.repo.StatsByFarmer(ctx, farmerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "compute rating stats")
	}
	return stats, nil
}
