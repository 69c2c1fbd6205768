package stats

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/kisansetu/kisansetu-backend/internal/orders"
	"github.com/kisansetu/kisansetu-backend/internal/products"
	"github.com/kisansetu/kisansetu-backend/internal/reviews"
	"github.com/kisansetu/kisansetu-backend/pkg/db/models"
	pkgerrors "github.com/kisansetu/kisansetu-backend/pkg/errors"
)

const (
	recentOrdersLimit   = 5
	recentProductsLimit = 5
	latestReviewsLimit  = 3
)

type orderLister interface {
	ListRecentByConsumer(ctx context.Context, consumerID uuid.UUID, limit int) ([]models.Order, error)
}

type productLister interface {
	ListByFarmer(ctx context.Context, farmerID uuid.UUID) ([]models.Product, error)
}

type reviewReader interface {
	StatsByFarmer(ctx context.Context, farmerID uuid.UUID) (*reviews.FarmerStatsDTO, error)
	ListByFarmer(ctx context.Context, farmerID uuid.UUID, limit int) ([]reviews.ReviewDTO, error)
}

// Service computes dashboard summaries on demand. Nothing is cached; each
// call recomputes from the current rows.
type Service interface {
	ConsumerDashboard(ctx context.Context, consumerID uuid.UUID) (*ConsumerDashboardDTO, error)
	FarmerDashboard(ctx context.Context, farmerID uuid.UUID) (*FarmerDashboardDTO, error)
}

type service struct {
	repo         *Repository
	orderReader  orderLister
	productsRead productLister
	reviewsRead  reviewReader
}

// ServiceParams names the dependencies for the stats service.
type ServiceParams struct {
	Repo     *Repository
	Orders   orderLister
	Products productLister
	Reviews  reviewReader
}

// NewService constructs a stats service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("stats repository required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders reader required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("products reader required")
	}
	if params.Reviews == nil {
		return nil, fmt.Errorf("reviews reader required")
	}
	return &service{
		repo:         params.Repo,
		orderReader:  params.Orders,
		productsRead: params.Products,
		reviewsRead:  params.Reviews,
	}, nil
}

func (s *service) ConsumerDashboard(ctx context.Context, consumerID uuid.UUID) (*ConsumerDashboardDTO, error) {
	if consumerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	total, err := s.repo.CountOrders(ctx, "consumer_id", consumerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders")
	}
	pending, err := s.repo.CountPendingOrders(ctx, "consumer_id", consumerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count pending orders")
	}
	impact, err := s.repo.SumSettled(ctx, "consumer_id", consumerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum settled orders")
	}
	recent, err := s.orderReader.ListRecentByConsumer(ctx, consumerID, recentOrdersLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list recent orders")
	}

	return &ConsumerDashboardDTO{
		TotalOrders:   total,
		PendingOrders: pending,
		TotalImpact:   impact,
		RecentOrders:  orders.FromModels(recent),
	}, nil
}

func (s *service) FarmerDashboard(ctx context.Context, farmerID uuid.UUID) (*FarmerDashboardDTO, error) {
	if farmerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	earnings, err := s.repo.SumSettled(ctx, "farmer_id", farmerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum settled orders")
	}
	active, err := s.repo.CountActiveListings(ctx, farmerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count active listings")
	}
	pending, err := s.repo.CountPendingOrders(ctx, "farmer_id", farmerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count pending orders")
	}
	recent, err := s.productsRead.ListByFarmer(ctx, farmerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list recent products")
	}
	if len(recent) > recentProductsLimit {
		recent = recent[:recentProductsLimit]
	}
	rating, err := s.reviewsRead.StatsByFarmer(ctx, farmerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "compute rating stats")
	}
	latest, err := s.reviewsRead.ListByFarmer(ctx, farmerID, latestReviewsLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list latest reviews")
	}

	recentDTOs := make([]products.ProductDTO, 0, len(recent))
	for i := range recent {
		recentDTOs = append(recentDTOs, *products.FromModel(&recent[i]))
	}

	return &FarmerDashboardDTO{
		TotalEarnings:  earnings,
		ActiveListings: active,
		PendingOrders:  pending,
		RecentProducts: recentDTOs,
		Rating:         RatingDTO{Average: rating.Average, Count: rating.Count},
		LatestReviews:  latest,
	}, nil
}
