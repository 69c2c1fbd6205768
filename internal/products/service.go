package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kisansetu/kisansetu-backend/pkg/db/models"
	"github.com/kisansetu/kisansetu-backend/pkg/enums"
	pkgerrors "github.com/kisansetu/kisansetu-backend/pkg/errors"
	"github.com/kisansetu/kisansetu-backend/pkg/pagination"
)

// RatingSummary carries a farmer's aggregate review stats for listing views.
type RatingSummary struct {
	FarmerID    uuid.UUID
	AvgRating   float64
	ReviewCount int
}

type ratingReader interface {
	SummariesByFarmerIDs(ctx context.Context, farmerIDs []uuid.UUID) (map[uuid.UUID]RatingSummary, error)
}

type nameReader interface {
	NamesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}

// Service defines the listing operations exposed to controllers.
type Service interface {
	Create(ctx context.Context, farmerID uuid.UUID, req CreateProductRequest) (*ProductDTO, error)
	Update(ctx context.Context, farmerID, productID uuid.UUID, req UpdateProductRequest) (*ProductDTO, error)
	Delete(ctx context.Context, farmerID, productID uuid.UUID) error
	GetByID(ctx context.Context, productID uuid.UUID) (*ProductDTO, error)
	ListActive(ctx context.Context, params pagination.Params) (*ProductPage, error)
	ListMine(ctx context.Context, farmerID uuid.UUID) ([]ProductDTO, error)
}

type service struct {
	repo    *Repository
	ratings ratingReader
	names   nameReader
}

// ServiceParams names the dependencies for the product service.
type ServiceParams struct {
	Repo    *Repository
	Ratings ratingReader
	Names   nameReader
}

// NewService constructs a product service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	return &service{
		repo:    params.Repo,
		ratings: params.Ratings,
		names:   params.Names,
	}, nil
}

func (s *service) Create(ctx context.Context, farmerID uuid.UUID, req CreateProductRequest) (*ProductDTO, error) {
	if farmerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	cropName := strings.TrimSpace(req.CropName)
	if cropName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "crop_name is required")
	}
	if req.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if req.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}

	category := enums.ProductCategoryVegetables
	if req.Category != "" {
		parsed, err := enums.ParseProductCategory(req.Category)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown category")
		}
		category = parsed
	}

	product, err := s.repo.Create(ctx, &models.Product{
		FarmerID: farmerID,
		CropName: cropName,
		Category: category,
		Quantity: req.Quantity,
		Price:    req.Price,
		SellDate: req.SellDate,
		Location: models.SellLocation{
			Village:  strings.TrimSpace(req.Village),
			District: strings.TrimSpace(req.District),
			State:    strings.TrimSpace(req.State),
		},
		ImageURL: req.ImageURL,
		Status:   enums.ProductStatusActive,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return FromModel(product), nil
}

func (s *service) Update(ctx context.Context, farmerID, productID uuid.UUID, req UpdateProductRequest) (*ProductDTO, error) {
	product, err := s.loadOwned(ctx, farmerID, productID)
	if err != nil {
		return nil, err
	}

	if req.CropName != nil {
		trimmed := strings.TrimSpace(*req.CropName)
		if trimmed == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "crop_name cannot be empty")
		}
		product.CropName = trimmed
	}
	if req.Category != nil {
		category, err := enums.ParseProductCategory(*req.Category)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown category")
		}
		product.Category = category
	}
	if req.Quantity != nil {
		if *req.Quantity < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
		}
		product.Quantity = *req.Quantity
		if product.Quantity == 0 {
			product.Status = enums.ProductStatusInactive
		}
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
		}
		product.Price = *req.Price
	}
	if req.SellDate != nil {
		product.SellDate = *req.SellDate
	}
	if req.Village != nil {
		product.Location.Village = strings.TrimSpace(*req.Village)
	}
	if req.District != nil {
		product.Location.District = strings.TrimSpace(*req.District)
	}
	if req.State != nil {
		product.Location.State = strings.TrimSpace(*req.State)
	}
	if req.ImageURL != nil {
		product.ImageURL = req.ImageURL
	}
	if req.Status != nil {
		status, err := enums.ParseProductStatus(*req.Status)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown status")
		}
		product.Status = status
	}

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return FromModel(updated), nil
}

func (s *service) Delete(ctx context.Context, farmerID, productID uuid.UUID) error {
	if _, err := s.loadOwned(ctx, farmerID, productID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

func (s *service) GetByID(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	dtos, err := s.enrich(ctx, []models.Product{*product})
	if err != nil {
		return nil, err
	}
	return &dtos[0], nil
}

func (s *service) ListActive(ctx context.Context, params pagination.Params) (*ProductPage, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.ListActive(ctx, cursor, limit+1)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	next := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	items, err := s.enrich(ctx, rows)
	if err != nil {
		return nil, err
	}
	return &ProductPage{Items: items, NextCursor: next}, nil
}

func (s *service) ListMine(ctx context.Context, farmerID uuid.UUID) ([]ProductDTO, error) {
	if farmerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	rows, err := s.repo.ListByFarmer(ctx, farmerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list own products")
	}
	return s.enrich(ctx, rows)
}

func (s *service) loadOwned(ctx context.Context, farmerID, productID uuid.UUID) (*models.Product, error) {
	if farmerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if product.FarmerID != farmerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "product does not belong to farmer")
	}
	return product, nil
}

func (s *service) enrich(ctx context.Context, rows []models.Product) ([]ProductDTO, error) {
	dtos := make([]ProductDTO, 0, len(rows))
	if len(rows) == 0 {
		return dtos, nil
	}

	farmerIDs := make([]uuid.UUID, 0, len(rows))
	seen := make(map[uuid.UUID]struct{}, len(rows))
	for _, row := range rows {
		if _, ok := seen[row.FarmerID]; !ok {
			seen[row.FarmerID] = struct{}{}
			farmerIDs = append(farmerIDs, row.FarmerID)
		}
	}

	var names map[uuid.UUID]string
	if s.names != nil {
		looked, err := s.names.NamesByIDs(ctx, farmerIDs)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load farmer names")
		}
		names = looked
	}

	var ratings map[uuid.UUID]RatingSummary
	if s.ratings != nil {
		looked, err := s.ratings.SummariesByFarmerIDs(ctx, farmerIDs)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load farmer ratings")
		}
		ratings = looked
	}

	for _, row := range rows {
		dto := FromModel(&row)
		if name, ok := names[row.FarmerID]; ok {
			dto.FarmerName = name
		}
		if summary, ok := ratings[row.FarmerID]; ok && summary.ReviewCount > 0 {
			avg := summary.AvgRating
			dto.AvgRating = &avg
			dto.ReviewCount = summary.ReviewCount
		}
		dtos = append(dtos, *dto)
	}
	return dtos, nil
}
