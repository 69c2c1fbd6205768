package products

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kisansetu/kisansetu-backend/pkg/enums"
	pkgerrors "github.com/kisansetu/kisansetu-backend/pkg/errors"
	"github.com/kisansetu/kisansetu-backend/pkg/pagination"
)

type stubRatings struct {
	summaries map[uuid.UUID]RatingSummary
}

func (s *stubRatings) SummariesByFarmerIDs(ctx context.Context, farmerIDs []uuid.UUID) (map[uuid.UUID]RatingSummary, error) {
	return s.summaries, nil
}

type stubNames struct {
	names map[uuid.UUID]string
}

func (s *stubNames) NamesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	return s.names, nil
}

func newTestService(t *testing.T, repo *Repository, ratings ratingReader, names nameReader) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: repo, Ratings: ratings, Names: names})
	require.NoError(t, err)
	return svc
}

func TestServiceCreate_DefaultsAndValidation(t *testing.T) {
	db := setupProductsTestDB(t)
	svc := newTestService(t, NewRepository(db), nil, nil)
	ctx := context.Background()
	farmer := mustCreateFarmer(t, db)

	dto, err := svc.Create(ctx, farmer.ID, CreateProductRequest{
		CropName: "  Onion ",
		Quantity: 100,
		Price:    decimal.NewFromInt(30),
		SellDate: time.Now().Add(24 * time.Hour),
		Village:  "Rampur",
		District: "Nashik",
		State:    "Maharashtra",
	})
	require.NoError(t, err)
	assert.Equal(t, "Onion", dto.CropName)
	assert.Equal(t, enums.ProductCategoryVegetables, dto.Category)
	assert.Equal(t, enums.ProductStatusActive, dto.Status)

	_, err = svc.Create(ctx, farmer.ID, CreateProductRequest{
		CropName: "Onion",
		Quantity: 0,
		Price:    decimal.NewFromInt(30),
	})
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())

	_, err = svc.Create(ctx, farmer.ID, CreateProductRequest{
		CropName: "Onion",
		Quantity: 5,
		Price:    decimal.NewFromInt(30),
		Category: "spices",
	})
	appErr = pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestServiceUpdate_OwnershipEnforced(t *testing.T) {
	db := setupProductsTestDB(t)
	svc := newTestService(t, NewRepository(db), nil, nil)
	ctx := context.Background()

	owner := mustCreateFarmer(t, db)
	other := mustCreateFarmer(t, db)
	listing := mustCreateListing(t, db, owner.ID, 40, "25")

	newName := "Red Onion"
	_, err := svc.Update(ctx, other.ID, listing.ID, UpdateProductRequest{CropName: &newName})
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeForbidden, appErr.Code())

	updated, err := svc.Update(ctx, owner.ID, listing.ID, UpdateProductRequest{CropName: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Red Onion", updated.CropName)
}

func TestServiceUpdate_ZeroQuantityDeactivates(t *testing.T) {
	db := setupProductsTestDB(t)
	svc := newTestService(t, NewRepository(db), nil, nil)
	ctx := context.Background()

	owner := mustCreateFarmer(t, db)
	listing := mustCreateListing(t, db, owner.ID, 40, "25")

	zero := 0
	updated, err := svc.Update(ctx, owner.ID, listing.ID, UpdateProductRequest{Quantity: &zero})
	require.NoError(t, err)
	assert.Equal(t, enums.ProductStatusInactive, updated.Status)
}

func TestServiceListActive_EnrichesRatingsAndNames(t *testing.T) {
	db := setupProductsTestDB(t)
	ctx := context.Background()

	farmer := mustCreateFarmer(t, db)
	mustCreateListing(t, db, farmer.ID, 10, "30")

	ratings := &stubRatings{summaries: map[uuid.UUID]RatingSummary{
		farmer.ID: {FarmerID: farmer.ID, AvgRating: 4.2, ReviewCount: 5},
	}}
	names := &stubNames{names: map[uuid.UUID]string{farmer.ID: farmer.Name}}
	svc := newTestService(t, NewRepository(db), ratings, names)

	page, err := svc.ListActive(ctx, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Empty(t, page.NextCursor)
	assert.Equal(t, farmer.Name, page.Items[0].FarmerName)
	require.NotNil(t, page.Items[0].AvgRating)
	assert.InDelta(t, 4.2, *page.Items[0].AvgRating, 0.001)
	assert.Equal(t, 5, page.Items[0].ReviewCount)
}

func TestServiceListActive_CursorWalksPages(t *testing.T) {
	db := setupProductsTestDB(t)
	svc := newTestService(t, NewRepository(db), nil, nil)
	ctx := context.Background()

	farmer := mustCreateFarmer(t, db)
	for range 3 {
		mustCreateListing(t, db, farmer.ID, 10, "30")
	}

	first, err := svc.ListActive(ctx, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first.Items, 2)
	require.NotEmpty(t, first.NextCursor)

	second, err := svc.ListActive(ctx, pagination.Params{Limit: 2, Cursor: first.NextCursor})
	require.NoError(t, err)
	require.Len(t, second.Items, 1)
	assert.Empty(t, second.NextCursor)

	seen := map[uuid.UUID]struct{}{}
	for _, item := range append(first.Items, second.Items...) {
		seen[item.ID] = struct{}{}
	}
	assert.Len(t, seen, 3)
}

func TestServiceListActive_RejectsBadCursor(t *testing.T) {
	db := setupProductsTestDB(t)
	svc := newTestService(t, NewRepository(db), nil, nil)

	_, err := svc.ListActive(context.Background(), pagination.Params{Cursor: "not-base64!"})
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestServiceDelete_NotFound(t *testing.T) {
	db := setupProductsTestDB(t)
	svc := newTestService(t, NewRepository(db), nil, nil)

	farmer := mustCreateFarmer(t, db)
	err := svc.Delete(context.Background(), farmer.ID, uuid.New())
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}
