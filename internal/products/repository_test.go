package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kisansetu/kisansetu-backend/pkg/db/models"
	"github.com/kisansetu/kisansetu-backend/pkg/enums"
	pkgerrors "github.com/kisansetu/kisansetu-backend/pkg/errors"
)

func TestReserve_DeductsAndKeepsActive(t *testing.T) {
	db := setupProductsTestDB(t)
	reserver := NewInventoryReserver()
	ctx := context.Background()

	farmer := mustCreateFarmer(t, db)
	listing := mustCreateListing(t, db, farmer.ID, 100, "30")

	require.NoError(t, reserver.Reserve(ctx, db, listing.ID, 50))

	var got models.Product
	require.NoError(t, db.First(&got, "id = ?", listing.ID).Error)
	assert.Equal(t, 50, got.Quantity)
	assert.Equal(t, enums.ProductStatusActive, got.Status)
}

func TestReserve_ExactStockFlipsInactive(t *testing.T) {
	db := setupProductsTestDB(t)
	reserver := NewInventoryReserver()
	ctx := context.Background()

	farmer := mustCreateFarmer(t, db)
	listing := mustCreateListing(t, db, farmer.ID, 50, "30")

	require.NoError(t, reserver.Reserve(ctx, db, listing.ID, 50))

	var got models.Product
	require.NoError(t, db.First(&got, "id = ?", listing.ID).Error)
	assert.Equal(t, 0, got.Quantity)
	assert.Equal(t, enums.ProductStatusInactive, got.Status)
}

func TestReserve_InsufficientStock(t *testing.T) {
	db := setupProductsTestDB(t)
	reserver := NewInventoryReserver()
	ctx := context.Background()

	farmer := mustCreateFarmer(t, db)
	listing := mustCreateListing(t, db, farmer.ID, 30, "30")

	err := reserver.Reserve(ctx, db, listing.ID, 40)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeInsufficientStock, appErr.Code())

	// stock untouched on failure
	var got models.Product
	require.NoError(t, db.First(&got, "id = ?", listing.ID).Error)
	assert.Equal(t, 30, got.Quantity)
	assert.Equal(t, enums.ProductStatusActive, got.Status)
}

func TestReserve_CompetingReservations(t *testing.T) {
	db := setupProductsTestDB(t)
	reserver := NewInventoryReserver()
	ctx := context.Background()

	farmer := mustCreateFarmer(t, db)
	listing := mustCreateListing(t, db, farmer.ID, 60, "30")

	// Two buyers both want 40 units; only one deduction can win.
	first := reserver.Reserve(ctx, db, listing.ID, 40)
	second := reserver.Reserve(ctx, db, listing.ID, 40)

	require.NoError(t, first)
	appErr := pkgerrors.As(second)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeInsufficientStock, appErr.Code())

	var got models.Product
	require.NoError(t, db.First(&got, "id = ?", listing.ID).Error)
	assert.Equal(t, 20, got.Quantity)
}

func TestReserve_InactiveListingRejected(t *testing.T) {
	db := setupProductsTestDB(t)
	reserver := NewInventoryReserver()
	ctx := context.Background()

	farmer := mustCreateFarmer(t, db)
	listing := mustCreateListing(t, db, farmer.ID, 100, "30")
	require.NoError(t, db.Model(&models.Product{}).
		Where("id = ?", listing.ID).
		Update("status", enums.ProductStatusInactive).Error)

	err := reserver.Reserve(ctx, db, listing.ID, 10)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeInsufficientStock, appErr.Code())
}

func TestReserve_UnknownProduct(t *testing.T) {
	db := setupProductsTestDB(t)
	reserver := NewInventoryReserver()

	err := reserver.Reserve(context.Background(), db, uuid.New(), 1)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeInsufficientStock, appErr.Code())
}

func TestListActive_ExcludesInactive(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	farmer := mustCreateFarmer(t, db)
	active := mustCreateListing(t, db, farmer.ID, 10, "30")
	inactive := mustCreateListing(t, db, farmer.ID, 0, "25")
	require.NoError(t, db.Model(&models.Product{}).
		Where("id = ?", inactive.ID).
		Update("status", enums.ProductStatusInactive).Error)

	rows, err := repo.ListActive(ctx, nil, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, active.ID, rows[0].ID)
}
