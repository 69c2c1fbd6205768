package products

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kisansetu/kisansetu-backend/pkg/db/models"
	"github.com/kisansetu/kisansetu-backend/pkg/enums"
)

func setupProductsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:products_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Product{}))
	return db
}

func mustCreateFarmer(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Name:         "Test Farmer",
		Email:        fmt.Sprintf("farmer_%s@example.com", uuid.NewString()),
		PasswordHash: "hash",
		Role:         enums.UserRoleFarmer,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func mustCreateListing(t *testing.T, db *gorm.DB, farmerID uuid.UUID, qty int, price string) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:       uuid.New(),
		FarmerID: farmerID,
		CropName: "Tomato",
		Category: enums.ProductCategoryVegetables,
		Quantity: qty,
		Price:    decimal.RequireFromString(price),
		SellDate: time.Now().Add(48 * time.Hour),
		Status:   enums.ProductStatusActive,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}
