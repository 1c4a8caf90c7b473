// internal/services/main_test.go
package services

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shopverse/ecommerce-backend/internal/models"
)

// setupTestDB opens a fresh in-memory database per test. A single connection
// keeps the :memory: database alive for the whole test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Address{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Review{},
	))

	return db
}

var testUserSeq int

func createTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	testUserSeq++
	user := &models.User{
		Username: fmt.Sprintf("user%d", testUserSeq),
		Email:    fmt.Sprintf("user%d@example.com", testUserSeq),
		Role:     models.UserRoleCustomer,
		Status:   models.UserStatusActive,
	}
	require.NoError(t, user.SetPassword("Sup3r$ecret"))
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()

	category := &models.Category{Name: name}
	require.NoError(t, db.Create(category).Error)
	return category
}

func createTestProduct(t *testing.T, db *gorm.DB, name, price string, stock int) *models.Product {
	t.Helper()

	category := createTestCategory(t, db, name+" category")
	product := &models.Product{
		Name:        name,
		Description: name + " description",
		Price:       decimal.RequireFromString(price),
		CategoryID:  category.ID,
		Stock:       stock,
		IsActive:    true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}
