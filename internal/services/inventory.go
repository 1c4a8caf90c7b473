// internal/services/inventory.go
package services

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopverse/ecommerce-backend/internal/models"
)

// Stock ledger. Both operations run on the caller's transaction handle so a
// failure after partial application rolls back together with the order
// mutation that triggered it.

// reserveStock decrements a product's stock by quantity. The decrement is
// guarded: stock never goes negative, and the caller's transaction fails with
// ErrInsufficientStock when coverage is gone.
func reserveStock(tx *gorm.DB, productID uuid.UUID, quantity int) error {
	result := tx.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return fmt.Errorf("failed to reserve stock: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

// releaseStock returns quantity units to a product's stock.
func releaseStock(tx *gorm.DB, productID uuid.UUID, quantity int) error {
	result := tx.Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("stock", gorm.Expr("stock + ?", quantity))
	if result.Error != nil {
		return fmt.Errorf("failed to release stock: %w", result.Error)
	}
	return nil
}
