// internal/services/cart_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shopverse/ecommerce-backend/internal/models"
)

type CartService struct {
	db *gorm.DB
}

type CartSummary struct {
	Cart       *models.Cart    `json:"cart"`
	Total      decimal.Decimal `json:"total"`
	ItemsCount int             `json:"items_count"`
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

// GetOrCreateCart returns the user's cart, creating an empty one on first
// access. The unique index on user_id keeps concurrent calls from creating
// duplicates.
func (s *CartService) GetOrCreateCart(userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	if err := s.db.Where(models.Cart{UserID: userID}).
		FirstOrCreate(&cart).Error; err != nil {
		return nil, fmt.Errorf("failed to get or create cart: %w", err)
	}

	if err := s.db.Preload("Items").Preload("Items.Product").
		First(&cart, cart.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return &cart, nil
}

// AddItem puts quantity units of a product into the user's cart. A second add
// of the same product increments the existing line instead of replacing it.
func (s *CartService) AddItem(userID, productID uuid.UUID, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	var item models.CartItem
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.Where(models.Cart{UserID: userID}).
			FirstOrCreate(&cart).Error; err != nil {
			return fmt.Errorf("failed to get or create cart: %w", err)
		}

		var product models.Product
		if err := tx.First(&product, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		if err := tx.Where("cart_id = ? AND product_id = ?", cart.ID, productID).
			First(&item).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("database error: %w", err)
			}
			// New line item
			if quantity > product.Stock {
				return ErrInsufficientStock
			}
			item = models.CartItem{
				CartID:    cart.ID,
				ProductID: productID,
				Quantity:  quantity,
			}
			if err := tx.Create(&item).Error; err != nil {
				return fmt.Errorf("failed to add cart item: %w", err)
			}
			return nil
		}

		// Duplicate add: quantities accumulate
		newQuantity := item.Quantity + quantity
		if newQuantity > product.Stock {
			return ErrInsufficientStock
		}
		if err := tx.Model(&item).Update("quantity", newQuantity).Error; err != nil {
			return fmt.Errorf("failed to update cart item: %w", err)
		}
		item.Quantity = newQuantity
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.db.Preload("Product").First(&item, item.ID)
	return &item, nil
}

// UpdateItem replaces the quantity of a cart line (not additive).
func (s *CartService) UpdateItem(userID, itemID uuid.UUID, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	var item models.CartItem
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Joins("JOIN carts ON carts.id = cart_items.cart_id").
			Where("cart_items.id = ? AND carts.user_id = ?", itemID, userID).
			First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		var product models.Product
		if err := tx.First(&product, item.ProductID).Error; err != nil {
			return fmt.Errorf("database error: %w", err)
		}
		if quantity > product.Stock {
			return ErrInsufficientStock
		}

		if err := tx.Model(&item).Update("quantity", quantity).Error; err != nil {
			return fmt.Errorf("failed to update cart item: %w", err)
		}
		item.Quantity = quantity
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.db.Preload("Product").First(&item, item.ID)
	return &item, nil
}

func (s *CartService) RemoveItem(userID, itemID uuid.UUID) error {
	var item models.CartItem
	if err := s.db.Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("cart_items.id = ? AND carts.user_id = ?", itemID, userID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("database error: %w", err)
	}

	// Hard delete: a soft-deleted row would still occupy the
	// (cart_id, product_id) unique slot and block re-adding the product
	if err := s.db.Unscoped().Delete(&item).Error; err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}
	return nil
}

// ClearCart deletes every item of the user's cart in bulk. The cart row
// itself survives.
func (s *CartService) ClearCart(userID uuid.UUID) error {
	var cart models.Cart
	if err := s.db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("database error: %w", err)
	}

	if err := s.db.Unscoped().Where("cart_id = ?", cart.ID).
		Delete(&models.CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// Summarize computes the cart's derived totals on read; nothing is stored.
func (s *CartService) Summarize(cart *models.Cart) CartSummary {
	total := decimal.Zero
	count := 0
	for _, item := range cart.Items {
		total = total.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		count += item.Quantity
	}
	return CartSummary{Cart: cart, Total: total, ItemsCount: count}
}
