// internal/services/order_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shopverse/ecommerce-backend/internal/models"
	"github.com/shopverse/ecommerce-backend/internal/utils"
)

type OrderService struct {
	db *gorm.DB
}

type CreateOrderRequest struct {
	AddressID *uuid.UUID `json:"address_id,omitempty"`
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" validate:"required"`
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// CreateFromCart converts the user's cart into an order: one OrderItem per
// cart line with the product price frozen at this instant, stock reserved per
// line, and the cart emptied. All of it commits as a single transaction, so a
// crash can never leave an order alongside an un-cleared cart.
func (s *OrderService) CreateFromCart(userID uuid.UUID, req *CreateOrderRequest) (*models.Order, error) {
	var order *models.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.Where("user_id = ?", userID).
			Preload("Items").First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEmptyCart
			}
			return fmt.Errorf("database error: %w", err)
		}
		if len(cart.Items) == 0 {
			return ErrEmptyCart
		}

		// An address not owned by the caller is treated as absent
		var addressID *uuid.UUID
		if req != nil && req.AddressID != nil {
			var address models.Address
			err := tx.Where("id = ? AND user_id = ?", *req.AddressID, userID).
				First(&address).Error
			if err == nil {
				addressID = &address.ID
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("database error: %w", err)
			}
		}

		// Lock and load the products behind the cart lines
		productIDs := make([]uuid.UUID, 0, len(cart.Items))
		for _, item := range cart.Items {
			productIDs = append(productIDs, item.ProductID)
		}

		var products []models.Product
		if err := tx.Set("gorm:query_option", "FOR UPDATE").
			Where("id IN ?", productIDs).Find(&products).Error; err != nil {
			return fmt.Errorf("database error: %w", err)
		}
		productsByID := make(map[uuid.UUID]models.Product, len(products))
		for _, product := range products {
			productsByID[product.ID] = product
		}

		total := decimal.Zero
		for _, item := range cart.Items {
			product, ok := productsByID[item.ProductID]
			if !ok {
				return ErrNotFound
			}
			total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}

		order = &models.Order{
			UserID:    userID,
			AddressID: addressID,
			Total:     total,
			Status:    models.OrderStatusPending,
		}
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		for _, item := range cart.Items {
			product := productsByID[item.ProductID]
			orderItem := &models.OrderItem{
				OrderID:   order.ID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Price:     product.Price,
			}
			if err := tx.Create(orderItem).Error; err != nil {
				return fmt.Errorf("failed to create order item: %w", err)
			}
			if err := reserveStock(tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		// Clearing the cart inside the same transaction gives at most one
		// order per cart snapshot
		if err := tx.Unscoped().Where("cart_id = ?", cart.ID).
			Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.db.Preload("Items").Preload("Items.Product").Preload("Address").
		First(order, order.ID)
	return order, nil
}

// Cancel restores each product's stock by the quantity frozen in the order
// items and marks the order cancelled, atomically. Delivered and cancelled
// orders are terminal.
func (s *OrderService) Cancel(userID, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Set("gorm:query_option", "FOR UPDATE").
			Where("id = ? AND user_id = ?", orderID, userID).
			Preload("Items").First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		if order.Status.Terminal() {
			return ErrInvalidTransition
		}

		for _, item := range order.Items {
			if err := releaseStock(tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		order.Status = models.OrderStatusCancelled
		if err := tx.Model(&order).Update("status", models.OrderStatusCancelled).Error; err != nil {
			return fmt.Errorf("failed to cancel order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.db.Preload("Items").Preload("Items.Product").Preload("Address").
		First(&order, order.ID)
	return &order, nil
}

// UpdateStatus moves an order along the fulfillment flow. It is an
// operator action, so it is not scoped to the owning user. Terminal orders
// are frozen under the same guard Cancel enforces.
func (s *OrderService) UpdateStatus(orderID uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	var order models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		if order.Status.Terminal() {
			return ErrInvalidTransition
		}

		order.Status = status
		if err := tx.Model(&order).Update("status", status).Error; err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.db.Preload("Items").Preload("Items.Product").Preload("Address").
		First(&order, order.ID)
	return &order, nil
}

func (s *OrderService) GetOrder(userID, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := s.db.Where("id = ? AND user_id = ?", orderID, userID).
		Preload("Items").Preload("Items.Product").Preload("Address").
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &order, nil
}

func (s *OrderService) ListOrders(userID uuid.UUID, params utils.PaginationParams) ([]models.Order, int64, error) {
	query := s.db.Model(&models.Order{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "total", "status"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var orders []models.Order
	if err := query.Preload("Items").Preload("Items.Product").Preload("Address").
		Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch orders: %w", err)
	}
	return orders, total, nil
}
