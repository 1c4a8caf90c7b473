// internal/services/order_service_test.go
package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/shopverse/ecommerce-backend/internal/models"
)

type OrderServiceTestSuite struct {
	suite.Suite
	db       *gorm.DB
	service  *OrderService
	carts    *CartService
	user     *models.User
	keyboard *models.Product
	mouse    *models.Product
}

func (s *OrderServiceTestSuite) SetupTest() {
	s.db = setupTestDB(s.T())
	s.service = NewOrderService(s.db)
	s.carts = NewCartService(s.db)
	s.user = createTestUser(s.T(), s.db)
	s.keyboard = createTestProduct(s.T(), s.db, "Keyboard", "10.00", 5)
	s.mouse = createTestProduct(s.T(), s.db, "Mouse", "20.00", 3)
}

func (s *OrderServiceTestSuite) fillCart() {
	_, err := s.carts.AddItem(s.user.ID, s.keyboard.ID, 2)
	s.Require().NoError(err)
	_, err = s.carts.AddItem(s.user.ID, s.mouse.ID, 1)
	s.Require().NoError(err)
}

func (s *OrderServiceTestSuite) stockOf(product *models.Product) int {
	var reloaded models.Product
	s.Require().NoError(s.db.First(&reloaded, product.ID).Error)
	return reloaded.Stock
}

func (s *OrderServiceTestSuite) TestCreateFromCart() {
	s.fillCart()

	order, err := s.service.CreateFromCart(s.user.ID, &CreateOrderRequest{})
	s.Require().NoError(err)

	s.Equal(models.OrderStatusPending, order.Status)
	s.True(order.Total.Equal(decimal.RequireFromString("40.00")), "total = %s", order.Total)
	s.Len(order.Items, 2)

	// Stock reserved per line
	s.Equal(3, s.stockOf(s.keyboard))
	s.Equal(2, s.stockOf(s.mouse))

	// Cart emptied in the same transaction
	cart, err := s.carts.GetOrCreateCart(s.user.ID)
	s.Require().NoError(err)
	s.Empty(cart.Items)
}

func (s *OrderServiceTestSuite) TestCartReusableAfterOrder() {
	s.fillCart()

	_, err := s.service.CreateFromCart(s.user.ID, &CreateOrderRequest{})
	s.Require().NoError(err)

	// The cleared cart must accept the same product again
	item, err := s.carts.AddItem(s.user.ID, s.keyboard.ID, 1)
	s.Require().NoError(err)
	s.Equal(1, item.Quantity)
}

func (s *OrderServiceTestSuite) TestCreateFromCartFreezesPrices() {
	s.fillCart()

	order, err := s.service.CreateFromCart(s.user.ID, &CreateOrderRequest{})
	s.Require().NoError(err)

	// A later price change must not touch the order
	s.Require().NoError(s.db.Model(&models.Product{}).
		Where("id = ?", s.keyboard.ID).
		Update("price", decimal.RequireFromString("99.99")).Error)

	reloaded, err := s.service.GetOrder(s.user.ID, order.ID)
	s.Require().NoError(err)

	for _, item := range reloaded.Items {
		if item.ProductID == s.keyboard.ID {
			s.True(item.Price.Equal(decimal.RequireFromString("10.00")), "price = %s", item.Price)
		}
	}
	s.True(reloaded.Total.Equal(decimal.RequireFromString("40.00")))
}

func (s *OrderServiceTestSuite) TestCreateFromCartWithAddress() {
	s.fillCart()

	addresses := NewAddressService(s.db)
	address, err := addresses.CreateAddress(s.user.ID, &CreateAddressRequest{
		Street:     "1 Main St",
		City:       "Springfield",
		State:      "IL",
		Country:    "US",
		PostalCode: "62701",
	})
	s.Require().NoError(err)

	order, err := s.service.CreateFromCart(s.user.ID, &CreateOrderRequest{AddressID: &address.ID})
	s.Require().NoError(err)
	s.Require().NotNil(order.AddressID)
	s.Equal(address.ID, *order.AddressID)
}

func (s *OrderServiceTestSuite) TestCreateFromCartDropsUnownedAddress() {
	s.fillCart()

	other := createTestUser(s.T(), s.db)
	addresses := NewAddressService(s.db)
	address, err := addresses.CreateAddress(other.ID, &CreateAddressRequest{
		Street:     "1 Main St",
		City:       "Springfield",
		State:      "IL",
		Country:    "US",
		PostalCode: "62701",
	})
	s.Require().NoError(err)

	order, err := s.service.CreateFromCart(s.user.ID, &CreateOrderRequest{AddressID: &address.ID})
	s.Require().NoError(err)
	s.Nil(order.AddressID)
}

func (s *OrderServiceTestSuite) TestCreateFromEmptyCart() {
	_, err := s.service.CreateFromCart(s.user.ID, &CreateOrderRequest{})
	s.ErrorIs(err, ErrEmptyCart)

	// Same result once an empty cart row exists
	_, err = s.carts.GetOrCreateCart(s.user.ID)
	s.Require().NoError(err)
	_, err = s.service.CreateFromCart(s.user.ID, &CreateOrderRequest{})
	s.ErrorIs(err, ErrEmptyCart)
}

func (s *OrderServiceTestSuite) TestCreateFromCartInsufficientStockRollsBack() {
	s.fillCart()

	// Deplete keyboard stock behind the cart's back
	s.Require().NoError(s.db.Model(&models.Product{}).
		Where("id = ?", s.keyboard.ID).
		Update("stock", 1).Error)

	_, err := s.service.CreateFromCart(s.user.ID, &CreateOrderRequest{})
	s.ErrorIs(err, ErrInsufficientStock)

	// Nothing committed: stocks untouched, cart intact, no order rows
	s.Equal(1, s.stockOf(s.keyboard))
	s.Equal(3, s.stockOf(s.mouse))

	cart, err := s.carts.GetOrCreateCart(s.user.ID)
	s.Require().NoError(err)
	s.Len(cart.Items, 2)

	var orderCount int64
	s.Require().NoError(s.db.Model(&models.Order{}).Count(&orderCount).Error)
	s.Zero(orderCount)
}

func (s *OrderServiceTestSuite) TestCancelRestoresStock() {
	s.fillCart()

	order, err := s.service.CreateFromCart(s.user.ID, &CreateOrderRequest{})
	s.Require().NoError(err)

	cancelled, err := s.service.Cancel(s.user.ID, order.ID)
	s.Require().NoError(err)
	s.Equal(models.OrderStatusCancelled, cancelled.Status)

	s.Equal(5, s.stockOf(s.keyboard))
	s.Equal(3, s.stockOf(s.mouse))
}

func (s *OrderServiceTestSuite) TestCancelTerminalOrder() {
	s.fillCart()

	order, err := s.service.CreateFromCart(s.user.ID, &CreateOrderRequest{})
	s.Require().NoError(err)

	_, err = s.service.Cancel(s.user.ID, order.ID)
	s.Require().NoError(err)

	// Cancelling twice must not restore stock twice
	_, err = s.service.Cancel(s.user.ID, order.ID)
	s.ErrorIs(err, ErrInvalidTransition)
	s.Equal(5, s.stockOf(s.keyboard))
}

func (s *OrderServiceTestSuite) TestUpdateStatus() {
	s.fillCart()

	order, err := s.service.CreateFromCart(s.user.ID, &CreateOrderRequest{})
	s.Require().NoError(err)

	for _, status := range []models.OrderStatus{
		models.OrderStatusProcessing,
		models.OrderStatusShipped,
		models.OrderStatusDelivered,
	} {
		updated, err := s.service.UpdateStatus(order.ID, status)
		s.Require().NoError(err)
		s.Equal(status, updated.Status)
	}

	// Delivered is terminal
	_, err = s.service.UpdateStatus(order.ID, models.OrderStatusProcessing)
	s.ErrorIs(err, ErrInvalidTransition)
}

func (s *OrderServiceTestSuite) TestUpdateStatusRejectsUnknownStatus() {
	s.fillCart()

	order, err := s.service.CreateFromCart(s.user.ID, &CreateOrderRequest{})
	s.Require().NoError(err)

	_, err = s.service.UpdateStatus(order.ID, models.OrderStatus("teleported"))
	s.ErrorIs(err, ErrInvalidStatus)
}

func (s *OrderServiceTestSuite) TestOrdersScopedToOwner() {
	s.fillCart()

	order, err := s.service.CreateFromCart(s.user.ID, &CreateOrderRequest{})
	s.Require().NoError(err)

	other := createTestUser(s.T(), s.db)
	_, err = s.service.GetOrder(other.ID, order.ID)
	s.ErrorIs(err, ErrNotFound)
	_, err = s.service.Cancel(other.ID, order.ID)
	s.ErrorIs(err, ErrNotFound)
}

func TestOrderServiceTestSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}
