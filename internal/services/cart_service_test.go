// internal/services/cart_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/shopverse/ecommerce-backend/internal/models"
)

type CartServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *CartService
	user    *models.User
}

func (s *CartServiceTestSuite) SetupTest() {
	s.db = setupTestDB(s.T())
	s.service = NewCartService(s.db)
	s.user = createTestUser(s.T(), s.db)
}

func (s *CartServiceTestSuite) TestGetOrCreateCartIsIdempotent() {
	first, err := s.service.GetOrCreateCart(s.user.ID)
	s.Require().NoError(err)
	second, err := s.service.GetOrCreateCart(s.user.ID)
	s.Require().NoError(err)
	s.Equal(first.ID, second.ID)
	s.Empty(second.Items)
}

func (s *CartServiceTestSuite) TestAddItem() {
	product := createTestProduct(s.T(), s.db, "Keyboard", "49.99", 10)

	item, err := s.service.AddItem(s.user.ID, product.ID, 2)
	s.Require().NoError(err)
	s.Equal(2, item.Quantity)
	s.Equal(product.ID, item.ProductID)
}

func (s *CartServiceTestSuite) TestDuplicateAddIncrementsQuantity() {
	product := createTestProduct(s.T(), s.db, "Keyboard", "49.99", 10)

	_, err := s.service.AddItem(s.user.ID, product.ID, 2)
	s.Require().NoError(err)
	item, err := s.service.AddItem(s.user.ID, product.ID, 3)
	s.Require().NoError(err)
	s.Equal(5, item.Quantity)

	cart, err := s.service.GetOrCreateCart(s.user.ID)
	s.Require().NoError(err)
	s.Len(cart.Items, 1)
}

func (s *CartServiceTestSuite) TestAddItemUnknownProduct() {
	_, err := s.service.AddItem(s.user.ID, uuid.New(), 1)
	s.ErrorIs(err, ErrNotFound)
}

func (s *CartServiceTestSuite) TestAddItemExceedsStock() {
	product := createTestProduct(s.T(), s.db, "Keyboard", "49.99", 3)

	_, err := s.service.AddItem(s.user.ID, product.ID, 2)
	s.Require().NoError(err)

	// 2 already in the cart, 3 in stock: adding 2 more overshoots
	_, err = s.service.AddItem(s.user.ID, product.ID, 2)
	s.ErrorIs(err, ErrInsufficientStock)
}

func (s *CartServiceTestSuite) TestAddItemRejectsNonPositiveQuantity() {
	product := createTestProduct(s.T(), s.db, "Keyboard", "49.99", 3)

	_, err := s.service.AddItem(s.user.ID, product.ID, 0)
	s.ErrorIs(err, ErrInvalidQuantity)
}

func (s *CartServiceTestSuite) TestUpdateItemReplacesQuantity() {
	product := createTestProduct(s.T(), s.db, "Keyboard", "49.99", 10)

	item, err := s.service.AddItem(s.user.ID, product.ID, 2)
	s.Require().NoError(err)

	updated, err := s.service.UpdateItem(s.user.ID, item.ID, 7)
	s.Require().NoError(err)
	s.Equal(7, updated.Quantity)
}

func (s *CartServiceTestSuite) TestUpdateItemScopedToOwner() {
	product := createTestProduct(s.T(), s.db, "Keyboard", "49.99", 10)
	item, err := s.service.AddItem(s.user.ID, product.ID, 2)
	s.Require().NoError(err)

	other := createTestUser(s.T(), s.db)
	_, err = s.service.UpdateItem(other.ID, item.ID, 1)
	s.ErrorIs(err, ErrNotFound)
}

func (s *CartServiceTestSuite) TestRemoveItem() {
	product := createTestProduct(s.T(), s.db, "Keyboard", "49.99", 10)
	item, err := s.service.AddItem(s.user.ID, product.ID, 2)
	s.Require().NoError(err)

	s.Require().NoError(s.service.RemoveItem(s.user.ID, item.ID))

	cart, err := s.service.GetOrCreateCart(s.user.ID)
	s.Require().NoError(err)
	s.Empty(cart.Items)
}

func (s *CartServiceTestSuite) TestClearCart() {
	keyboard := createTestProduct(s.T(), s.db, "Keyboard", "49.99", 10)
	mouse := createTestProduct(s.T(), s.db, "Mouse", "19.99", 10)

	_, err := s.service.AddItem(s.user.ID, keyboard.ID, 1)
	s.Require().NoError(err)
	_, err = s.service.AddItem(s.user.ID, mouse.ID, 2)
	s.Require().NoError(err)

	s.Require().NoError(s.service.ClearCart(s.user.ID))

	cart, err := s.service.GetOrCreateCart(s.user.ID)
	s.Require().NoError(err)
	s.Empty(cart.Items)
}

func (s *CartServiceTestSuite) TestClearCartWithoutCart() {
	s.NoError(s.service.ClearCart(s.user.ID))
}

func (s *CartServiceTestSuite) TestSummarize() {
	keyboard := createTestProduct(s.T(), s.db, "Keyboard", "10.00", 10)
	mouse := createTestProduct(s.T(), s.db, "Mouse", "20.00", 10)

	_, err := s.service.AddItem(s.user.ID, keyboard.ID, 2)
	s.Require().NoError(err)
	_, err = s.service.AddItem(s.user.ID, mouse.ID, 1)
	s.Require().NoError(err)

	cart, err := s.service.GetOrCreateCart(s.user.ID)
	s.Require().NoError(err)

	summary := s.service.Summarize(cart)
	s.True(summary.Total.Equal(decimal.RequireFromString("40.00")), "total = %s", summary.Total)
	s.Equal(3, summary.ItemsCount)
}

func TestCartServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CartServiceTestSuite))
}
