// internal/services/address_service_test.go
package services

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/shopverse/ecommerce-backend/internal/models"
)

type AddressServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *AddressService
	user    *models.User
}

func (s *AddressServiceTestSuite) SetupTest() {
	s.db = setupTestDB(s.T())
	s.service = NewAddressService(s.db)
	s.user = createTestUser(s.T(), s.db)
}

func (s *AddressServiceTestSuite) addressRequest(isDefault bool) *CreateAddressRequest {
	return &CreateAddressRequest{
		Street:     "1 Main St",
		City:       "Springfield",
		State:      "IL",
		Country:    "US",
		PostalCode: "62701",
		IsDefault:  isDefault,
	}
}

func (s *AddressServiceTestSuite) defaultCount(userID uuid.UUID) int64 {
	var count int64
	s.Require().NoError(s.db.Model(&models.Address{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Count(&count).Error)
	return count
}

func (s *AddressServiceTestSuite) TestCreateDefaultAddress() {
	address, err := s.service.CreateAddress(s.user.ID, s.addressRequest(true))
	s.Require().NoError(err)
	s.True(address.IsDefault)
	s.Equal(int64(1), s.defaultCount(s.user.ID))
}

func (s *AddressServiceTestSuite) TestCreateSecondDefaultClearsFirst() {
	first, err := s.service.CreateAddress(s.user.ID, s.addressRequest(true))
	s.Require().NoError(err)

	second, err := s.service.CreateAddress(s.user.ID, s.addressRequest(true))
	s.Require().NoError(err)
	s.True(second.IsDefault)

	var reloaded models.Address
	s.Require().NoError(s.db.First(&reloaded, first.ID).Error)
	s.False(reloaded.IsDefault)
	s.Equal(int64(1), s.defaultCount(s.user.ID))
}

func (s *AddressServiceTestSuite) TestSetDefaultMovesFlag() {
	first, err := s.service.CreateAddress(s.user.ID, s.addressRequest(true))
	s.Require().NoError(err)
	second, err := s.service.CreateAddress(s.user.ID, s.addressRequest(false))
	s.Require().NoError(err)

	updated, err := s.service.SetDefault(s.user.ID, second.ID)
	s.Require().NoError(err)
	s.True(updated.IsDefault)

	var reloaded models.Address
	s.Require().NoError(s.db.First(&reloaded, first.ID).Error)
	s.False(reloaded.IsDefault)
	s.Equal(int64(1), s.defaultCount(s.user.ID))
}

func (s *AddressServiceTestSuite) TestUpdatePromotesToDefault() {
	first, err := s.service.CreateAddress(s.user.ID, s.addressRequest(true))
	s.Require().NoError(err)
	second, err := s.service.CreateAddress(s.user.ID, s.addressRequest(false))
	s.Require().NoError(err)

	isDefault := true
	updated, err := s.service.UpdateAddress(s.user.ID, second.ID, &UpdateAddressRequest{
		City:      "Shelbyville",
		IsDefault: &isDefault,
	})
	s.Require().NoError(err)
	s.True(updated.IsDefault)
	s.Equal("Shelbyville", updated.City)

	var reloaded models.Address
	s.Require().NoError(s.db.First(&reloaded, first.ID).Error)
	s.False(reloaded.IsDefault)
	s.Equal(int64(1), s.defaultCount(s.user.ID))
}

func (s *AddressServiceTestSuite) TestDefaultsAreScopedPerUser() {
	other := createTestUser(s.T(), s.db)

	_, err := s.service.CreateAddress(s.user.ID, s.addressRequest(true))
	s.Require().NoError(err)
	_, err = s.service.CreateAddress(other.ID, s.addressRequest(true))
	s.Require().NoError(err)

	s.Equal(int64(1), s.defaultCount(s.user.ID))
	s.Equal(int64(1), s.defaultCount(other.ID))
}

func (s *AddressServiceTestSuite) TestUnownedAddressNotVisible() {
	other := createTestUser(s.T(), s.db)
	address, err := s.service.CreateAddress(other.ID, s.addressRequest(false))
	s.Require().NoError(err)

	_, err = s.service.GetAddress(s.user.ID, address.ID)
	s.ErrorIs(err, ErrNotFound)

	_, err = s.service.SetDefault(s.user.ID, address.ID)
	s.ErrorIs(err, ErrNotFound)
}

func (s *AddressServiceTestSuite) TestDeleteAddress() {
	address, err := s.service.CreateAddress(s.user.ID, s.addressRequest(false))
	s.Require().NoError(err)

	s.Require().NoError(s.service.DeleteAddress(s.user.ID, address.ID))

	_, err = s.service.GetAddress(s.user.ID, address.ID)
	s.ErrorIs(err, ErrNotFound)
}

// At most one default survives any sequence of create/set-default/update
// operations.
func (s *AddressServiceTestSuite) TestDefaultInvariantUnderRandomSequence() {
	rng := rand.New(rand.NewSource(42))
	var ids []uuid.UUID

	for i := 0; i < 30; i++ {
		switch op := rng.Intn(3); {
		case op == 0 || len(ids) == 0:
			address, err := s.service.CreateAddress(s.user.ID, s.addressRequest(rng.Intn(2) == 0))
			s.Require().NoError(err)
			ids = append(ids, address.ID)
		case op == 1:
			_, err := s.service.SetDefault(s.user.ID, ids[rng.Intn(len(ids))])
			s.Require().NoError(err)
		default:
			isDefault := rng.Intn(2) == 0
			_, err := s.service.UpdateAddress(s.user.ID, ids[rng.Intn(len(ids))], &UpdateAddressRequest{
				IsDefault: &isDefault,
			})
			s.Require().NoError(err)
		}

		s.LessOrEqual(s.defaultCount(s.user.ID), int64(1))
	}
}

func TestAddressServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AddressServiceTestSuite))
}
