// internal/services/address_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopverse/ecommerce-backend/internal/models"
	"github.com/shopverse/ecommerce-backend/internal/utils"
)

type AddressService struct {
	db *gorm.DB
}

type CreateAddressRequest struct {
	Street     string `json:"street" validate:"required,max=255"`
	City       string `json:"city" validate:"required,max=100"`
	State      string `json:"state" validate:"required,max=100"`
	Country    string `json:"country" validate:"required,max=100"`
	PostalCode string `json:"postal_code" validate:"required,max=20"`
	IsDefault  bool   `json:"is_default"`
}

type UpdateAddressRequest struct {
	Street     string `json:"street,omitempty" validate:"omitempty,max=255"`
	City       string `json:"city,omitempty" validate:"omitempty,max=100"`
	State      string `json:"state,omitempty" validate:"omitempty,max=100"`
	Country    string `json:"country,omitempty" validate:"omitempty,max=100"`
	PostalCode string `json:"postal_code,omitempty" validate:"omitempty,max=20"`
	IsDefault  *bool  `json:"is_default,omitempty"`
}

func NewAddressService(db *gorm.DB) *AddressService {
	return &AddressService{db: db}
}

func (s *AddressService) ListAddresses(userID uuid.UUID) ([]models.Address, error) {
	var addresses []models.Address
	if err := s.db.Where("user_id = ?", userID).
		Order("is_default DESC, created_at DESC").
		Find(&addresses).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch addresses: %w", err)
	}
	return addresses, nil
}

func (s *AddressService) GetAddress(userID, addressID uuid.UUID) (*models.Address, error) {
	var address models.Address
	if err := s.db.Where("id = ? AND user_id = ?", addressID, userID).
		First(&address).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &address, nil
}

func (s *AddressService) CreateAddress(userID uuid.UUID, req *CreateAddressRequest) (*models.Address, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	address := &models.Address{
		UserID:     userID,
		Street:     req.Street,
		City:       req.City,
		State:      req.State,
		Country:    req.Country,
		PostalCode: req.PostalCode,
		IsDefault:  req.IsDefault,
	}

	// The default swap and the insert commit together so two concurrent
	// writers cannot leave the user with two defaults.
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if req.IsDefault {
			if err := clearOtherDefaults(tx, userID, uuid.Nil); err != nil {
				return err
			}
		}
		if err := tx.Create(address).Error; err != nil {
			return fmt.Errorf("failed to create address: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return address, nil
}

func (s *AddressService) UpdateAddress(userID, addressID uuid.UUID, req *UpdateAddressRequest) (*models.Address, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var address models.Address
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", addressID, userID).
			First(&address).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		updates := make(map[string]interface{})
		if req.Street != "" {
			updates["street"] = req.Street
		}
		if req.City != "" {
			updates["city"] = req.City
		}
		if req.State != "" {
			updates["state"] = req.State
		}
		if req.Country != "" {
			updates["country"] = req.Country
		}
		if req.PostalCode != "" {
			updates["postal_code"] = req.PostalCode
		}
		if req.IsDefault != nil {
			if *req.IsDefault {
				if err := clearOtherDefaults(tx, userID, address.ID); err != nil {
					return err
				}
			}
			updates["is_default"] = *req.IsDefault
		}

		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&address).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update address: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &address, nil
}

// SetDefault makes the address the user's single default. Idempotent when
// called on the address that is already default.
func (s *AddressService) SetDefault(userID, addressID uuid.UUID) (*models.Address, error) {
	var address models.Address
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", addressID, userID).
			First(&address).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		if err := clearOtherDefaults(tx, userID, address.ID); err != nil {
			return err
		}

		address.IsDefault = true
		if err := tx.Model(&address).Update("is_default", true).Error; err != nil {
			return fmt.Errorf("failed to set default address: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &address, nil
}

func (s *AddressService) DeleteAddress(userID, addressID uuid.UUID) error {
	result := s.db.Where("id = ? AND user_id = ?", addressID, userID).
		Delete(&models.Address{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete address: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// clearOtherDefaults unsets is_default on every address of the user except
// the excluded target. Clearing is unconditional; the invariant is restored
// by the target write committing in the same transaction.
func clearOtherDefaults(tx *gorm.DB, userID, excludeID uuid.UUID) error {
	query := tx.Model(&models.Address{}).
		Where("user_id = ? AND is_default = ?", userID, true)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Update("is_default", false).Error; err != nil {
		return fmt.Errorf("failed to clear default addresses: %w", err)
	}
	return nil
}
