// internal/handlers/address.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/shopverse/ecommerce-backend/internal/i18n"
	"github.com/shopverse/ecommerce-backend/internal/services"
	"github.com/shopverse/ecommerce-backend/internal/utils"
)

type AddressHandler struct {
	addressService *services.AddressService
}

func NewAddressHandler(addressService *services.AddressService) *AddressHandler {
	return &AddressHandler{
		addressService: addressService,
	}
}

// GET /addresses
func (h *AddressHandler) ListAddresses(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	addresses, err := h.addressService.ListAddresses(userID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, addresses)
}

// GET /addresses/:id
func (h *AddressHandler) GetAddress(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	addressID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	address, err := h.addressService.GetAddress(userID, addressID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.NotFoundResponse(c, "address")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, address)
}

// POST /addresses
func (h *AddressHandler) CreateAddress(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	address, err := h.addressService.CreateAddress(userID, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAddressCreated),
		"address": address,
	})
}

// PUT /addresses/:id
func (h *AddressHandler) UpdateAddress(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	addressID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req services.UpdateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	address, err := h.addressService.UpdateAddress(userID, addressID, &req)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.NotFoundResponse(c, "address")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAddressUpdated),
		"address": address,
	})
}

// POST /addresses/:id/set-default
func (h *AddressHandler) SetDefaultAddress(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	addressID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	address, err := h.addressService.SetDefault(userID, addressID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.NotFoundResponse(c, "address")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAddressDefaultSet),
		"address": address,
	})
}

// DELETE /addresses/:id
func (h *AddressHandler) DeleteAddress(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	addressID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.addressService.DeleteAddress(userID, addressID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.NotFoundResponse(c, "address")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAddressDeleted),
	})
}
