package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mithunreddyy/valuva-sub002/internal/app/service"
)

type AddressController struct {
	addressService service.AddressService
}

func NewAddressController(addressService service.AddressService) *AddressController {
	return &AddressController{
		addressService: addressService,
	}
}

// ListAddresses returns the default address first, then newest
// GET /api/v1/addresses
func (ctrl *AddressController) ListAddresses(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	addresses, err := ctrl.addressService.GetUserAddresses(userID)
	if err != nil {
		respondError(c, err, "list addresses")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"addresses": addresses,
		"count":     len(addresses),
	})
}

// POST /api/v1/addresses
func (ctrl *AddressController) CreateAddress(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req service.AddressInput
	if !bindJSON(c, &req) {
		return
	}

	address, err := ctrl.addressService.CreateAddress(userID, req)
	if err != nil {
		respondError(c, err, "create address")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"address": address})
}

// PUT /api/v1/addresses/:id
func (ctrl *AddressController) UpdateAddress(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	addressID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req service.AddressInput
	if !bindJSON(c, &req) {
		return
	}

	address, err := ctrl.addressService.UpdateAddress(userID, addressID, req)
	if err != nil {
		respondError(c, err, "update address")
		return
	}
	c.JSON(http.StatusOK, gin.H{"address": address})
}

// DELETE /api/v1/addresses/:id
func (ctrl *AddressController) DeleteAddress(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	addressID, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.addressService.DeleteAddress(userID, addressID); err != nil {
		respondError(c, err, "delete address")
		return
	}
	c.Status(http.StatusNoContent)
}

// PUT /api/v1/addresses/:id/default
func (ctrl *AddressController) SetDefaultAddress(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	addressID, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.addressService.SetDefaultAddress(userID, addressID); err != nil {
		respondError(c, err, "set default address")
		return
	}
	c.Status(http.StatusNoContent)
}
