package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mithunreddyy/valuva-sub002/internal/app/service"
)

type WishlistController struct {
	wishlistService service.WishlistService
}

func NewWishlistController(wishlistService service.WishlistService) *WishlistController {
	return &WishlistController{wishlistService: wishlistService}
}

type AddToWishlistRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
}

func wishlistResponse(entries []service.WishlistEntry) gin.H {
	return gin.H{"items": entries, "count": len(entries)}
}

// GET /api/v1/wishlist
func (ctrl *WishlistController) GetWishlist(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	entries, err := ctrl.wishlistService.GetWishlist(userID)
	if err != nil {
		respondError(c, err, "fetch wishlist")
		return
	}
	c.JSON(http.StatusOK, wishlistResponse(entries))
}

// POST /api/v1/wishlist
func (ctrl *WishlistController) AddToWishlist(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req AddToWishlistRequest
	if !bindJSON(c, &req) {
		return
	}

	entries, err := ctrl.wishlistService.AddToWishlist(userID, req.ProductID)
	if err != nil {
		respondError(c, err, "add to wishlist")
		return
	}
	c.JSON(http.StatusCreated, wishlistResponse(entries))
}

// RemoveFromWishlist is idempotent
// DELETE /api/v1/wishlist/:productId
func (ctrl *WishlistController) RemoveFromWishlist(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	productID, ok := idParam(c, "productId")
	if !ok {
		return
	}

	entries, err := ctrl.wishlistService.RemoveFromWishlist(userID, productID)
	if err != nil {
		respondError(c, err, "remove from wishlist")
		return
	}
	c.JSON(http.StatusOK, wishlistResponse(entries))
}
