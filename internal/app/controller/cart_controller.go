package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mithunreddyy/valuva-sub002/internal/app/service"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

type AddToCartRequest struct {
	VariantID uint `json:"variant_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// respondWithCart writes the refreshed cart after a mutation
func (ctrl *CartController) respondWithCart(c *gin.Context, userID uint, status int) {
	cart, err := ctrl.cartService.GetUserCart(userID)
	if err != nil {
		respondError(c, err, "fetch cart")
		return
	}
	c.JSON(status, gin.H{"cart": cart})
}

// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	ctrl.respondWithCart(c, userID, http.StatusOK)
}

// AddToCart merges into an existing line for the same variant
// POST /api/v1/cart
func (ctrl *CartController) AddToCart(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req AddToCartRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := ctrl.cartService.AddToCart(userID, req.VariantID, req.Quantity); err != nil {
		respondError(c, err, "add to cart")
		return
	}
	ctrl.respondWithCart(c, userID, http.StatusCreated)
}

// PUT /api/v1/cart/:id
func (ctrl *CartController) UpdateCartItem(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	itemID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req UpdateCartItemRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := ctrl.cartService.UpdateCartItem(userID, itemID, req.Quantity); err != nil {
		respondError(c, err, "update cart item")
		return
	}
	ctrl.respondWithCart(c, userID, http.StatusOK)
}

// DELETE /api/v1/cart/:id
func (ctrl *CartController) RemoveFromCart(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	itemID, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.cartService.RemoveFromCart(userID, itemID); err != nil {
		respondError(c, err, "remove cart item")
		return
	}
	ctrl.respondWithCart(c, userID, http.StatusOK)
}

// DELETE /api/v1/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := ctrl.cartService.ClearCart(userID); err != nil {
		respondError(c, err, "clear cart")
		return
	}
	c.Status(http.StatusNoContent)
}
