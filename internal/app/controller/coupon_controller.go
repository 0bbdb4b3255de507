package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mithunreddyy/valuva-sub002/internal/app/service"
)

type CouponController struct {
	couponService service.CouponService
}

func NewCouponController(couponService service.CouponService) *CouponController {
	return &CouponController{couponService: couponService}
}

type ValidateCouponRequest struct {
	Code     string  `json:"code" binding:"required"`
	Subtotal float64 `json:"subtotal" binding:"gte=0"`
}

// ValidateCoupon previews the discount a code gives on a subtotal
// POST /api/v1/coupons/validate
func (ctrl *CouponController) ValidateCoupon(c *gin.Context) {
	var req ValidateCouponRequest
	if !bindJSON(c, &req) {
		return
	}

	preview, err := ctrl.couponService.ValidateCoupon(req.Code, req.Subtotal)
	if err != nil {
		respondError(c, err, "validate coupon")
		return
	}
	c.JSON(http.StatusOK, gin.H{"coupon": preview})
}

// GET /api/v1/admin/coupons
func (ctrl *CouponController) ListCoupons(c *gin.Context) {
	page, limit := pageParams(c)

	result, err := ctrl.couponService.ListCoupons(page, limit)
	if err != nil {
		respondError(c, err, "list coupons")
		return
	}
	c.JSON(http.StatusOK, result)
}

// GET /api/v1/admin/coupons/:id
func (ctrl *CouponController) GetCoupon(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	coupon, err := ctrl.couponService.GetCoupon(id)
	if err != nil {
		respondError(c, err, "fetch coupon")
		return
	}
	c.JSON(http.StatusOK, gin.H{"coupon": coupon})
}

// POST /api/v1/admin/coupons
func (ctrl *CouponController) CreateCoupon(c *gin.Context) {
	var req service.CouponInput
	if !bindJSON(c, &req) {
		return
	}

	coupon, err := ctrl.couponService.CreateCoupon(req)
	if err != nil {
		respondError(c, err, "create coupon")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"coupon": coupon})
}

// PUT /api/v1/admin/coupons/:id
func (ctrl *CouponController) UpdateCoupon(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req service.CouponInput
	if !bindJSON(c, &req) {
		return
	}

	coupon, err := ctrl.couponService.UpdateCoupon(id, req)
	if err != nil {
		respondError(c, err, "update coupon")
		return
	}
	c.JSON(http.StatusOK, gin.H{"coupon": coupon})
}

// DELETE /api/v1/admin/coupons/:id
func (ctrl *CouponController) DeleteCoupon(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.couponService.DeleteCoupon(id); err != nil {
		respondError(c, err, "delete coupon")
		return
	}
	c.Status(http.StatusNoContent)
}
