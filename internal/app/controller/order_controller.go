package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mithunreddyy/valuva-sub002/internal/app/model"
	"github.com/mithunreddyy/valuva-sub002/internal/app/repository"
	"github.com/mithunreddyy/valuva-sub002/internal/app/service"
	"github.com/mithunreddyy/valuva-sub002/internal/middleware"
)

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

type UpdateOrderStatusRequest struct {
	Status model.OrderStatus `json:"status" binding:"required"`
}

// PlaceOrder checks out the given items or, when none are given, the cart
// POST /api/v1/orders
func (ctrl *OrderController) PlaceOrder(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req service.PlaceOrderInput
	if !bindJSON(c, &req) {
		return
	}

	order, err := ctrl.orderService.PlaceOrder(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "place order")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Order placed", map[string]interface{}{
		"user_id":      userID,
		"order_number": order.OrderNumber,
		"total":        order.Total,
	})
	c.JSON(http.StatusCreated, gin.H{"order": order})
}

// GET /api/v1/orders
func (ctrl *OrderController) ListOrders(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	page, limit := pageParams(c)

	result, err := ctrl.orderService.GetUserOrders(userID, page, limit)
	if err != nil {
		respondError(c, err, "list orders")
		return
	}
	c.JSON(http.StatusOK, result)
}

// GET /api/v1/orders/:id
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	orderID, ok := idParam(c, "id")
	if !ok {
		return
	}

	order, err := ctrl.orderService.GetUserOrder(userID, orderID)
	if err != nil {
		respondError(c, err, "fetch order")
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// CancelOrder is allowed while the order is still pending
// POST /api/v1/orders/:id/cancel
func (ctrl *OrderController) CancelOrder(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	orderID, ok := idParam(c, "id")
	if !ok {
		return
	}

	order, err := ctrl.orderService.CancelOrder(c.Request.Context(), userID, orderID)
	if err != nil {
		respondError(c, err, "cancel order")
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// AdminListOrders filters by user, status and creation window
// GET /api/v1/admin/orders
func (ctrl *OrderController) AdminListOrders(c *gin.Context) {
	page, limit := pageParams(c)
	filter := repository.OrderFilter{UserID: queryUint(c, "user_id")}

	if raw := c.Query("status"); raw != "" {
		status := model.OrderStatus(raw)
		filter.Status = &status
	}

	from, ok := queryDate(c, "from", false)
	if !ok {
		return
	}
	to, ok := queryDate(c, "to", true)
	if !ok {
		return
	}
	filter.From, filter.To = from, to

	result, err := ctrl.orderService.ListAdminOrders(filter, page, limit)
	if err != nil {
		respondError(c, err, "list orders")
		return
	}
	c.JSON(http.StatusOK, result)
}

// GET /api/v1/admin/orders/:id
func (ctrl *OrderController) AdminGetOrder(c *gin.Context) {
	orderID, ok := idParam(c, "id")
	if !ok {
		return
	}

	order, err := ctrl.orderService.GetOrder(orderID)
	if err != nil {
		respondError(c, err, "fetch order")
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// UpdateOrderStatus moves an order along its lifecycle
// PATCH /api/v1/admin/orders/:id/status
func (ctrl *OrderController) UpdateOrderStatus(c *gin.Context) {
	orderID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := ctrl.orderService.UpdateOrderStatus(c.Request.Context(), orderID, req.Status)
	if err != nil {
		respondError(c, err, "update order status")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Order status updated", map[string]interface{}{
		"order_id": orderID,
		"status":   order.Status,
	})
	c.JSON(http.StatusOK, gin.H{"order": order})
}
