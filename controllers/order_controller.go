package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/orderdesk/orders-api/services"
)

// CreateOrderRequest represents the request body for creating an order.
// The item preconditions are validated as a whole by the order service so
// the caller gets one aggregate message, matching the form behavior.
type CreateOrderRequest struct {
	CustomerID uint                      `json:"customer_id"`
	Items      []services.OrderItemInput `json:"items"`
}

// UpdateStatusRequest represents the request body for updating an order's status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// OrderController handles the order lifecycle endpoints
type OrderController struct {
	service *services.OrderService
}

// NewOrderController creates an OrderController using the given service
func NewOrderController(service *services.OrderService) *OrderController {
	return &OrderController{service: service}
}

// ListOrders handles GET /api/v1/orders - lists orders, optionally
// narrowed by ?customer= (name substring) and/or ?status=
func (ctl *OrderController) ListOrders(c *gin.Context) {
	orders, err := ctl.service.List(c.Request.Context(), c.Query("customer"), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// GetOrder handles GET /api/v1/orders/:id - order detail with lines,
// customer, and per-line product names resolved
func (ctl *OrderController) GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	order, err := ctl.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// CreateOrder handles POST /api/v1/orders
func (ctl *OrderController) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	order, err := ctl.service.Create(c.Request.Context(), req.CustomerID, req.Items)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
	})
}

// UpdateOrderStatus handles PUT /api/v1/orders/:id/status
func (ctl *OrderController) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	order, err := ctl.service.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// GetOrderHistory handles GET /api/v1/orders/:id/history - the order's
// status changes, oldest first
func (ctl *OrderController) GetOrderHistory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	changes, err := ctl.service.History(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    changes,
	})
}
