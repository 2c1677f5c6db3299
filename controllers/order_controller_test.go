package controllers

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/orderdesk/orders-api/models"
	"github.com/orderdesk/orders-api/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type orderTestEnv struct {
	router   *gin.Engine
	db       *gorm.DB
	customer models.Customer
	widget   models.Product
	gadget   models.Product
}

func setupOrderRouter(t *testing.T) *orderTestEnv {
	t.Helper()

	db := setupControllerTestDB(t)
	controller := NewOrderController(services.NewOrderService(db))

	router := gin.New()
	router.GET("/api/v1/orders", controller.ListOrders)
	router.POST("/api/v1/orders", controller.CreateOrder)
	router.GET("/api/v1/orders/:id", controller.GetOrder)
	router.PUT("/api/v1/orders/:id/status", controller.UpdateOrderStatus)
	router.GET("/api/v1/orders/:id/history", controller.GetOrderHistory)

	env := &orderTestEnv{
		router:   router,
		db:       db,
		customer: models.Customer{Name: "Alice Smith", Email: "alice@example.com"},
		widget:   models.Product{Name: "Widget", Price: 10.00, Stock: 20},
		gadget:   models.Product{Name: "Gadget", Price: 5.00, Stock: 20},
	}
	require.NoError(t, db.Create(&env.customer).Error)
	require.NoError(t, db.Create(&env.widget).Error)
	require.NoError(t, db.Create(&env.gadget).Error)
	return env
}

func TestCreateOrderEndpoint(t *testing.T) {
	env := setupOrderRouter(t)

	w := performJSON(t, env.router, http.MethodPost, "/api/v1/orders", map[string]interface{}{
		"customer_id": env.customer.ID,
		"items": []map[string]interface{}{
			{"product_id": env.widget.ID, "quantity": 2},
			{"product_id": env.gadget.ID, "quantity": 1},
		},
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	response := parseResponse(t, w)
	assert.True(t, response["success"].(bool))
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "New", data["status"])
	assert.Equal(t, 25.00, data["total"])
	assert.Len(t, data["lines"].([]interface{}), 2)

	customerData := data["customer"].(map[string]interface{})
	assert.Equal(t, "Alice Smith", customerData["name"])
}

func TestCreateOrderEndpointValidation(t *testing.T) {
	env := setupOrderRouter(t)

	tests := []struct {
		name        string
		requestBody map[string]interface{}
	}{
		{
			name:        "missing customer",
			requestBody: map[string]interface{}{"items": []map[string]interface{}{{"product_id": env.widget.ID, "quantity": 1}}},
		},
		{
			name:        "empty item list",
			requestBody: map[string]interface{}{"customer_id": env.customer.ID, "items": []map[string]interface{}{}},
		},
		{
			name: "zero product id",
			requestBody: map[string]interface{}{
				"customer_id": env.customer.ID,
				"items":       []map[string]interface{}{{"product_id": 0, "quantity": 1}},
			},
		},
		{
			name: "zero quantity",
			requestBody: map[string]interface{}{
				"customer_id": env.customer.ID,
				"items":       []map[string]interface{}{{"product_id": env.widget.ID, "quantity": 0}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performJSON(t, env.router, http.MethodPost, "/api/v1/orders", tt.requestBody)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			response := parseResponse(t, w)
			assert.Equal(t, "VALIDATION_ERROR", errorCode(t, response))
			message := response["error"].(map[string]interface{})["message"].(string)
			assert.Equal(t, "select a valid customer and at least one product with a valid quantity", message)

			var count int64
			env.db.Model(&models.Order{}).Count(&count)
			assert.Equal(t, int64(0), count)
		})
	}
}

func TestGetOrderEndpoint(t *testing.T) {
	env := setupOrderRouter(t)

	order, err := services.NewOrderService(env.db).Create(context.Background(), env.customer.ID, []services.OrderItemInput{
		{ProductID: env.widget.ID, Quantity: 2},
	})
	require.NoError(t, err)

	w := performJSON(t, env.router, http.MethodGet, fmt.Sprintf("/api/v1/orders/%d", order.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	data := parseResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, 20.00, data["total"])
	lines := data["lines"].([]interface{})
	require.Len(t, lines, 1)
	line := lines[0].(map[string]interface{})
	assert.Equal(t, "Widget", line["product"].(map[string]interface{})["name"])

	w = performJSON(t, env.router, http.MethodGet, "/api/v1/orders/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(t, parseResponse(t, w)))
}

func TestUpdateOrderStatusEndpoint(t *testing.T) {
	env := setupOrderRouter(t)

	order, err := services.NewOrderService(env.db).Create(context.Background(), env.customer.ID, []services.OrderItemInput{
		{ProductID: env.widget.ID, Quantity: 1},
	})
	require.NoError(t, err)

	path := fmt.Sprintf("/api/v1/orders/%d/status", order.ID)

	w := performJSON(t, env.router, http.MethodPut, path, map[string]interface{}{"status": "Processando"})
	assert.Equal(t, http.StatusOK, w.Code)
	data := parseResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "Processing", data["status"])

	w = performJSON(t, env.router, http.MethodPut, path, map[string]interface{}{"status": "Shipped"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, parseResponse(t, w)))

	w = performJSON(t, env.router, http.MethodPut, "/api/v1/orders/999/status", map[string]interface{}{"status": "Processing"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListOrdersEndpoint(t *testing.T) {
	env := setupOrderRouter(t)

	bob := models.Customer{Name: "Bob Jones", Email: "bob@example.com"}
	require.NoError(t, env.db.Create(&bob).Error)

	orderService := services.NewOrderService(env.db)
	ctx := context.Background()
	_, err := orderService.Create(ctx, env.customer.ID, []services.OrderItemInput{{ProductID: env.widget.ID, Quantity: 1}})
	require.NoError(t, err)
	second, err := orderService.Create(ctx, bob.ID, []services.OrderItemInput{{ProductID: env.gadget.ID, Quantity: 1}})
	require.NoError(t, err)
	_, err = orderService.UpdateStatus(ctx, second.ID, "Processing")
	require.NoError(t, err)

	w := performJSON(t, env.router, http.MethodGet, "/api/v1/orders", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, parseResponse(t, w)["data"].([]interface{}), 2)

	w = performJSON(t, env.router, http.MethodGet, "/api/v1/orders?status=Processing", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data := parseResponse(t, w)["data"].([]interface{})
	require.Len(t, data, 1)
	assert.Equal(t, "Bob Jones", data[0].(map[string]interface{})["customer"].(map[string]interface{})["name"])

	w = performJSON(t, env.router, http.MethodGet, "/api/v1/orders?customer=smith&status=Processing", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, parseResponse(t, w)["data"])

	w = performJSON(t, env.router, http.MethodGet, "/api/v1/orders?status=Bogus", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderHistoryEndpoint(t *testing.T) {
	env := setupOrderRouter(t)

	orderService := services.NewOrderService(env.db)
	ctx := context.Background()
	order, err := orderService.Create(ctx, env.customer.ID, []services.OrderItemInput{{ProductID: env.widget.ID, Quantity: 1}})
	require.NoError(t, err)
	_, err = orderService.UpdateStatus(ctx, order.ID, "Processing")
	require.NoError(t, err)

	w := performJSON(t, env.router, http.MethodGet, fmt.Sprintf("/api/v1/orders/%d/history", order.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data := parseResponse(t, w)["data"].([]interface{})
	require.Len(t, data, 1)
	change := data[0].(map[string]interface{})
	assert.Equal(t, "New", change["from_status"])
	assert.Equal(t, "Processing", change["to_status"])

	w = performJSON(t, env.router, http.MethodGet, "/api/v1/orders/999/history", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
