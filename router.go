package main

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/orderdesk/orders-api/controllers"
	"github.com/orderdesk/orders-api/services"
	"gorm.io/gorm"
)

// SetupRouter wires the services and controllers onto a Gin engine.
// imageService may be nil, which disables the product image endpoints.
func SetupRouter(db *gorm.DB, imageService services.ImageService) *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())

	customerController := controllers.NewCustomerController(services.NewCustomerService(db))
	productController := controllers.NewProductController(services.NewProductService(db), imageService)
	orderController := controllers.NewOrderController(services.NewOrderService(db))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", databaseStatus(db))

		customers := v1.Group("/customers")
		{
			customers.GET("", customerController.ListCustomers)
			customers.POST("", customerController.CreateCustomer)
			customers.GET("/:id", customerController.GetCustomer)
			customers.PUT("/:id", customerController.UpdateCustomer)
			customers.DELETE("/:id", customerController.DeleteCustomer)
		}

		products := v1.Group("/products")
		{
			products.GET("", productController.ListProducts)
			products.POST("", productController.CreateProduct)
			products.GET("/:id", productController.GetProduct)
			products.PUT("/:id", productController.UpdateProduct)
			products.DELETE("/:id", productController.DeleteProduct)
			products.POST("/:id/image", productController.UploadProductImage)
			products.DELETE("/:id/image", productController.DeleteProductImage)
		}

		orders := v1.Group("/orders")
		{
			orders.GET("", orderController.ListOrders)
			orders.POST("", orderController.CreateOrder)
			orders.GET("/:id", orderController.GetOrder)
			orders.PUT("/:id/status", orderController.UpdateOrderStatus)
			orders.GET("/:id/history", orderController.GetOrderHistory)
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order Management API is running",
	})
}

// databaseStatus checks database connectivity
func databaseStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to get database instance",
				},
			})
			return
		}

		if err := sqlDB.Ping(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_CONNECTION_ERROR",
					"message": "Database connection failed",
				},
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Database connected",
		})
	}
}
