package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/orderdesk/orders-api/models"
	"github.com/orderdesk/orders-api/services"
)

// CustomerRequest represents the request body for creating or updating a customer
type CustomerRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone"`
}

// CustomerController handles the customer catalog endpoints
type CustomerController struct {
	service *services.CustomerService
}

// NewCustomerController creates a CustomerController using the given service
func NewCustomerController(service *services.CustomerService) *CustomerController {
	return &CustomerController{service: service}
}

// ListCustomers handles GET /api/v1/customers - lists all customers,
// optionally narrowed by ?search= over name and email
func (ctl *CustomerController) ListCustomers(c *gin.Context) {
	search := c.Query("search")

	var (
		customers []models.Customer
		err       error
	)
	if search != "" {
		customers, err = ctl.service.Search(c.Request.Context(), search)
	} else {
		customers, err = ctl.service.List(c.Request.Context())
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    customers,
	})
}

// GetCustomer handles GET /api/v1/customers/:id
func (ctl *CustomerController) GetCustomer(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	customer, err := ctl.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    customer,
	})
}

// CreateCustomer handles POST /api/v1/customers
func (ctl *CustomerController) CreateCustomer(c *gin.Context) {
	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	customer, err := ctl.service.Create(c.Request.Context(), &models.Customer{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    customer,
	})
}

// UpdateCustomer handles PUT /api/v1/customers/:id
func (ctl *CustomerController) UpdateCustomer(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	customer, err := ctl.service.Update(c.Request.Context(), &models.Customer{
		ID:    id,
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    customer,
	})
}

// DeleteCustomer handles DELETE /api/v1/customers/:id
func (ctl *CustomerController) DeleteCustomer(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctl.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Customer deleted",
	})
}
