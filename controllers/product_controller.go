package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/orderdesk/orders-api/models"
	"github.com/orderdesk/orders-api/services"
)

// ProductRequest represents the request body for creating or updating a product
type ProductRequest struct {
	Name  string   `json:"name" binding:"required"`
	Price *float64 `json:"price" binding:"required,gte=0"`
	Stock int      `json:"stock" binding:"gte=0"`
}

// ProductController handles the product catalog endpoints, including
// product image upload backed by S3
type ProductController struct {
	service      *services.ProductService
	imageService services.ImageService // nil when image uploads are disabled
}

// NewProductController creates a ProductController using the given services
func NewProductController(service *services.ProductService, imageService services.ImageService) *ProductController {
	return &ProductController{service: service, imageService: imageService}
}

// ListProducts handles GET /api/v1/products - lists all products,
// optionally narrowed by ?search= over the name
func (ctl *ProductController) ListProducts(c *gin.Context) {
	search := c.Query("search")

	var (
		products []models.Product
		err      error
	)
	if search != "" {
		products, err = ctl.service.Search(c.Request.Context(), search)
	} else {
		products, err = ctl.service.List(c.Request.Context())
	}
	if err != nil {
		respondError(c, err)
		return
	}

	for i := range products {
		ctl.attachImageURL(&products[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    products,
	})
}

// GetProduct handles GET /api/v1/products/:id
func (ctl *ProductController) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	product, err := ctl.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	ctl.attachImageURL(product)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    product,
	})
}

// CreateProduct handles POST /api/v1/products
func (ctl *ProductController) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	product, err := ctl.service.Create(c.Request.Context(), &models.Product{
		Name:  req.Name,
		Price: *req.Price,
		Stock: req.Stock,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    product,
	})
}

// UpdateProduct handles PUT /api/v1/products/:id
func (ctl *ProductController) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	product, err := ctl.service.Update(c.Request.Context(), &models.Product{
		ID:    id,
		Name:  req.Name,
		Price: *req.Price,
		Stock: req.Stock,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	ctl.attachImageURL(product)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    product,
	})
}

// DeleteProduct handles DELETE /api/v1/products/:id
func (ctl *ProductController) DeleteProduct(c *gin.Context) {
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
		"message": "Product deleted",
	})
}

// UploadProductImage handles POST /api/v1/products/:id/image - uploads a
// PNG image for the product, replacing any previous one
func (ctl *ProductController) UploadProductImage(c *gin.Context) {
	if !ctl.uploadsEnabled(c) {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "An image file is required",
			},
		})
		return
	}

	s3Key, err := ctl.imageService.UploadImage(fileHeader)
	if err != nil {
		respondError(c, err)
		return
	}

	previousKey, err := ctl.service.SetImage(c.Request.Context(), id, s3Key)
	if err != nil {
		// The product row was not updated; drop the orphaned upload.
		if cleanupErr := ctl.imageService.DeleteImage(s3Key); cleanupErr != nil {
			log.Printf("warning: failed to clean up orphaned image %s: %v", s3Key, cleanupErr)
		}
		respondError(c, err)
		return
	}

	if previousKey != "" {
		if err := ctl.imageService.DeleteImage(previousKey); err != nil {
			log.Printf("warning: failed to delete replaced image %s: %v", previousKey, err)
		}
	}

	product, err := ctl.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	ctl.attachImageURL(product)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    product,
	})
}

// DeleteProductImage handles DELETE /api/v1/products/:id/image
func (ctl *ProductController) DeleteProductImage(c *gin.Context) {
	if !ctl.uploadsEnabled(c) {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	removedKey, err := ctl.service.RemoveImage(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := ctl.imageService.DeleteImage(removedKey); err != nil {
		log.Printf("warning: failed to delete image %s from storage: %v", removedKey, err)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Product image removed",
	})
}

// uploadsEnabled reports whether image storage is configured, writing
// the error response when it is not
func (ctl *ProductController) uploadsEnabled(c *gin.Context) bool {
	if ctl.imageService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOADS_DISABLED",
				"message": "Image uploads are not configured",
			},
		})
		return false
	}
	return true
}

// attachImageURL fills the computed presigned URL for a product's image
func (ctl *ProductController) attachImageURL(product *models.Product) {
	if ctl.imageService == nil || product.ImageS3Key == nil {
		return
	}
	url, err := ctl.imageService.GetImageURL(*product.ImageS3Key)
	if err != nil {
		log.Printf("warning: failed to presign image URL for product %d: %v", product.ID, err)
		return
	}
	if url != "" {
		product.ImageURL = &url
	}
}
