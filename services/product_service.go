package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/orderdesk/orders-api/models"
	"gorm.io/gorm"
)

// ProductService provides CRUD and search over product records
type ProductService struct {
	db *gorm.DB
}

// NewProductService creates a ProductService backed by the given database
func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

// List returns all products
func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	ctx, cancel := storeContext(ctx)
	defer cancel()

	var products []models.Product
	if err := s.db.WithContext(ctx).Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// Search returns products whose name contains the term, matched
// case-insensitively
func (s *ProductService) Search(ctx context.Context, term string) ([]models.Product, error) {
	if strings.TrimSpace(term) == "" {
		return s.List(ctx)
	}

	ctx, cancel := storeContext(ctx)
	defer cancel()

	pattern := "%" + strings.ToLower(term) + "%"
	var products []models.Product
	err := s.db.WithContext(ctx).
		Where("LOWER(name) LIKE ?", pattern).
		Order("id").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return products, nil
}

// GetByID returns one product or a NotFoundError
func (s *ProductService) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	ctx, cancel := storeContext(ctx)
	defer cancel()

	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("product", id)
		}
		return nil, fmt.Errorf("failed to load product %d: %w", id, err)
	}
	return &product, nil
}

// Create validates and persists a new product, returning the stored record
func (s *ProductService) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	ctx, cancel := storeContext(ctx)
	defer cancel()

	if err := s.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

// Update overwrites the mutable fields of an existing product.
// An absent id yields a NotFoundError.
func (s *ProductService) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	ctx, cancel := storeContext(ctx)
	defer cancel()

	var existing models.Product
	if err := s.db.WithContext(ctx).First(&existing, product.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("product", product.ID)
		}
		return nil, fmt.Errorf("failed to load product %d: %w", product.ID, err)
	}

	updates := map[string]interface{}{
		"name":  product.Name,
		"price": product.Price,
		"stock": product.Stock,
	}
	if err := s.db.WithContext(ctx).Model(&existing).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update product %d: %w", product.ID, err)
	}
	return &existing, nil
}

// Delete removes a product. Deletion is blocked with a ValidationError
// while any order line still references the product. An absent id
// yields a NotFoundError.
func (s *ProductService) Delete(ctx context.Context, id uint) error {
	ctx, cancel := storeContext(ctx)
	defer cancel()

	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundError("product", id)
		}
		return fmt.Errorf("failed to load product %d: %w", id, err)
	}

	var lineCount int64
	if err := s.db.WithContext(ctx).Model(&models.OrderLine{}).Where("product_id = ?", id).Count(&lineCount).Error; err != nil {
		return fmt.Errorf("failed to count order lines for product %d: %w", id, err)
	}
	if lineCount > 0 {
		return NewValidationError("product %d appears on %d order line(s) and cannot be deleted", id, lineCount)
	}

	if err := s.db.WithContext(ctx).Delete(&product).Error; err != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	return nil
}

// SetImage records the S3 key of the product's uploaded image,
// returning the previous key so the caller can clean it up.
func (s *ProductService) SetImage(ctx context.Context, id uint, s3Key string) (previousKey string, err error) {
	ctx, cancel := storeContext(ctx)
	defer cancel()

	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", NewNotFoundError("product", id)
		}
		return "", fmt.Errorf("failed to load product %d: %w", id, err)
	}

	if product.ImageS3Key != nil {
		previousKey = *product.ImageS3Key
	}
	if err := s.db.WithContext(ctx).Model(&product).Update("image_s3_key", s3Key).Error; err != nil {
		return "", fmt.Errorf("failed to set image for product %d: %w", id, err)
	}
	return previousKey, nil
}

// RemoveImage clears the product's image key, returning the removed key.
func (s *ProductService) RemoveImage(ctx context.Context, id uint) (removedKey string, err error) {
	ctx, cancel := storeContext(ctx)
	defer cancel()

	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", NewNotFoundError("product", id)
		}
		return "", fmt.Errorf("failed to load product %d: %w", id, err)
	}

	if product.ImageS3Key == nil {
		return "", NewValidationError("product %d has no image", id)
	}
	removedKey = *product.ImageS3Key
	if err := s.db.WithContext(ctx).Model(&product).Update("image_s3_key", nil).Error; err != nil {
		return "", fmt.Errorf("failed to remove image for product %d: %w", id, err)
	}
	return removedKey, nil
}

// validateProduct checks the domain rules for product records
func validateProduct(product *models.Product) error {
	if strings.TrimSpace(product.Name) == "" {
		return NewValidationError("product name is required")
	}
	if product.Price < 0 {
		return NewValidationError("product price must not be negative")
	}
	if product.Stock < 0 {
		return NewValidationError("product stock must not be negative")
	}
	return nil
}
