package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/orderdesk/orders-api/models"
	"gorm.io/gorm"
)

// storeTimeout bounds every individual store call so a stuck database
// surfaces as an infrastructure failure instead of a hung request.
const storeTimeout = 5 * time.Second

// storeContext derives a bounded context for one store call.
func storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, storeTimeout)
}

// CustomerService provides CRUD and search over customer records
type CustomerService struct {
	db *gorm.DB
}

// NewCustomerService creates a CustomerService backed by the given database
func NewCustomerService(db *gorm.DB) *CustomerService {
	return &CustomerService{db: db}
}

// List returns all customers
func (s *CustomerService) List(ctx context.Context) ([]models.Customer, error) {
	ctx, cancel := storeContext(ctx)
	defer cancel()

	var customers []models.Customer
	if err := s.db.WithContext(ctx).Order("id").Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

// Search returns customers whose name or email contains the term,
// matched case-insensitively
func (s *CustomerService) Search(ctx context.Context, term string) ([]models.Customer, error) {
	if strings.TrimSpace(term) == "" {
		return s.List(ctx)
	}

	ctx, cancel := storeContext(ctx)
	defer cancel()

	pattern := "%" + strings.ToLower(term) + "%"
	var customers []models.Customer
	err := s.db.WithContext(ctx).
		Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern).
		Order("id").
		Find(&customers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search customers: %w", err)
	}
	return customers, nil
}

// GetByID returns one customer or a NotFoundError
func (s *CustomerService) GetByID(ctx context.Context, id uint) (*models.Customer, error) {
	ctx, cancel := storeContext(ctx)
	defer cancel()

	var customer models.Customer
	if err := s.db.WithContext(ctx).First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("customer", id)
		}
		return nil, fmt.Errorf("failed to load customer %d: %w", id, err)
	}
	return &customer, nil
}

// Create validates and persists a new customer, returning the stored record
func (s *CustomerService) Create(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	if err := validateCustomer(customer); err != nil {
		return nil, err
	}

	ctx, cancel := storeContext(ctx)
	defer cancel()

	if err := s.db.WithContext(ctx).Create(customer).Error; err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return customer, nil
}

// Update overwrites the mutable fields of an existing customer.
// The identifier is immutable; an absent id yields a NotFoundError.
func (s *CustomerService) Update(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	if err := validateCustomer(customer); err != nil {
		return nil, err
	}

	ctx, cancel := storeContext(ctx)
	defer cancel()

	var existing models.Customer
	if err := s.db.WithContext(ctx).First(&existing, customer.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("customer", customer.ID)
		}
		return nil, fmt.Errorf("failed to load customer %d: %w", customer.ID, err)
	}

	updates := map[string]interface{}{
		"name":  customer.Name,
		"email": customer.Email,
		"phone": customer.Phone,
	}
	if err := s.db.WithContext(ctx).Model(&existing).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update customer %d: %w", customer.ID, err)
	}
	return &existing, nil
}

// Delete removes a customer. Deletion is blocked with a ValidationError
// while any order still references the customer, so historical orders
// stay readable. An absent id yields a NotFoundError.
func (s *CustomerService) Delete(ctx context.Context, id uint) error {
	ctx, cancel := storeContext(ctx)
	defer cancel()

	var customer models.Customer
	if err := s.db.WithContext(ctx).First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundError("customer", id)
		}
		return fmt.Errorf("failed to load customer %d: %w", id, err)
	}

	var orderCount int64
	if err := s.db.WithContext(ctx).Model(&models.Order{}).Where("customer_id = ?", id).Count(&orderCount).Error; err != nil {
		return fmt.Errorf("failed to count orders for customer %d: %w", id, err)
	}
	if orderCount > 0 {
		return NewValidationError("customer %d has %d order(s) and cannot be deleted", id, orderCount)
	}

	if err := s.db.WithContext(ctx).Delete(&customer).Error; err != nil {
		return fmt.Errorf("failed to delete customer %d: %w", id, err)
	}
	return nil
}

// validateCustomer checks the domain rules for customer records
func validateCustomer(customer *models.Customer) error {
	if strings.TrimSpace(customer.Name) == "" {
		return NewValidationError("customer name is required")
	}
	if strings.TrimSpace(customer.Email) == "" {
		return NewValidationError("customer email is required")
	}
	if _, err := mail.ParseAddress(customer.Email); err != nil {
		return NewValidationError("customer email %q is not a valid address", customer.Email)
	}
	return nil
}
