package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/orderdesk/orders-api/models"
	"gorm.io/gorm"
)

// OrderItemInput is one requested (product, quantity) pair for order creation
type OrderItemInput struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// OrderService manages the order lifecycle: creation with captured
// prices, filtered listing, and status updates with an audit trail
type OrderService struct {
	db *gorm.DB
}

// NewOrderService creates an OrderService backed by the given database
func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// Create builds and persists an order for the customer from the given
// (product, quantity) pairs. Every precondition is checked before any
// row is written, and the header, lines, and stock decrements commit in
// a single transaction: either the whole order exists or none of it does.
//
// Each line captures the product's unit price at creation time, so later
// catalog price changes never alter historical orders. The order total is
// the sum of line totals and the initial status is always New.
func (s *OrderService) Create(ctx context.Context, customerID uint, items []OrderItemInput) (*models.Order, error) {
	if customerID == 0 || len(items) == 0 {
		return nil, NewValidationError("select a valid customer and at least one product with a valid quantity")
	}
	for _, item := range items {
		if item.ProductID == 0 || item.Quantity <= 0 {
			return nil, NewValidationError("select a valid customer and at least one product with a valid quantity")
		}
	}

	ctx, cancel := storeContext(ctx)
	defer cancel()

	var orderID uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.First(&customer, customerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewValidationError("customer %d does not exist", customerID)
			}
			return fmt.Errorf("failed to load customer %d: %w", customerID, err)
		}

		productIDs := make([]uint, 0, len(items))
		for _, item := range items {
			productIDs = append(productIDs, item.ProductID)
		}
		var products []models.Product
		if err := tx.Where("id IN ?", productIDs).Find(&products).Error; err != nil {
			return fmt.Errorf("failed to load products: %w", err)
		}
		priceByID := make(map[uint]float64, len(products))
		for _, p := range products {
			priceByID[p.ID] = p.Price
		}

		order := models.Order{
			CustomerID: customerID,
			Status:     models.StatusNew,
		}
		for _, item := range items {
			price, ok := priceByID[item.ProductID]
			if !ok {
				return NewValidationError("product %d does not exist", item.ProductID)
			}
			line := models.OrderLine{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: price,
				LineTotal: price * float64(item.Quantity),
			}
			order.Total += line.LineTotal
			order.Lines = append(order.Lines, line)
		}

		// Guarded decrement: the row-level lock taken by the UPDATE is
		// what keeps concurrent orders from overselling the same product.
		for _, item := range items {
			result := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", item.ProductID, item.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity))
			if result.Error != nil {
				return fmt.Errorf("failed to reserve stock for product %d: %w", item.ProductID, result.Error)
			}
			if result.RowsAffected == 0 {
				return NewValidationError("insufficient stock for product %d", item.ProductID)
			}
		}

		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		orderID = order.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(ctx, orderID)
}

// GetByID returns an order with its customer, lines, and line products
// resolved for display. An absent id yields a NotFoundError.
func (s *OrderService) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	ctx, cancel := storeContext(ctx)
	defer cancel()

	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("Customer").
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("order_lines.id") }).
		Preload("Lines.Product").
		First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("order", id)
		}
		return nil, fmt.Errorf("failed to load order %d: %w", id, err)
	}
	return &order, nil
}

// List returns orders in insertion order, optionally narrowed by a
// case-insensitive substring match on the customer name and/or an exact
// status match. Both filters together apply as a logical AND.
func (s *OrderService) List(ctx context.Context, customerName string, status string) ([]models.Order, error) {
	var statusFilter models.Status
	if status != "" {
		parsed, ok := models.ParseStatus(status)
		if !ok {
			return nil, NewValidationError("%q is not a valid status", status)
		}
		statusFilter = parsed
	}

	ctx, cancel := storeContext(ctx)
	defer cancel()

	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("Customer").
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("order_lines.id") }).
		Preload("Lines.Product").
		Order("id").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	nameFilter := strings.ToLower(strings.TrimSpace(customerName))
	if nameFilter == "" && statusFilter == "" {
		return orders, nil
	}

	filtered := make([]models.Order, 0, len(orders))
	for _, order := range orders {
		if nameFilter != "" && !strings.Contains(strings.ToLower(order.Customer.Name), nameFilter) {
			continue
		}
		if statusFilter != "" && order.Status != statusFilter {
			continue
		}
		filtered = append(filtered, order)
	}
	return filtered, nil
}

// UpdateStatus sets the order's status to any of the enumerated values.
// No transition graph is enforced: any status may follow any other. The
// change and its audit row commit together. Line items and totals are
// untouched.
func (s *OrderService) UpdateStatus(ctx context.Context, id uint, status string) (*models.Order, error) {
	newStatus, ok := models.ParseStatus(status)
	if !ok {
		return nil, NewValidationError("%q is not a valid status", status)
	}

	ctx, cancel := storeContext(ctx)
	defer cancel()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewNotFoundError("order", id)
			}
			return fmt.Errorf("failed to load order %d: %w", id, err)
		}

		previous := order.Status
		if err := tx.Model(&order).Update("status", newStatus).Error; err != nil {
			return fmt.Errorf("failed to update status of order %d: %w", id, err)
		}

		change := models.StatusChange{
			OrderID:    order.ID,
			FromStatus: previous,
			ToStatus:   newStatus,
		}
		if err := tx.Create(&change).Error; err != nil {
			return fmt.Errorf("failed to record status change for order %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(ctx, id)
}

// History returns the order's status changes, oldest first.
// An absent order id yields a NotFoundError.
func (s *OrderService) History(ctx context.Context, id uint) ([]models.StatusChange, error) {
	ctx, cancel := storeContext(ctx)
	defer cancel()

	var order models.Order
	if err := s.db.WithContext(ctx).Select("id").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("order", id)
		}
		return nil, fmt.Errorf("failed to load order %d: %w", id, err)
	}

	var changes []models.StatusChange
	err := s.db.WithContext(ctx).
		Where("order_id = ?", id).
		Order("id").
		Find(&changes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load status history for order %d: %w", id, err)
	}
	return changes, nil
}
