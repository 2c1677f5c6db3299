package services

import (
	"context"
	"testing"

	"github.com/orderdesk/orders-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.Customer{},
		&models.Product{},
		&models.Order{},
		&models.OrderLine{},
		&models.StatusChange{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func TestCustomerCreateAndGetRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	service := NewCustomerService(db)
	ctx := context.Background()

	created, err := service.Create(ctx, &models.Customer{
		Name:  "Alice Smith",
		Email: "alice@example.com",
		Phone: "555-0100",
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	fetched, err := service.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice Smith", fetched.Name)
	assert.Equal(t, "alice@example.com", fetched.Email)
	assert.Equal(t, "555-0100", fetched.Phone)
}

func TestCustomerCreateValidation(t *testing.T) {
	db := setupTestDB(t)
	service := NewCustomerService(db)
	ctx := context.Background()

	tests := []struct {
		name     string
		customer models.Customer
	}{
		{name: "empty name", customer: models.Customer{Name: "", Email: "a@example.com"}},
		{name: "whitespace name", customer: models.Customer{Name: "   ", Email: "a@example.com"}},
		{name: "empty email", customer: models.Customer{Name: "Alice", Email: ""}},
		{name: "malformed email", customer: models.Customer{Name: "Alice", Email: "not-an-email"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Create(ctx, &tt.customer)
			var validationErr *ValidationError
			assert.ErrorAs(t, err, &validationErr)
		})
	}

	// Nothing was persisted by the failed creates
	var count int64
	db.Model(&models.Customer{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCustomerSearch(t *testing.T) {
	db := setupTestDB(t)
	service := NewCustomerService(db)
	ctx := context.Background()

	seed := []models.Customer{
		{Name: "John Smith", Email: "john@example.com"},
		{Name: "Jane Doe", Email: "jane.smith@example.com"},
		{Name: "Bob Brown", Email: "bob@example.com"},
	}
	for i := range seed {
		_, err := service.Create(ctx, &seed[i])
		require.NoError(t, err)
	}

	// Matches name or email, case-insensitively
	results, err := service.Search(ctx, "SMITH")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "John Smith", results[0].Name)
	assert.Equal(t, "Jane Doe", results[1].Name)

	results, err = service.Search(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, results)

	// Blank term falls back to the full list
	results, err = service.Search(ctx, "  ")
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestCustomerUpdate(t *testing.T) {
	db := setupTestDB(t)
	service := NewCustomerService(db)
	ctx := context.Background()

	created, err := service.Create(ctx, &models.Customer{Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)

	updated, err := service.Update(ctx, &models.Customer{
		ID:    created.ID,
		Name:  "Alice Cooper",
		Email: "alice.cooper@example.com",
		Phone: "555-0199",
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Alice Cooper", updated.Name)

	fetched, err := service.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice.cooper@example.com", fetched.Email)
	assert.Equal(t, "555-0199", fetched.Phone)
}

func TestCustomerUpdateNotFound(t *testing.T) {
	db := setupTestDB(t)
	service := NewCustomerService(db)

	_, err := service.Update(context.Background(), &models.Customer{
		ID:    999,
		Name:  "Ghost",
		Email: "ghost@example.com",
	})
	var notFoundErr *NotFoundError
	assert.ErrorAs(t, err, &notFoundErr)
}

func TestCustomerDelete(t *testing.T) {
	db := setupTestDB(t)
	service := NewCustomerService(db)
	ctx := context.Background()

	created, err := service.Create(ctx, &models.Customer{Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)

	require.NoError(t, service.Delete(ctx, created.ID))

	_, err = service.GetByID(ctx, created.ID)
	var notFoundErr *NotFoundError
	assert.ErrorAs(t, err, &notFoundErr)

	// Deleting again reports not found
	err = service.Delete(ctx, created.ID)
	assert.ErrorAs(t, err, &notFoundErr)
}

func TestCustomerDeleteBlockedByOrders(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	customerService := NewCustomerService(db)
	productService := NewProductService(db)
	orderService := NewOrderService(db)

	customer, err := customerService.Create(ctx, &models.Customer{Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)
	product, err := productService.Create(ctx, &models.Product{Name: "Widget", Price: 10, Stock: 5})
	require.NoError(t, err)

	_, err = orderService.Create(ctx, customer.ID, []OrderItemInput{{ProductID: product.ID, Quantity: 1}})
	require.NoError(t, err)

	err = customerService.Delete(ctx, customer.ID)
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)

	// Customer is still there
	_, err = customerService.GetByID(ctx, customer.ID)
	assert.NoError(t, err)
}
