package models

import (
	"time"

	"gorm.io/gorm"
)

// Order represents an order header with its owned line items
type Order struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	CustomerID uint           `gorm:"not null;index" json:"customer_id"` // foreign key to customers table, immutable
	Customer   Customer       `gorm:"foreignKey:CustomerID" json:"customer"`
	Status     Status         `gorm:"not null;default:'New'" json:"status"`
	Total      float64        `gorm:"not null" json:"total"` // sum of line totals
	Lines      []OrderLine    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"lines"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderLine is one product-and-quantity entry within an order.
// UnitPrice is captured at order creation so historical orders are
// unaffected by later catalog price changes.
type OrderLine struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OrderID   uint    `gorm:"not null;index" json:"order_id"`
	ProductID uint    `gorm:"not null;index" json:"product_id"`
	Product   Product `gorm:"foreignKey:ProductID" json:"product"`
	Quantity  int     `gorm:"not null;check:quantity > 0" json:"quantity"`
	UnitPrice float64 `gorm:"not null" json:"unit_price"`
	LineTotal float64 `gorm:"not null" json:"line_total"`
}

// TableName specifies the table name for the OrderLine model
func (OrderLine) TableName() string {
	return "order_lines"
}
