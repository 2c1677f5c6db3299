package models

import "time"

// StatusChange records one status transition of an order, for the
// order's audit history. Rows are append-only.
type StatusChange struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	OrderID    uint      `gorm:"not null;index" json:"order_id"` // foreign key to orders table
	FromStatus Status    `gorm:"not null" json:"from_status"`
	ToStatus   Status    `gorm:"not null" json:"to_status"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for the StatusChange model
func (StatusChange) TableName() string {
	return "status_changes"
}
