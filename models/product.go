package models

import (
	"time"

	"gorm.io/gorm"
)

// Product represents a product record in the catalog
type Product struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Name       string         `gorm:"not null" json:"name"`
	Price      float64        `gorm:"not null;check:price >= 0" json:"price"`
	Stock      int            `gorm:"not null;default:0;check:stock >= 0" json:"stock"`
	ImageS3Key *string        `json:"image_s3_key,omitempty"`       // nullable, S3 key for uploaded image
	ImageURL   *string        `gorm:"-" json:"image_url,omitempty"` // computed field, presigned URL for image
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Product model
func (Product) TableName() string {
	return "products"
}
