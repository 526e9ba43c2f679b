// internal/models/product.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	BaseModel
	UserID       uuid.UUID       `json:"user_id" gorm:"type:uuid;not null;index:idx_products_user;index:idx_products_user_expiry,priority:1;index:idx_products_user_barcode,priority:1"`
	Name         string          `json:"name" gorm:"size:255;not null"`
	Category     ProductCategory `json:"category" gorm:"type:varchar(30);not null;index"`
	Brand        string          `json:"brand,omitempty" gorm:"size:100"`
	Quantity     float64         `json:"quantity" gorm:"not null"`
	Unit         ProductUnit     `json:"unit" gorm:"type:varchar(20);not null"`
	PurchaseDate time.Time       `json:"purchase_date" gorm:"not null"`
	ExpiryDate   time.Time       `json:"expiry_date" gorm:"not null;index:idx_products_user_expiry,priority:2"`
	Barcode      string          `json:"barcode,omitempty" gorm:"size:64;index:idx_products_user_barcode,priority:2"`
	Notes        string          `json:"notes,omitempty" gorm:"type:text"`

	// Relationships
	Owner User `json:"-" gorm:"foreignKey:UserID"`
}
