// internal/domain/product/entity.go
package product

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductType distinguishes shelf-stable items from dated stock
type ProductType string

const (
	ProductTypeRegular    ProductType = "regular"
	ProductTypePerishable ProductType = "perishable"
)

// Product represents a sellable item whose quantity is derived from batches
type Product struct {
	ID          string         `gorm:"primaryKey;size:36" json:"id"`
	Name        string         `gorm:"not null;size:200" json:"name"`
	SKU         string         `gorm:"uniqueIndex;not null;size:100" json:"sku"`
	Description string         `gorm:"type:text" json:"description"`
	Price       int64          `gorm:"not null" json:"price"` // In cents
	Quantity    int            `gorm:"default:0" json:"quantity"`
	Type        ProductType    `gorm:"default:'regular';size:20" json:"type"`
	InStock     bool           `gorm:"default:true" json:"in_stock"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate hook to assign an ID
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// IsPerishable reports whether the product carries dated batches
func (p *Product) IsPerishable() bool {
	return p.Type == ProductTypePerishable
}
