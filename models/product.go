package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a shoe listed in the catalog
type Product struct {
	ID              uint             `gorm:"primaryKey" json:"id"`
	Name            string           `gorm:"not null" json:"name"`
	Slug            string           `gorm:"uniqueIndex;not null" json:"slug"`
	SKU             string           `gorm:"uniqueIndex;not null" json:"sku"`
	Price           decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"price"`
	DiscountPrice   *decimal.Decimal `gorm:"type:decimal(10,2)" json:"discount_price"` // strike-through reference price
	Description     string           `gorm:"not null" json:"description"`
	LongDescription *string          `gorm:"type:text" json:"long_description"`
	Material        string           `gorm:"not null" json:"material"`
	Sole            *string          `json:"sole"`
	Quality         *string          `json:"quality"`
	Color           *string          `json:"color"`
	ColorCode       *string          `json:"color_code"`
	Category        *string          `gorm:"index" json:"category"`
	Sizes           []int            `gorm:"serializer:json" json:"sizes"`
	Stock           int              `gorm:"not null;default:0" json:"stock"` // aggregate across variants
	IsOutOfStock    bool             `gorm:"not null;default:false" json:"is_out_of_stock"`
	IsActive        bool             `gorm:"not null;default:true" json:"is_active"`
	IsFeatured      bool             `gorm:"not null;default:false" json:"is_featured"`
	IsOnSale        bool             `gorm:"not null;default:false" json:"is_on_sale"`
	Images          []string         `gorm:"serializer:json" json:"images"`
	Variants        []ProductVariant `gorm:"foreignKey:ProductID" json:"variants"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	DeletedAt       gorm.DeletedAt   `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// ProductVariant represents per-size stock for a product
type ProductVariant struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ProductID    uint      `gorm:"not null;index" json:"product_id"`
	Size         int       `gorm:"not null" json:"size"`
	Stock        int       `gorm:"not null;default:0" json:"stock"`
	IsOutOfStock bool      `gorm:"not null;default:false" json:"is_out_of_stock"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for the ProductVariant model
func (ProductVariant) TableName() string {
	return "product_variants"
}
