package models

import (
	"time"

	"gorm.io/gorm"
)

// Category groups products for the catalog screens.
type Category struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Name        string `gorm:"size:255;uniqueIndex;not null" json:"name"`
	Description string `gorm:"size:500" json:"description,omitempty"`
}

// Product is one sellable item. Stock is the current on-hand quantity,
// maintained through StockMovement rows.
type Product struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Code        string    `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"size:1000" json:"description,omitempty"`
	Price       float64   `gorm:"type:decimal(12,2);not null" json:"price"`
	Cost        float64   `gorm:"type:decimal(12,2)" json:"cost"`
	Stock       int       `gorm:"not null;default:0" json:"stock"`
	MinStock    int       `gorm:"not null;default:0" json:"min_stock"`
	ImageURL    string    `gorm:"size:500" json:"image_url,omitempty"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CategoryID  *uint     `gorm:"index" json:"category_id,omitempty"`
	Category    *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// LowStock reports whether the product is at or below its threshold.
func (p *Product) LowStock() bool {
	return p.MinStock > 0 && p.Stock <= p.MinStock
}
