package models

import (
	"time"

	"github.com/diewo77/shop-manager/pdf"
)

// ShopSettings is the single versioned configuration record: the whole
// pdf.InvoiceSettings snapshot persisted as one JSON blob instead of
// scattered key/value entries. Load, mutate, save; the renderer always
// receives a copy.
type ShopSettings struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Version int                 `gorm:"default:1" json:"version"`
	Invoice pdf.InvoiceSettings `gorm:"serializer:json" json:"invoice"`
}
