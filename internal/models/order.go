package models

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

// OrderStatus represents the lifecycle of an order.
type OrderStatus string

const (
	OrderStatusDraft     OrderStatus = "draft"
	OrderStatusFinal     OrderStatus = "final"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order is a client purchase: a set of line items billed together. Totals
// are snapshotted on finalize; before that they are derived from the items.
type Order struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Number   string      `gorm:"size:50;uniqueIndex" json:"number"`
	ClientID uint        `gorm:"index;not null" json:"client_id"`
	Client   *Client     `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Status   OrderStatus `gorm:"size:20;default:'draft'" json:"status"`

	IssueDate time.Time  `json:"issue_date"`
	DueDate   time.Time  `json:"due_date"`
	PaidDate  *time.Time `json:"paid_date,omitempty"`

	Subtotal float64 `gorm:"type:decimal(12,2)" json:"subtotal"`
	Tax      float64 `gorm:"type:decimal(12,2)" json:"tax"`
	Total    float64 `gorm:"type:decimal(12,2)" json:"total"`

	Notes string `gorm:"type:text" json:"notes,omitempty"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

func (o *Order) IsDraft() bool { return o.Status == OrderStatusDraft }

// CanEdit returns true while the order can still be modified.
func (o *Order) CanEdit() bool { return o.Status == OrderStatusDraft }

// ItemsSubtotal derives the subtotal from the line items.
func (o *Order) ItemsSubtotal() float64 {
	var total float64
	for _, item := range o.Items {
		total += item.LineTotal()
	}
	return total
}

// OrderItem is one (product, quantity) line on an order. Description and
// UnitPrice are copied from the product at add time so later price changes
// do not rewrite history.
type OrderItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	OrderID   uint     `gorm:"index;not null" json:"order_id"`
	ProductID uint     `gorm:"index;not null" json:"product_id"`
	Product   *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`

	Description string  `gorm:"size:500;not null" json:"description"`
	UnitPrice   float64 `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Quantity    int     `gorm:"not null;default:1" json:"quantity"`
}

// LineTotal is quantity × unit price.
func (i *OrderItem) LineTotal() float64 {
	return float64(i.Quantity) * i.UnitPrice
}

// GenerateOrderNumber produces the next sequential number, format
// ORD-YYYY-NNNN. It continues from the highest number issued for the year
// rather than counting rows, so a cancelled order never causes reuse. Two
// finalizations racing in separate transactions can still pick the same
// value; the unique index on number rejects the loser.
func GenerateOrderNumber(db *gorm.DB, year int) (string, error) {
	prefix := fmt.Sprintf("ORD-%d-", year)
	var last sql.NullString
	err := db.Model(&Order{}).
		Where("number LIKE ?", prefix+"%").
		Select("MAX(number)").
		Scan(&last).Error
	if err != nil {
		return "", err
	}
	seq := 0
	if last.Valid {
		if n, err := strconv.Atoi(strings.TrimPrefix(last.String, prefix)); err == nil {
			seq = n
		}
	}
	return fmt.Sprintf("%s%04d", prefix, seq+1), nil
}

// StockMovement records one inventory change: positive delta for received
// stock, negative for sales and losses.
type StockMovement struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	ProductID uint     `gorm:"index;not null" json:"product_id"`
	Product   *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Delta     int      `gorm:"not null" json:"delta"`
	Reason    string   `gorm:"size:255" json:"reason,omitempty"`
	OrderID   *uint    `gorm:"index" json:"order_id,omitempty"`
}
