package models

import (
	"time"

	"gorm.io/gorm"
)

// TransactionType splits finance movements into the two sides of the ledger.
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// Transaction is one finance entry shown on the finances screen and in the
// transaction report PDF.
type Transaction struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Description string          `gorm:"size:500;not null" json:"description"`
	Amount      float64         `gorm:"type:decimal(12,2);not null" json:"amount"`
	Type        TransactionType `gorm:"size:10;not null" json:"type"`
	Date        time.Time       `gorm:"not null" json:"date"`
	Category    string          `gorm:"size:100" json:"category,omitempty"`
}
