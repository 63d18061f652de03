package models

import (
	"time"

	"gorm.io/gorm"
)

// Client is a customer of the shop.
type Client struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Name    string `gorm:"size:255;not null" json:"name"`
	Phone   string `gorm:"size:50" json:"phone,omitempty"`
	Email   string `gorm:"size:255" json:"email,omitempty"`
	Address string `gorm:"size:500" json:"address,omitempty"`
	Notes   string `gorm:"type:text" json:"notes,omitempty"`
}

// Employee is a staff record, optionally linked to a login account.
type Employee struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Name      string     `gorm:"size:255;not null" json:"name"`
	Phone     string     `gorm:"size:50" json:"phone,omitempty"`
	Email     string     `gorm:"size:255" json:"email,omitempty"`
	Position  string     `gorm:"size:100" json:"position,omitempty"`
	Salary    float64    `gorm:"type:decimal(12,2)" json:"salary,omitempty"`
	HiredAt   *time.Time `json:"hired_at,omitempty"`
	UserID    *uint      `gorm:"index" json:"user_id,omitempty"`
	User      *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
