package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/diewo77/shop-manager/internal/models"
)

var ErrZeroDelta = errors.New("delta must not be zero")

// StockService records manual inventory adjustments.
type StockService struct {
	db *gorm.DB
}

func NewStockService(db *gorm.DB) *StockService {
	return &StockService{db: db}
}

// Adjust applies a stock delta to a product and records the movement.
// A negative delta may not take stock below zero.
func (s *StockService) Adjust(productID uint, delta int, reason string) (*models.Product, error) {
	if delta == 0 {
		return nil, ErrZeroDelta
	}
	var product models.Product
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&product, productID).Error; err != nil {
			return err
		}
		next := product.Stock + delta
		if next < 0 {
			return ErrInsufficientStock
		}
		if err := tx.Model(&product).Update("stock", next).Error; err != nil {
			return err
		}
		product.Stock = next
		return tx.Create(&models.StockMovement{
			ProductID: productID,
			Delta:     delta,
			Reason:    reason,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// LowStock lists active products at or below their minimum threshold.
func (s *StockService) LowStock() ([]models.Product, error) {
	var products []models.Product
	err := s.db.
		Where("is_active = ? AND min_stock > 0 AND stock <= min_stock", true).
		Order("stock").
		Find(&products).Error
	return products, err
}
