package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/diewo77/shop-manager/internal/models"
)

var (
	ErrOrderNotEditable  = errors.New("order is not editable")
	ErrEmptyOrder        = errors.New("order has no items")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// OrderService owns order totals, numbering and finalization.
type OrderService struct {
	db      *gorm.DB
	taxRate float64 // fallback when no settings row exists
}

func NewOrderService(db *gorm.DB, taxRate float64) *OrderService {
	return &OrderService{db: db, taxRate: taxRate}
}

// rate resolves the current tax rate from the settings record so a PUT
// /settings change applies to the next finalize, not the next restart.
func (s *OrderService) rate(db *gorm.DB) float64 {
	var settings models.ShopSettings
	if err := db.First(&settings).Error; err == nil {
		return settings.Invoice.Rate()
	}
	return s.taxRate
}

// ComputeTotals derives subtotal, tax and total from the order items at the
// current settings rate.
func (s *OrderService) ComputeTotals(o *models.Order) (subtotal, tax, total float64) {
	return s.computeTotals(s.db, o)
}

func (s *OrderService) computeTotals(db *gorm.DB, o *models.Order) (subtotal, tax, total float64) {
	subtotal = o.ItemsSubtotal()
	tax = subtotal * s.rate(db)
	total = subtotal + tax
	return
}

// Finalize assigns the sequential number, snapshots totals and decrements
// stock through movement rows, all in one transaction. The order must be a
// non-empty draft and every line must be coverable by current stock.
func (s *OrderService) Finalize(o *models.Order) error {
	if !o.IsDraft() {
		return ErrOrderNotEditable
	}
	if len(o.Items) == 0 {
		return ErrEmptyOrder
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range o.Items {
			var product models.Product
			if err := tx.First(&product, item.ProductID).Error; err != nil {
				return err
			}
			if product.Stock < item.Quantity {
				return fmt.Errorf("%w: %s (have %d, need %d)",
					ErrInsufficientStock, product.Name, product.Stock, item.Quantity)
			}
			if err := tx.Model(&product).Update("stock", product.Stock-item.Quantity).Error; err != nil {
				return err
			}
			movement := models.StockMovement{
				ProductID: item.ProductID,
				Delta:     -item.Quantity,
				Reason:    "vente",
				OrderID:   &o.ID,
			}
			if err := tx.Create(&movement).Error; err != nil {
				return err
			}
		}

		number, err := models.GenerateOrderNumber(tx, time.Now().Year())
		if err != nil {
			return err
		}
		subtotal, taxAmount, total := s.computeTotals(tx, o)
		now := time.Now()
		due := now.AddDate(0, 0, 30)
		updates := map[string]any{
			"number":     number,
			"status":     models.OrderStatusFinal,
			"issue_date": now,
			"due_date":   due,
			"subtotal":   subtotal,
			"tax":        taxAmount,
			"total":      total,
		}
		if err := tx.Model(o).Updates(updates).Error; err != nil {
			return err
		}
		o.Number = number
		o.Status = models.OrderStatusFinal
		o.IssueDate = now
		o.DueDate = due
		o.Subtotal, o.Tax, o.Total = subtotal, taxAmount, total
		return nil
	})
}

// Revenue sums the totals of finalized and paid orders.
func (s *OrderService) Revenue() (float64, error) {
	var revenue float64
	err := s.db.Model(&models.Order{}).
		Where("status IN ?", []models.OrderStatus{models.OrderStatusFinal, models.OrderStatusPaid}).
		Select("COALESCE(SUM(total), 0)").
		Scan(&revenue).Error
	return revenue, err
}
