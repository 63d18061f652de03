package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/diewo77/shop-manager/internal/models"
)

// FinanceSummary aggregates the transaction ledger.
type FinanceSummary struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Net     float64 `json:"net"`
}

// FinanceService answers the finances screen's aggregate queries.
type FinanceService struct {
	db *gorm.DB
}

func NewFinanceService(db *gorm.DB) *FinanceService {
	return &FinanceService{db: db}
}

// Summary totals income and expense, optionally bounded to [from, to].
func (s *FinanceService) Summary(from, to *time.Time) (FinanceSummary, error) {
	var summary FinanceSummary
	q := s.db.Model(&models.Transaction{})
	if from != nil {
		q = q.Where("date >= ?", *from)
	}
	if to != nil {
		q = q.Where("date <= ?", *to)
	}
	err := q.Select(
		"COALESCE(SUM(CASE WHEN type = 'income' THEN amount ELSE 0 END), 0) AS income, " +
			"COALESCE(SUM(CASE WHEN type = 'expense' THEN amount ELSE 0 END), 0) AS expense").
		Scan(&summary).Error
	if err != nil {
		return FinanceSummary{}, err
	}
	summary.Net = summary.Income - summary.Expense
	return summary, nil
}
