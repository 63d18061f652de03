package handlers

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/diewo77/shop-manager/httpx"
	"github.com/diewo77/shop-manager/internal/models"
	"github.com/diewo77/shop-manager/internal/services"
)

type DashboardHandler struct {
	db      *gorm.DB
	orders  *services.OrderService
	stock   *services.StockService
	finance *services.FinanceService
}

func NewDashboardHandler(db *gorm.DB, orders *services.OrderService, stock *services.StockService, finance *services.FinanceService) *DashboardHandler {
	return &DashboardHandler{db: db, orders: orders, stock: stock, finance: finance}
}

// Overview is the landing screen payload: entity counts, revenue, finance
// summary, low stock alerts and the latest orders.
func (h *DashboardHandler) Overview(w http.ResponseWriter, r *http.Request) {
	var products, clients, orders int64
	h.db.Model(&models.Product{}).Where("is_active = ?", true).Count(&products)
	h.db.Model(&models.Client{}).Count(&clients)
	h.db.Model(&models.Order{}).Count(&orders)

	revenue, err := h.orders.Revenue()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_dashboard", nil)
		return
	}
	summary, err := h.finance.Summary(nil, nil)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_dashboard", nil)
		return
	}
	lowStock, err := h.stock.LowStock()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_dashboard", nil)
		return
	}
	var recent []models.Order
	h.db.Preload("Client").Order("created_at DESC").Limit(5).Find(&recent)

	httpx.JSON(w, http.StatusOK, map[string]any{
		"products":        products,
		"clients":         clients,
		"orders":          orders,
		"revenue":         revenue,
		"finances":        summary,
		"low_stock_count": len(lowStock),
		"low_stock":       lowStock,
		"recent_orders":   recent,
	})
}
