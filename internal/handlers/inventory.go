package handlers

import (
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/diewo77/shop-manager/httpx"
	"github.com/diewo77/shop-manager/i18n"
	"github.com/diewo77/shop-manager/internal/models"
	"github.com/diewo77/shop-manager/internal/services"
)

type InventoryHandler struct {
	db    *gorm.DB
	stock *services.StockService
}

func NewInventoryHandler(db *gorm.DB, stock *services.StockService) *InventoryHandler {
	return &InventoryHandler{db: db, stock: stock}
}

// Movements lists stock movements, newest first, optionally filtered by
// product.
func (h *InventoryHandler) Movements(w http.ResponseWriter, r *http.Request) {
	p := parseListParams(r)
	q := h.db.Model(&models.StockMovement{})
	if product := r.URL.Query().Get("product_id"); product != "" {
		q = q.Where("product_id = ?", product)
	}
	var total int64
	q.Count(&total)
	var movements []models.StockMovement
	if err := q.Preload("Product").Order("created_at DESC").Limit(p.Limit).Offset(p.Offset).Find(&movements).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_movements", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": movements, "total": total, "limit": p.Limit, "offset": p.Offset})
}

type adjustReq struct {
	ProductID uint   `json:"product_id"`
	Delta     int    `json:"delta"`
	Reason    string `json:"reason"`
}

// Adjust applies a manual stock correction: reception, loss, inventory
// recount. Sales go through order finalization, not here.
func (h *InventoryHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	var req adjustReq
	if err := httpx.Decode(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if req.ProductID == 0 {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_failed",
			map[string]any{"fields": map[string]string{"product_id": "required"}})
		return
	}
	product, err := h.stock.Adjust(req.ProductID, req.Delta, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrZeroDelta):
			httpx.JSONError(w, http.StatusUnprocessableEntity, "zero_delta", nil)
		case errors.Is(err, services.ErrInsufficientStock):
			httpx.JSONError(w, http.StatusConflict, "insufficient_stock",
				map[string]string{"message": i18n.T(lang(r), "insufficient_stock")})
		case errors.Is(err, gorm.ErrRecordNotFound):
			notFound(w, r)
		default:
			httpx.JSONError(w, http.StatusInternalServerError, "failed_to_adjust_stock", nil)
		}
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

// LowStock lists active products at or under their minimum stock level.
func (h *InventoryHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	products, err := h.stock.LowStock()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_products", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": products, "total": len(products)})
}
