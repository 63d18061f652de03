package handlers

import (
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/diewo77/shop-manager/httpx"
	"github.com/diewo77/shop-manager/internal/models"
	"github.com/diewo77/shop-manager/internal/storage"
	"github.com/diewo77/shop-manager/validation"
)

type ProductHandler struct {
	db    *gorm.DB
	store storage.Store
}

func NewProductHandler(db *gorm.DB, store storage.Store) *ProductHandler {
	return &ProductHandler{db: db, store: store}
}

type productReq struct {
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Cost        float64 `json:"cost"`
	Stock       int     `json:"stock"`
	MinStock    int     `json:"min_stock"`
	CategoryID  *uint   `json:"category_id"`
	IsActive    *bool   `json:"is_active"`
}

func (req *productReq) validate() validation.Violations {
	v := make(validation.Violations)
	validation.Required("code", req.Code, v)
	validation.Required("name", req.Name, v)
	validation.PositiveFloat("price", req.Price, v)
	validation.NonNegativeFloat("cost", req.Cost, v)
	validation.MinInt("stock", req.Stock, 0, v)
	validation.MinInt("min_stock", req.MinStock, 0, v)
	return v
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	p := parseListParams(r)
	q := h.db.Model(&models.Product{})
	if p.Query != "" {
		like := likePattern(p.Query)
		q = q.Where("lower(name) LIKE ? OR lower(code) LIKE ?", like, like)
	}
	if cat := r.URL.Query().Get("category_id"); cat != "" {
		q = q.Where("category_id = ?", cat)
	}
	var total int64
	q.Count(&total)
	var products []models.Product
	if err := q.Preload("Category").Order("name").Limit(p.Limit).Offset(p.Offset).Find(&products).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_products", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": products, "total": total, "limit": p.Limit, "offset": p.Offset})
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req productReq
	if err := httpx.Decode(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := req.validate(); !v.Empty() {
		failValidation(w, r, v)
		return
	}
	product := models.Product{
		Code:        strings.ToUpper(req.Code),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Cost:        req.Cost,
		Stock:       req.Stock,
		MinStock:    req.MinStock,
		CategoryID:  req.CategoryID,
		IsActive:    true,
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if err := h.db.Create(&product).Error; err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			httpx.JSONError(w, http.StatusConflict, "code_already_exists", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_product", nil)
		return
	}
	if product.Stock > 0 {
		// opening stock is a movement like any other
		_ = h.db.Create(&models.StockMovement{ProductID: product.ID, Delta: product.Stock, Reason: "stock initial"}).Error
	}
	httpx.JSON(w, http.StatusCreated, product)
}

func (h *ProductHandler) View(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var product models.Product
	if err := h.db.Preload("Category").First(&product, id).Error; err != nil {
		notFound(w, r)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var product models.Product
	if err := h.db.First(&product, id).Error; err != nil {
		notFound(w, r)
		return
	}
	var req productReq
	if err := httpx.Decode(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if req.Code == "" {
		req.Code = product.Code
	}
	if v := req.validate(); !v.Empty() {
		failValidation(w, r, v)
		return
	}
	product.Name = req.Name
	product.Description = req.Description
	product.Price = req.Price
	product.Cost = req.Cost
	product.MinStock = req.MinStock
	product.CategoryID = req.CategoryID
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	// Stock is adjusted through the inventory endpoints, not edited here.
	if err := h.db.Save(&product).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_product", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	if err := h.db.Delete(&models.Product{}, id).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_product", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// UploadImage: POST /products/{id}/image. Multipart "image" field, stored
// in object storage; the resulting URL lands on the product.
func (h *ProductHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var product models.Product
	if err := h.db.First(&product, id).Error; err != nil {
		notFound(w, r)
		return
	}
	if err := r.ParseMultipartForm(5 << 20); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_multipart", nil)
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "missing_image", nil)
		return
	}
	defer file.Close()

	url, err := h.store.Put(r.Context(), header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "upload_failed", nil)
		return
	}
	if err := h.db.Model(&product).Update("image_url", url).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_product", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"image_url": url})
}
