package handlers

import (
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/diewo77/shop-manager/httpx"
	"github.com/diewo77/shop-manager/internal/models"
	"github.com/diewo77/shop-manager/validation"
)

type CategoryHandler struct {
	db *gorm.DB
}

func NewCategoryHandler(db *gorm.DB) *CategoryHandler {
	return &CategoryHandler{db: db}
}

type categoryReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	p := parseListParams(r)
	q := h.db.Model(&models.Category{})
	if p.Query != "" {
		q = q.Where("lower(name) LIKE ?", likePattern(p.Query))
	}
	var total int64
	q.Count(&total)
	var categories []models.Category
	if err := q.Order("name").Limit(p.Limit).Offset(p.Offset).Find(&categories).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_categories", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": categories, "total": total, "limit": p.Limit, "offset": p.Offset})
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryReq
	if err := httpx.Decode(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := make(validation.Violations)
	validation.Required("name", req.Name, v)
	if !v.Empty() {
		failValidation(w, r, v)
		return
	}
	category := models.Category{Name: req.Name, Description: req.Description}
	if err := h.db.Create(&category).Error; err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			httpx.JSONError(w, http.StatusConflict, "name_already_exists", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_category", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, category)
}

func (h *CategoryHandler) View(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var category models.Category
	if err := h.db.First(&category, id).Error; err != nil {
		notFound(w, r)
		return
	}
	httpx.JSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var category models.Category
	if err := h.db.First(&category, id).Error; err != nil {
		notFound(w, r)
		return
	}
	var req categoryReq
	if err := httpx.Decode(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := make(validation.Violations)
	validation.Required("name", req.Name, v)
	if !v.Empty() {
		failValidation(w, r, v)
		return
	}
	category.Name = req.Name
	category.Description = req.Description
	if err := h.db.Save(&category).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_category", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, category)
}

// Delete soft-deletes the category; its products become uncategorized.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Product{}).Where("category_id = ?", id).Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Category{}, id).Error
	})
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_category", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
