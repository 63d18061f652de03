package handlers

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/diewo77/shop-manager/httpx"
	"github.com/diewo77/shop-manager/internal/models"
	"github.com/diewo77/shop-manager/validation"
)

type ClientHandler struct {
	db *gorm.DB
}

func NewClientHandler(db *gorm.DB) *ClientHandler {
	return &ClientHandler{db: db}
}

type clientReq struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

func (req *clientReq) validate() validation.Violations {
	v := make(validation.Violations)
	validation.Required("name", req.Name, v)
	validation.Email("email", req.Email, v)
	return v
}

func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	p := parseListParams(r)
	q := h.db.Model(&models.Client{})
	if p.Query != "" {
		like := likePattern(p.Query)
		q = q.Where("lower(name) LIKE ? OR lower(phone) LIKE ? OR lower(email) LIKE ?", like, like, like)
	}
	var total int64
	q.Count(&total)
	var clients []models.Client
	if err := q.Order("name").Limit(p.Limit).Offset(p.Offset).Find(&clients).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_clients", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": clients, "total": total, "limit": p.Limit, "offset": p.Offset})
}

func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req clientReq
	if err := httpx.Decode(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := req.validate(); !v.Empty() {
		failValidation(w, r, v)
		return
	}
	client := models.Client{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
		Notes:   req.Notes,
	}
	if err := h.db.Create(&client).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_client", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, client)
}

func (h *ClientHandler) View(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var client models.Client
	if err := h.db.First(&client, id).Error; err != nil {
		notFound(w, r)
		return
	}
	httpx.JSON(w, http.StatusOK, client)
}

func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var client models.Client
	if err := h.db.First(&client, id).Error; err != nil {
		notFound(w, r)
		return
	}
	var req clientReq
	if err := httpx.Decode(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := req.validate(); !v.Empty() {
		failValidation(w, r, v)
		return
	}
	client.Name = req.Name
	client.Phone = req.Phone
	client.Email = req.Email
	client.Address = req.Address
	client.Notes = req.Notes
	if err := h.db.Save(&client).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_client", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, client)
}

func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var count int64
	h.db.Model(&models.Order{}).Where("client_id = ?", id).Count(&count)
	if count > 0 {
		httpx.JSONError(w, http.StatusConflict, "client_has_orders", nil)
		return
	}
	if err := h.db.Delete(&models.Client{}, id).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_client", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
