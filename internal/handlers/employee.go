package handlers

import (
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/diewo77/shop-manager/httpx"
	"github.com/diewo77/shop-manager/internal/models"
	"github.com/diewo77/shop-manager/internal/policy"
	"github.com/diewo77/shop-manager/validation"
)

type EmployeeHandler struct {
	db *gorm.DB
}

func NewEmployeeHandler(db *gorm.DB) *EmployeeHandler {
	return &EmployeeHandler{db: db}
}

type employeeReq struct {
	Name     string  `json:"name"`
	Phone    string  `json:"phone"`
	Email    string  `json:"email"`
	Position string  `json:"position"`
	Salary   float64 `json:"salary"`
	HiredAt  string  `json:"hired_at"`
	UserID   *uint   `json:"user_id"`
	Role     string  `json:"role"`
}

func (req *employeeReq) validate() (*time.Time, validation.Violations) {
	v := make(validation.Violations)
	validation.Required("name", req.Name, v)
	validation.Email("email", req.Email, v)
	validation.NonNegativeFloat("salary", req.Salary, v)
	if req.Role != "" {
		validation.OneOf("role", req.Role, policy.Roles(), v)
	}
	var hiredAt *time.Time
	if req.HiredAt != "" {
		parsed, err := time.Parse("2006-01-02", req.HiredAt)
		if err != nil {
			v["hired_at"] = "invalid_date"
		} else {
			hiredAt = &parsed
		}
	}
	return hiredAt, v
}

func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	p := parseListParams(r)
	q := h.db.Model(&models.Employee{})
	if p.Query != "" {
		like := likePattern(p.Query)
		q = q.Where("lower(name) LIKE ? OR lower(position) LIKE ?", like, like)
	}
	var total int64
	q.Count(&total)
	var employees []models.Employee
	if err := q.Order("name").Limit(p.Limit).Offset(p.Offset).Find(&employees).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_employees", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": employees, "total": total, "limit": p.Limit, "offset": p.Offset})
}

func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req employeeReq
	if err := httpx.Decode(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	hiredAt, v := req.validate()
	if !v.Empty() {
		failValidation(w, r, v)
		return
	}
	employee := models.Employee{
		Name:     req.Name,
		Phone:    req.Phone,
		Email:    req.Email,
		Position: req.Position,
		Salary:   req.Salary,
		HiredAt:  hiredAt,
		UserID:   req.UserID,
	}
	if err := h.db.Create(&employee).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_employee", nil)
		return
	}
	if req.UserID != nil && req.Role != "" {
		if err := h.db.Model(&models.User{}).Where("id = ?", *req.UserID).Update("role", req.Role).Error; err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "failed_to_assign_role", nil)
			return
		}
	}
	httpx.JSON(w, http.StatusCreated, employee)
}

func (h *EmployeeHandler) View(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var employee models.Employee
	if err := h.db.First(&employee, id).Error; err != nil {
		notFound(w, r)
		return
	}
	httpx.JSON(w, http.StatusOK, employee)
}

func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var employee models.Employee
	if err := h.db.First(&employee, id).Error; err != nil {
		notFound(w, r)
		return
	}
	var req employeeReq
	if err := httpx.Decode(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	hiredAt, v := req.validate()
	if !v.Empty() {
		failValidation(w, r, v)
		return
	}
	employee.Name = req.Name
	employee.Phone = req.Phone
	employee.Email = req.Email
	employee.Position = req.Position
	employee.Salary = req.Salary
	if hiredAt != nil {
		employee.HiredAt = hiredAt
	}
	employee.UserID = req.UserID
	if err := h.db.Save(&employee).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_employee", nil)
		return
	}
	if req.UserID != nil && req.Role != "" {
		if err := h.db.Model(&models.User{}).Where("id = ?", *req.UserID).Update("role", req.Role).Error; err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "failed_to_assign_role", nil)
			return
		}
	}
	httpx.JSON(w, http.StatusOK, employee)
}

func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	if err := h.db.Delete(&models.Employee{}, id).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_employee", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
