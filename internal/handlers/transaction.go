package handlers

import (
	"fmt"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/diewo77/shop-manager/httpx"
	"github.com/diewo77/shop-manager/i18n"
	"github.com/diewo77/shop-manager/internal/models"
	"github.com/diewo77/shop-manager/internal/services"
	"github.com/diewo77/shop-manager/pdf"
	"github.com/diewo77/shop-manager/validation"
)

type TransactionHandler struct {
	db      *gorm.DB
	finance *services.FinanceService
}

func NewTransactionHandler(db *gorm.DB, finance *services.FinanceService) *TransactionHandler {
	return &TransactionHandler{db: db, finance: finance}
}

type transactionReq struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"`
	Date        string  `json:"date"`
	Category    string  `json:"category"`
}

func (req *transactionReq) validate() (time.Time, validation.Violations) {
	v := make(validation.Violations)
	validation.Required("description", req.Description, v)
	validation.PositiveFloat("amount", req.Amount, v)
	validation.OneOf("type", req.Type, []string{
		string(models.TransactionIncome),
		string(models.TransactionExpense),
	}, v)
	date := time.Now()
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			v["date"] = "invalid_date"
		} else {
			date = parsed
		}
	}
	return date, v
}

func parseDateParam(r *http.Request, name string) *time.Time {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil
	}
	return &t
}

func (h *TransactionHandler) filtered(r *http.Request) *gorm.DB {
	q := h.db.Model(&models.Transaction{})
	if typ := r.URL.Query().Get("type"); typ != "" {
		q = q.Where("type = ?", typ)
	}
	if category := r.URL.Query().Get("category"); category != "" {
		q = q.Where("category = ?", category)
	}
	if from := parseDateParam(r, "from"); from != nil {
		q = q.Where("date >= ?", *from)
	}
	if to := parseDateParam(r, "to"); to != nil {
		q = q.Where("date <= ?", *to)
	}
	return q
}

func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	p := parseListParams(r)
	q := h.filtered(r)
	if p.Query != "" {
		q = q.Where("lower(description) LIKE ?", likePattern(p.Query))
	}
	var total int64
	q.Count(&total)
	var transactions []models.Transaction
	if err := q.Order("date DESC, id DESC").Limit(p.Limit).Offset(p.Offset).Find(&transactions).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_transactions", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": transactions, "total": total, "limit": p.Limit, "offset": p.Offset})
}

func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req transactionReq
	if err := httpx.Decode(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	date, v := req.validate()
	if !v.Empty() {
		failValidation(w, r, v)
		return
	}
	transaction := models.Transaction{
		Description: req.Description,
		Amount:      req.Amount,
		Type:        models.TransactionType(req.Type),
		Date:        date,
		Category:    req.Category,
	}
	if err := h.db.Create(&transaction).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_transaction", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, transaction)
}

func (h *TransactionHandler) View(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var transaction models.Transaction
	if err := h.db.First(&transaction, id).Error; err != nil {
		notFound(w, r)
		return
	}
	httpx.JSON(w, http.StatusOK, transaction)
}

func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var transaction models.Transaction
	if err := h.db.First(&transaction, id).Error; err != nil {
		notFound(w, r)
		return
	}
	var req transactionReq
	if err := httpx.Decode(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	date, v := req.validate()
	if !v.Empty() {
		failValidation(w, r, v)
		return
	}
	transaction.Description = req.Description
	transaction.Amount = req.Amount
	transaction.Type = models.TransactionType(req.Type)
	transaction.Date = date
	transaction.Category = req.Category
	if err := h.db.Save(&transaction).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_transaction", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, transaction)
}

func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	if err := h.db.Delete(&models.Transaction{}, id).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_transaction", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Summary returns income, expense and net, optionally bounded by
// ?from=YYYY-MM-DD&to=YYYY-MM-DD.
func (h *TransactionHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.finance.Summary(parseDateParam(r, "from"), parseDateParam(r, "to"))
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_summarize", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

// Report renders the filtered transactions as a PDF, same filters as List.
func (h *TransactionHandler) Report(w http.ResponseWriter, r *http.Request) {
	var transactions []models.Transaction
	if err := h.filtered(r).Order("date DESC, id DESC").Find(&transactions).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_transactions", nil)
		return
	}
	rows := make([]pdf.TransactionRow, 0, len(transactions))
	for _, t := range transactions {
		rows = append(rows, pdf.TransactionRow{
			Description: t.Description,
			Amount:      t.Amount,
			Type:        string(t.Type),
			Date:        t.Date,
			Category:    t.Category,
		})
	}

	var settings models.ShopSettings
	generator := pdf.New(pdf.DefaultSettings(nil))
	if err := h.db.First(&settings).Error; err == nil {
		generator = pdf.New(settings.Invoice)
	}
	doc, err := generator.TransactionReport(rows, "")
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "pdf_generation_failed",
			map[string]string{"message": i18n.T(lang(r), "pdf_generation_failed")})
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q",
		"transactions-"+time.Now().Format("2006-01-02")+".pdf"))
	_, _ = doc.WriteTo(w)
}
