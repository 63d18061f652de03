package handlers

import (
	"errors"
	"fmt"
	"html/template"
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

type OrderHandler struct {
	db     *gorm.DB
	orders *services.OrderService
}

func NewOrderHandler(db *gorm.DB, orders *services.OrderService) *OrderHandler {
	return &OrderHandler{db: db, orders: orders}
}

type orderCreateReq struct {
	ClientID uint   `json:"client_id"`
	Notes    string `json:"notes"`
}

type orderItemReq struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	p := parseListParams(r)
	q := h.db.Model(&models.Order{})
	if status := r.URL.Query().Get("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if client := r.URL.Query().Get("client_id"); client != "" {
		q = q.Where("client_id = ?", client)
	}
	if p.Query != "" {
		q = q.Where("lower(number) LIKE ?", likePattern(p.Query))
	}
	var total int64
	q.Count(&total)
	var orders []models.Order
	if err := q.Preload("Client").Order("created_at DESC").Limit(p.Limit).Offset(p.Offset).Find(&orders).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_orders", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": orders, "total": total, "limit": p.Limit, "offset": p.Offset})
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req orderCreateReq
	if err := httpx.Decode(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := make(validation.Violations)
	if req.ClientID == 0 {
		v["client_id"] = "required"
	}
	if !v.Empty() {
		failValidation(w, r, v)
		return
	}
	var client models.Client
	if err := h.db.First(&client, req.ClientID).Error; err != nil {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "unknown_client", nil)
		return
	}
	order := models.Order{
		ClientID: req.ClientID,
		Status:   models.OrderStatusDraft,
		Notes:    req.Notes,
	}
	if err := h.db.Create(&order).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_order", nil)
		return
	}
	order.Client = &client
	httpx.JSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) load(r *http.Request) (*models.Order, bool) {
	id, ok := pathID(r, "id")
	if !ok {
		return nil, false
	}
	var order models.Order
	err := h.db.Preload("Client").Preload("Items").Preload("Items.Product").First(&order, id).Error
	if err != nil {
		return nil, false
	}
	return &order, true
}

func (h *OrderHandler) View(w http.ResponseWriter, r *http.Request) {
	order, ok := h.load(r)
	if !ok {
		notFound(w, r)
		return
	}
	// drafts report live totals so the client never sees stale zeros
	if order.IsDraft() {
		order.Subtotal, order.Tax, order.Total = h.orders.ComputeTotals(order)
	}
	httpx.JSON(w, http.StatusOK, order)
}

// AddItem appends a line to a draft, copying description and unit price
// from the product so later catalog edits do not rewrite the order.
func (h *OrderHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	order, ok := h.load(r)
	if !ok {
		notFound(w, r)
		return
	}
	if !order.CanEdit() {
		httpx.JSONError(w, http.StatusConflict, "order_not_editable",
			map[string]string{"message": i18n.T(lang(r), "order_not_editable")})
		return
	}
	var req orderItemReq
	if err := httpx.Decode(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := make(validation.Violations)
	if req.ProductID == 0 {
		v["product_id"] = "required"
	}
	validation.MinInt("quantity", req.Quantity, 1, v)
	if !v.Empty() {
		failValidation(w, r, v)
		return
	}
	var product models.Product
	if err := h.db.First(&product, req.ProductID).Error; err != nil {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "unknown_product", nil)
		return
	}
	item := models.OrderItem{
		OrderID:     order.ID,
		ProductID:   product.ID,
		Description: product.Name,
		UnitPrice:   product.Price,
		Quantity:    req.Quantity,
	}
	if err := h.db.Create(&item).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_add_item", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, item)
}

func (h *OrderHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	order, ok := h.load(r)
	if !ok {
		notFound(w, r)
		return
	}
	if !order.CanEdit() {
		httpx.JSONError(w, http.StatusConflict, "order_not_editable",
			map[string]string{"message": i18n.T(lang(r), "order_not_editable")})
		return
	}
	itemID, ok := pathID(r, "itemID")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	res := h.db.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}, itemID)
	if res.Error != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_remove_item", nil)
		return
	}
	if res.RowsAffected == 0 {
		notFound(w, r)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *OrderHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	order, ok := h.load(r)
	if !ok {
		notFound(w, r)
		return
	}
	if err := h.orders.Finalize(order); err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotEditable):
			httpx.JSONError(w, http.StatusConflict, "order_not_editable",
				map[string]string{"message": i18n.T(lang(r), "order_not_editable")})
		case errors.Is(err, services.ErrEmptyOrder):
			httpx.JSONError(w, http.StatusUnprocessableEntity, "empty_order",
				map[string]string{"message": i18n.T(lang(r), "empty_order")})
		case errors.Is(err, services.ErrInsufficientStock):
			httpx.JSONError(w, http.StatusConflict, "insufficient_stock",
				map[string]string{"message": i18n.T(lang(r), "insufficient_stock"), "detail": err.Error()})
		default:
			httpx.JSONError(w, http.StatusInternalServerError, "failed_to_finalize_order", nil)
		}
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *OrderHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	order, ok := h.load(r)
	if !ok {
		notFound(w, r)
		return
	}
	if order.Status != models.OrderStatusFinal {
		httpx.JSONError(w, http.StatusConflict, "order_not_final", nil)
		return
	}
	now := time.Now()
	if err := h.db.Model(order).Updates(map[string]any{
		"status":    models.OrderStatusPaid,
		"paid_date": now,
	}).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_order", nil)
		return
	}
	order.Status = models.OrderStatusPaid
	order.PaidDate = &now
	httpx.JSON(w, http.StatusOK, order)
}

// Delete cancels a draft. Finalized orders are kept for the books.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	order, ok := h.load(r)
	if !ok {
		notFound(w, r)
		return
	}
	if !order.IsDraft() {
		httpx.JSONError(w, http.StatusConflict, "order_not_editable",
			map[string]string{"message": i18n.T(lang(r), "order_not_editable")})
		return
	}
	if err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(order).Error
	}); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_order", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *OrderHandler) invoiceData(order *models.Order) pdf.ClientInvoiceData {
	data := pdf.ClientInvoiceData{Number: order.Number}
	// finalized orders render at the rate their totals were snapshotted with
	if !order.IsDraft() && order.Subtotal > 0 {
		data.TaxRate = order.Tax / order.Subtotal
	}
	if order.Client != nil {
		data.Name = order.Client.Name
		data.Phone = order.Client.Phone
		data.Address = order.Client.Address
		data.Email = order.Client.Email
	}
	for _, item := range order.Items {
		data.Purchases = append(data.Purchases, pdf.Purchase{
			Description: item.Description,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
		})
	}
	return data
}

func (h *OrderHandler) generator() *pdf.Generator {
	var settings models.ShopSettings
	if err := h.db.First(&settings).Error; err != nil {
		return pdf.New(pdf.DefaultSettings(nil))
	}
	return pdf.New(settings.Invoice)
}

// Invoice renders the order as a PDF. ?disposition=attachment forces a
// download, anything else displays inline.
func (h *OrderHandler) Invoice(w http.ResponseWriter, r *http.Request) {
	order, ok := h.load(r)
	if !ok {
		notFound(w, r)
		return
	}
	doc, err := h.generator().ClientInvoice(h.invoiceData(order))
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "pdf_generation_failed",
			map[string]string{"message": i18n.T(lang(r), "pdf_generation_failed")})
		return
	}
	name := order.Number
	if name == "" {
		name = fmt.Sprintf("brouillon-%d", order.ID)
	}
	disposition := "inline"
	if r.URL.Query().Get("disposition") == "attachment" {
		disposition = "attachment"
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, "facture-"+name+".pdf"))
	_, _ = doc.WriteTo(w)
}

var printPage = template.Must(template.New("print").Parse(`<!DOCTYPE html>
<html lang="fr">
<head><meta charset="utf-8"><title>Facture {{.Number}}</title>
<style>html,body,iframe{margin:0;width:100%;height:100%;border:0}</style>
</head>
<body>
<iframe src="{{.DataURI}}" onload="this.contentWindow.print()"></iframe>
</body>
</html>`))

// InvoicePrint serves an HTML shell embedding the invoice as a data URI in
// an iframe that triggers printing on load.
func (h *OrderHandler) InvoicePrint(w http.ResponseWriter, r *http.Request) {
	order, ok := h.load(r)
	if !ok {
		notFound(w, r)
		return
	}
	doc, err := h.generator().ClientInvoice(h.invoiceData(order))
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "pdf_generation_failed",
			map[string]string{"message": i18n.T(lang(r), "pdf_generation_failed")})
		return
	}
	uri, err := doc.DataURI()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "pdf_generation_failed",
			map[string]string{"message": i18n.T(lang(r), "pdf_generation_failed")})
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = printPage.Execute(w, map[string]any{
		"Number":  order.Number,
		"DataURI": template.URL(uri),
	})
}
