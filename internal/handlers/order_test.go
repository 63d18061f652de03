package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/diewo77/shop-manager/internal/models"
	"github.com/diewo77/shop-manager/internal/services"
	"github.com/diewo77/shop-manager/pdf"
)

func newOrderHandler(db *gorm.DB) *OrderHandler {
	return NewOrderHandler(db, services.NewOrderService(db, 0.18))
}

func createDraft(t *testing.T, h *OrderHandler, clientID uint) models.Order {
	t.Helper()
	body := fmt.Sprintf(`{"client_id":%d}`, clientID)
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Create(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create order: expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	var order models.Order
	if err := json.Unmarshal(w.Body.Bytes(), &order); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return order
}

func addItem(t *testing.T, h *OrderHandler, orderID, productID uint, qty int) {
	t.Helper()
	body := fmt.Sprintf(`{"product_id":%d,"quantity":%d}`, productID, qty)
	req := httptest.NewRequest(http.MethodPost, "/orders/1/items", strings.NewReader(body))
	req.SetPathValue("id", fmt.Sprint(orderID))
	w := httptest.NewRecorder()
	h.AddItem(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("add item: expected 201 got %d body=%s", w.Code, w.Body.String())
	}
}

func TestOrderFinalize(t *testing.T) {
	db := setupTestDB(t)
	client, product := seedOrderFixtures(t, db)
	h := newOrderHandler(db)

	order := createDraft(t, h, client.ID)
	addItem(t, h, order.ID, product.ID, 4)

	req := httptest.NewRequest(http.MethodPost, "/orders/1/finalize", nil)
	req.SetPathValue("id", fmt.Sprint(order.ID))
	w := httptest.NewRecorder()
	h.Finalize(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	var final models.Order
	if err := json.Unmarshal(w.Body.Bytes(), &final); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if final.Status != models.OrderStatusFinal {
		t.Fatalf("status = %s", final.Status)
	}
	if !strings.HasPrefix(final.Number, "ORD-") {
		t.Fatalf("number = %q", final.Number)
	}
	// 4 × 250 = 1000, 18% tax
	if final.Subtotal != 1000 || final.Tax != 180 || final.Total != 1180 {
		t.Fatalf("totals = %v / %v / %v", final.Subtotal, final.Tax, final.Total)
	}

	var got models.Product
	if err := db.First(&got, product.ID).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if got.Stock != 6 {
		t.Fatalf("stock after sale = %d, want 6", got.Stock)
	}
	var movement models.StockMovement
	if err := db.Where("order_id = ?", final.ID).First(&movement).Error; err != nil {
		t.Fatalf("movement: %v", err)
	}
	if movement.Delta != -4 {
		t.Fatalf("movement delta = %d", movement.Delta)
	}
}

func TestOrderFinalizeInsufficientStock(t *testing.T) {
	db := setupTestDB(t)
	client, product := seedOrderFixtures(t, db)
	h := newOrderHandler(db)

	order := createDraft(t, h, client.ID)
	addItem(t, h, order.ID, product.ID, 99)

	req := httptest.NewRequest(http.MethodPost, "/orders/1/finalize", nil)
	req.SetPathValue("id", fmt.Sprint(order.ID))
	w := httptest.NewRecorder()
	h.Finalize(w, req)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "insufficient_stock") {
		t.Fatalf("body = %s", w.Body.String())
	}
	// nothing decremented
	var got models.Product
	db.First(&got, product.ID)
	if got.Stock != 10 {
		t.Fatalf("stock = %d, want 10", got.Stock)
	}
}

func TestOrderFinalizeEmpty(t *testing.T) {
	db := setupTestDB(t)
	client, _ := seedOrderFixtures(t, db)
	h := newOrderHandler(db)

	order := createDraft(t, h, client.ID)
	req := httptest.NewRequest(http.MethodPost, "/orders/1/finalize", nil)
	req.SetPathValue("id", fmt.Sprint(order.ID))
	w := httptest.NewRecorder()
	h.Finalize(w, req)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d body=%s", w.Code, w.Body.String())
	}
}

func TestOrderEditAfterFinalizeRejected(t *testing.T) {
	db := setupTestDB(t)
	client, product := seedOrderFixtures(t, db)
	h := newOrderHandler(db)

	order := createDraft(t, h, client.ID)
	addItem(t, h, order.ID, product.ID, 1)

	req := httptest.NewRequest(http.MethodPost, "/orders/1/finalize", nil)
	req.SetPathValue("id", fmt.Sprint(order.ID))
	w := httptest.NewRecorder()
	h.Finalize(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("finalize: %d", w.Code)
	}

	body := fmt.Sprintf(`{"product_id":%d,"quantity":1}`, product.ID)
	req = httptest.NewRequest(http.MethodPost, "/orders/1/items", strings.NewReader(body))
	req.SetPathValue("id", fmt.Sprint(order.ID))
	w = httptest.NewRecorder()
	h.AddItem(w, req)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", w.Code)
	}
}

func TestOrderInvoicePDF(t *testing.T) {
	db := setupTestDB(t)
	client, product := seedOrderFixtures(t, db)
	h := newOrderHandler(db)

	order := createDraft(t, h, client.ID)
	addItem(t, h, order.ID, product.ID, 2)

	req := httptest.NewRequest(http.MethodGet, "/orders/1/invoice", nil)
	req.SetPathValue("id", fmt.Sprint(order.ID))
	w := httptest.NewRecorder()
	h.Invoice(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("content type = %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.HasPrefix(cd, "inline") {
		t.Fatalf("disposition = %q", cd)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")) {
		t.Fatalf("not a PDF: %q", w.Body.Bytes()[:8])
	}
}

func TestOrderInvoiceAttachment(t *testing.T) {
	db := setupTestDB(t)
	client, product := seedOrderFixtures(t, db)
	h := newOrderHandler(db)

	order := createDraft(t, h, client.ID)
	addItem(t, h, order.ID, product.ID, 1)

	req := httptest.NewRequest(http.MethodGet, "/orders/1/invoice?disposition=attachment", nil)
	req.SetPathValue("id", fmt.Sprint(order.ID))
	w := httptest.NewRecorder()
	h.Invoice(w, req)
	if cd := w.Header().Get("Content-Disposition"); !strings.HasPrefix(cd, "attachment") {
		t.Fatalf("disposition = %q", cd)
	}
}

func TestOrderInvoicePrintPage(t *testing.T) {
	db := setupTestDB(t)
	client, product := seedOrderFixtures(t, db)
	h := newOrderHandler(db)

	order := createDraft(t, h, client.ID)
	addItem(t, h, order.ID, product.ID, 1)

	req := httptest.NewRequest(http.MethodGet, "/orders/1/invoice/print", nil)
	req.SetPathValue("id", fmt.Sprint(order.ID))
	w := httptest.NewRecorder()
	h.InvoicePrint(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "data:application/pdf;base64,") {
		t.Fatalf("missing data URI in %s", body[:120])
	}
	if !strings.Contains(body, "print()") {
		t.Fatalf("missing print trigger")
	}
}

func TestOrderDeleteDraftOnly(t *testing.T) {
	db := setupTestDB(t)
	client, product := seedOrderFixtures(t, db)
	h := newOrderHandler(db)

	order := createDraft(t, h, client.ID)
	addItem(t, h, order.ID, product.ID, 1)

	req := httptest.NewRequest(http.MethodPost, "/orders/1/finalize", nil)
	req.SetPathValue("id", fmt.Sprint(order.ID))
	w := httptest.NewRecorder()
	h.Finalize(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("finalize: %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/orders/1", nil)
	req.SetPathValue("id", fmt.Sprint(order.ID))
	w = httptest.NewRecorder()
	h.Delete(w, req)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", w.Code)
	}
}

func TestOrderFinalizeUsesCurrentSettingsRate(t *testing.T) {
	db := setupTestDB(t)
	client, product := seedOrderFixtures(t, db)
	h := newOrderHandler(db)

	settings := models.ShopSettings{Version: 1, Invoice: pdf.InvoiceSettings{TaxRate: 0.2}}
	if err := db.Create(&settings).Error; err != nil {
		t.Fatalf("settings: %v", err)
	}

	order := createDraft(t, h, client.ID)
	addItem(t, h, order.ID, product.ID, 4)

	req := httptest.NewRequest(http.MethodPost, "/orders/1/finalize", nil)
	req.SetPathValue("id", fmt.Sprint(order.ID))
	w := httptest.NewRecorder()
	h.Finalize(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("finalize: %d body=%s", w.Code, w.Body.String())
	}

	var finalized models.Order
	if err := db.First(&finalized, order.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if math.Abs(finalized.Tax-200) > 0.001 || math.Abs(finalized.Total-1200) > 0.001 {
		t.Fatalf("tax=%v total=%v, want settings rate applied", finalized.Tax, finalized.Total)
	}

	// A later settings change must not alter what the invoice prints
	// for an already finalized order.
	settings.Invoice.TaxRate = 0.1
	if err := db.Save(&settings).Error; err != nil {
		t.Fatalf("update settings: %v", err)
	}
	data := h.invoiceData(&finalized)
	if math.Abs(data.TaxRate-0.2) > 0.001 {
		t.Fatalf("invoice rate = %v, want the 0.2 snapshot", data.TaxRate)
	}
}
