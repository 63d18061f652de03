package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/diewo77/shop-manager/internal/models"
)

func TestProductCreateAndList(t *testing.T) {
	db := setupTestDB(t)
	h := NewProductHandler(db, nil)

	body := `{"code":"kb-01","name":"Clavier","price":250,"stock":5,"min_stock":2}`
	req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Create(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	var created models.Product
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if created.Code != "KB-01" {
		t.Fatalf("expected uppercased code, got %q", created.Code)
	}

	// opening stock is recorded as a movement
	var movements int64
	db.Model(&models.StockMovement{}).Where("product_id = ?", created.ID).Count(&movements)
	if movements != 1 {
		t.Fatalf("expected 1 opening movement, got %d", movements)
	}

	req = httptest.NewRequest(http.MethodGet, "/products?q=clav", nil)
	w = httptest.NewRecorder()
	h.List(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	var page map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if int(page["total"].(float64)) != 1 {
		t.Fatalf("expected 1 result, got %v", page["total"])
	}
}

func TestProductCreateValidation(t *testing.T) {
	db := setupTestDB(t)
	h := NewProductHandler(db, nil)

	req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(`{"name":"X","price":0}`))
	w := httptest.NewRecorder()
	h.Create(w, req)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "price") {
		t.Fatalf("expected price violation in %s", w.Body.String())
	}
}

func TestProductDuplicateCode(t *testing.T) {
	db := setupTestDB(t)
	h := NewProductHandler(db, nil)

	for i, want := range []int{http.StatusCreated, http.StatusConflict} {
		req := httptest.NewRequest(http.MethodPost, "/products",
			strings.NewReader(`{"code":"DUP","name":"A","price":10}`))
		w := httptest.NewRecorder()
		h.Create(w, req)
		if w.Code != want {
			t.Fatalf("attempt %d: expected %d got %d body=%s", i+1, want, w.Code, w.Body.String())
		}
	}
}

func TestProductUpdateKeepsStock(t *testing.T) {
	db := setupTestDB(t)
	_, product := seedOrderFixtures(t, db)
	h := NewProductHandler(db, nil)

	req := httptest.NewRequest(http.MethodPut, "/products/1",
		strings.NewReader(`{"name":"Clavier AZERTY","price":300,"stock":0}`))
	req.SetPathValue("id", "1")
	w := httptest.NewRecorder()
	h.Update(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	var got models.Product
	if err := db.First(&got, product.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Stock != product.Stock {
		t.Fatalf("update must not touch stock: got %d want %d", got.Stock, product.Stock)
	}
	if got.Price != 300 {
		t.Fatalf("price not updated: %v", got.Price)
	}
}
