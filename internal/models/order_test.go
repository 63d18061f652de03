package models

import (
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&Client{}, &Order{}, &OrderItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestGenerateOrderNumber(t *testing.T) {
	db := setupTestDB(t)

	client := Client{Name: "Client Test"}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("client: %v", err)
	}

	number, err := GenerateOrderNumber(db, 2026)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if number != "ORD-2026-0001" {
		t.Fatalf("first number = %q", number)
	}

	// Numbering continues from the highest issued number, not the row
	// count, so deleting a draft cannot make a finalized number reappear.
	for _, n := range []string{"ORD-2026-0001", "ORD-2026-0002", "ORD-2026-0007"} {
		order := Order{Number: n, ClientID: client.ID, Status: OrderStatusFinal}
		if err := db.Create(&order).Error; err != nil {
			t.Fatalf("seed %s: %v", n, err)
		}
	}
	draft := Order{Number: "ORD-2026-0003", ClientID: client.ID, Status: OrderStatusDraft}
	if err := db.Create(&draft).Error; err != nil {
		t.Fatalf("seed draft: %v", err)
	}
	if err := db.Delete(&draft).Error; err != nil {
		t.Fatalf("delete draft: %v", err)
	}

	number, err = GenerateOrderNumber(db, 2026)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if number != "ORD-2026-0008" {
		t.Fatalf("next number = %q, want ORD-2026-0008", number)
	}

	// Each year restarts its own sequence.
	number, err = GenerateOrderNumber(db, 2027)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if number != "ORD-2027-0001" {
		t.Fatalf("new year number = %q, want ORD-2027-0001", number)
	}
}
