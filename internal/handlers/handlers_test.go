package handlers

import (
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/diewo77/shop-manager/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{}, &models.Category{}, &models.Product{}, &models.Client{},
		&models.Employee{}, &models.Order{}, &models.OrderItem{},
		&models.StockMovement{}, &models.Transaction{}, &models.ShopSettings{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// seed a client and a stocked product for order scenarios
func seedOrderFixtures(t *testing.T, db *gorm.DB) (models.Client, models.Product) {
	t.Helper()
	client := models.Client{Name: "Client Test", Phone: "0600000000", Address: "Rabat"}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("client: %v", err)
	}
	product := models.Product{Code: "SKU1", Name: "Clavier", Price: 250, Stock: 10, IsActive: true}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("product: %v", err)
	}
	return client, product
}
