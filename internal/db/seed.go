package db

import (
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/diewo77/shop-manager/internal/models"
	"github.com/diewo77/shop-manager/pdf"
)

// Seed creates the default admin account and the settings record when they
// are missing. Idempotent; safe to run on every start.
func Seed(db *gorm.DB) error {
	var userCount int64
	if err := db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		return err
	}
	if userCount == 0 {
		password := os.Getenv("ADMIN_PASSWORD")
		if password == "" {
			password = "admin"
			log.Println("[seed] ADMIN_PASSWORD not set, using default (change it)")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		admin := models.User{
			Email:    getenv("ADMIN_EMAIL", "admin@shop.local"),
			Name:     "Administrateur",
			Password: string(hash),
			Role:     models.RoleAdmin,
		}
		if err := db.Create(&admin).Error; err != nil {
			return err
		}
		log.Printf("[seed] created admin user %s", admin.Email)
	}

	var settingsCount int64
	if err := db.Model(&models.ShopSettings{}).Count(&settingsCount).Error; err != nil {
		return err
	}
	if settingsCount == 0 {
		s := models.ShopSettings{Version: 1, Invoice: pdf.DefaultSettings(nil)}
		if err := db.Create(&s).Error; err != nil {
			return err
		}
		log.Println("[seed] created default shop settings")
	}
	return nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
