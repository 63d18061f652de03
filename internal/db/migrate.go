package db

import (
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"
	"time"

	migrate "github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/diewo77/shop-manager/internal/models"
)

// Connect opens the database with a small retry loop so the server can come
// up before Postgres finishes booting.
func Connect(rawDSN string) (*gorm.DB, error) {
	dsn := NormalizeDSN(rawDSN)
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_DSN is empty")
	}
	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "1" {
		logLevel = logger.Info
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	var db *gorm.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = gorm.Open(postgres.Open(dsn), cfg)
		if err == nil {
			break
		}
		log.Printf("db connect attempt %d failed: %v", i+1, err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if pingErr := db.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping: %w", pingErr)
	}
	log.Printf("[db] using DSN: %s", maskDSN(dsn))
	return db, nil
}

func maskDSN(dsn string) string {
	if strings.Contains(dsn, "password=") {
		return regexp.MustCompile(`(password=)(\S+)`).ReplaceAllString(dsn, `${1}***`)
	}
	return regexp.MustCompile(`(://[^:/@]+:)[^@]+@`).ReplaceAllString(dsn, `${1}***@`)
}

// Migrate applies the schema. With MIGRATIONS enabled we run the SQL files
// under migrations/ through golang-migrate; otherwise AutoMigrate keeps dev
// setups convenient.
func Migrate(db *gorm.DB, dsn string, sqlMigrations bool) error {
	if sqlMigrations {
		return runSQLMigrations(NormalizeDSN(dsn))
	}
	return db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Client{},
		&models.Employee{},
		&models.Order{},
		&models.OrderItem{},
		&models.StockMovement{},
		&models.Transaction{},
		&models.ShopSettings{},
	)
}

func runSQLMigrations(dsn string) error {
	m, err := migrate.New("file://migrations", dsn)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}
	defer m.Close()
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
