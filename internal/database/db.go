package database

import (
	"fmt"

	"mart-backend/internal/config"
	"mart-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens the Postgres connection and returns the handle. The handle
// is passed into services explicitly; nothing in this module holds a global
// database reference.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	return db, nil
}

// Migrate is driver-agnostic so tests can run it against an in-memory store.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Supplier{},
		&models.Category{},
		&models.Product{},
		&models.Customer{},
		&models.Employee{},
		&models.Sale{},
		&models.SaleItem{},
		&models.PurchaseOrder{},
		&models.PurchaseOrderItem{},
		&models.Notification{},
	)
}
