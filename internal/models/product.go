package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product stock is only ever changed through the ledger package so the
// stock_quantity >= 0 invariant holds on every path.
type Product struct {
	ID                uint            `gorm:"primaryKey"`
	Name              string          `gorm:"size:100;not null"`
	Barcode           *string         `gorm:"size:50;uniqueIndex"`
	Price             decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	StockQuantity     int             `gorm:"not null;default:0"`
	LowStockThreshold int             `gorm:"not null;default:10"`
	CategoryID        uint            `gorm:"index;not null"`
	Category          Category
	SupplierID        uint `gorm:"index;not null"`
	Supplier          Supplier
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
