package ledger

import (
	"errors"
	"testing"
	"time"

	"mart-backend/internal/database"
	"mart-backend/internal/models"
	"mart-backend/internal/notify"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection makes concurrent transactions serialize the same
	// way Postgres row locks do.
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name, price string, stock, threshold int) models.Product {
	t.Helper()
	category := models.Category{Name: name + " category"}
	require.NoError(t, db.Create(&category).Error)
	supplier := models.Supplier{Name: name + " supplier"}
	require.NoError(t, db.Create(&supplier).Error)
	product := models.Product{
		Name:              name,
		Price:             decimal.RequireFromString(price),
		StockQuantity:     stock,
		LowStockThreshold: threshold,
		CategoryID:        category.ID,
		SupplierID:        supplier.ID,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func notificationCount(t *testing.T, db *gorm.DB, productID uint) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.Notification{}).
		Where("product_id = ? AND type = ?", productID, models.NotificationTypeLowStock).
		Count(&count).Error)
	return count
}

func TestConditionalDecrement(t *testing.T) {
	db := newTestDB(t)
	led := New(notify.NewNotifier())
	product := seedProduct(t, db, "Milk", "40.00", 10, 2)

	var dec Decremented
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		dec, err = led.ConditionalDecrement(tx, product.ID, 3)
		return err
	})
	require.NoError(t, err)
	require.Equal(t, 7, dec.NewQuantity)
	require.Equal(t, "Milk", dec.ProductName)
	require.True(t, dec.UnitPrice.Equal(decimal.RequireFromString("40.00")))

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	require.Equal(t, 7, reloaded.StockQuantity)
}

func TestConditionalDecrementInsufficient(t *testing.T) {
	db := newTestDB(t)
	led := New(notify.NewNotifier())
	product := seedProduct(t, db, "Bread", "5.50", 2, 1)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := led.ConditionalDecrement(tx, product.ID, 5)
		return err
	})

	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	require.Equal(t, product.ID, insufficient.ProductID)
	require.Equal(t, 5, insufficient.Requested)
	require.Equal(t, 2, insufficient.Available)

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	require.Equal(t, 2, reloaded.StockQuantity)
}

func TestConditionalDecrementNotFound(t *testing.T) {
	db := newTestDB(t)
	led := New(notify.NewNotifier())

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := led.ConditionalDecrement(tx, 999, 1)
		return err
	})

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "product", notFound.Entity)
	require.Equal(t, uint(999), notFound.ID)
}

func TestIncrement(t *testing.T) {
	db := newTestDB(t)
	led := New(notify.NewNotifier())
	product := seedProduct(t, db, "Eggs", "3.20", 5, 0)

	var newStock int
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		newStock, err = led.Increment(tx, product.ID, 7)
		return err
	})
	require.NoError(t, err)
	require.Equal(t, 12, newStock)

	err = db.Transaction(func(tx *gorm.DB) error {
		_, err := led.Increment(tx, 999, 1)
		return err
	})
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestThreshold(t *testing.T) {
	db := newTestDB(t)
	led := New(notify.NewNotifier())
	product := seedProduct(t, db, "Rice", "12.00", 30, 8)

	threshold, quantity, err := led.Threshold(db, product.ID)
	require.NoError(t, err)
	require.Equal(t, 8, threshold)
	require.Equal(t, 30, quantity)

	_, _, err = led.Threshold(db, 999)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestDecrementRaisesAndDedupesLowStockAlert(t *testing.T) {
	db := newTestDB(t)
	led := New(notify.NewNotifier())
	product := seedProduct(t, db, "Sugar", "8.00", 12, 10)

	// 12 -> 9, crosses the threshold.
	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := led.ConditionalDecrement(tx, product.ID, 3)
		return err
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, notificationCount(t, db, product.ID))

	// Still below threshold: the unread alert suppresses a new one.
	err = db.Transaction(func(tx *gorm.DB) error {
		_, err := led.ConditionalDecrement(tx, product.ID, 1)
		return err
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, notificationCount(t, db, product.ID))

	// Once the alert is read, the next crossing raises a fresh one.
	now := time.Now()
	require.NoError(t, db.Model(&models.Notification{}).
		Where("product_id = ?", product.ID).
		Updates(map[string]interface{}{"status": models.NotificationRead, "read_at": &now}).Error)

	err = db.Transaction(func(tx *gorm.DB) error {
		_, err := led.ConditionalDecrement(tx, product.ID, 1)
		return err
	})
	require.NoError(t, err)
	require.EqualValues(t, 2, notificationCount(t, db, product.ID))
}

func TestIncrementDoesNotResolveAlert(t *testing.T) {
	db := newTestDB(t)
	led := New(notify.NewNotifier())
	product := seedProduct(t, db, "Flour", "6.00", 11, 10)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := led.ConditionalDecrement(tx, product.ID, 2)
		return err
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, notificationCount(t, db, product.ID))

	// Restock well above the threshold; the alert must stay unread.
	err = db.Transaction(func(tx *gorm.DB) error {
		_, err := led.Increment(tx, product.ID, 50)
		return err
	})
	require.NoError(t, err)

	var notification models.Notification
	require.NoError(t, db.Where("product_id = ?", product.ID).First(&notification).Error)
	require.Equal(t, models.NotificationUnread, notification.Status)
	require.Nil(t, notification.ReadAt)
	require.EqualValues(t, 1, notificationCount(t, db, product.ID))
}

func TestIncrementCanRaiseAlert(t *testing.T) {
	db := newTestDB(t)
	led := New(notify.NewNotifier())
	product := seedProduct(t, db, "Salt", "2.00", 0, 10)

	// A delivery that still leaves stock at or below the threshold alerts.
	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := led.Increment(tx, product.ID, 5)
		return err
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, notificationCount(t, db, product.ID))
}

func TestErrorsUnwrap(t *testing.T) {
	inner := gorm.ErrInvalidTransaction
	err := &StorageError{Op: "commit", Err: inner}
	require.True(t, errors.Is(err, inner))
}
