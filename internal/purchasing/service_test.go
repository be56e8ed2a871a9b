package purchasing

import (
	"context"
	"testing"

	"mart-backend/internal/database"
	"mart-backend/internal/ledger"
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
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	return db
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewService(db, ledger.New(notify.NewNotifier())), db
}

func seedSupplier(t *testing.T, db *gorm.DB) models.Supplier {
	t.Helper()
	supplier := models.Supplier{Name: "Acme Wholesale"}
	require.NoError(t, db.Create(&supplier).Error)
	return supplier
}

func seedProduct(t *testing.T, db *gorm.DB, name string, stock, threshold int, supplierID uint) models.Product {
	t.Helper()
	category := models.Category{Name: name + " category"}
	require.NoError(t, db.Create(&category).Error)
	product := models.Product{
		Name:              name,
		Price:             decimal.RequireFromString("10.00"),
		StockQuantity:     stock,
		LowStockThreshold: threshold,
		CategoryID:        category.ID,
		SupplierID:        supplierID,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func stockOf(t *testing.T, db *gorm.DB, productID uint) int {
	t.Helper()
	var product models.Product
	require.NoError(t, db.First(&product, productID).Error)
	return product.StockQuantity
}

func TestCreateOrder(t *testing.T) {
	svc, db := newTestService(t)
	supplier := seedSupplier(t, db)
	product := seedProduct(t, db, "Pasta", 5, 10, supplier.ID)

	order, err := svc.Create(context.Background(), CreateOrderInput{
		SupplierID: supplier.ID,
		Lines: []OrderLine{
			{ProductID: product.ID, Quantity: 20, UnitPrice: decimal.RequireFromString("10.00")},
		},
	})
	require.NoError(t, err)
	require.NotZero(t, order.ID)
	require.Equal(t, models.OrderPending, order.Status)
	require.Len(t, order.Items, 1)

	// Creating an order does not touch stock.
	require.Equal(t, 5, stockOf(t, db, product.ID))
}

func TestCreateOrderValidation(t *testing.T) {
	svc, db := newTestService(t)
	supplier := seedSupplier(t, db)
	product := seedProduct(t, db, "Pasta", 5, 10, supplier.ID)

	_, err := svc.Create(context.Background(), CreateOrderInput{SupplierID: supplier.ID})
	var validation *ledger.ValidationError
	require.ErrorAs(t, err, &validation)

	_, err = svc.Create(context.Background(), CreateOrderInput{
		SupplierID: supplier.ID,
		Lines:      []OrderLine{{ProductID: product.ID, Quantity: 0, UnitPrice: decimal.New(1, 0)}},
	})
	require.ErrorAs(t, err, &validation)

	_, err = svc.Create(context.Background(), CreateOrderInput{
		SupplierID: supplier.ID,
		Lines:      []OrderLine{{ProductID: product.ID, Quantity: 1, UnitPrice: decimal.RequireFromString("-1")}},
	})
	require.ErrorAs(t, err, &validation)

	var notFound *ledger.NotFoundError
	_, err = svc.Create(context.Background(), CreateOrderInput{
		SupplierID: 999,
		Lines:      []OrderLine{{ProductID: product.ID, Quantity: 1, UnitPrice: decimal.New(1, 0)}},
	})
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "supplier", notFound.Entity)

	_, err = svc.Create(context.Background(), CreateOrderInput{
		SupplierID: supplier.ID,
		Lines:      []OrderLine{{ProductID: 999, Quantity: 1, UnitPrice: decimal.New(1, 0)}},
	})
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "product", notFound.Entity)
}

func TestReceive(t *testing.T) {
	svc, db := newTestService(t)
	supplier := seedSupplier(t, db)
	product := seedProduct(t, db, "Pasta", 5, 10, supplier.ID)

	// Prior unread low-stock alert; receiving must not auto-clear it.
	productID := product.ID
	alert := models.Notification{
		ProductID: &productID,
		Message:   "Low stock: Pasta has 5 units left (threshold 10)",
		Status:    models.NotificationUnread,
		Type:      models.NotificationTypeLowStock,
	}
	require.NoError(t, db.Create(&alert).Error)

	order, err := svc.Create(context.Background(), CreateOrderInput{
		SupplierID: supplier.ID,
		Lines: []OrderLine{
			{ProductID: product.ID, Quantity: 20, UnitPrice: decimal.RequireFromString("10.00")},
		},
	})
	require.NoError(t, err)

	received, err := svc.Receive(context.Background(), order.ID)
	require.NoError(t, err)
	require.Equal(t, models.OrderReceived, received.Status)
	require.Equal(t, 25, stockOf(t, db, product.ID))

	var reloaded models.Notification
	require.NoError(t, db.First(&reloaded, alert.ID).Error)
	require.Equal(t, models.NotificationUnread, reloaded.Status)

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestReceiveTwiceAppliesOnce(t *testing.T) {
	svc, db := newTestService(t)
	supplier := seedSupplier(t, db)
	product := seedProduct(t, db, "Pasta", 5, 0, supplier.ID)

	order, err := svc.Create(context.Background(), CreateOrderInput{
		SupplierID: supplier.ID,
		Lines: []OrderLine{
			{ProductID: product.ID, Quantity: 20, UnitPrice: decimal.RequireFromString("10.00")},
		},
	})
	require.NoError(t, err)

	_, err = svc.Receive(context.Background(), order.ID)
	require.NoError(t, err)
	require.Equal(t, 25, stockOf(t, db, product.ID))

	_, err = svc.Receive(context.Background(), order.ID)
	var invalidState *InvalidStateError
	require.ErrorAs(t, err, &invalidState)
	require.Equal(t, models.OrderReceived, invalidState.Status)

	// The second call never double-applies the increments.
	require.Equal(t, 25, stockOf(t, db, product.ID))
}

func TestReceiveCancelledOrder(t *testing.T) {
	svc, db := newTestService(t)
	supplier := seedSupplier(t, db)
	product := seedProduct(t, db, "Pasta", 5, 0, supplier.ID)

	order, err := svc.Create(context.Background(), CreateOrderInput{
		SupplierID: supplier.ID,
		Lines: []OrderLine{
			{ProductID: product.ID, Quantity: 20, UnitPrice: decimal.RequireFromString("10.00")},
		},
	})
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.PurchaseOrder{}).
		Where("id = ?", order.ID).
		Update("status", models.OrderCancelled).Error)

	_, err = svc.Receive(context.Background(), order.ID)
	var invalidState *InvalidStateError
	require.ErrorAs(t, err, &invalidState)
	require.Equal(t, models.OrderCancelled, invalidState.Status)
	require.Equal(t, 5, stockOf(t, db, product.ID))
}

func TestReceiveUnknownOrder(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Receive(context.Background(), 999)
	var notFound *ledger.NotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "purchase order", notFound.Entity)
}

func TestReceiveRollsBackWhenProductMissing(t *testing.T) {
	svc, db := newTestService(t)
	supplier := seedSupplier(t, db)
	kept := seedProduct(t, db, "Pasta", 5, 0, supplier.ID)
	doomed := seedProduct(t, db, "Sauce", 5, 0, supplier.ID)

	order, err := svc.Create(context.Background(), CreateOrderInput{
		SupplierID: supplier.ID,
		Lines: []OrderLine{
			{ProductID: kept.ID, Quantity: 10, UnitPrice: decimal.RequireFromString("10.00")},
			{ProductID: doomed.ID, Quantity: 10, UnitPrice: decimal.RequireFromString("10.00")},
		},
	})
	require.NoError(t, err)

	require.NoError(t, db.Delete(&models.Product{}, doomed.ID).Error)

	_, err = svc.Receive(context.Background(), order.ID)
	var notFound *ledger.NotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, doomed.ID, notFound.ID)

	// Nothing partial: the first line's increment rolled back and the
	// order stayed PENDING, so a fixed-up retry is safe.
	require.Equal(t, 5, stockOf(t, db, kept.ID))
	var reloaded models.PurchaseOrder
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	require.Equal(t, models.OrderPending, reloaded.Status)
}
