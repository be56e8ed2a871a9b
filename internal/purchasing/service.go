package purchasing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mart-backend/internal/ledger"
	"mart-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InvalidStateError reports a receive attempt on an order that already
// left the PENDING state.
type InvalidStateError struct {
	OrderID uint
	Status  models.OrderStatus
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("purchase order %d is %s, only PENDING orders can be received", e.OrderID, e.Status)
}

type OrderLine struct {
	ProductID uint
	Quantity  int
	UnitPrice decimal.Decimal
}

type CreateOrderInput struct {
	SupplierID uint
	Lines      []OrderLine
}

type Service struct {
	db     *gorm.DB
	ledger *ledger.Ledger
}

func NewService(db *gorm.DB, led *ledger.Ledger) *Service {
	return &Service{db: db, ledger: led}
}

// Create records a PENDING order with its lines. Lines are immutable after
// creation; stock is untouched until the order is received.
func (s *Service) Create(ctx context.Context, in CreateOrderInput) (*models.PurchaseOrder, error) {
	if in.SupplierID == 0 {
		return nil, &ledger.ValidationError{Field: "supplier_id", Reason: "supplier_id is required"}
	}
	if len(in.Lines) == 0 {
		return nil, &ledger.ValidationError{Field: "items", Reason: "order must have at least one line"}
	}
	for i, line := range in.Lines {
		if line.Quantity <= 0 {
			return nil, &ledger.ValidationError{
				Field:  "items",
				Reason: fmt.Sprintf("line %d: quantity must be positive", i+1),
			}
		}
		if line.UnitPrice.IsNegative() {
			return nil, &ledger.ValidationError{
				Field:  "items",
				Reason: fmt.Sprintf("line %d: unit price must not be negative", i+1),
			}
		}
	}

	var order models.PurchaseOrder
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var supplier models.Supplier
		if err := tx.First(&supplier, in.SupplierID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &ledger.NotFoundError{Entity: "supplier", ID: in.SupplierID}
			}
			return &ledger.StorageError{Op: "load supplier", Err: err}
		}

		items := make([]models.PurchaseOrderItem, 0, len(in.Lines))
		for _, line := range in.Lines {
			var product models.Product
			if err := tx.First(&product, line.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &ledger.NotFoundError{Entity: "product", ID: line.ProductID}
				}
				return &ledger.StorageError{Op: "load product", Err: err}
			}
			items = append(items, models.PurchaseOrderItem{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice,
			})
		}

		order = models.PurchaseOrder{
			SupplierID: in.SupplierID,
			OrderDate:  time.Now(),
			Status:     models.OrderPending,
			Items:      items,
		}
		if err := tx.Create(&order).Error; err != nil {
			return &ledger.StorageError{Op: "persist purchase order", Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Receive applies the order's lines as stock increments and moves the order
// to RECEIVED, all in one transaction. The status check and the flip are a
// single conditional statement, so a concurrent or repeated Receive can
// never apply the increments twice.
func (s *Service) Receive(ctx context.Context, orderID uint) (*models.PurchaseOrder, error) {
	var order models.PurchaseOrder
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.PurchaseOrder{}).
			Where("id = ? AND status = ?", orderID, models.OrderPending).
			Update("status", models.OrderReceived)
		if res.Error != nil {
			return &ledger.StorageError{Op: "update order status", Err: res.Error}
		}
		if res.RowsAffected == 0 {
			var existing models.PurchaseOrder
			if err := tx.First(&existing, orderID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &ledger.NotFoundError{Entity: "purchase order", ID: orderID}
				}
				return &ledger.StorageError{Op: "load purchase order", Err: err}
			}
			return &InvalidStateError{OrderID: orderID, Status: existing.Status}
		}

		var items []models.PurchaseOrderItem
		if err := tx.Where("purchase_order_id = ?", orderID).Find(&items).Error; err != nil {
			return &ledger.StorageError{Op: "load order items", Err: err}
		}
		for _, item := range items {
			if _, err := s.ledger.Increment(tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		if err := tx.Preload("Items").First(&order, orderID).Error; err != nil {
			return &ledger.StorageError{Op: "load purchase order", Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}
