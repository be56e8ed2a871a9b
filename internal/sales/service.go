package sales

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

type CartItem struct {
	ProductID uint
	Quantity  int
}

type CreateSaleInput struct {
	Items         []CartItem
	PaymentMethod models.PaymentMethod
	EmployeeID    uint
	CustomerID    *uint
}

// Service turns a cart into a committed sale as one unit of work.
type Service struct {
	db     *gorm.DB
	ledger *ledger.Ledger
}

func NewService(db *gorm.DB, led *ledger.Ledger) *Service {
	return &Service{db: db, ledger: led}
}

// CreateSale prices, decrements and persists the whole cart atomically.
// If any line fails, every decrement rolls back and no Sale row survives.
// Lines apply in submitted order, so the first failing line is
// deterministic when several are invalid.
func (s *Service) CreateSale(ctx context.Context, in CreateSaleInput) (*models.Sale, error) {
	if len(in.Items) == 0 {
		return nil, &ledger.ValidationError{Field: "items", Reason: "cart must not be empty"}
	}
	for i, item := range in.Items {
		if item.Quantity <= 0 {
			return nil, &ledger.ValidationError{
				Field:  "items",
				Reason: fmt.Sprintf("line %d: quantity must be positive", i+1),
			}
		}
	}
	if !in.PaymentMethod.Valid() {
		return nil, &ledger.ValidationError{
			Field:  "payment_method",
			Reason: fmt.Sprintf("unrecognized payment method %q", string(in.PaymentMethod)),
		}
	}
	if in.EmployeeID == 0 {
		return nil, &ledger.ValidationError{Field: "employee_id", Reason: "employee_id is required"}
	}

	var sale *models.Sale
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var employee models.Employee
		if err := tx.First(&employee, in.EmployeeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &ledger.NotFoundError{Entity: "employee", ID: in.EmployeeID}
			}
			return &ledger.StorageError{Op: "load employee", Err: err}
		}

		if in.CustomerID != nil {
			var customer models.Customer
			if err := tx.First(&customer, *in.CustomerID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &ledger.NotFoundError{Entity: "customer", ID: *in.CustomerID}
				}
				return &ledger.StorageError{Op: "load customer", Err: err}
			}
		}

		items := make([]models.SaleItem, 0, len(in.Items))
		total := decimal.Zero
		for _, line := range in.Items {
			dec, err := s.ledger.ConditionalDecrement(tx, line.ProductID, line.Quantity)
			if err != nil {
				return err
			}
			subtotal := dec.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
			items = append(items, models.SaleItem{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				UnitPrice: dec.UnitPrice,
				Subtotal:  subtotal,
			})
			total = total.Add(subtotal)
		}

		record := models.Sale{
			SaleTime:      time.Now(),
			TotalAmount:   total.Round(2),
			PaymentMethod: in.PaymentMethod,
			CustomerID:    in.CustomerID,
			EmployeeID:    in.EmployeeID,
			Items:         items,
		}
		if err := tx.Create(&record).Error; err != nil {
			return &ledger.StorageError{Op: "persist sale", Err: err}
		}

		sale = &record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}
