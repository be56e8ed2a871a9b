package ledger

import (
	"errors"

	"mart-backend/internal/models"
	"mart-backend/internal/notify"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Ledger owns all mutation of Product.StockQuantity. Both primitives take
// the caller's open transaction and issue a single conditional UPDATE, so
// the availability check and the write cannot be interleaved by a
// concurrent sale. Nothing outside this package writes stock_quantity.
type Ledger struct {
	notifier *notify.Notifier
}

func New(notifier *notify.Notifier) *Ledger {
	return &Ledger{notifier: notifier}
}

// Decremented is the product state observed by a successful decrement.
// UnitPrice is the price snapshot sale lines are built from.
type Decremented struct {
	ProductName string
	NewQuantity int
	UnitPrice   decimal.Decimal
}

// ConditionalDecrement subtracts quantity from the product's stock only if
// enough is available. On failure it reports the quantity that was actually
// there when this transaction serialized against the row.
func (l *Ledger) ConditionalDecrement(tx *gorm.DB, productID uint, quantity int) (Decremented, error) {
	if quantity <= 0 {
		return Decremented{}, &ValidationError{Field: "quantity", Reason: "must be positive"}
	}

	res := tx.Model(&models.Product{}).
		Where("id = ? AND stock_quantity >= ?", productID, quantity).
		Update("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))
	if res.Error != nil {
		return Decremented{}, &StorageError{Op: "decrement stock", Err: res.Error}
	}

	// Same transaction, so this read sees the post-update row on success
	// and the serialized current row when the condition failed.
	var product models.Product
	if err := tx.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Decremented{}, &NotFoundError{Entity: "product", ID: productID}
		}
		return Decremented{}, &StorageError{Op: "load product", Err: err}
	}

	if res.RowsAffected == 0 {
		return Decremented{}, &InsufficientStockError{
			ProductID:   productID,
			ProductName: product.Name,
			Requested:   quantity,
			Available:   product.StockQuantity,
		}
	}

	if err := l.notifier.Evaluate(tx, &product); err != nil {
		return Decremented{}, &StorageError{Op: "low stock evaluation", Err: err}
	}

	return Decremented{
		ProductName: product.Name,
		NewQuantity: product.StockQuantity,
		UnitPrice:   product.Price,
	}, nil
}

// Increment adds quantity to the product's stock. Used by purchase-order
// receiving and manual stock adjustments.
func (l *Ledger) Increment(tx *gorm.DB, productID uint, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, &ValidationError{Field: "quantity", Reason: "must be positive"}
	}

	res := tx.Model(&models.Product{}).
		Where("id = ?", productID).
		Update("stock_quantity", gorm.Expr("stock_quantity + ?", quantity))
	if res.Error != nil {
		return 0, &StorageError{Op: "increment stock", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return 0, &NotFoundError{Entity: "product", ID: productID}
	}

	var product models.Product
	if err := tx.First(&product, productID).Error; err != nil {
		return 0, &StorageError{Op: "load product", Err: err}
	}

	if err := l.notifier.Evaluate(tx, &product); err != nil {
		return 0, &StorageError{Op: "low stock evaluation", Err: err}
	}

	return product.StockQuantity, nil
}

// Threshold returns the product's configured low-stock threshold and its
// current quantity.
func (l *Ledger) Threshold(tx *gorm.DB, productID uint) (threshold, quantity int, err error) {
	var product models.Product
	if err := tx.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, 0, &NotFoundError{Entity: "product", ID: productID}
		}
		return 0, 0, &StorageError{Op: "load product", Err: err}
	}
	return product.LowStockThreshold, product.StockQuantity, nil
}
