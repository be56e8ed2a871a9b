package notify

import (
	"fmt"

	"mart-backend/internal/models"

	"gorm.io/gorm"
)

// Notifier raises low-stock alerts as a side effect of ledger mutations.
type Notifier struct{}

func NewNotifier() *Notifier {
	return &Notifier{}
}

// Evaluate runs inside the transaction that mutated the product, so the
// dedup check and the insert commit together with the stock change.
// An existing unread low_stock alert for the product suppresses a new one.
// Recovery above the threshold never auto-resolves an alert; marking read
// is an explicit external action.
func (n *Notifier) Evaluate(tx *gorm.DB, product *models.Product) error {
	if product.StockQuantity > product.LowStockThreshold {
		return nil
	}

	var count int64
	err := tx.Model(&models.Notification{}).
		Where("product_id = ? AND type = ? AND status = ?",
			product.ID, models.NotificationTypeLowStock, models.NotificationUnread).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	productID := product.ID
	notification := models.Notification{
		ProductID: &productID,
		Message: fmt.Sprintf("Low stock: %s has %d units left (threshold %d)",
			product.Name, product.StockQuantity, product.LowStockThreshold),
		Status: models.NotificationUnread,
		Type:   models.NotificationTypeLowStock,
	}
	return tx.Create(&notification).Error
}
