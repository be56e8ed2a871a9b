package notify

import (
	"errors"
	"time"

	"mart-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type NotificationResponse struct {
	ID          uint    `json:"notification_id"`
	Message     string  `json:"message"`
	Status      string  `json:"status"`
	Type        string  `json:"type"`
	CreatedAt   string  `json:"created_at"`
	ReadAt      *string `json:"read_at,omitempty"`
	ProductName *string `json:"product_name"`
}

type UpdateNotificationRequest struct {
	Status string `json:"status"`
}

// GET /api/notifications
func ListNotificationsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var notifications []models.Notification
		if err := db.
			Preload("Product").
			Order("created_at DESC").
			Limit(50).
			Find(&notifications).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list notifications")
		}

		resp := make([]NotificationResponse, 0, len(notifications))
		for _, n := range notifications {
			item := NotificationResponse{
				ID:        n.ID,
				Message:   n.Message,
				Status:    string(n.Status),
				Type:      n.Type,
				CreatedAt: n.CreatedAt.Format("2006-01-02 15:04:05"),
			}
			if n.ReadAt != nil {
				readAt := n.ReadAt.Format("2006-01-02 15:04:05")
				item.ReadAt = &readAt
			}
			if n.Product != nil {
				item.ProductName = &n.Product.Name
			}
			resp = append(resp, item)
		}

		return c.JSON(fiber.Map{"notifications": resp})
	}
}

// PUT /api/notifications/:id
// The only permitted transition is unread -> read; marking an already-read
// notification again is a no-op success.
func MarkNotificationReadHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid notification id")
		}

		var body UpdateNotificationRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Status != string(models.NotificationRead) {
			return fiber.NewError(fiber.StatusBadRequest, "Only the 'read' status can be set")
		}

		var notification models.Notification
		if err := db.First(&notification, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Notification not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load notification")
		}

		if notification.Status != models.NotificationRead {
			now := time.Now()
			if err := db.Model(&notification).Updates(map[string]interface{}{
				"status":  models.NotificationRead,
				"read_at": &now,
			}).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not update notification")
			}
		}

		return c.JSON(fiber.Map{"message": "Notification updated successfully"})
	}
}
