package models

import "time"

type NotificationStatus string

const (
	NotificationUnread NotificationStatus = "unread"
	NotificationRead   NotificationStatus = "read"
)

const NotificationTypeLowStock = "low_stock"

type Notification struct {
	ID        uint  `gorm:"primaryKey"`
	ProductID *uint `gorm:"index"`
	Product   *Product
	Message   string             `gorm:"size:255;not null"`
	Status    NotificationStatus `gorm:"size:20;not null;default:unread"`
	Type      string             `gorm:"size:50;not null"`
	CreatedAt time.Time
	ReadAt    *time.Time
}
