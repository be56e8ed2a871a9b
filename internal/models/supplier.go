package models

import "time"

type Supplier struct {
	ID        uint    `gorm:"primaryKey"`
	Name      string  `gorm:"size:100;not null"`
	Phone     *string `gorm:"size:20;uniqueIndex"`
	Email     *string `gorm:"size:100;uniqueIndex"`
	Address   string  `gorm:"size:255"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
