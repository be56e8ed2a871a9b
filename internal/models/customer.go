package models

import "time"

type Customer struct {
	ID        uint    `gorm:"primaryKey"`
	Name      string  `gorm:"size:100;not null"`
	Phone     *string `gorm:"size:20;uniqueIndex"`
	Email     *string `gorm:"size:100;uniqueIndex"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
