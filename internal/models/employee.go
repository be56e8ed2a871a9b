package models

import "time"

type EmployeeRole string

const (
	RoleAdmin   EmployeeRole = "ADMIN"
	RoleCashier EmployeeRole = "CASHIER"
	RoleManager EmployeeRole = "MANAGER"
)

func (r EmployeeRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleCashier, RoleManager:
		return true
	}
	return false
}

type Employee struct {
	ID           uint         `gorm:"primaryKey"`
	Name         string       `gorm:"size:100;not null"`
	Role         EmployeeRole `gorm:"size:50;not null"`
	Username     string       `gorm:"size:50;uniqueIndex;not null"`
	PasswordHash string       `gorm:"size:255;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
