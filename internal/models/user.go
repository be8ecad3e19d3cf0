package models

import (
	"time"
)

type Role string

const (
	RoleCitizen Role = "citizen"
	RoleDeputy  Role = "deputy"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCitizen, RoleDeputy, RoleManager, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Email       string    `gorm:"uniqueIndex;not null" json:"email"`
	Password    string    `gorm:"not null" json:"-"` // bcrypt hash
	Phone       string    `gorm:"size:20" json:"phone"`
	Governorate string    `gorm:"size:50;index" json:"governorate"`
	Role        Role      `gorm:"type:varchar(20);default:'citizen';not null" json:"role"`
	Avatar      string    `gorm:"default:👤" json:"avatar"` // emoji avatar
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
