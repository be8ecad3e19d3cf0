package models

import (
	"time"
)

// ManagerPermission gates which workflow transitions a manager account may
// perform. Admins bypass these flags entirely.
type ManagerPermission struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	User       User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	CanAssign  bool      `gorm:"default:false" json:"can_assign"`
	CanClose   bool      `gorm:"default:false" json:"can_close"`
	CanPublish bool      `gorm:"default:false" json:"can_publish"`
	CanArchive bool      `gorm:"default:false" json:"can_archive"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
