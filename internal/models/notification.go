package models

import (
	"time"
)

type NotificationType string

const (
	NotificationStatusUpdate NotificationType = "status_update"
	NotificationAssignment   NotificationType = "assignment"
	NotificationPublish      NotificationType = "publish"
	NotificationSystem       NotificationType = "system"
)

type Notification struct {
	ID           uint             `gorm:"primaryKey" json:"id"`
	UserID       uint             `gorm:"not null;index" json:"user_id"` // receiver
	User         User             `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	Type         NotificationType `gorm:"type:varchar(20);not null" json:"type"`
	Title        string           `gorm:"not null" json:"title"`
	Message      string           `gorm:"type:text" json:"message"`
	ComplaintRef string           `gorm:"size:36;index" json:"complaint_ref"`
	IsRead       bool             `gorm:"default:false;index" json:"is_read"`
	CreatedAt    time.Time        `json:"created_at"`
}
