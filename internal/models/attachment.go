package models

import (
	"time"
)

// Attachment is a file uploaded alongside a complaint, stored in the object
// storage service; only the public URL and metadata live here.
type Attachment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ComplaintID uint      `gorm:"not null;index" json:"complaint_id"`
	Complaint   Complaint `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"complaint"`
	Path        string    `gorm:"not null" json:"path"`
	URL         string    `gorm:"not null" json:"url"`
	ContentType string    `gorm:"size:100" json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}
