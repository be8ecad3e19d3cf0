package models

import (
	"time"
)

// PointLog records each reward credited to a deputy. The unique index on
// (complaint_id, action) blocks a second award for the same closure at the
// database level.
type PointLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	User        User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	ComplaintID *uint     `gorm:"index;uniqueIndex:idx_complaint_award" json:"complaint_id"`
	Amount      int       `gorm:"not null" json:"amount"`
	Action      string    `gorm:"size:100;not null;uniqueIndex:idx_complaint_award" json:"action"`
	CreatedAt   time.Time `json:"created_at"`
}
