package models

import (
	"time"
)

// DeputyRating is one citizen's star rating of a deputy, upserted on repeat.
type DeputyRating struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	UserID    uint          `gorm:"not null;index;uniqueIndex:idx_user_deputy" json:"user_id"`
	DeputyID  uint          `gorm:"not null;index;uniqueIndex:idx_user_deputy" json:"deputy_id"`
	Deputy    DeputyProfile `gorm:"foreignKey:DeputyID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"deputy"`
	Score     int           `gorm:"not null" json:"score"` // 1..5
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
