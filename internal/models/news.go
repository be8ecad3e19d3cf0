package models

import (
	"time"
)

// NewsItem is one admin-entered entry of the scrolling news bar.
type NewsItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Active    bool      `gorm:"default:true;index" json:"active"`
	Ordering  int       `gorm:"default:0" json:"ordering"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Governorate is seeded at startup and drives the deputy directory filters.
type Governorate struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"not null;unique" json:"name"`
	Slug string `gorm:"not null;uniqueIndex;size:50" json:"slug"`
}
