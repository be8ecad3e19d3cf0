package models

import (
	"time"
)

type Council string

const (
	CouncilRepresentatives Council = "representatives" // مجلس النواب
	CouncilSenate          Council = "senate"          // مجلس الشيوخ
)

func (c Council) Valid() bool {
	return c == CouncilRepresentatives || c == CouncilSenate
}

// DeputyProfile holds the public profile plus the cumulative reward points and
// rating aggregates for a user with the deputy role.
type DeputyProfile struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	User          User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	Council       Council   `gorm:"type:varchar(20);not null" json:"council"`
	Party         string    `gorm:"size:100" json:"party"`
	Governorate   string    `gorm:"size:50;index" json:"governorate"`
	Constituency  string    `gorm:"size:100" json:"constituency"`
	Bio           string    `gorm:"type:text" json:"bio"` // markdown
	BannerURL     string    `json:"banner_url"`
	Points        int       `gorm:"default:0" json:"points"` // only ever increases
	RatingSum     int       `gorm:"default:0" json:"rating_sum"`
	RatingCount   int       `gorm:"default:0" json:"rating_count"`
	ResolvedCount int       `gorm:"default:0" json:"resolved_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// AvgRating returns the mean star rating, 0 when nobody has rated yet.
func (p *DeputyProfile) AvgRating() float64 {
	if p.RatingCount == 0 {
		return 0
	}
	return float64(p.RatingSum) / float64(p.RatingCount)
}
