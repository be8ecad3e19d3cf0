package models

import (
	"time"
)

type VoteKind string

const (
	VoteUp   VoteKind = "up"
	VoteDown VoteKind = "down"
)

func (k VoteKind) Valid() bool {
	return k == VoteUp || k == VoteDown
}

// ComplaintVote is a presence row: it exists while the actor's vote stands and
// is deleted when the vote is toggled off. VoterKey covers both authenticated
// users ("user:<id>") and anonymous visitors ("ip:<addr>").
type ComplaintVote struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ComplaintID uint      `gorm:"not null;index;uniqueIndex:idx_complaint_voter_kind" json:"complaint_id"`
	Complaint   Complaint `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"complaint"`
	VoterKey    string    `gorm:"size:100;not null;uniqueIndex:idx_complaint_voter_kind" json:"voter_key"`
	Kind        VoteKind  `gorm:"type:varchar(10);not null;uniqueIndex:idx_complaint_voter_kind" json:"kind"`
	CreatedAt   time.Time `json:"created_at"`
}
