package models

import (
	"time"
)

type ActionType string

const (
	ActionStatusChange   ActionType = "status_change"
	ActionPriorityChange ActionType = "priority_change"
	ActionAssignment     ActionType = "assignment"
	ActionComment        ActionType = "comment"
	ActionRejection      ActionType = "rejection"
	ActionHold           ActionType = "hold"
	ActionResolution     ActionType = "resolution"
)

func (t ActionType) Valid() bool {
	switch t {
	case ActionStatusChange, ActionPriorityChange, ActionAssignment,
		ActionComment, ActionRejection, ActionHold, ActionResolution:
		return true
	}
	return false
}

// ComplaintAction is the append-only audit trail: one row per committed
// transition, never edited or deleted.
type ComplaintAction struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	ComplaintID uint       `gorm:"not null;index" json:"complaint_id"`
	Complaint   Complaint  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"complaint"`
	Type        ActionType `gorm:"type:varchar(20);not null" json:"type"`
	OldValue    string     `gorm:"size:100" json:"old_value"`
	NewValue    string     `gorm:"size:100" json:"new_value"`
	Comment     string     `gorm:"type:text" json:"comment"`
	ActorKey    string     `gorm:"size:100;not null" json:"actor_key"` // "user:<id>" or "ip:<addr>"
	CreatedAt   time.Time  `json:"created_at"`
}
