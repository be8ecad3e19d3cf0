package models

import (
	"time"
)

type ComplaintStatus string

const (
	StatusNew             ComplaintStatus = "new"
	StatusAccepted        ComplaintStatus = "accepted"
	StatusRejected        ComplaintStatus = "rejected"
	StatusInProgress      ComplaintStatus = "in_progress"
	StatusResolved        ComplaintStatus = "resolved"
	StatusUnableToResolve ComplaintStatus = "unable_to_resolve"
	StatusOnHold          ComplaintStatus = "on_hold"
	StatusClosed          ComplaintStatus = "closed"
)

// Valid reports whether s is a member of the status enum.
func (s ComplaintStatus) Valid() bool {
	switch s {
	case StatusNew, StatusAccepted, StatusRejected, StatusInProgress,
		StatusResolved, StatusUnableToResolve, StatusOnHold, StatusClosed:
		return true
	}
	return false
}

type ComplaintPriority string

const (
	PriorityLow    ComplaintPriority = "low"
	PriorityMedium ComplaintPriority = "medium"
	PriorityHigh   ComplaintPriority = "high"
	PriorityUrgent ComplaintPriority = "urgent"
)

func (p ComplaintPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type ComplaintCategory string

const (
	CategoryInfrastructure ComplaintCategory = "infrastructure"
	CategoryHealth         ComplaintCategory = "health"
	CategoryEducation      ComplaintCategory = "education"
	CategoryUtilities      ComplaintCategory = "utilities"
	CategoryTransport      ComplaintCategory = "transport"
	CategorySecurity       ComplaintCategory = "security"
	CategoryCorruption     ComplaintCategory = "corruption"
	CategoryOther          ComplaintCategory = "other"
)

func (c ComplaintCategory) Valid() bool {
	switch c {
	case CategoryInfrastructure, CategoryHealth, CategoryEducation, CategoryUtilities,
		CategoryTransport, CategorySecurity, CategoryCorruption, CategoryOther:
		return true
	}
	return false
}

type Complaint struct {
	ID               uint              `gorm:"primaryKey" json:"id"`
	Ref              string            `gorm:"uniqueIndex;size:36;not null" json:"ref"` // public reference (uuid)
	CitizenID        uint              `gorm:"not null;index" json:"citizen_id"`
	Citizen          User              `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"citizen"`
	AssignedDeputyID *uint             `gorm:"index" json:"assigned_deputy_id"`
	AssignedDeputy   *User             `gorm:"foreignKey:AssignedDeputyID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"assigned_deputy"`
	Title            string            `gorm:"not null" json:"title"`
	Description      string            `gorm:"type:text;not null" json:"description"`
	Category         ComplaintCategory `gorm:"type:varchar(30);not null" json:"category"`
	Governorate      string            `gorm:"size:50;index" json:"governorate"`
	Status           ComplaintStatus   `gorm:"type:varchar(20);default:'new';not null;index" json:"status"`
	Priority         ComplaintPriority `gorm:"type:varchar(10);default:'medium';not null" json:"priority"`

	// Public visibility flags. Effective visibility is derived, never stored.
	CitizenRequestedPublic bool `gorm:"default:false" json:"citizen_requested_public"`
	AdminApprovedPublic    bool `gorm:"default:false" json:"admin_approved_public"`
	AdminForcedPublic      bool `gorm:"default:false" json:"admin_forced_public"`

	Upvotes    int        `gorm:"default:0" json:"upvotes"`
	Downvotes  int        `gorm:"default:0" json:"downvotes"`
	Archived   bool       `gorm:"default:false;index" json:"archived"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	ResolvedAt *time.Time `json:"resolved_at"`
}

// IsPublic derives the effective public visibility: the admin override wins,
// otherwise the citizen must have opted in and an admin must have approved.
func (c *Complaint) IsPublic() bool {
	return c.AdminForcedPublic || (c.CitizenRequestedPublic && c.AdminApprovedPublic)
}
