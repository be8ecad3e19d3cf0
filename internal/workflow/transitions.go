package workflow

import (
	"naebak/internal/identity"
	"naebak/internal/models"
)

// transitions is the enforced state table. Closure is deliberately absent:
// resolved→closed only happens through Close, which gates it on an assigned
// deputy and awards the reward points.
var transitions = map[models.ComplaintStatus][]models.ComplaintStatus{
	models.StatusNew:        {models.StatusAccepted, models.StatusRejected},
	models.StatusAccepted:   {models.StatusInProgress},
	models.StatusInProgress: {models.StatusResolved, models.StatusOnHold, models.StatusUnableToResolve},
	models.StatusOnHold:     {models.StatusInProgress},
}

// staffTransitions are extra edges only managers and admins may take:
// reopening a complaint a deputy gave up on.
var staffTransitions = map[models.ComplaintStatus][]models.ComplaintStatus{
	models.StatusUnableToResolve: {models.StatusInProgress},
}

// CanTransition reports whether actor may move a complaint from one status to
// another. rejected and closed are terminal for everyone.
func CanTransition(from, to models.ComplaintStatus, actor identity.Actor) bool {
	if contains(transitions[from], to) {
		return true
	}
	if actor.IsStaff() && contains(staffTransitions[from], to) {
		return true
	}
	return false
}

func contains(list []models.ComplaintStatus, s models.ComplaintStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// actionTypeFor maps a status transition to its audit entry type.
func actionTypeFor(to models.ComplaintStatus) models.ActionType {
	switch to {
	case models.StatusRejected:
		return models.ActionRejection
	case models.StatusOnHold:
		return models.ActionHold
	default:
		return models.ActionStatusChange
	}
}
