package workflow

import (
	"testing"

	"naebak/internal/identity"
	"naebak/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestTransitionTable(t *testing.T) {
	deputy := identity.Actor{UserID: 3, Roles: []models.Role{models.RoleDeputy}}
	manager := identity.Actor{UserID: 9, Roles: []models.Role{models.RoleManager}}

	cases := []struct {
		from, to models.ComplaintStatus
		actor    identity.Actor
		want     bool
	}{
		{models.StatusNew, models.StatusAccepted, deputy, true},
		{models.StatusNew, models.StatusRejected, deputy, true},
		{models.StatusNew, models.StatusResolved, deputy, false},
		{models.StatusAccepted, models.StatusInProgress, deputy, true},
		{models.StatusAccepted, models.StatusResolved, deputy, false},
		{models.StatusInProgress, models.StatusResolved, deputy, true},
		{models.StatusInProgress, models.StatusOnHold, deputy, true},
		{models.StatusInProgress, models.StatusUnableToResolve, deputy, true},
		{models.StatusOnHold, models.StatusInProgress, deputy, true},
		{models.StatusOnHold, models.StatusResolved, deputy, false},

		// Terminal states stay terminal.
		{models.StatusRejected, models.StatusNew, manager, false},
		{models.StatusClosed, models.StatusNew, manager, false},
		{models.StatusClosed, models.StatusInProgress, manager, false},

		// unable_to_resolve is terminal for the deputy only.
		{models.StatusUnableToResolve, models.StatusInProgress, deputy, false},
		{models.StatusUnableToResolve, models.StatusInProgress, manager, true},
	}
	for _, tc := range cases {
		got := CanTransition(tc.from, tc.to, tc.actor)
		assert.Equal(t, tc.want, got, "%s → %s (%v)", tc.from, tc.to, tc.actor.Roles)
	}
}

func TestActionTypeForTransition(t *testing.T) {
	assert.Equal(t, models.ActionRejection, actionTypeFor(models.StatusRejected))
	assert.Equal(t, models.ActionHold, actionTypeFor(models.StatusOnHold))
	assert.Equal(t, models.ActionStatusChange, actionTypeFor(models.StatusResolved))
}
