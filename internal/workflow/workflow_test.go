package workflow

import (
	"testing"

	"naebak/internal/identity"
	"naebak/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	adminActor   = identity.Actor{UserID: 1, Roles: []models.Role{models.RoleAdmin}}
	citizenActor = identity.Actor{UserID: 7, Roles: []models.Role{models.RoleCitizen}}
)

func deputyActor(id uint) identity.Actor {
	return identity.Actor{UserID: id, Roles: []models.Role{models.RoleDeputy}}
}

func newTestService(store *memStore) (*Service, *memNotifier, *memInvalidator) {
	notifier := &memNotifier{}
	invalidator := &memInvalidator{}
	return NewService(store, notifier, invalidator), notifier, invalidator
}

func TestUpdateStatusAppendsOneAuditEntry(t *testing.T) {
	store := newMemStore()
	c := store.addComplaint(models.Complaint{CitizenID: 7, Status: models.StatusNew, Title: "انقطاع المياه"})
	svc, notifier, invalidator := newTestService(store)

	res, err := svc.UpdateStatus(c.ID, models.StatusAccepted, adminActor, "سيتم المتابعة")
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, res.Complaint.Status)
	assert.Empty(t, res.Warning)

	actions, _ := store.ActionsForComplaint(c.ID)
	require.Len(t, actions, 1)
	assert.Equal(t, models.ActionStatusChange, actions[0].Type)
	assert.Equal(t, "new", actions[0].OldValue)
	assert.Equal(t, "accepted", actions[0].NewValue)
	assert.Equal(t, "سيتم المتابعة", actions[0].Comment)
	assert.Equal(t, "user:1", actions[0].ActorKey)

	// Citizen notified, caches dropped.
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, uint(7), notifier.sent[0].UserID)
	assert.Contains(t, invalidator.paths, "/c/"+c.Ref)
	assert.Contains(t, invalidator.paths, "/complaints")
}

func TestUpdateStatusRejectsIllegalTransition(t *testing.T) {
	store := newMemStore()
	closed := store.addComplaint(models.Complaint{CitizenID: 7, Status: models.StatusClosed})
	svc, notifier, _ := newTestService(store)

	_, err := svc.UpdateStatus(closed.ID, models.StatusNew, adminActor, "")
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))

	// No write, no audit entry, no notification.
	got, _ := store.ComplaintByID(closed.ID)
	assert.Equal(t, models.StatusClosed, got.Status)
	actions, _ := store.ActionsForComplaint(closed.ID)
	assert.Empty(t, actions)
	assert.Empty(t, notifier.sent)
}

func TestUpdateStatusRejectsClosedViaStatusChange(t *testing.T) {
	store := newMemStore()
	c := store.addComplaint(models.Complaint{CitizenID: 7, Status: models.StatusResolved})
	svc, _, _ := newTestService(store)

	_, err := svc.UpdateStatus(c.ID, models.StatusClosed, adminActor, "")
	require.Error(t, err)
	assert.Equal(t, KindPrecondition, KindOf(err))
}

func TestUpdateStatusRejectsInvalidEnum(t *testing.T) {
	store := newMemStore()
	c := store.addComplaint(models.Complaint{CitizenID: 7, Status: models.StatusNew})
	svc, _, _ := newTestService(store)

	_, err := svc.UpdateStatus(c.ID, models.ComplaintStatus("banana"), adminActor, "")
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestUpdateStatusDeputyMustBeAssigned(t *testing.T) {
	store := newMemStore()
	other := uint(99)
	c := store.addComplaint(models.Complaint{CitizenID: 7, Status: models.StatusAccepted, AssignedDeputyID: &other})
	svc, _, _ := newTestService(store)

	_, err := svc.UpdateStatus(c.ID, models.StatusInProgress, deputyActor(3), "")
	require.Error(t, err)
	assert.Equal(t, KindForbidden, KindOf(err))
}

func TestUpdateStatusCitizenForbidden(t *testing.T) {
	store := newMemStore()
	c := store.addComplaint(models.Complaint{CitizenID: 7, Status: models.StatusNew})
	svc, _, _ := newTestService(store)

	_, err := svc.UpdateStatus(c.ID, models.StatusAccepted, citizenActor, "")
	require.Error(t, err)
	assert.Equal(t, KindForbidden, KindOf(err))
}

func TestUpdatePriorityAppendsAuditWithoutNotification(t *testing.T) {
	store := newMemStore()
	c := store.addComplaint(models.Complaint{CitizenID: 7, Status: models.StatusNew, Priority: models.PriorityMedium})
	svc, notifier, _ := newTestService(store)

	updated, err := svc.UpdatePriority(c.ID, models.PriorityUrgent, adminActor)
	require.NoError(t, err)
	assert.Equal(t, models.PriorityUrgent, updated.Priority)

	actions, _ := store.ActionsForComplaint(c.ID)
	require.Len(t, actions, 1)
	assert.Equal(t, models.ActionPriorityChange, actions[0].Type)
	assert.Equal(t, "medium", actions[0].OldValue)
	assert.Equal(t, "urgent", actions[0].NewValue)
	assert.Empty(t, notifier.sent)
}

func TestCloseRequiresResolvedStatus(t *testing.T) {
	store := newMemStore()
	deputy := uint(3)
	store.addDeputy(deputy)
	c := store.addComplaint(models.Complaint{CitizenID: 7, Status: models.StatusInProgress, AssignedDeputyID: &deputy})
	svc, _, _ := newTestService(store)

	_, err := svc.Close(c.ID, adminActor)
	require.Error(t, err)
	assert.Equal(t, KindPrecondition, KindOf(err))

	got, _ := store.ComplaintByID(c.ID)
	assert.Equal(t, models.StatusInProgress, got.Status)
	assert.Equal(t, 0, store.profiles[deputy].Points)
	actions, _ := store.ActionsForComplaint(c.ID)
	assert.Empty(t, actions)
}

func TestCloseRequiresAssignedDeputy(t *testing.T) {
	store := newMemStore()
	c := store.addComplaint(models.Complaint{CitizenID: 7, Status: models.StatusResolved})
	svc, _, _ := newTestService(store)

	_, err := svc.Close(c.ID, adminActor)
	require.Error(t, err)
	assert.Equal(t, KindPrecondition, KindOf(err))

	got, _ := store.ComplaintByID(c.ID)
	assert.Equal(t, models.StatusResolved, got.Status)
}

func TestCloseAwardsTenPointsExactlyOnce(t *testing.T) {
	store := newMemStore()
	deputy := uint(3)
	store.addDeputy(deputy)
	c := store.addComplaint(models.Complaint{CitizenID: 7, Status: models.StatusResolved, AssignedDeputyID: &deputy})
	svc, notifier, _ := newTestService(store)

	res, err := svc.Close(c.ID, adminActor)
	require.NoError(t, err)
	assert.Empty(t, res.Warning)
	assert.Equal(t, models.StatusClosed, res.Complaint.Status)
	assert.Equal(t, 10, store.profiles[deputy].Points)

	actions, _ := store.ActionsForComplaint(c.ID)
	require.Len(t, actions, 1)
	assert.Equal(t, models.ActionResolution, actions[0].Type)
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, uint(7), notifier.sent[0].UserID)

	// A second close fails the precondition and never re-credits.
	_, err = svc.Close(c.ID, adminActor)
	require.Error(t, err)
	assert.Equal(t, KindPrecondition, KindOf(err))
	assert.Equal(t, 10, store.profiles[deputy].Points)
}

func TestClosePointCreditFailureIsNonFatal(t *testing.T) {
	store := newMemStore()
	deputy := uint(3)
	store.addDeputy(deputy)
	store.failCredit = true
	c := store.addComplaint(models.Complaint{CitizenID: 7, Status: models.StatusResolved, AssignedDeputyID: &deputy})
	svc, _, _ := newTestService(store)

	res, err := svc.Close(c.ID, adminActor)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Warning)
	assert.Equal(t, models.StatusClosed, res.Complaint.Status)
	assert.Equal(t, 0, store.profiles[deputy].Points)
}

func TestAssignRecordsOldAndNewDeputy(t *testing.T) {
	store := newMemStore()
	store.addDeputy(3)
	store.addDeputy(4)
	c := store.addComplaint(models.Complaint{CitizenID: 7, Status: models.StatusNew})
	svc, notifier, _ := newTestService(store)

	_, err := svc.Assign(c.ID, 3, adminActor)
	require.NoError(t, err)
	updated, err := svc.Assign(c.ID, 4, adminActor)
	require.NoError(t, err)
	assert.Equal(t, uint(4), *updated.AssignedDeputyID)

	actions, _ := store.ActionsForComplaint(c.ID)
	require.Len(t, actions, 2)
	assert.Equal(t, models.ActionAssignment, actions[0].Type)
	assert.Equal(t, "", actions[0].OldValue)
	assert.Equal(t, "3", actions[0].NewValue)
	assert.Equal(t, "3", actions[1].OldValue)
	assert.Equal(t, "4", actions[1].NewValue)

	// Both deputies were told.
	require.Len(t, notifier.sent, 2)
	assert.Equal(t, uint(3), notifier.sent[0].UserID)
	assert.Equal(t, uint(4), notifier.sent[1].UserID)
}

func TestAssignRejectsUnknownDeputy(t *testing.T) {
	store := newMemStore()
	c := store.addComplaint(models.Complaint{CitizenID: 7, Status: models.StatusNew})
	svc, _, _ := newTestService(store)

	_, err := svc.Assign(c.ID, 55, adminActor)
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestManagerNeedsPermissionFlag(t *testing.T) {
	store := newMemStore()
	store.addDeputy(3)
	c := store.addComplaint(models.Complaint{CitizenID: 7, Status: models.StatusNew})
	svc, _, _ := newTestService(store)

	manager := identity.Actor{UserID: 9, Roles: []models.Role{models.RoleManager}}

	// No permission row at all.
	_, err := svc.Assign(c.ID, 3, manager)
	require.Error(t, err)
	assert.Equal(t, KindForbidden, KindOf(err))

	// Row present but flag off.
	store.perms[9] = &models.ManagerPermission{UserID: 9, CanClose: true}
	_, err = svc.Assign(c.ID, 3, manager)
	require.Error(t, err)
	assert.Equal(t, KindForbidden, KindOf(err))

	// Flag on.
	store.perms[9].CanAssign = true
	_, err = svc.Assign(c.ID, 3, manager)
	assert.NoError(t, err)
}

func TestArchiveHidesComplaintFromMutation(t *testing.T) {
	store := newMemStore()
	c := store.addComplaint(models.Complaint{CitizenID: 7, Status: models.StatusNew})
	svc, _, _ := newTestService(store)

	archived, err := svc.Archive(c.ID, true, adminActor)
	require.NoError(t, err)
	assert.True(t, archived.Archived)

	_, err = svc.UpdateStatus(c.ID, models.StatusAccepted, adminActor, "")
	require.Error(t, err)
	assert.Equal(t, KindPrecondition, KindOf(err))
}

// Full lifecycle: submit → assign → work → resolve → close. Mirrors the path a
// real complaint takes through the three roles.
func TestComplaintLifecycleScenario(t *testing.T) {
	store := newMemStore()
	deputy := uint(3)
	store.addDeputy(deputy)
	c := store.addComplaint(models.Complaint{CitizenID: 7, Status: models.StatusNew, Title: "تراكم القمامة"})
	svc, _, _ := newTestService(store)

	_, err := svc.Assign(c.ID, deputy, adminActor)
	require.NoError(t, err)

	d := deputyActor(deputy)
	for _, next := range []models.ComplaintStatus{models.StatusAccepted, models.StatusInProgress, models.StatusResolved} {
		_, err = svc.UpdateStatus(c.ID, next, d, "")
		require.NoError(t, err)
	}

	res, err := svc.Close(c.ID, adminActor)
	require.NoError(t, err)
	assert.Equal(t, models.StatusClosed, res.Complaint.Status)
	assert.Equal(t, 10, store.profiles[deputy].Points)

	actions, _ := store.ActionsForComplaint(c.ID)
	var assigns, statusChanges, resolutions int
	for _, a := range actions {
		switch a.Type {
		case models.ActionAssignment:
			assigns++
		case models.ActionStatusChange:
			statusChanges++
		case models.ActionResolution:
			resolutions++
		}
	}
	assert.Equal(t, 1, assigns)
	assert.Equal(t, 3, statusChanges)
	assert.Equal(t, 1, resolutions)

	got, _ := store.ComplaintByID(c.ID)
	assert.False(t, got.IsPublic(), "complaint without opt-in must stay private")
	assert.NotNil(t, got.ResolvedAt)
}
