package workflow

import (
	"testing"

	"naebak/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectiveVisibilityTruthTable(t *testing.T) {
	cases := []struct {
		requested, approved, forced bool
		want                        bool
	}{
		{false, false, false, false},
		{true, false, false, false},
		{false, true, false, false},
		{true, true, false, true},
		{false, false, true, true},
		{true, false, true, true},
		{false, true, true, true},
		{true, true, true, true},
	}
	for _, tc := range cases {
		c := models.Complaint{
			CitizenRequestedPublic: tc.requested,
			AdminApprovedPublic:    tc.approved,
			AdminForcedPublic:      tc.forced,
		}
		assert.Equal(t, tc.want, c.IsPublic(),
			"requested=%v approved=%v forced=%v", tc.requested, tc.approved, tc.forced)
	}
}

func TestApproveForPublicRequiresCitizenOptIn(t *testing.T) {
	store := newMemStore()
	c := store.addComplaint(models.Complaint{CitizenID: 7, CitizenRequestedPublic: false})
	svc, _, _ := newTestService(store)

	_, err := svc.ApproveForPublic(c.ID, true, adminActor)
	require.Error(t, err)
	assert.Equal(t, KindPrecondition, KindOf(err))

	// No row mutation happened.
	got, _ := store.ComplaintByID(c.ID)
	assert.False(t, got.AdminApprovedPublic)
}

func TestApproveForPublicSetsFlagAndNotifies(t *testing.T) {
	store := newMemStore()
	c := store.addComplaint(models.Complaint{CitizenID: 7, CitizenRequestedPublic: true})
	svc, notifier, _ := newTestService(store)

	res, err := svc.ApproveForPublic(c.ID, true, adminActor)
	require.NoError(t, err)
	assert.True(t, res.EffectivePublic)
	assert.False(t, res.ConsentMissing)
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, models.NotificationPublish, notifier.sent[0].Type)

	// Revoking approval hides it again, silently.
	res, err = svc.ApproveForPublic(c.ID, false, adminActor)
	require.NoError(t, err)
	assert.False(t, res.EffectivePublic)
	assert.Len(t, notifier.sent, 1)
}

func TestForcePublicFlagsMissingConsent(t *testing.T) {
	store := newMemStore()
	c := store.addComplaint(models.Complaint{CitizenID: 7, CitizenRequestedPublic: false})
	svc, _, _ := newTestService(store)

	res, err := svc.ForcePublic(c.ID, true, adminActor)
	require.NoError(t, err)
	assert.True(t, res.EffectivePublic)
	assert.True(t, res.ConsentMissing, "forcing without opt-in must carry the consent warning")

	// With opt-in there is nothing to warn about.
	c2 := store.addComplaint(models.Complaint{CitizenID: 7, CitizenRequestedPublic: true})
	res, err = svc.ForcePublic(c2.ID, true, adminActor)
	require.NoError(t, err)
	assert.False(t, res.ConsentMissing)

	// Lifting the override never warns.
	res, err = svc.ForcePublic(c.ID, false, adminActor)
	require.NoError(t, err)
	assert.False(t, res.EffectivePublic)
	assert.False(t, res.ConsentMissing)
}

func TestVisibilityOpsRequireStaff(t *testing.T) {
	store := newMemStore()
	c := store.addComplaint(models.Complaint{CitizenID: 7, CitizenRequestedPublic: true})
	svc, _, _ := newTestService(store)

	_, err := svc.ApproveForPublic(c.ID, true, citizenActor)
	assert.Equal(t, KindForbidden, KindOf(err))
	_, err = svc.ForcePublic(c.ID, true, deputyActor(3))
	assert.Equal(t, KindForbidden, KindOf(err))
}
