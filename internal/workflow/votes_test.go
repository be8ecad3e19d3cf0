package workflow

import (
	"testing"

	"naebak/internal/identity"
	"naebak/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleVotePairReturnsToOriginalState(t *testing.T) {
	store := newMemStore()
	c := store.addComplaint(models.Complaint{CitizenID: 7, Status: models.StatusNew})
	svc, _, _ := newTestService(store)

	anon := identity.Anonymous("1.2.3.4")

	first, err := svc.ToggleVote(c.ID, models.VoteUp, anon)
	require.NoError(t, err)
	assert.True(t, first.Voted)
	assert.Equal(t, int64(1), first.Upvotes)

	second, err := svc.ToggleVote(c.ID, models.VoteUp, anon)
	require.NoError(t, err)
	assert.False(t, second.Voted)
	assert.Equal(t, int64(0), second.Upvotes)

	// Third toggle recreates the row.
	third, err := svc.ToggleVote(c.ID, models.VoteUp, anon)
	require.NoError(t, err)
	assert.True(t, third.Voted)
	assert.Equal(t, int64(1), third.Upvotes)
}

func TestToggleVoteKindsAreMutuallyExclusive(t *testing.T) {
	store := newMemStore()
	c := store.addComplaint(models.Complaint{CitizenID: 7, Status: models.StatusNew})
	svc, _, _ := newTestService(store)

	actor := identity.Actor{UserID: 5, Roles: []models.Role{models.RoleCitizen}}

	up, err := svc.ToggleVote(c.ID, models.VoteUp, actor)
	require.NoError(t, err)
	assert.Equal(t, int64(1), up.Upvotes)
	assert.Equal(t, int64(0), up.Downvotes)

	// Switching sides removes the upvote in the same operation.
	down, err := svc.ToggleVote(c.ID, models.VoteDown, actor)
	require.NoError(t, err)
	assert.True(t, down.Voted)
	assert.Equal(t, int64(0), down.Upvotes)
	assert.Equal(t, int64(1), down.Downvotes)
}

func TestToggleVoteCountsAreIndependentPerActor(t *testing.T) {
	store := newMemStore()
	c := store.addComplaint(models.Complaint{CitizenID: 7, Status: models.StatusNew})
	svc, _, _ := newTestService(store)

	_, err := svc.ToggleVote(c.ID, models.VoteUp, identity.Anonymous("1.2.3.4"))
	require.NoError(t, err)
	res, err := svc.ToggleVote(c.ID, models.VoteUp, identity.Anonymous("5.6.7.8"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Upvotes)

	// Same IP again is the same actor: un-vote, not a third vote.
	res, err = svc.ToggleVote(c.ID, models.VoteUp, identity.Anonymous("1.2.3.4"))
	require.NoError(t, err)
	assert.False(t, res.Voted)
	assert.Equal(t, int64(1), res.Upvotes)
}

func TestToggleVotePersistsCountersOnComplaint(t *testing.T) {
	store := newMemStore()
	c := store.addComplaint(models.Complaint{CitizenID: 7, Status: models.StatusNew})
	svc, _, _ := newTestService(store)

	_, err := svc.ToggleVote(c.ID, models.VoteUp, identity.Anonymous("1.2.3.4"))
	require.NoError(t, err)
	got, _ := store.ComplaintByID(c.ID)
	assert.Equal(t, 1, got.Upvotes)
	assert.Equal(t, 0, got.Downvotes)
}

func TestToggleVoteRejectsBadKindAndArchived(t *testing.T) {
	store := newMemStore()
	c := store.addComplaint(models.Complaint{CitizenID: 7, Status: models.StatusNew, Archived: true})
	svc, _, _ := newTestService(store)

	_, err := svc.ToggleVote(c.ID, models.VoteKind("sideways"), identity.Anonymous("1.2.3.4"))
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = svc.ToggleVote(c.ID, models.VoteUp, identity.Anonymous("1.2.3.4"))
	require.Error(t, err)
	assert.Equal(t, KindPrecondition, KindOf(err))
}
