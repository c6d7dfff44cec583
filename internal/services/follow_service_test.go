package services_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/pawprint-social/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowOwnAccountsPetIsRejected(t *testing.T) {
	f := newFixture(t)
	u := f.guardian("ana")
	rex := f.pet(u, "Rex")
	milo := f.pet(u, "Milo")

	for _, target := range []models.Actor{rex, milo} {
		_, err := f.svc.Follows.Follow(f.ctx, rex, target.ID)
		assert.ErrorIs(t, err, models.ErrValidation)
		assert.ErrorIs(t, err, models.ErrSelfFollow)
	}

	following, err := f.svc.Follows.Following(f.ctx, rex)
	require.NoError(t, err)
	assert.Empty(t, following)
}

func TestProfessionalCannotFollowPetOwnedByItsAccount(t *testing.T) {
	f := newFixture(t)
	pro := f.professional("Dr. Vet")
	// professionals cannot register pets through the service; seed the row
	pet := &models.Pet{OwnerUserID: pro.ID, Name: "Clinic Cat"}
	require.NoError(t, f.repos.Pet.CreatePet(f.ctx, pet))

	_, err := f.svc.Follows.Follow(f.ctx, pro, pet.ID)
	assert.ErrorIs(t, err, models.ErrSelfFollow)
}

func TestFollowTwiceKeepsOneEdgeAndOneNotification(t *testing.T) {
	f := newFixture(t)
	rex := f.pet(f.guardian("ana"), "Rex")
	bolt := f.pet(f.guardian("ben"), "Bolt")

	created, err := f.svc.Follows.Follow(f.ctx, rex, bolt.ID)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = f.svc.Follows.Follow(f.ctx, rex, bolt.ID)
	require.NoError(t, err)
	assert.False(t, created)

	followers, err := f.svc.Follows.Followers(f.ctx, bolt.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.Actor{rex}, followers)

	notes := f.notificationsFor(bolt)
	require.Len(t, notes, 1)
	assert.Equal(t, models.NotificationFollow, notes[0].Type)
	assert.Equal(t, rex, notes[0].Related())
	assert.Equal(t, "Rex started following you", notes[0].Message)
}

func TestPetAndProfessionalFollowsAreDistinctEdges(t *testing.T) {
	f := newFixture(t)
	rex := f.pet(f.guardian("ana"), "Rex")
	pro := f.professional("Dr. Vet")
	bolt := f.pet(f.guardian("ben"), "Bolt")

	_, err := f.svc.Follows.Follow(f.ctx, rex, bolt.ID)
	require.NoError(t, err)
	_, err = f.svc.Follows.Follow(f.ctx, pro, bolt.ID)
	require.NoError(t, err)

	counts, err := f.svc.Follows.Counts(f.ctx, bolt.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts.Followers)
	assert.Equal(t, int64(0), counts.Following)

	counts, err = f.svc.Follows.Counts(f.ctx, rex.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts.Following)
}

func TestUnfollow(t *testing.T) {
	f := newFixture(t)
	rex := f.pet(f.guardian("ana"), "Rex")
	bolt := f.pet(f.guardian("ben"), "Bolt")

	// absent edge is a no-op
	require.NoError(t, f.svc.Follows.Unfollow(f.ctx, rex, bolt.ID))

	_, err := f.svc.Follows.Follow(f.ctx, rex, bolt.ID)
	require.NoError(t, err)
	require.NoError(t, f.svc.Follows.Unfollow(f.ctx, rex, bolt.ID))

	following, err := f.svc.Follows.IsFollowing(f.ctx, rex, bolt.ID)
	require.NoError(t, err)
	assert.False(t, following)
}

func TestFollowMissingPet(t *testing.T) {
	f := newFixture(t)
	rex := f.pet(f.guardian("ana"), "Rex")

	_, err := f.svc.Follows.Follow(f.ctx, rex, uuid.New())
	assert.ErrorIs(t, err, models.ErrNotFound)
}
