package services_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/pawprint-social/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveProfessionalActsAsItself(t *testing.T) {
	f := newFixture(t)
	pro := f.account("Dr. Vet", models.AccountProfessional)

	actor, err := f.svc.Actors.Resolve(f.ctx, pro)
	require.NoError(t, err)
	assert.Equal(t, models.ProfessionalActor(pro.ID), actor)
}

func TestResolveGuardianWithoutPets(t *testing.T) {
	f := newFixture(t)
	u := f.guardian("ana")

	_, err := f.svc.Actors.Resolve(f.ctx, u)
	assert.ErrorIs(t, err, models.ErrNoActor)
}

func TestResolveDefaultsToFirstPet(t *testing.T) {
	f := newFixture(t)
	u := f.guardian("ana")
	first := f.pet(u, "Rex")
	f.pet(u, "Milo")

	actor, err := f.svc.Actors.Resolve(f.ctx, u)
	require.NoError(t, err)
	assert.Equal(t, first, actor)
}

func TestSelectPetSwitchesActor(t *testing.T) {
	f := newFixture(t)
	u := f.guardian("ana")
	f.pet(u, "Rex")
	milo := f.pet(u, "Milo")

	actor, err := f.svc.Actors.SelectPet(f.ctx, u, milo.ID)
	require.NoError(t, err)
	assert.Equal(t, milo, actor)

	reloaded, err := f.repos.User.GetUserByID(f.ctx, u.ID)
	require.NoError(t, err)
	actor, err = f.svc.Actors.Resolve(f.ctx, reloaded)
	require.NoError(t, err)
	assert.Equal(t, milo, actor)
}

func TestSelectPetRejectsOtherGuardiansPet(t *testing.T) {
	f := newFixture(t)
	ana := f.guardian("ana")
	ben := f.guardian("ben")
	bens := f.pet(ben, "Bolt")

	_, err := f.svc.Actors.SelectPet(f.ctx, ana, bens.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)

	_, err = f.svc.Actors.SelectPet(f.ctx, ana, uuid.New())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestResolveFallsBackWhenSelectedPetIsGone(t *testing.T) {
	f := newFixture(t)
	u := f.guardian("ana")
	rex := f.pet(u, "Rex")
	milo := f.pet(u, "Milo")
	_, err := f.svc.Actors.SelectPet(f.ctx, u, milo.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.Pets.Delete(f.ctx, u, milo.ID))

	actor, err := f.svc.Actors.Resolve(f.ctx, u)
	require.NoError(t, err)
	assert.Equal(t, rex, actor)
}

func TestOwnerOf(t *testing.T) {
	f := newFixture(t)
	u := f.guardian("ana")
	rex := f.pet(u, "Rex")
	pro := f.professional("Dr. Vet")

	owner, err := f.svc.Actors.OwnerOf(f.ctx, rex)
	require.NoError(t, err)
	assert.Equal(t, u.ID, owner)

	owner, err = f.svc.Actors.OwnerOf(f.ctx, pro)
	require.NoError(t, err)
	assert.Equal(t, pro.ID, owner)
}

func TestExistsRejectsGuardianPosingAsProfessional(t *testing.T) {
	f := newFixture(t)
	u := f.guardian("ana")

	err := f.svc.Actors.Exists(f.ctx, models.ProfessionalActor(u.ID))
	assert.ErrorIs(t, err, models.ErrNotFound)
}
