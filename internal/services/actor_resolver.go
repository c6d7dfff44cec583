package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pawprint-social/backend/internal/models"
	"github.com/pawprint-social/backend/internal/repositories"
)

// ActorResolver decides who is acting for a signed-in account. Every other
// service receives the resolved Actor instead of reading session state.
type ActorResolver interface {
	Resolve(ctx context.Context, user *models.User) (models.Actor, error)
	// OwnerOf returns the account behind an actor
	OwnerOf(ctx context.Context, actor models.Actor) (uuid.UUID, error)
	SelectPet(ctx context.Context, user *models.User, petID uuid.UUID) (models.Actor, error)
	// Exists reports ErrNotFound when the actor does not refer to a live
	// pet or professional account
	Exists(ctx context.Context, actor models.Actor) error
	DisplayName(ctx context.Context, actor models.Actor) string
}

type actorResolver struct {
	userRepo repositories.UserRepository
	petRepo  repositories.PetRepository
}

func NewActorResolver(userRepo repositories.UserRepository, petRepo repositories.PetRepository) ActorResolver {
	return &actorResolver{userRepo: userRepo, petRepo: petRepo}
}

func (r *actorResolver) Resolve(ctx context.Context, user *models.User) (models.Actor, error) {
	if user == nil {
		return models.Actor{}, models.ErrNoActor
	}
	if user.IsProfessional() {
		return models.ProfessionalActor(user.ID), nil
	}

	if user.SelectedPetID != nil {
		pet, err := r.petRepo.GetPetByID(ctx, *user.SelectedPetID)
		switch {
		case err == nil && pet.OwnerUserID == user.ID:
			return models.PetActor(pet.ID), nil
		case err != nil && !errors.Is(err, models.ErrNotFound):
			return models.Actor{}, err
		}
	}

	pets, err := r.petRepo.ListByOwner(ctx, user.ID)
	if err != nil {
		return models.Actor{}, err
	}
	if len(pets) == 0 {
		return models.Actor{}, models.ErrNoActor
	}
	return models.PetActor(pets[0].ID), nil
}

func (r *actorResolver) OwnerOf(ctx context.Context, actor models.Actor) (uuid.UUID, error) {
	switch actor.Kind {
	case models.ActorProfessional:
		return actor.ID, nil
	case models.ActorPet:
		pet, err := r.petRepo.GetPetByID(ctx, actor.ID)
		if err != nil {
			return uuid.Nil, err
		}
		return pet.OwnerUserID, nil
	}
	return uuid.Nil, models.Invalid("actor", fmt.Sprintf("unknown kind %q", actor.Kind))
}

func (r *actorResolver) SelectPet(ctx context.Context, user *models.User, petID uuid.UUID) (models.Actor, error) {
	if user.IsProfessional() {
		return models.Actor{}, fmt.Errorf("professional accounts act as themselves: %w", models.ErrForbidden)
	}
	pet, err := r.petRepo.GetPetByID(ctx, petID)
	if err != nil {
		return models.Actor{}, err
	}
	if pet.OwnerUserID != user.ID {
		return models.Actor{}, fmt.Errorf("pet %s: %w", petID, models.ErrForbidden)
	}
	if err := r.userRepo.SetSelectedPet(ctx, user.ID, &pet.ID); err != nil {
		return models.Actor{}, err
	}
	user.SelectedPetID = &pet.ID
	return models.PetActor(pet.ID), nil
}

func (r *actorResolver) Exists(ctx context.Context, actor models.Actor) error {
	switch actor.Kind {
	case models.ActorPet:
		_, err := r.petRepo.GetPetByID(ctx, actor.ID)
		return err
	case models.ActorProfessional:
		user, err := r.userRepo.GetUserByID(ctx, actor.ID)
		if err != nil {
			return err
		}
		if !user.IsProfessional() {
			return fmt.Errorf("professional %s: %w", actor.ID, models.ErrNotFound)
		}
		return nil
	}
	return models.Invalid("actor", fmt.Sprintf("unknown kind %q", actor.Kind))
}

// DisplayName is best effort; it falls back to a generic label
func (r *actorResolver) DisplayName(ctx context.Context, actor models.Actor) string {
	switch actor.Kind {
	case models.ActorPet:
		if pet, err := r.petRepo.GetPetByID(ctx, actor.ID); err == nil {
			return pet.Name
		}
		return "A pet"
	case models.ActorProfessional:
		if user, err := r.userRepo.GetUserByID(ctx, actor.ID); err == nil && user.DisplayName != "" {
			return user.DisplayName
		}
		return "A professional"
	}
	return "Someone"
}
