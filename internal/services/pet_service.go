package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/pawprint-social/backend/internal/cache"
	"github.com/pawprint-social/backend/internal/models"
	"github.com/pawprint-social/backend/internal/repositories"
)

type PetService interface {
	Create(ctx context.Context, user *models.User, req models.CreatePetRequest) (*models.Pet, error)
	Get(ctx context.Context, petID uuid.UUID) (*models.Pet, error)
	ListMine(ctx context.Context, user *models.User) ([]models.Pet, error)
	// Delete removes the pet and everything that references it in one
	// transaction. Medical history is removed afterwards.
	Delete(ctx context.Context, user *models.User, petID uuid.UUID) error
}

type petService struct {
	petRepo    repositories.PetRepository
	followRepo repositories.FollowRepository
	healthRepo repositories.HealthRecordRepository
	stories    cache.StoryRingCache
	log        echo.Logger
}

func NewPetService(
	petRepo repositories.PetRepository,
	followRepo repositories.FollowRepository,
	healthRepo repositories.HealthRecordRepository,
	stories cache.StoryRingCache,
	logger echo.Logger,
) PetService {
	if stories == nil {
		stories = cache.NopStoryRingCache{}
	}
	return &petService{petRepo: petRepo, followRepo: followRepo, healthRepo: healthRepo, stories: stories, log: logger}
}

func (s *petService) Create(ctx context.Context, user *models.User, req models.CreatePetRequest) (*models.Pet, error) {
	if user.IsProfessional() {
		return nil, fmt.Errorf("professional accounts cannot own pets: %w", models.ErrForbidden)
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, models.Invalid("name", "is required")
	}

	guardianName := req.GuardianName
	if guardianName == "" {
		guardianName = user.DisplayName
	}
	pet := &models.Pet{
		OwnerUserID:    user.ID,
		Name:           name,
		Species:        strings.TrimSpace(req.Species),
		Breed:          strings.TrimSpace(req.Breed),
		Age:            req.Age,
		Bio:            req.Bio,
		AvatarURL:      req.AvatarURL,
		GuardianName:   guardianName,
		GuardianHandle: req.GuardianHandle,
	}
	if err := s.petRepo.CreatePet(ctx, pet); err != nil {
		return nil, err
	}
	return pet, nil
}

func (s *petService) Get(ctx context.Context, petID uuid.UUID) (*models.Pet, error) {
	return s.petRepo.GetPetByID(ctx, petID)
}

func (s *petService) ListMine(ctx context.Context, user *models.User) ([]models.Pet, error) {
	return s.petRepo.ListByOwner(ctx, user.ID)
}

func (s *petService) Delete(ctx context.Context, user *models.User, petID uuid.UUID) error {
	pet, err := s.petRepo.GetPetByID(ctx, petID)
	if err != nil {
		return err
	}
	if pet.OwnerUserID != user.ID {
		return fmt.Errorf("pet %s: %w", petID, models.ErrForbidden)
	}
	// followers are gone once the cascade commits
	audience := storyAudience(ctx, s.followRepo, petID)
	if err := s.petRepo.DeleteCascade(ctx, petID); err != nil {
		return err
	}

	invalidateRings(ctx, s.stories, audience)
	if err := s.healthRepo.DeleteRecordsByPetID(ctx, petID.String()); err != nil {
		s.log.Errorj(log.JSON{"event": "health_records_cleanup_failed", "pet_id": petID, "error": err.Error()})
	}
	s.log.Infoj(log.JSON{"event": "pet_deleted", "pet_id": petID, "owner_user_id": user.ID})
	return nil
}
