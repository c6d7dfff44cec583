package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pawprint-social/backend/internal/cache"
	"github.com/pawprint-social/backend/internal/models"
	"github.com/pawprint-social/backend/internal/repositories"
)

type FollowService interface {
	// Follow creates the edge actor -> targetPetID. A repeated follow is a
	// successful no-op and reports created=false.
	Follow(ctx context.Context, actor models.Actor, targetPetID uuid.UUID) (created bool, err error)
	Unfollow(ctx context.Context, actor models.Actor, targetPetID uuid.UUID) error
	IsFollowing(ctx context.Context, actor models.Actor, targetPetID uuid.UUID) (bool, error)
	Followers(ctx context.Context, petID uuid.UUID) ([]models.Actor, error)
	Following(ctx context.Context, actor models.Actor) ([]uuid.UUID, error)
	Counts(ctx context.Context, petID uuid.UUID) (*models.FollowCounts, error)
}

type followService struct {
	followRepo    repositories.FollowRepository
	petRepo       repositories.PetRepository
	resolver      ActorResolver
	notifications NotificationService
	stories       cache.StoryRingCache
}

func NewFollowService(
	followRepo repositories.FollowRepository,
	petRepo repositories.PetRepository,
	resolver ActorResolver,
	notifications NotificationService,
	stories cache.StoryRingCache,
) FollowService {
	if stories == nil {
		stories = cache.NopStoryRingCache{}
	}
	return &followService{
		followRepo:    followRepo,
		petRepo:       petRepo,
		resolver:      resolver,
		notifications: notifications,
		stories:       stories,
	}
}

func (s *followService) Follow(ctx context.Context, actor models.Actor, targetPetID uuid.UUID) (bool, error) {
	target, err := s.petRepo.GetPetByID(ctx, targetPetID)
	if err != nil {
		return false, err
	}
	account, err := s.resolver.OwnerOf(ctx, actor)
	if err != nil {
		return false, err
	}
	if target.OwnerUserID == account {
		return false, models.ErrSelfFollow
	}

	created, err := s.followRepo.CreateFollow(ctx, models.NewFollow(actor, targetPetID))
	if err != nil {
		return false, err
	}
	s.stories.Invalidate(ctx, actor)
	if !created {
		return false, nil
	}

	name := s.resolver.DisplayName(ctx, actor)
	s.notifications.Dispatch(ctx, Notice{
		Owner:   models.PetActor(target.ID),
		Type:    models.NotificationFollow,
		Message: fmt.Sprintf("%s started following you", name),
		Related: actor,
	})
	return true, nil
}

func (s *followService) Unfollow(ctx context.Context, actor models.Actor, targetPetID uuid.UUID) error {
	if err := s.followRepo.DeleteFollow(ctx, actor, targetPetID); err != nil {
		return err
	}
	s.stories.Invalidate(ctx, actor)
	return nil
}

func (s *followService) IsFollowing(ctx context.Context, actor models.Actor, targetPetID uuid.UUID) (bool, error) {
	return s.followRepo.IsFollowing(ctx, actor, targetPetID)
}

func (s *followService) Followers(ctx context.Context, petID uuid.UUID) ([]models.Actor, error) {
	if _, err := s.petRepo.GetPetByID(ctx, petID); err != nil {
		return nil, err
	}
	return s.followRepo.GetFollowers(ctx, petID)
}

func (s *followService) Following(ctx context.Context, actor models.Actor) ([]uuid.UUID, error) {
	return s.followRepo.GetFollowingPetIDs(ctx, actor)
}

func (s *followService) Counts(ctx context.Context, petID uuid.UUID) (*models.FollowCounts, error) {
	if _, err := s.petRepo.GetPetByID(ctx, petID); err != nil {
		return nil, err
	}
	followers, err := s.followRepo.GetFollowersCount(ctx, petID)
	if err != nil {
		return nil, err
	}
	following, err := s.followRepo.GetFollowingCount(ctx, models.PetActor(petID))
	if err != nil {
		return nil, err
	}
	return &models.FollowCounts{Followers: followers, Following: following}, nil
}
