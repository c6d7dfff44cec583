package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pawprint-social/backend/internal/cache"
	"github.com/pawprint-social/backend/internal/models"
	"github.com/pawprint-social/backend/internal/repositories"
)

const (
	DefaultStoryTTL       = 24 * time.Hour
	DefaultStoryRingLimit = 50
)

type StoryConfig struct {
	TTL       time.Duration
	RingLimit int
	// Now defaults to time.Now
	Now func() time.Time
}

type StoryService interface {
	CreateStory(ctx context.Context, actor models.Actor, req models.CreateStoryRequest) (*models.Post, error)
	// VisibleStoriesFor returns the latest unexpired story per pet: the pet
	// and the pets it follows, or the most recent pets overall for a
	// professional.
	VisibleStoriesFor(ctx context.Context, actor models.Actor) ([]models.StoryRingItem, error)
	// RecordView stores the view once per viewer. Views by the author are
	// not recorded.
	RecordView(ctx context.Context, viewer models.Actor, storyID uuid.UUID) (recorded bool, err error)
	ViewCount(ctx context.Context, actor models.Actor, storyID uuid.UUID, onlyProfessional bool) (int64, error)
	ViewSummary(ctx context.Context, actor models.Actor, storyID uuid.UUID) (*models.StoryViewCount, error)
	Viewers(ctx context.Context, actor models.Actor, storyID uuid.UUID) ([]models.Actor, error)
}

type storyService struct {
	postRepo   repositories.PostRepository
	petRepo    repositories.PetRepository
	followRepo repositories.FollowRepository
	viewRepo   repositories.StoryViewRepository
	cache      cache.StoryRingCache
	cfg        StoryConfig
}

func NewStoryService(
	postRepo repositories.PostRepository,
	petRepo repositories.PetRepository,
	followRepo repositories.FollowRepository,
	viewRepo repositories.StoryViewRepository,
	ringCache cache.StoryRingCache,
	cfg StoryConfig,
) StoryService {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultStoryTTL
	}
	if cfg.RingLimit <= 0 {
		cfg.RingLimit = DefaultStoryRingLimit
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if ringCache == nil {
		ringCache = cache.NopStoryRingCache{}
	}
	return &storyService{
		postRepo:   postRepo,
		petRepo:    petRepo,
		followRepo: followRepo,
		viewRepo:   viewRepo,
		cache:      ringCache,
		cfg:        cfg,
	}
}

func (s *storyService) CreateStory(ctx context.Context, actor models.Actor, req models.CreateStoryRequest) (*models.Post, error) {
	if !actor.IsPet() {
		return nil, models.Invalid("actor", "only pets can post stories")
	}
	if strings.TrimSpace(req.MediaURL) == "" {
		return nil, models.Invalid("media_url", "is required")
	}

	now := s.cfg.Now()
	expiresAt := now.Add(s.cfg.TTL)
	story := &models.Post{
		PetID:       actor.ID,
		Type:        models.PostTypeStory,
		Description: strings.TrimSpace(req.Description),
		MediaURL:    req.MediaURL,
		CreatedAt:   now,
		ExpiresAt:   &expiresAt,
	}
	if err := s.postRepo.CreatePost(ctx, story); err != nil {
		return nil, err
	}
	invalidateRings(ctx, s.cache, storyAudience(ctx, s.followRepo, actor.ID))
	return story, nil
}

// storyAudience lists the actors whose ring can show petID's stories: the
// pet and its followers. Professionals see every pet and are handled by
// invalidateRings. A failed follower lookup leaves followers to the cache TTL.
func storyAudience(ctx context.Context, follows repositories.FollowRepository, petID uuid.UUID) []models.Actor {
	audience := []models.Actor{models.PetActor(petID)}
	followers, err := follows.GetFollowers(ctx, petID)
	if err != nil {
		return audience
	}
	return append(audience, followers...)
}

func invalidateRings(ctx context.Context, rings cache.StoryRingCache, audience []models.Actor) {
	rings.Invalidate(ctx, audience...)
	rings.InvalidateKind(ctx, models.ActorProfessional)
}

func (s *storyService) VisibleStoriesFor(ctx context.Context, actor models.Actor) ([]models.StoryRingItem, error) {
	now := s.cfg.Now()
	if ring, ok := s.cache.Get(ctx, actor); ok {
		return unexpired(ring, now), nil
	}

	var (
		stories []models.Post
		err     error
	)
	if actor.IsProfessional() {
		stories, err = s.postRepo.GetLatestActiveStories(ctx, nil, now, s.cfg.RingLimit)
	} else {
		var ids []uuid.UUID
		ids, err = s.followRepo.GetFollowingPetIDs(ctx, actor)
		if err != nil {
			return nil, err
		}
		ids = append(ids, actor.ID)
		stories, err = s.postRepo.GetLatestActiveStories(ctx, ids, now, 0)
	}
	if err != nil {
		return nil, err
	}

	authorIDs := make([]uuid.UUID, 0, len(stories))
	for _, st := range stories {
		authorIDs = append(authorIDs, st.PetID)
	}
	authors, err := s.petRepo.GetPetsByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	ring := make([]models.StoryRingItem, 0, len(stories))
	for _, st := range stories {
		author, ok := authors[st.PetID]
		if !ok {
			continue
		}
		ring = append(ring, models.StoryRingItem{Story: st, Author: author.ToCompact()})
	}
	s.cache.Set(ctx, actor, ring)
	return ring, nil
}

func (s *storyService) RecordView(ctx context.Context, viewer models.Actor, storyID uuid.UUID) (bool, error) {
	story, err := s.activeStory(ctx, storyID)
	if err != nil {
		return false, err
	}
	if viewer == models.PetActor(story.PetID) {
		return false, nil
	}
	return s.viewRepo.RecordView(ctx, models.NewStoryView(story.ID, viewer))
}

func (s *storyService) ViewCount(ctx context.Context, actor models.Actor, storyID uuid.UUID, onlyProfessional bool) (int64, error) {
	if _, err := s.authoredStory(ctx, actor, storyID); err != nil {
		return 0, err
	}
	return s.viewRepo.CountViews(ctx, storyID, onlyProfessional)
}

func (s *storyService) ViewSummary(ctx context.Context, actor models.Actor, storyID uuid.UUID) (*models.StoryViewCount, error) {
	total, err := s.ViewCount(ctx, actor, storyID, false)
	if err != nil {
		return nil, err
	}
	professionals, err := s.viewRepo.CountViews(ctx, storyID, true)
	if err != nil {
		return nil, err
	}
	return &models.StoryViewCount{StoryID: storyID, Total: total, Professionals: professionals}, nil
}

func (s *storyService) Viewers(ctx context.Context, actor models.Actor, storyID uuid.UUID) ([]models.Actor, error) {
	if _, err := s.authoredStory(ctx, actor, storyID); err != nil {
		return nil, err
	}
	views, err := s.viewRepo.GetViews(ctx, storyID)
	if err != nil {
		return nil, err
	}
	viewers := make([]models.Actor, 0, len(views))
	for _, v := range views {
		viewers = append(viewers, v.Viewer())
	}
	return viewers, nil
}

func (s *storyService) activeStory(ctx context.Context, storyID uuid.UUID) (*models.Post, error) {
	story, err := s.postRepo.GetPostByID(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if !story.IsStory() {
		return nil, fmt.Errorf("story %s: %w", storyID, models.ErrNotFound)
	}
	if story.Expired(s.cfg.Now()) {
		return nil, fmt.Errorf("story %s: %w", storyID, models.ErrExpired)
	}
	return story, nil
}

// authoredStory loads a story, expired or not, that actor posted
func (s *storyService) authoredStory(ctx context.Context, actor models.Actor, storyID uuid.UUID) (*models.Post, error) {
	story, err := s.postRepo.GetPostByID(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if !story.IsStory() {
		return nil, fmt.Errorf("story %s: %w", storyID, models.ErrNotFound)
	}
	if actor != models.PetActor(story.PetID) {
		return nil, fmt.Errorf("story %s: %w", storyID, models.ErrForbidden)
	}
	return story, nil
}

// unexpired drops entries that lapsed while the ring sat in cache
func unexpired(ring []models.StoryRingItem, now time.Time) []models.StoryRingItem {
	out := make([]models.StoryRingItem, 0, len(ring))
	for _, item := range ring {
		if !item.Story.Expired(now) {
			out = append(out, item)
		}
	}
	return out
}
