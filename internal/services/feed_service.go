package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pawprint-social/backend/internal/models"
	"github.com/pawprint-social/backend/internal/repositories"
)

const DefaultFeedPageSize = 50

type FeedService interface {
	// Feed returns posts by the pet and the pets it follows, or every post
	// for a professional, newest first. before pages backwards from the last
	// item of a previous page.
	Feed(ctx context.Context, actor models.Actor, before *models.FeedCursor) ([]models.FeedItem, error)
	CreatePost(ctx context.Context, actor models.Actor, req models.CreatePostRequest) (*models.Post, error)
	Post(ctx context.Context, actor models.Actor, postID uuid.UUID) (*models.FeedItem, error)
}

type feedService struct {
	postRepo     repositories.PostRepository
	petRepo      repositories.PetRepository
	followRepo   repositories.FollowRepository
	reactionRepo repositories.ReactionRepository
	commentRepo  repositories.CommentRepository
	pageSize     int
}

func NewFeedService(
	postRepo repositories.PostRepository,
	petRepo repositories.PetRepository,
	followRepo repositories.FollowRepository,
	reactionRepo repositories.ReactionRepository,
	commentRepo repositories.CommentRepository,
	pageSize int,
) FeedService {
	if pageSize <= 0 {
		pageSize = DefaultFeedPageSize
	}
	return &feedService{
		postRepo:     postRepo,
		petRepo:      petRepo,
		followRepo:   followRepo,
		reactionRepo: reactionRepo,
		commentRepo:  commentRepo,
		pageSize:     pageSize,
	}
}

func (s *feedService) Feed(ctx context.Context, actor models.Actor, before *models.FeedCursor) ([]models.FeedItem, error) {
	var (
		posts []models.Post
		err   error
	)
	if actor.IsProfessional() {
		posts, err = s.postRepo.GetAllPosts(ctx, before, s.pageSize)
	} else {
		var ids []uuid.UUID
		ids, err = s.followRepo.GetFollowingPetIDs(ctx, actor)
		if err != nil {
			return nil, err
		}
		ids = append(ids, actor.ID)
		posts, err = s.postRepo.GetPostsByPetIDs(ctx, ids, before, s.pageSize)
	}
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, actor, posts)
}

func (s *feedService) CreatePost(ctx context.Context, actor models.Actor, req models.CreatePostRequest) (*models.Post, error) {
	if !actor.IsPet() {
		return nil, models.Invalid("actor", "only pets can publish posts")
	}
	if strings.TrimSpace(req.MediaURL) == "" {
		return nil, models.Invalid("media_url", "is required")
	}
	post := &models.Post{
		PetID:       actor.ID,
		Type:        models.PostTypePost,
		Description: strings.TrimSpace(req.Description),
		MediaURL:    req.MediaURL,
	}
	if err := s.postRepo.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *feedService) Post(ctx context.Context, actor models.Actor, postID uuid.UUID) (*models.FeedItem, error) {
	post, err := s.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	items, err := s.enrich(ctx, actor, []models.Post{*post})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("post %s: %w", postID, models.ErrNotFound)
	}
	return &items[0], nil
}

// enrich attaches authors and ledger aggregates with one query per concern.
// Posts whose author vanished mid-request are skipped.
func (s *feedService) enrich(ctx context.Context, actor models.Actor, posts []models.Post) ([]models.FeedItem, error) {
	items := make([]models.FeedItem, 0, len(posts))
	if len(posts) == 0 {
		return items, nil
	}

	postIDs := make([]uuid.UUID, 0, len(posts))
	authorIDs := make([]uuid.UUID, 0, len(posts))
	for _, p := range posts {
		postIDs = append(postIDs, p.ID)
		authorIDs = append(authorIDs, p.PetID)
	}

	authors, err := s.petRepo.GetPetsByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	counts, err := s.reactionRepo.GetCountsByPostIDs(ctx, postIDs)
	if err != nil {
		return nil, err
	}
	mine, err := s.reactionRepo.GetMineByPostIDs(ctx, actor, postIDs)
	if err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.GetCountsByPostIDs(ctx, postIDs)
	if err != nil {
		return nil, err
	}

	for _, p := range posts {
		author, ok := authors[p.PetID]
		if !ok {
			continue
		}
		item := models.FeedItem{
			Post:         p,
			Author:       author.ToCompact(),
			Reactions:    counts[p.ID],
			CommentCount: comments[p.ID],
		}
		if item.Reactions == nil {
			item.Reactions = models.ReactionCounts{}
		}
		if t, ok := mine[p.ID]; ok {
			item.MyReaction = &t
		}
		items = append(items, item)
	}
	return items, nil
}
