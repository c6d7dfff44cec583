package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/pawprint-social/backend/internal/models"
	"github.com/pawprint-social/backend/internal/repositories"
)

const (
	MaxCommentLength     = 500
	commentPreviewLength = 60
)

var reactionLabels = map[models.ReactionType]string{
	models.ReactionPaw:   "🐾",
	models.ReactionHug:   "🤗",
	models.ReactionTreat: "🦴",
}

// LedgerService records reactions and comments on posts
type LedgerService interface {
	// ToggleReaction adds t, removes it when it is already the actor's
	// reaction, or switches to it from another type.
	ToggleReaction(ctx context.Context, actor models.Actor, postID uuid.UUID, t models.ReactionType) (*models.ReactionSummary, error)
	Reactions(ctx context.Context, actor models.Actor, postID uuid.UUID) (*models.ReactionSummary, error)
	AddComment(ctx context.Context, actor models.Actor, postID uuid.UUID, text string) (*models.Comment, error)
	Comments(ctx context.Context, postID uuid.UUID) ([]models.Comment, error)
}

type ledgerService struct {
	postRepo      repositories.PostRepository
	reactionRepo  repositories.ReactionRepository
	commentRepo   repositories.CommentRepository
	resolver      ActorResolver
	notifications NotificationService
	now           func() time.Time
}

// NewLedgerService wires the ledger. now decides story expiry; nil means
// time.Now.
func NewLedgerService(
	postRepo repositories.PostRepository,
	reactionRepo repositories.ReactionRepository,
	commentRepo repositories.CommentRepository,
	resolver ActorResolver,
	notifications NotificationService,
	now func() time.Time,
) LedgerService {
	if now == nil {
		now = time.Now
	}
	return &ledgerService{
		postRepo:      postRepo,
		reactionRepo:  reactionRepo,
		commentRepo:   commentRepo,
		resolver:      resolver,
		notifications: notifications,
		now:           now,
	}
}

// livePost loads a post, treating an expired story as gone
func (s *ledgerService) livePost(ctx context.Context, postID uuid.UUID) (*models.Post, error) {
	post, err := s.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.IsStory() && post.Expired(s.now()) {
		return nil, fmt.Errorf("post %s: %w", postID, models.ErrNotFound)
	}
	return post, nil
}

func (s *ledgerService) ToggleReaction(ctx context.Context, actor models.Actor, postID uuid.UUID, t models.ReactionType) (*models.ReactionSummary, error) {
	if !t.Valid() {
		return nil, models.Invalid("type", fmt.Sprintf("unknown reaction %q", t))
	}
	post, err := s.livePost(ctx, postID)
	if err != nil {
		return nil, err
	}

	existing, err := s.reactionRepo.GetReaction(ctx, postID, actor)
	switch {
	case errors.Is(err, models.ErrNotFound):
		err = s.reactionRepo.CreateReaction(ctx, models.NewReaction(postID, actor, t))
		if errors.Is(err, models.ErrConflict) {
			// a concurrent toggle by the same actor won; report what it stored
			return s.Reactions(ctx, actor, postID)
		}
		if err != nil {
			return nil, err
		}
		s.notifyReaction(ctx, actor, post, t)

	case err != nil:
		return nil, err

	case existing.Type == t:
		if err := s.reactionRepo.DeleteReaction(ctx, postID, actor); err != nil {
			return nil, err
		}

	default:
		_, err := s.reactionRepo.ReplaceReaction(ctx, postID, actor, t)
		if errors.Is(err, models.ErrConflict) {
			return s.Reactions(ctx, actor, postID)
		}
		if err != nil {
			return nil, err
		}
		s.notifyReaction(ctx, actor, post, t)
	}

	return s.Reactions(ctx, actor, postID)
}

func (s *ledgerService) Reactions(ctx context.Context, actor models.Actor, postID uuid.UUID) (*models.ReactionSummary, error) {
	ids := []uuid.UUID{postID}
	counts, err := s.reactionRepo.GetCountsByPostIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	mine, err := s.reactionRepo.GetMineByPostIDs(ctx, actor, ids)
	if err != nil {
		return nil, err
	}

	summary := &models.ReactionSummary{PostID: postID, Counts: models.ReactionCounts{}}
	for _, rt := range models.ReactionTypes {
		summary.Counts[rt] = counts[postID][rt]
	}
	if t, ok := mine[postID]; ok {
		summary.Mine = &t
	}
	return summary, nil
}

func (s *ledgerService) AddComment(ctx context.Context, actor models.Actor, postID uuid.UUID, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, models.Invalid("text", "must not be empty")
	}
	if utf8.RuneCountInString(text) > MaxCommentLength {
		return nil, models.Invalid("text", fmt.Sprintf("must be at most %d characters", MaxCommentLength))
	}

	post, err := s.livePost(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{PostID: postID, Text: text}
	comment.PetID, comment.UserID = models.ActorColumns(actor)
	if err := s.commentRepo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	name := s.resolver.DisplayName(ctx, actor)
	s.notifications.Dispatch(ctx, Notice{
		Owner:   models.PetActor(post.PetID),
		Type:    models.NotificationComment,
		Message: fmt.Sprintf("%s commented: %s", name, preview(text, commentPreviewLength)),
		Related: actor,
	})
	return comment, nil
}

func (s *ledgerService) Comments(ctx context.Context, postID uuid.UUID) ([]models.Comment, error) {
	if _, err := s.livePost(ctx, postID); err != nil {
		return nil, err
	}
	return s.commentRepo.GetCommentsByPostID(ctx, postID)
}

func (s *ledgerService) notifyReaction(ctx context.Context, actor models.Actor, post *models.Post, t models.ReactionType) {
	name := s.resolver.DisplayName(ctx, actor)
	s.notifications.Dispatch(ctx, Notice{
		Owner:   models.PetActor(post.PetID),
		Type:    models.NotificationReaction,
		Message: fmt.Sprintf("%s reacted %s to your post", name, reactionLabels[t]),
		Related: actor,
	})
}

// preview cuts s to at most n runes, marking the cut with an ellipsis
func preview(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:n])) + "…"
}
