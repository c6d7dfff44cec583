package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pawprint-social/backend/internal/models"
	"gorm.io/gorm"
)

// ReactionRepository defines the interface for reaction data operations
type ReactionRepository interface {
	GetReaction(ctx context.Context, postID uuid.UUID, actor models.Actor) (*models.Reaction, error)
	// CreateReaction fails with models.ErrConflict when the actor already reacted
	CreateReaction(ctx context.Context, reaction *models.Reaction) error
	DeleteReaction(ctx context.Context, postID uuid.UUID, actor models.Actor) error
	// ReplaceReaction swaps the actor's reaction for t in one transaction
	ReplaceReaction(ctx context.Context, postID uuid.UUID, actor models.Actor, t models.ReactionType) (*models.Reaction, error)
	GetCountsByPostIDs(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID]models.ReactionCounts, error)
	GetMineByPostIDs(ctx context.Context, actor models.Actor, postIDs []uuid.UUID) (map[uuid.UUID]models.ReactionType, error)
}

// PostgresReactionRepository implements ReactionRepository for PostgreSQL
type PostgresReactionRepository struct {
	db *gorm.DB
}

// NewPostgresReactionRepository creates a new PostgresReactionRepository
func NewPostgresReactionRepository(db *gorm.DB) *PostgresReactionRepository {
	return &PostgresReactionRepository{db: db}
}

// actorColumn picks the column of the nullable pair that holds actor
func actorColumn(actor models.Actor, petCol, userCol string) string {
	if actor.IsProfessional() {
		return userCol + " = ?"
	}
	return petCol + " = ?"
}

func (r *PostgresReactionRepository) GetReaction(ctx context.Context, postID uuid.UUID, actor models.Actor) (*models.Reaction, error) {
	var reaction models.Reaction
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Where(actorColumn(actor, "pet_id", "user_id"), actor.ID).
		First(&reaction).Error
	if err != nil {
		return nil, translate("get reaction", err)
	}
	return &reaction, nil
}

func (r *PostgresReactionRepository) CreateReaction(ctx context.Context, reaction *models.Reaction) error {
	if reaction.CreatedAt.IsZero() {
		reaction.CreatedAt = time.Now()
	}
	return translate("create reaction", r.db.WithContext(ctx).Create(reaction).Error)
}

func (r *PostgresReactionRepository) DeleteReaction(ctx context.Context, postID uuid.UUID, actor models.Actor) error {
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Where(actorColumn(actor, "pet_id", "user_id"), actor.ID).
		Delete(&models.Reaction{}).Error
	return translate("delete reaction", err)
}

func (r *PostgresReactionRepository) ReplaceReaction(ctx context.Context, postID uuid.UUID, actor models.Actor, t models.ReactionType) (*models.Reaction, error) {
	reaction := models.NewReaction(postID, actor, t)
	reaction.CreatedAt = time.Now()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", postID).
			Where(actorColumn(actor, "pet_id", "user_id"), actor.ID).
			Delete(&models.Reaction{}).Error; err != nil {
			return err
		}
		return tx.Create(reaction).Error
	})
	if err != nil {
		return nil, translate("replace reaction", err)
	}
	return reaction, nil
}

func (r *PostgresReactionRepository) GetCountsByPostIDs(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID]models.ReactionCounts, error) {
	out := make(map[uuid.UUID]models.ReactionCounts, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		PostID uuid.UUID
		Type   models.ReactionType
		Total  int64
	}
	err := r.db.WithContext(ctx).Model(&models.Reaction{}).
		Select("post_id, type, COUNT(*) AS total").
		Where("post_id IN ?", postIDs).
		Group("post_id, type").
		Scan(&rows).Error
	if err != nil {
		return nil, translate("count reactions", err)
	}
	for _, row := range rows {
		if out[row.PostID] == nil {
			out[row.PostID] = models.ReactionCounts{}
		}
		out[row.PostID][row.Type] = row.Total
	}
	return out, nil
}

func (r *PostgresReactionRepository) GetMineByPostIDs(ctx context.Context, actor models.Actor, postIDs []uuid.UUID) (map[uuid.UUID]models.ReactionType, error) {
	out := make(map[uuid.UUID]models.ReactionType, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}
	var reactions []models.Reaction
	err := r.db.WithContext(ctx).
		Where("post_id IN ?", postIDs).
		Where(actorColumn(actor, "pet_id", "user_id"), actor.ID).
		Find(&reactions).Error
	if err != nil {
		return nil, translate("get my reactions", err)
	}
	for _, re := range reactions {
		out[re.PostID] = re.Type
	}
	return out, nil
}
