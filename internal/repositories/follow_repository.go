package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pawprint-social/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository defines the interface for follow edge operations
type FollowRepository interface {
	// CreateFollow inserts the edge; created is false when it already existed
	CreateFollow(ctx context.Context, follow *models.Follow) (created bool, err error)
	DeleteFollow(ctx context.Context, follower models.Actor, targetPetID uuid.UUID) error
	IsFollowing(ctx context.Context, follower models.Actor, targetPetID uuid.UUID) (bool, error)
	GetFollowers(ctx context.Context, petID uuid.UUID) ([]models.Actor, error)
	GetFollowingPetIDs(ctx context.Context, follower models.Actor) ([]uuid.UUID, error)
	GetFollowersCount(ctx context.Context, petID uuid.UUID) (int64, error)
	GetFollowingCount(ctx context.Context, follower models.Actor) (int64, error)
}

// PostgresFollowRepository implements FollowRepository for PostgreSQL
type PostgresFollowRepository struct {
	db *gorm.DB
}

// NewPostgresFollowRepository creates a new PostgresFollowRepository
func NewPostgresFollowRepository(db *gorm.DB) *PostgresFollowRepository {
	return &PostgresFollowRepository{db: db}
}

func (r *PostgresFollowRepository) CreateFollow(ctx context.Context, follow *models.Follow) (bool, error) {
	if follow.CreatedAt.IsZero() {
		follow.CreatedAt = time.Now()
	}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(follow)
	if res.Error != nil {
		return false, translate("create follow", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *PostgresFollowRepository) DeleteFollow(ctx context.Context, follower models.Actor, targetPetID uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Where("follower_id = ? AND is_user_follower = ? AND target_pet_id = ?", follower.ID, follower.IsProfessional(), targetPetID).
		Delete(&models.Follow{}).Error
	return translate("delete follow", err)
}

func (r *PostgresFollowRepository) IsFollowing(ctx context.Context, follower models.Actor, targetPetID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND is_user_follower = ? AND target_pet_id = ?", follower.ID, follower.IsProfessional(), targetPetID).
		Count(&count).Error
	if err != nil {
		return false, translate("is following", err)
	}
	return count > 0, nil
}

func (r *PostgresFollowRepository) GetFollowers(ctx context.Context, petID uuid.UUID) ([]models.Actor, error) {
	var edges []models.Follow
	if err := r.db.WithContext(ctx).Where("target_pet_id = ?", petID).Order("created_at ASC").Find(&edges).Error; err != nil {
		return nil, translate("get followers", err)
	}
	actors := make([]models.Actor, len(edges))
	for i := range edges {
		actors[i] = edges[i].Follower()
	}
	return actors, nil
}

func (r *PostgresFollowRepository) GetFollowingPetIDs(ctx context.Context, follower models.Actor) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND is_user_follower = ?", follower.ID, follower.IsProfessional()).
		Pluck("target_pet_id", &ids).Error
	return ids, translate("get following", err)
}

func (r *PostgresFollowRepository) GetFollowersCount(ctx context.Context, petID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).Where("target_pet_id = ?", petID).Count(&count).Error
	return count, translate("count followers", err)
}

func (r *PostgresFollowRepository) GetFollowingCount(ctx context.Context, follower models.Actor) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND is_user_follower = ?", follower.ID, follower.IsProfessional()).
		Count(&count).Error
	return count, translate("count following", err)
}
