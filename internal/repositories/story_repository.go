package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pawprint-social/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StoryViewRepository defines the interface for story view operations.
// Stories themselves are posts and live in PostRepository.
type StoryViewRepository interface {
	// RecordView is an idempotent upsert on (story, viewer)
	RecordView(ctx context.Context, view *models.StoryView) (created bool, err error)
	CountViews(ctx context.Context, storyID uuid.UUID, onlyProfessional bool) (int64, error)
	GetViews(ctx context.Context, storyID uuid.UUID) ([]models.StoryView, error)
}

type storyViewRepository struct {
	db *gorm.DB
}

func NewStoryViewRepository(db *gorm.DB) StoryViewRepository {
	return &storyViewRepository{db: db}
}

func (r *storyViewRepository) RecordView(ctx context.Context, view *models.StoryView) (bool, error) {
	if view.CreatedAt.IsZero() {
		view.CreatedAt = time.Now()
	}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(view)
	if res.Error != nil {
		return false, translate("record story view", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *storyViewRepository) CountViews(ctx context.Context, storyID uuid.UUID, onlyProfessional bool) (int64, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.StoryView{}).Where("story_id = ?", storyID)
	if onlyProfessional {
		q = q.Where("viewer_is_user = true")
	}
	return count, translate("count story views", q.Count(&count).Error)
}

func (r *storyViewRepository) GetViews(ctx context.Context, storyID uuid.UUID) ([]models.StoryView, error) {
	var views []models.StoryView
	err := r.db.WithContext(ctx).Where("story_id = ?", storyID).Order("created_at DESC").Find(&views).Error
	return views, translate("get story views", err)
}
