package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pawprint-social/backend/internal/models"
	"gorm.io/gorm"
)

// PostRepository defines the interface for post and story data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	// GetPostsByPetIDs returns type=post rows authored by petIDs in feed order
	// (created_at, id) descending. A non-nil before restricts to posts that
	// sort strictly after the cursor.
	GetPostsByPetIDs(ctx context.Context, petIDs []uuid.UUID, before *models.FeedCursor, limit int) ([]models.Post, error)
	GetAllPosts(ctx context.Context, before *models.FeedCursor, limit int) ([]models.Post, error)
	// GetLatestActiveStories returns the newest unexpired story of each pet,
	// newest first. nil petIDs means every pet; limit <= 0 means no limit.
	GetLatestActiveStories(ctx context.Context, petIDs []uuid.UUID, now time.Time, limit int) ([]models.Post, error)
}

// PostgresPostRepository implements PostRepository for PostgreSQL
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

func (r *PostgresPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	return translate("create post", r.db.WithContext(ctx).Create(post).Error)
}

func (r *PostgresPostRepository) GetPostByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		return nil, translate("get post", err)
	}
	return &post, nil
}

func (r *PostgresPostRepository) GetPostsByPetIDs(ctx context.Context, petIDs []uuid.UUID, before *models.FeedCursor, limit int) ([]models.Post, error) {
	if len(petIDs) == 0 {
		return []models.Post{}, nil
	}
	q := r.feedQuery(ctx, before, limit).Where("pet_id IN ?", petIDs)
	var posts []models.Post
	return posts, translate("get posts by pets", q.Find(&posts).Error)
}

func (r *PostgresPostRepository) GetAllPosts(ctx context.Context, before *models.FeedCursor, limit int) ([]models.Post, error) {
	var posts []models.Post
	return posts, translate("get all posts", r.feedQuery(ctx, before, limit).Find(&posts).Error)
}

func (r *PostgresPostRepository) feedQuery(ctx context.Context, before *models.FeedCursor, limit int) *gorm.DB {
	q := r.db.WithContext(ctx).Where("type = ?", models.PostTypePost).Order("created_at DESC, id DESC").Limit(limit)
	if before != nil {
		q = q.Where("(created_at, id) < (?, ?)", before.CreatedAt, before.ID)
	}
	return q
}

func (r *PostgresPostRepository) GetLatestActiveStories(ctx context.Context, petIDs []uuid.UUID, now time.Time, limit int) ([]models.Post, error) {
	if petIDs != nil && len(petIDs) == 0 {
		return []models.Post{}, nil
	}
	db := r.db.WithContext(ctx)
	latest := db.Model(&models.Post{}).
		Select("DISTINCT ON (pet_id) *").
		Where("type = ? AND expires_at > ?", models.PostTypeStory, now).
		Order("pet_id, created_at DESC")
	if petIDs != nil {
		latest = latest.Where("pet_id IN ?", petIDs)
	}
	q := db.Table("(?) AS latest", latest).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var stories []models.Post
	return stories, translate("get active stories", q.Find(&stories).Error)
}
