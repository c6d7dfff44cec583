package repositories

import (
	"context"
	"time"

	"github.com/pawprint-social/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification *models.Notification) error
	GetByOwner(ctx context.Context, owner models.Actor, page, limit int) ([]models.Notification, int64, error)
	GetUnreadCount(ctx context.Context, owner models.Actor) (int64, error)
	// MarkAsRead fails with models.ErrNotFound unless owner owns the notification
	MarkAsRead(ctx context.Context, owner models.Actor, notificationID uint) error
	MarkAllAsRead(ctx context.Context, owner models.Actor) error
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) owned(ctx context.Context, owner models.Actor) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Notification{}).Where(actorColumn(owner, "pet_id", "owner_user_id"), owner.ID)
}

func (r *postgresNotificationRepository) CreateNotification(ctx context.Context, notification *models.Notification) error {
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}
	return translate("create notification", r.db.WithContext(ctx).Create(notification).Error)
}

func (r *postgresNotificationRepository) GetByOwner(ctx context.Context, owner models.Actor, page, limit int) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	var total int64

	if err := r.owned(ctx, owner).Count(&total).Error; err != nil {
		return nil, 0, translate("count notifications", err)
	}

	offset := (page - 1) * limit
	err := r.owned(ctx, owner).
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&notifications).Error

	return notifications, total, translate("list notifications", err)
}

func (r *postgresNotificationRepository) GetUnreadCount(ctx context.Context, owner models.Actor) (int64, error) {
	var count int64
	err := r.owned(ctx, owner).Where("is_read = false").Count(&count).Error
	return count, translate("count unread", err)
}

func (r *postgresNotificationRepository) MarkAsRead(ctx context.Context, owner models.Actor, notificationID uint) error {
	res := r.owned(ctx, owner).Where("id = ?", notificationID).Update("is_read", true)
	if res.Error != nil {
		return translate("mark read", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("mark read", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *postgresNotificationRepository) MarkAllAsRead(ctx context.Context, owner models.Actor) error {
	return translate("mark all read", r.owned(ctx, owner).Where("is_read = false").Update("is_read", true).Error)
}
