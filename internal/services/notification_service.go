package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/pawprint-social/backend/internal/models"
	"github.com/pawprint-social/backend/internal/realtime"
	"github.com/pawprint-social/backend/internal/repositories"
)

// Notice is a notification request before self-suppression
type Notice struct {
	Owner   models.Actor
	Type    models.NotificationType
	Message string
	Related models.Actor
}

// UnreadCount is the payload of notification.count events
type UnreadCount struct {
	Unread int64 `json:"unread"`
}

type NotificationService interface {
	// Notify stores the notice and pushes it to the owner. It returns a nil
	// notification when owner and related share an account.
	Notify(ctx context.Context, n Notice) (*models.Notification, error)
	// Dispatch is Notify for side effects of another write: errors are
	// logged, never returned.
	Dispatch(ctx context.Context, n Notice)
	List(ctx context.Context, owner models.Actor, page, limit int) ([]models.Notification, int64, error)
	UnreadCount(ctx context.Context, owner models.Actor) (int64, error)
	MarkRead(ctx context.Context, owner models.Actor, id uint) error
	MarkAllRead(ctx context.Context, owner models.Actor) error
	// Subscribe pushes notification.created and notification.count events
	// for owner until cancel is called
	Subscribe(owner models.Actor, handler func(realtime.Event)) (cancel func(), err error)
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
	resolver         ActorResolver
	hub              *realtime.Hub
	log              echo.Logger
}

func NewNotificationService(notificationRepo repositories.NotificationRepository, resolver ActorResolver, hub *realtime.Hub, logger echo.Logger) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		resolver:         resolver,
		hub:              hub,
		log:              logger,
	}
}

func (s *notificationService) Notify(ctx context.Context, n Notice) (*models.Notification, error) {
	if n.Owner.IsZero() || n.Related.IsZero() {
		return nil, models.Invalid("notification", "owner and related actor are required")
	}

	ownerAccount, err := s.resolver.OwnerOf(ctx, n.Owner)
	if err != nil {
		return nil, fmt.Errorf("resolve notification owner: %w", err)
	}
	relatedAccount, err := s.resolver.OwnerOf(ctx, n.Related)
	if err != nil {
		return nil, fmt.Errorf("resolve notification sender: %w", err)
	}
	if ownerAccount == relatedAccount {
		return nil, nil
	}

	notification := &models.Notification{
		Type:    n.Type,
		Message: n.Message,
	}
	notification.PetID, notification.OwnerUserID = models.ActorColumns(n.Owner)
	notification.RelatedPetID, notification.RelatedUserID = models.ActorColumns(n.Related)

	if err := s.notificationRepo.CreateNotification(ctx, notification); err != nil {
		return nil, err
	}

	s.publish(ctx, n.Owner, "notification:"+strconv.FormatUint(uint64(notification.ID), 10), realtime.EventNotificationCreated, notification)
	s.publishCount(ctx, n.Owner)
	return notification, nil
}

func (s *notificationService) Dispatch(ctx context.Context, n Notice) {
	if _, err := s.Notify(ctx, n); err != nil {
		s.log.Warnj(log.JSON{
			"event":   "notification_dropped",
			"type":    n.Type,
			"owner":   n.Owner.Key(),
			"related": n.Related.Key(),
			"error":   err.Error(),
		})
	}
}

func (s *notificationService) List(ctx context.Context, owner models.Actor, page, limit int) ([]models.Notification, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.notificationRepo.GetByOwner(ctx, owner, page, limit)
}

func (s *notificationService) UnreadCount(ctx context.Context, owner models.Actor) (int64, error) {
	return s.notificationRepo.GetUnreadCount(ctx, owner)
}

func (s *notificationService) MarkRead(ctx context.Context, owner models.Actor, id uint) error {
	if err := s.notificationRepo.MarkAsRead(ctx, owner, id); err != nil {
		return err
	}
	s.publishCount(ctx, owner)
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, owner models.Actor) error {
	if err := s.notificationRepo.MarkAllAsRead(ctx, owner); err != nil {
		return err
	}
	s.publishCount(ctx, owner)
	return nil
}

func (s *notificationService) Subscribe(owner models.Actor, handler func(realtime.Event)) (func(), error) {
	if s.hub == nil {
		return nil, models.Dependency("subscribe notifications", fmt.Errorf("realtime hub not configured"))
	}
	cancel, err := s.hub.Subscribe(realtime.NotificationSubject(owner), handler)
	if err != nil {
		return nil, models.Dependency("subscribe notifications", err)
	}
	return cancel, nil
}

func (s *notificationService) publishCount(ctx context.Context, owner models.Actor) {
	unread, err := s.notificationRepo.GetUnreadCount(ctx, owner)
	if err != nil {
		s.log.Warnj(log.JSON{"event": "unread_count_failed", "owner": owner.Key(), "error": err.Error()})
		return
	}
	// count snapshots carry no row id, so each one is a distinct event
	s.publish(ctx, owner, uuid.NewString(), realtime.EventNotificationCount, UnreadCount{Unread: unread})
}

func (s *notificationService) publish(ctx context.Context, owner models.Actor, id, eventType string, payload any) {
	if s.hub == nil {
		return
	}
	ev, err := realtime.NewEvent(id, eventType, realtime.NotificationSubject(owner), payload)
	if err == nil {
		err = s.hub.Publish(ctx, ev)
	}
	if err != nil {
		s.log.Warnj(log.JSON{"event": "realtime_publish_failed", "type": eventType, "owner": owner.Key(), "error": err.Error()})
	}
}
