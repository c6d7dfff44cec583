package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/pawprint-social/backend/internal/models"
	"github.com/pawprint-social/backend/internal/realtime"
	"github.com/pawprint-social/backend/internal/repositories"
)

const (
	DefaultMessagesLimit = 100
	maxMessagesLimit     = 500
)

type ChatService interface {
	// GetOrCreateRoom returns the single room of the unordered pair
	// (actor, other), creating it on first use.
	GetOrCreateRoom(ctx context.Context, actor, other models.Actor) (*models.ChatRoom, error)
	Rooms(ctx context.Context, actor models.Actor) ([]models.ChatRoom, error)
	Room(ctx context.Context, actor models.Actor, roomID uuid.UUID) (*models.ChatRoom, error)
	SendMessage(ctx context.Context, actor models.Actor, roomID uuid.UUID, req models.SendMessageRequest) (*models.ChatMessage, error)
	Messages(ctx context.Context, actor models.Actor, roomID uuid.UUID, limit int) ([]models.ChatMessage, error)
	// Subscribe streams messages stored in the room after the call. The
	// returned cancel func ends the subscription.
	Subscribe(ctx context.Context, actor models.Actor, roomID uuid.UUID, onMessage func(realtime.Event)) (cancel func(), err error)
}

type chatService struct {
	chatRepo      repositories.ChatRepository
	resolver      ActorResolver
	notifications NotificationService
	hub           *realtime.Hub
	log           echo.Logger
}

func NewChatService(
	chatRepo repositories.ChatRepository,
	resolver ActorResolver,
	notifications NotificationService,
	hub *realtime.Hub,
	logger echo.Logger,
) ChatService {
	return &chatService{
		chatRepo:      chatRepo,
		resolver:      resolver,
		notifications: notifications,
		hub:           hub,
		log:           logger,
	}
}

func (s *chatService) GetOrCreateRoom(ctx context.Context, actor, other models.Actor) (*models.ChatRoom, error) {
	if other.IsZero() {
		return nil, models.Invalid("participant", "is required")
	}
	if actor == other {
		return nil, models.ErrSelfChat
	}
	if err := s.resolver.Exists(ctx, other); err != nil {
		return nil, err
	}

	key, _, _ := models.PairKey(actor, other)
	room, err := s.chatRepo.GetRoomByPairKey(ctx, key)
	if err == nil {
		return room, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	room = models.NewChatRoom(actor, other)
	created, err := s.chatRepo.CreateRoom(ctx, room)
	if err != nil {
		return nil, err
	}
	if created {
		return room, nil
	}
	// lost the race to a concurrent opener; the winner's row is the room
	return s.chatRepo.GetRoomByPairKey(ctx, key)
}

func (s *chatService) Rooms(ctx context.Context, actor models.Actor) ([]models.ChatRoom, error) {
	return s.chatRepo.GetRoomsFor(ctx, actor)
}

func (s *chatService) Room(ctx context.Context, actor models.Actor, roomID uuid.UUID) (*models.ChatRoom, error) {
	room, err := s.chatRepo.GetRoomByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.Has(actor) {
		return nil, fmt.Errorf("room %s: %w", roomID, models.ErrForbidden)
	}
	return room, nil
}

func (s *chatService) SendMessage(ctx context.Context, actor models.Actor, roomID uuid.UUID, req models.SendMessageRequest) (*models.ChatMessage, error) {
	text := strings.TrimSpace(req.Message)
	mediaURL := strings.TrimSpace(req.MediaURL)
	if text == "" && mediaURL == "" {
		return nil, models.Invalid("message", "text or media is required")
	}

	room, err := s.Room(ctx, actor, roomID)
	if err != nil {
		return nil, err
	}

	msg := &models.ChatMessage{
		RoomID:       room.ID,
		SenderID:     actor.ID,
		SenderIsUser: actor.IsProfessional(),
		Message:      text,
		MediaURL:     mediaURL,
	}
	if err := s.chatRepo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	s.publish(ctx, msg)

	name := s.resolver.DisplayName(ctx, actor)
	s.notifications.Dispatch(ctx, Notice{
		Owner:   room.Other(actor),
		Type:    models.NotificationMessage,
		Message: fmt.Sprintf("%s sent you a message", name),
		Related: actor,
	})
	return msg, nil
}

func (s *chatService) Messages(ctx context.Context, actor models.Actor, roomID uuid.UUID, limit int) ([]models.ChatMessage, error) {
	if _, err := s.Room(ctx, actor, roomID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultMessagesLimit
	}
	if limit > maxMessagesLimit {
		limit = maxMessagesLimit
	}
	return s.chatRepo.GetMessages(ctx, roomID, limit)
}

func (s *chatService) Subscribe(ctx context.Context, actor models.Actor, roomID uuid.UUID, onMessage func(realtime.Event)) (func(), error) {
	room, err := s.Room(ctx, actor, roomID)
	if err != nil {
		return nil, err
	}
	if s.hub == nil {
		return nil, models.Dependency("subscribe room", fmt.Errorf("realtime hub not configured"))
	}
	cancel, err := s.hub.Subscribe(realtime.RoomSubject(room.ID), onMessage)
	if err != nil {
		return nil, models.Dependency("subscribe room", err)
	}
	return cancel, nil
}

// publish streams a stored message to the room. Failures only delay clients
// until their next fetch.
func (s *chatService) publish(ctx context.Context, msg *models.ChatMessage) {
	if s.hub == nil {
		return
	}
	ev, err := realtime.NewEvent(msg.ID.String(), realtime.EventMessageCreated, realtime.RoomSubject(msg.RoomID), msg)
	if err == nil {
		err = s.hub.Publish(ctx, ev)
	}
	if err != nil {
		s.log.Warnj(log.JSON{"event": "realtime_publish_failed", "room_id": msg.RoomID, "message_id": msg.ID, "error": err.Error()})
	}
}
