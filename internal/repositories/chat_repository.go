package repositories

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/pawprint-social/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ChatRepository defines the interface for chat room and message operations
type ChatRepository interface {
	GetRoomByPairKey(ctx context.Context, pairKey string) (*models.ChatRoom, error)
	GetRoomByID(ctx context.Context, id uuid.UUID) (*models.ChatRoom, error)
	// CreateRoom inserts unless a room with the same pair key exists;
	// created reports which happened.
	CreateRoom(ctx context.Context, room *models.ChatRoom) (created bool, err error)
	GetRoomsFor(ctx context.Context, party models.Actor) ([]models.ChatRoom, error)
	CreateMessage(ctx context.Context, message *models.ChatMessage) error
	// GetMessages returns the latest limit messages of a room, oldest first
	GetMessages(ctx context.Context, roomID uuid.UUID, limit int) ([]models.ChatMessage, error)
}

// PostgresChatRepository implements ChatRepository for PostgreSQL
type PostgresChatRepository struct {
	db *gorm.DB
}

// NewPostgresChatRepository creates a new PostgresChatRepository
func NewPostgresChatRepository(db *gorm.DB) *PostgresChatRepository {
	return &PostgresChatRepository{db: db}
}

func (r *PostgresChatRepository) GetRoomByPairKey(ctx context.Context, pairKey string) (*models.ChatRoom, error) {
	var room models.ChatRoom
	if err := r.db.WithContext(ctx).Where("pair_key = ?", pairKey).First(&room).Error; err != nil {
		return nil, translate("get room by pair", err)
	}
	return &room, nil
}

func (r *PostgresChatRepository) GetRoomByID(ctx context.Context, id uuid.UUID) (*models.ChatRoom, error) {
	var room models.ChatRoom
	if err := r.db.WithContext(ctx).First(&room, "id = ?", id).Error; err != nil {
		return nil, translate("get room", err)
	}
	return &room, nil
}

func (r *PostgresChatRepository) CreateRoom(ctx context.Context, room *models.ChatRoom) (bool, error) {
	if room.ID == uuid.Nil {
		room.ID = uuid.New()
	}
	if room.CreatedAt.IsZero() {
		room.CreatedAt = time.Now()
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "pair_key"}}, DoNothing: true}).
		Create(room)
	if res.Error != nil {
		return false, translate("create room", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *PostgresChatRepository) GetRoomsFor(ctx context.Context, party models.Actor) ([]models.ChatRoom, error) {
	var rooms []models.ChatRoom
	isUser := party.IsProfessional()
	err := r.db.WithContext(ctx).
		Where("(party_a_id = ? AND party_a_is_user = ?) OR (party_b_id = ? AND party_b_is_user = ?)", party.ID, isUser, party.ID, isUser).
		Order("created_at DESC").
		Find(&rooms).Error
	return rooms, translate("get rooms", err)
}

func (r *PostgresChatRepository) CreateMessage(ctx context.Context, message *models.ChatMessage) error {
	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	return translate("create message", r.db.WithContext(ctx).Create(message).Error)
}

func (r *PostgresChatRepository) GetMessages(ctx context.Context, roomID uuid.UUID, limit int) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("created_at DESC, seq DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, translate("get messages", err)
	}
	slices.Reverse(messages)
	return messages, nil
}
