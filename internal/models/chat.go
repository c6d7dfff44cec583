package models

import (
	"time"

	"github.com/google/uuid"
)

// ChatRoom pairs two parties. PairKey is unique, so an unordered pair has at
// most one room; parties are stored in canonical order.
type ChatRoom struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	PairKey      string    `json:"-" gorm:"uniqueIndex;not null"`
	PartyAID     uuid.UUID `json:"-" gorm:"type:uuid;index;not null"`
	PartyAIsUser bool      `json:"-" gorm:"not null;default:false"`
	PartyBID     uuid.UUID `json:"-" gorm:"type:uuid;index;not null"`
	PartyBIsUser bool      `json:"-" gorm:"not null;default:false"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewChatRoom builds the canonical room for a pair
func NewChatRoom(a, b Actor) *ChatRoom {
	key, first, second := PairKey(a, b)
	return &ChatRoom{
		PairKey:      key,
		PartyAID:     first.ID,
		PartyAIsUser: first.IsProfessional(),
		PartyBID:     second.ID,
		PartyBIsUser: second.IsProfessional(),
	}
}

func (r *ChatRoom) PartyA() Actor { return ActorFromFlag(r.PartyAID, r.PartyAIsUser) }
func (r *ChatRoom) PartyB() Actor { return ActorFromFlag(r.PartyBID, r.PartyBIsUser) }

// Has reports whether a is one of the room's parties
func (r *ChatRoom) Has(a Actor) bool {
	return r.PartyA() == a || r.PartyB() == a
}

// Other returns the counterpart of a
func (r *ChatRoom) Other(a Actor) Actor {
	if r.PartyA() == a {
		return r.PartyB()
	}
	return r.PartyA()
}

// ChatRoomView is the API form of a room
type ChatRoomView struct {
	ID        uuid.UUID `json:"id"`
	PartyA    Actor     `json:"party_a"`
	PartyB    Actor     `json:"party_b"`
	CreatedAt time.Time `json:"created_at"`
}

// View converts the row for output
func (r *ChatRoom) View() ChatRoomView {
	return ChatRoomView{ID: r.ID, PartyA: r.PartyA(), PartyB: r.PartyB(), CreatedAt: r.CreatedAt}
}

// ChatMessage is immutable once stored. Seq breaks ties between equal
// created_at values in insertion order.
type ChatMessage struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Seq          int64     `json:"seq" gorm:"autoIncrement;uniqueIndex;not null"`
	RoomID       uuid.UUID `json:"room_id" gorm:"type:uuid;index;not null"`
	SenderID     uuid.UUID `json:"sender_id" gorm:"type:uuid;not null"`
	SenderIsUser bool      `json:"sender_is_user" gorm:"not null;default:false"`
	Message      string    `json:"message"`
	MediaURL     string    `json:"media_url,omitempty"`
	CreatedAt    time.Time `json:"created_at" gorm:"index"`
}

// Sender returns the sending actor
func (m *ChatMessage) Sender() Actor { return ActorFromFlag(m.SenderID, m.SenderIsUser) }

// OpenRoomRequest defines the request body for opening a chat
type OpenRoomRequest struct {
	Kind string `json:"kind" validate:"required,oneof=pet professional"`
	ID   string `json:"id" validate:"required,uuid"`
}

// SendMessageRequest defines the request body for sending a message
type SendMessageRequest struct {
	Message  string `json:"message" validate:"max=2000"`
	MediaURL string `json:"media_url" validate:"omitempty,url"`
}
