// Package realtime pushes newly stored chat messages and notification
// changes to connected clients.
package realtime

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pawprint-social/backend/internal/models"
)

const (
	EventMessageCreated      = "message.created"
	EventNotificationCreated = "notification.created"
	EventNotificationCount   = "notification.count"
)

// Event is the envelope carried over the broker. ID identifies the
// underlying row, so redeliveries of the same row share an ID.
type Event struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Subject   string          `json:"subject"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewEvent marshals payload into an envelope
func NewEvent(id, eventType, subject string, payload any) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return Event{ID: id, Type: eventType, Subject: subject, Payload: raw, CreatedAt: time.Now()}, nil
}

// RoomSubject is the channel key of a chat room
func RoomSubject(roomID uuid.UUID) string {
	return "chat.room." + roomID.String()
}

// NotificationSubject is the channel key of an actor's notifications
func NotificationSubject(owner models.Actor) string {
	return "notifications." + string(owner.Kind) + "." + owner.ID.String()
}
