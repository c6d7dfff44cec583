package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType names the action that produced a notification
type NotificationType string

const (
	NotificationReaction NotificationType = "reaction"
	NotificationComment  NotificationType = "comment"
	NotificationFollow   NotificationType = "follow"
	NotificationMessage  NotificationType = "message"
)

// Notification is owned by either a pet (PetID) or a professional
// (OwnerUserID) and references either a related pet or a related user.
type Notification struct {
	ID            uint             `json:"id" gorm:"primaryKey"`
	PetID         *uuid.UUID       `json:"pet_id,omitempty" gorm:"type:uuid;index"`
	OwnerUserID   *uuid.UUID       `json:"owner_user_id,omitempty" gorm:"type:uuid;index"`
	Type          NotificationType `json:"type" gorm:"size:20;index"`
	Message       string           `json:"message"`
	RelatedPetID  *uuid.UUID       `json:"related_pet_id,omitempty" gorm:"type:uuid;index"`
	RelatedUserID *uuid.UUID       `json:"related_user_id,omitempty" gorm:"type:uuid;index"`
	IsRead        bool             `json:"is_read" gorm:"default:false;index"`
	CreatedAt     time.Time        `json:"created_at" gorm:"index"`
}

// Owner returns who the notification is for
func (n *Notification) Owner() Actor { return ActorFromColumns(n.PetID, n.OwnerUserID) }

// Related returns who caused the notification
func (n *Notification) Related() Actor { return ActorFromColumns(n.RelatedPetID, n.RelatedUserID) }
