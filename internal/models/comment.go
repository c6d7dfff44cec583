package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment is append-only. Exactly one of PetID or UserID is set.
type Comment struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	PostID    uuid.UUID  `json:"post_id" gorm:"type:uuid;index;not null"`
	PetID     *uuid.UUID `json:"pet_id,omitempty" gorm:"type:uuid;index"`
	UserID    *uuid.UUID `json:"user_id,omitempty" gorm:"type:uuid;index"`
	Text      string     `json:"text" gorm:"not null"`
	CreatedAt time.Time  `json:"created_at" gorm:"index"`
}

// Actor returns the comment author
func (c *Comment) Actor() Actor { return ActorFromColumns(c.PetID, c.UserID) }

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	Text string `json:"text" validate:"required,max=500"`
}
