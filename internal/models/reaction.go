package models

import (
	"time"

	"github.com/google/uuid"
)

// ReactionType is one of the fixed reactions a post can receive
type ReactionType string

const (
	ReactionPaw   ReactionType = "paw"
	ReactionHug   ReactionType = "hug"
	ReactionTreat ReactionType = "treat"
)

// ReactionTypes lists every valid reaction in display order
var ReactionTypes = []ReactionType{ReactionPaw, ReactionHug, ReactionTreat}

// Valid reports whether t is a known reaction
func (t ReactionType) Valid() bool {
	switch t {
	case ReactionPaw, ReactionHug, ReactionTreat:
		return true
	}
	return false
}

// Reaction is at most one row per (post, actor). Exactly one of PetID or
// UserID is set; each has its own unique index with PostID.
type Reaction struct {
	ID        uint         `json:"id" gorm:"primaryKey"`
	PostID    uuid.UUID    `json:"post_id" gorm:"type:uuid;index;uniqueIndex:idx_reaction_post_pet;uniqueIndex:idx_reaction_post_user"`
	PetID     *uuid.UUID   `json:"pet_id,omitempty" gorm:"type:uuid;uniqueIndex:idx_reaction_post_pet"`
	UserID    *uuid.UUID   `json:"user_id,omitempty" gorm:"type:uuid;uniqueIndex:idx_reaction_post_user"`
	Type      ReactionType `json:"type" gorm:"size:10;not null"`
	CreatedAt time.Time    `json:"created_at"`
}

// Actor returns who reacted
func (r *Reaction) Actor() Actor { return ActorFromColumns(r.PetID, r.UserID) }

// NewReaction builds a reaction row for actor
func NewReaction(postID uuid.UUID, actor Actor, t ReactionType) *Reaction {
	petID, userID := ActorColumns(actor)
	return &Reaction{PostID: postID, PetID: petID, UserID: userID, Type: t}
}

// ReactionCounts aggregates reactions per type on a post
type ReactionCounts map[ReactionType]int64

// ReactionSummary is what a post shows to a given actor
type ReactionSummary struct {
	PostID uuid.UUID      `json:"post_id"`
	Counts ReactionCounts `json:"counts"`
	Mine   *ReactionType  `json:"mine"`
}

// ToggleReactionRequest defines the request body for reacting to a post
type ToggleReactionRequest struct {
	Type string `json:"type" validate:"required,oneof=paw hug treat"`
}
