package models

import (
	"time"

	"github.com/google/uuid"
)

// Follow is a directed edge from a pet or a professional to a target pet.
// IsUserFollower disambiguates the namespace of FollowerID.
type Follow struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	FollowerID     uuid.UUID `json:"follower_id" gorm:"type:uuid;index;uniqueIndex:idx_follow_edge"`
	IsUserFollower bool      `json:"is_user_follower" gorm:"not null;default:false;uniqueIndex:idx_follow_edge"`
	TargetPetID    uuid.UUID `json:"target_pet_id" gorm:"type:uuid;index;uniqueIndex:idx_follow_edge"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName keeps the store contract name
func (Follow) TableName() string { return "followers" }

// Follower returns the following actor
func (f *Follow) Follower() Actor {
	return ActorFromFlag(f.FollowerID, f.IsUserFollower)
}

// NewFollow builds the edge for an actor following a pet
func NewFollow(follower Actor, targetPetID uuid.UUID) *Follow {
	return &Follow{
		FollowerID:     follower.ID,
		IsUserFollower: follower.IsProfessional(),
		TargetPetID:    targetPetID,
	}
}
