package models

import (
	"time"

	"github.com/google/uuid"
)

// StoryView records that a viewer opened a story, at most once per viewer
type StoryView struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	StoryID      uuid.UUID `json:"story_id" gorm:"type:uuid;index;uniqueIndex:idx_story_viewer"`
	ViewerID     uuid.UUID `json:"viewer_id" gorm:"type:uuid;index;uniqueIndex:idx_story_viewer"`
	ViewerIsUser bool      `json:"viewer_is_user" gorm:"not null;default:false;uniqueIndex:idx_story_viewer"`
	CreatedAt    time.Time `json:"created_at"`
}

// Viewer returns the viewing actor
func (v *StoryView) Viewer() Actor { return ActorFromFlag(v.ViewerID, v.ViewerIsUser) }

// NewStoryView builds a view row
func NewStoryView(storyID uuid.UUID, viewer Actor) *StoryView {
	return &StoryView{StoryID: storyID, ViewerID: viewer.ID, ViewerIsUser: viewer.IsProfessional()}
}

// StoryRingItem is the most recent unexpired story of one pet
type StoryRingItem struct {
	Story  Post       `json:"story"`
	Author PetCompact `json:"author"`
}

// StoryViewCount is the "who viewed" indicator
type StoryViewCount struct {
	StoryID uuid.UUID `json:"story_id"`
	Total   int64     `json:"total"`
	// Professionals counts views by professional accounts only
	Professionals int64 `json:"professionals"`
}

// CreateStoryRequest defines the request body for creating a story
type CreateStoryRequest struct {
	MediaURL    string `json:"media_url" validate:"required,url"`
	Description string `json:"description" validate:"omitempty,max=500"`
}
