package models

import (
	"bytes"
	"time"

	"github.com/google/uuid"
)

// PostType distinguishes feed posts from 24h stories
type PostType string

const (
	PostTypePost  PostType = "post"
	PostTypeStory PostType = "story"
)

// Post is media authored by a pet. Stories carry ExpiresAt.
type Post struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	PetID       uuid.UUID  `json:"pet_id" gorm:"type:uuid;index;not null"`
	Type        PostType   `json:"type" gorm:"size:10;index;not null;default:'post'"`
	Description string     `json:"description"`
	MediaURL    string     `json:"media_url"`
	CreatedAt   time.Time  `json:"created_at" gorm:"index"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty" gorm:"index"`
}

// IsStory reports whether the post is a story
func (p *Post) IsStory() bool { return p.Type == PostTypeStory }

// Expired reports whether a story is no longer visible at now.
// Plain posts never expire.
func (p *Post) Expired(now time.Time) bool {
	return p.ExpiresAt != nil && !now.Before(*p.ExpiresAt)
}

// FeedCursor is the position of the last post of a feed page. Feed order is
// created_at descending, then id descending, so posts sharing a timestamp
// still page deterministically.
type FeedCursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// CursorOf returns the cursor positioned at p
func CursorOf(p Post) FeedCursor {
	return FeedCursor{CreatedAt: p.CreatedAt, ID: p.ID}
}

// Admits reports whether p comes strictly after the cursor in feed order
func (c FeedCursor) Admits(p Post) bool {
	if !p.CreatedAt.Equal(c.CreatedAt) {
		return p.CreatedAt.Before(c.CreatedAt)
	}
	return bytes.Compare(p.ID[:], c.ID[:]) < 0
}

// FeedOrder reports whether a sorts ahead of b in feed order
func FeedOrder(a, b Post) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return bytes.Compare(a.ID[:], b.ID[:]) > 0
}

// CreatePostRequest defines the request body for creating a post
type CreatePostRequest struct {
	Description string `json:"description" validate:"omitempty,max=2000"`
	MediaURL    string `json:"media_url" validate:"required,url"`
}

// FeedItem is a post enriched for display
type FeedItem struct {
	Post
	Author       PetCompact     `json:"author"`
	Reactions    ReactionCounts `json:"reactions"`
	MyReaction   *ReactionType  `json:"my_reaction"`
	CommentCount int64          `json:"comment_count"`
}
