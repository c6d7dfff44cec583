package models

import (
	"time"

	"github.com/google/uuid"
)

// Pet is the primary social identity, owned by a guardian account
type Pet struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	OwnerUserID    uuid.UUID `json:"owner_user_id" gorm:"type:uuid;index;not null"`
	Name           string    `json:"name" gorm:"not null"`
	Species        string    `json:"species"`
	Breed          string    `json:"breed"`
	Age            int       `json:"age"`
	Bio            string    `json:"bio"`
	AvatarURL      string    `json:"avatar_url"`
	GuardianName   string    `json:"guardian_name"`
	GuardianHandle string    `json:"guardian_handle"`
	CreatedAt      time.Time `json:"created_at" gorm:"index"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// PetCompact is the author summary embedded in feed items, stories and comments
type PetCompact struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatar_url"`
	Handle    string    `json:"guardian_handle"`
}

// ToCompact converts a Pet to its summary form
func (p *Pet) ToCompact() PetCompact {
	return PetCompact{ID: p.ID, Name: p.Name, AvatarURL: p.AvatarURL, Handle: p.GuardianHandle}
}

// CreatePetRequest defines the request body for registering a pet
type CreatePetRequest struct {
	Name           string `json:"name" validate:"required,min=1,max=60"`
	Species        string `json:"species" validate:"required,max=30"`
	Breed          string `json:"breed" validate:"omitempty,max=60"`
	Age            int    `json:"age" validate:"min=0,max=100"`
	Bio            string `json:"bio" validate:"omitempty,max=500"`
	AvatarURL      string `json:"avatar_url" validate:"omitempty,url"`
	GuardianName   string `json:"guardian_name" validate:"omitempty,max=80"`
	GuardianHandle string `json:"guardian_handle" validate:"omitempty,max=40"`
}

// FollowCounts are the numbers shown on a pet profile
type FollowCounts struct {
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
}
