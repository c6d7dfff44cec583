package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// AccountType is the mode a signed-in account operates in
type AccountType string

const (
	AccountUser         AccountType = "user"
	AccountProfessional AccountType = "professional"
)

// User is the profile of a signed-in account. Authentication itself lives
// with the identity provider; FirebaseUID links the two.
type User struct {
	ID            uuid.UUID   `json:"id" gorm:"type:uuid;primaryKey"`
	FirebaseUID   string      `json:"firebase_uid,omitempty" gorm:"uniqueIndex;not null"`
	Email         string      `json:"email"`
	DisplayName   string      `json:"display_name"`
	AccountType   AccountType `json:"account_type" gorm:"size:20;not null;default:'user'"`
	SelectedPetID *uuid.UUID  `json:"selected_pet_id,omitempty" gorm:"type:uuid"`
	CreatedAt     time.Time   `json:"created_at"`
}

// IsProfessional reports whether the account acts as a service professional
func (u *User) IsProfessional() bool {
	return u.AccountType == AccountProfessional
}

// SelectPetRequest defines the request body for switching the acting pet
type SelectPetRequest struct {
	PetID string `json:"pet_id" validate:"required,uuid"`
}

// MeResponse is the signed-in profile plus the actor it currently resolves to
type MeResponse struct {
	User  *User  `json:"user"`
	Actor *Actor `json:"actor"`
}

// JwtCustomClaims are the claims of locally issued development tokens.
// Subject carries the same value Firebase puts in the ID token UID.
type JwtCustomClaims struct {
	Email       string      `json:"email"`
	Name        string      `json:"name,omitempty"`
	AccountType AccountType `json:"account_type,omitempty"`
	jwt.RegisteredClaims
}

// DevTokenRequest asks for a locally signed token in AUTH_MODE=jwt
type DevTokenRequest struct {
	Subject     string `json:"subject" validate:"required,max=128"`
	Email       string `json:"email" validate:"omitempty,email"`
	DisplayName string `json:"display_name" validate:"omitempty,max=80"`
	AccountType string `json:"account_type" validate:"omitempty,oneof=user professional"`
}
