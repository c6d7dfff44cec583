package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ActorKind tells which namespace an Actor's ID is drawn from
type ActorKind string

const (
	ActorPet          ActorKind = "pet"
	ActorProfessional ActorKind = "professional"
)

// Actor is the identity behind any interaction: a specific pet (acting for its
// guardian) or a professional user account acting as itself.
type Actor struct {
	Kind ActorKind `json:"kind"`
	ID   uuid.UUID `json:"id"`
}

// PetActor returns the actor for a pet
func PetActor(petID uuid.UUID) Actor {
	return Actor{Kind: ActorPet, ID: petID}
}

// ProfessionalActor returns the actor for a professional user account
func ProfessionalActor(userID uuid.UUID) Actor {
	return Actor{Kind: ActorProfessional, ID: userID}
}

func (a Actor) IsPet() bool          { return a.Kind == ActorPet }
func (a Actor) IsProfessional() bool { return a.Kind == ActorProfessional }

// IsZero reports whether no actor is set
func (a Actor) IsZero() bool {
	return a.Kind == "" || a.ID == uuid.Nil
}

// Key is the stable string form used for pairing keys, realtime subjects
// and cache keys.
func (a Actor) Key() string {
	return string(a.Kind) + ":" + a.ID.String()
}

func (a Actor) String() string { return a.Key() }

// ParseActorKey is the inverse of Key
func ParseActorKey(s string) (Actor, error) {
	kind, raw, ok := strings.Cut(s, ":")
	if !ok {
		return Actor{}, fmt.Errorf("malformed actor key %q", s)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return Actor{}, fmt.Errorf("malformed actor id %q: %w", raw, err)
	}
	switch ActorKind(kind) {
	case ActorPet, ActorProfessional:
		return Actor{Kind: ActorKind(kind), ID: id}, nil
	}
	return Actor{}, fmt.Errorf("unknown actor kind %q", kind)
}

// ActorFromFlag builds an actor from the (id, isUser) column pairs used by
// followers, chat rooms, messages and story views.
func ActorFromFlag(id uuid.UUID, isUser bool) Actor {
	if isUser {
		return ProfessionalActor(id)
	}
	return PetActor(id)
}

// ActorColumns splits an actor into the nullable pet_id / user_id column pair
// used by reactions, comments and notifications. Exactly one is non-nil.
func ActorColumns(a Actor) (petID, userID *uuid.UUID) {
	id := a.ID
	if a.IsProfessional() {
		return nil, &id
	}
	return &id, nil
}

// ActorFromColumns is the inverse of ActorColumns. It returns the zero Actor
// when neither column is set.
func ActorFromColumns(petID, userID *uuid.UUID) Actor {
	switch {
	case petID != nil:
		return PetActor(*petID)
	case userID != nil:
		return ProfessionalActor(*userID)
	}
	return Actor{}
}

// PairKey canonicalizes an unordered pair of actors. PairKey(a, b) equals
// PairKey(b, a); first and second are the pair in canonical order.
func PairKey(a, b Actor) (key string, first, second Actor) {
	ka, kb := a.Key(), b.Key()
	if kb < ka {
		a, b = b, a
		ka, kb = kb, ka
	}
	return ka + "|" + kb, a, b
}
