// Package memory keeps every repository in process. It enforces the same
// unique keys as the Postgres schema and is used by tests and by STORE=memory.
package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pawprint-social/backend/internal/models"
)

type reactionKey struct {
	postID uuid.UUID
	actor  models.Actor
}

type followKey struct {
	follower models.Actor
	target   uuid.UUID
}

type viewKey struct {
	storyID uuid.UUID
	viewer  models.Actor
}

// Store is the shared state behind the memory repositories
type Store struct {
	mu  sync.RWMutex
	now func() time.Time
	seq int64

	users         map[uuid.UUID]models.User
	pets          map[uuid.UUID]models.Pet
	follows       map[followKey]models.Follow
	posts         map[uuid.UUID]models.Post
	postSeq       map[uuid.UUID]int64
	reactions     map[reactionKey]models.Reaction
	comments      []models.Comment
	notifications []models.Notification
	rooms         map[uuid.UUID]models.ChatRoom
	roomsByPair   map[string]uuid.UUID
	messages      []models.ChatMessage
	views         map[viewKey]models.StoryView
	health        []models.HealthRecord
}

// New returns an empty store
func New() *Store {
	return &Store{
		now:         time.Now,
		users:       map[uuid.UUID]models.User{},
		pets:        map[uuid.UUID]models.Pet{},
		follows:     map[followKey]models.Follow{},
		posts:       map[uuid.UUID]models.Post{},
		postSeq:     map[uuid.UUID]int64{},
		reactions:   map[reactionKey]models.Reaction{},
		rooms:       map[uuid.UUID]models.ChatRoom{},
		roomsByPair: map[string]uuid.UUID{},
		views:       map[viewKey]models.StoryView{},
	}
}

// SetClock overrides the time used for rows created without a timestamp
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// AddHealthRecord seeds a medical history entry
func (s *Store) AddHealthRecord(rec models.HealthRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now()
	}
	s.health = append(s.health, rec)
}

// Counts reports how many rows reference petID in each table; tests use it
// to check that cascades leave nothing behind.
func (s *Store) Counts(petID uuid.UUID) map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := map[string]int{}
	pet := models.PetActor(petID)
	for k := range s.follows {
		if k.target == petID || k.follower == pet {
			out["followers"]++
		}
	}
	for k, r := range s.reactions {
		if k.actor == pet || s.posts[r.PostID].PetID == petID {
			out["reactions"]++
		}
	}
	for _, c := range s.comments {
		if c.Actor() == pet || s.posts[c.PostID].PetID == petID {
			out["comments"]++
		}
	}
	for _, n := range s.notifications {
		if n.Owner() == pet || n.Related() == pet {
			out["notifications"]++
		}
	}
	for _, p := range s.posts {
		if p.PetID == petID {
			out["posts"]++
		}
	}
	for _, r := range s.rooms {
		if r.Has(pet) {
			out["chat_rooms"]++
		}
	}
	for k := range s.views {
		if k.viewer == pet {
			out["story_views"]++
		}
	}
	if _, ok := s.pets[petID]; ok {
		out["pets"]++
	}
	return out
}

func (s *Store) nextSeq() int64 {
	s.seq++
	return s.seq
}

func (s *Store) stamp(t *time.Time) {
	if t.IsZero() {
		*t = s.now()
	}
}
