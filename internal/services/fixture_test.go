package services_test

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	"github.com/pawprint-social/backend/internal/models"
	"github.com/pawprint-social/backend/internal/realtime"
	"github.com/pawprint-social/backend/internal/repositories"
	"github.com/pawprint-social/backend/internal/repositories/memory"
	"github.com/pawprint-social/backend/internal/services"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	t      *testing.T
	ctx    context.Context
	store  *memory.Store
	repos  *repositories.Repositories
	broker *realtime.MemoryBroker
	hub    *realtime.Hub
	svc    *services.Services

	mu  sync.Mutex
	now time.Time
}

func quietLogger() *log.Logger {
	l := log.New("test")
	l.SetOutput(io.Discard)
	return l
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{t: t, ctx: context.Background(), now: t0}

	f.store = memory.New()
	f.store.SetClock(f.clock)
	f.repos = memory.NewRepositories(f.store)
	f.broker = realtime.NewMemoryBroker()
	logger := quietLogger()
	f.hub = realtime.NewHub(f.broker, logger)
	f.svc = services.NewServices(f.repos, f.hub, nil, logger, services.Options{Now: f.clock})
	return f
}

func (f *fixture) clock() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fixture) advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

// setClock jumps to an absolute instant
func (f *fixture) setClock(at time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = at
}

func (f *fixture) account(name string, accountType models.AccountType) *models.User {
	f.t.Helper()
	user := &models.User{
		FirebaseUID: "uid-" + uuid.NewString(),
		Email:       name + "@example.com",
		DisplayName: name,
		AccountType: accountType,
	}
	require.NoError(f.t, f.repos.User.CreateUser(f.ctx, user))
	return user
}

func (f *fixture) guardian(name string) *models.User {
	return f.account(name, models.AccountUser)
}

func (f *fixture) professional(name string) models.Actor {
	return models.ProfessionalActor(f.account(name, models.AccountProfessional).ID)
}

// pet registers a pet and advances the clock so creation order is strict
func (f *fixture) pet(owner *models.User, name string) models.Actor {
	f.t.Helper()
	pet, err := f.svc.Pets.Create(f.ctx, owner, models.CreatePetRequest{Name: name, Species: "dog"})
	require.NoError(f.t, err)
	f.advance(time.Second)
	return models.PetActor(pet.ID)
}

func (f *fixture) post(author models.Actor, description string) *models.Post {
	f.t.Helper()
	post, err := f.svc.Feed.CreatePost(f.ctx, author, models.CreatePostRequest{
		Description: description,
		MediaURL:    "https://cdn.example.com/" + uuid.NewString() + ".jpg",
	})
	require.NoError(f.t, err)
	f.advance(time.Second)
	return post
}

func (f *fixture) notificationsFor(owner models.Actor) []models.Notification {
	f.t.Helper()
	list, _, err := f.svc.Notifications.List(f.ctx, owner, 1, 100)
	require.NoError(f.t, err)
	return list
}

// recorder collects realtime events delivered to a subscription
type recorder struct {
	mu     sync.Mutex
	events []realtime.Event
}

func (r *recorder) handle(ev realtime.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) ofType(eventType string) []realtime.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []realtime.Event
	for _, ev := range r.events {
		if ev.Type == eventType {
			out = append(out, ev)
		}
	}
	return out
}

const markerEvent = "test.marker"

// flush publishes a marker on subject and waits until rec has handled it.
// Deliveries are ordered per subscription, so everything published earlier
// has been handled too.
func (f *fixture) flush(rec *recorder, subject string) {
	f.t.Helper()
	id := uuid.NewString()
	ev, err := realtime.NewEvent(id, markerEvent, subject, nil)
	require.NoError(f.t, err)
	require.NoError(f.t, f.hub.Publish(f.ctx, ev))
	require.Eventually(f.t, func() bool {
		for _, got := range rec.ofType(markerEvent) {
			if got.ID == id {
				return true
			}
		}
		return false
	}, time.Second, 5*time.Millisecond)
}
