package services_test

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pawprint-social/backend/internal/models"
	"github.com/pawprint-social/backend/internal/realtime"
	"github.com/pawprint-social/backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateRoomIsSymmetric(t *testing.T) {
	f := newFixture(t)
	rex := f.pet(f.guardian("ana"), "Rex")
	pro := f.professional("Dr. Vet")

	a, err := f.svc.Chat.GetOrCreateRoom(f.ctx, rex, pro)
	require.NoError(t, err)
	b, err := f.svc.Chat.GetOrCreateRoom(f.ctx, pro, rex)
	require.NoError(t, err)

	assert.Equal(t, a.ID, b.ID)
	assert.True(t, a.Has(rex))
	assert.True(t, a.Has(pro))
	assert.Equal(t, pro, a.Other(rex))
}

func TestGetOrCreateRoomRejectsSelfAndUnknown(t *testing.T) {
	f := newFixture(t)
	rex := f.pet(f.guardian("ana"), "Rex")

	_, err := f.svc.Chat.GetOrCreateRoom(f.ctx, rex, rex)
	assert.ErrorIs(t, err, models.ErrSelfChat)

	_, err = f.svc.Chat.GetOrCreateRoom(f.ctx, rex, models.Actor{})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = f.svc.Chat.GetOrCreateRoom(f.ctx, rex, models.PetActor(uuid.New()))
	assert.ErrorIs(t, err, models.ErrNotFound)

	// a regular account id is not a professional
	guardian := f.guardian("ben")
	_, err = f.svc.Chat.GetOrCreateRoom(f.ctx, rex, models.ProfessionalActor(guardian.ID))
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestConcurrentOpenersShareOneRoom(t *testing.T) {
	f := newFixture(t)
	p1 := f.pet(f.guardian("ana"), "P1")
	pro := f.professional("Dr. Vet")

	const openers = 50
	ids := make([]uuid.UUID, openers)
	var wg sync.WaitGroup
	for i := 0; i < openers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			actor, other := p1, pro
			if i%2 == 1 {
				actor, other = pro, p1
			}
			room, err := f.svc.Chat.GetOrCreateRoom(f.ctx, actor, other)
			if assert.NoError(t, err) {
				ids[i] = room.ID
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	rooms, err := f.svc.Chat.Rooms(f.ctx, p1)
	require.NoError(t, err)
	assert.Len(t, rooms, 1)
}

func TestRoomIsForbiddenToOutsiders(t *testing.T) {
	f := newFixture(t)
	rex := f.pet(f.guardian("ana"), "Rex")
	bolt := f.pet(f.guardian("ben"), "Bolt")
	outsider := f.pet(f.guardian("cy"), "Luna")

	room, err := f.svc.Chat.GetOrCreateRoom(f.ctx, rex, bolt)
	require.NoError(t, err)

	_, err = f.svc.Chat.Room(f.ctx, outsider, room.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)
	_, err = f.svc.Chat.Messages(f.ctx, outsider, room.ID, 0)
	assert.ErrorIs(t, err, models.ErrForbidden)
	_, err = f.svc.Chat.SendMessage(f.ctx, outsider, room.ID, models.SendMessageRequest{Message: "hi"})
	assert.ErrorIs(t, err, models.ErrForbidden)
	_, err = f.svc.Chat.Subscribe(f.ctx, outsider, room.ID, func(realtime.Event) {})
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestSendMessageRequiresContent(t *testing.T) {
	f := newFixture(t)
	rex := f.pet(f.guardian("ana"), "Rex")
	bolt := f.pet(f.guardian("ben"), "Bolt")
	room, err := f.svc.Chat.GetOrCreateRoom(f.ctx, rex, bolt)
	require.NoError(t, err)

	_, err = f.svc.Chat.SendMessage(f.ctx, rex, room.ID, models.SendMessageRequest{Message: "  "})
	assert.ErrorIs(t, err, models.ErrValidation)

	msg, err := f.svc.Chat.SendMessage(f.ctx, rex, room.ID, models.SendMessageRequest{MediaURL: "https://cdn.example.com/a.jpg"})
	require.NoError(t, err)
	assert.Empty(t, msg.Message)
	assert.Equal(t, rex, msg.Sender())
}

func TestSendMessageStreamsOnceAndNotifiesOtherParty(t *testing.T) {
	f := newFixture(t)
	rex := f.pet(f.guardian("ana"), "Rex")
	pro := f.professional("Dr. Vet")
	room, err := f.svc.Chat.GetOrCreateRoom(f.ctx, rex, pro)
	require.NoError(t, err)

	rec := &recorder{}
	cancel, err := f.svc.Chat.Subscribe(f.ctx, pro, room.ID, rec.handle)
	require.NoError(t, err)

	msg, err := f.svc.Chat.SendMessage(f.ctx, rex, room.ID, models.SendMessageRequest{Message: "is Rex due for shots?"})
	require.NoError(t, err)

	// a redelivery of the same row is dropped
	ev, err := realtime.NewEvent(msg.ID.String(), realtime.EventMessageCreated, realtime.RoomSubject(room.ID), msg)
	require.NoError(t, err)
	require.NoError(t, f.hub.Publish(f.ctx, ev))
	f.flush(rec, realtime.RoomSubject(room.ID))

	events := rec.ofType(realtime.EventMessageCreated)
	require.Len(t, events, 1)
	var got models.ChatMessage
	require.NoError(t, json.Unmarshal(events[0].Payload, &got))
	assert.Equal(t, msg.ID, got.ID)
	assert.Equal(t, "is Rex due for shots?", got.Message)

	notes := f.notificationsFor(pro)
	require.Len(t, notes, 1)
	assert.Equal(t, models.NotificationMessage, notes[0].Type)
	assert.Equal(t, "Rex sent you a message", notes[0].Message)
	assert.Empty(t, f.notificationsFor(rex))

	cancel()
	cancel()
	assert.Zero(t, f.broker.Subscribers(realtime.RoomSubject(room.ID)))

	_, err = f.svc.Chat.SendMessage(f.ctx, pro, room.ID, models.SendMessageRequest{Message: "yes"})
	require.NoError(t, err)
	assert.Len(t, rec.ofType(realtime.EventMessageCreated), 1)
}

func TestSendMessageReturnsWhileSubscriberIsStalled(t *testing.T) {
	f := newFixture(t)
	rex := f.pet(f.guardian("ana"), "Rex")
	pro := f.professional("Dr. Vet")
	room, err := f.svc.Chat.GetOrCreateRoom(f.ctx, rex, pro)
	require.NoError(t, err)

	release := make(chan struct{})
	defer close(release)
	cancel, err := f.svc.Chat.Subscribe(f.ctx, pro, room.ID, func(realtime.Event) { <-release })
	require.NoError(t, err)
	defer cancel()

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := f.svc.Chat.SendMessage(f.ctx, rex, room.ID, models.SendMessageRequest{Message: "ping"})
		require.NoError(t, err)
	}
	assert.Less(t, time.Since(start), 500*time.Millisecond)

	msgs, err := f.svc.Chat.Messages(f.ctx, pro, room.ID, 0)
	require.NoError(t, err)
	assert.Len(t, msgs, 3)
}

func TestChatWithoutHubStoresButCannotStream(t *testing.T) {
	f := newFixture(t)
	rex := f.pet(f.guardian("ana"), "Rex")
	bolt := f.pet(f.guardian("ben"), "Bolt")
	chat := services.NewChatService(f.repos.Chat, services.NewActorResolver(f.repos.User, f.repos.Pet), f.svc.Notifications, nil, quietLogger())

	room, err := chat.GetOrCreateRoom(f.ctx, rex, bolt)
	require.NoError(t, err)
	msg, err := chat.SendMessage(f.ctx, rex, room.ID, models.SendMessageRequest{Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "hi", msg.Message)
	assert.Len(t, f.notificationsFor(bolt), 1)

	_, err = chat.Subscribe(f.ctx, bolt, room.ID, func(realtime.Event) {})
	assert.ErrorIs(t, err, models.ErrDependency)
}

func TestMessagesAreOldestFirst(t *testing.T) {
	f := newFixture(t)
	rex := f.pet(f.guardian("ana"), "Rex")
	bolt := f.pet(f.guardian("ben"), "Bolt")
	room, err := f.svc.Chat.GetOrCreateRoom(f.ctx, rex, bolt)
	require.NoError(t, err)

	want := []string{"one", "two", "three", "four"}
	for i, text := range want {
		sender := rex
		if i%2 == 1 {
			sender = bolt
		}
		_, err := f.svc.Chat.SendMessage(f.ctx, sender, room.ID, models.SendMessageRequest{Message: text})
		require.NoError(t, err)
	}

	msgs, err := f.svc.Chat.Messages(f.ctx, bolt, room.ID, 0)
	require.NoError(t, err)
	got := make([]string, len(msgs))
	for i, m := range msgs {
		got[i] = m.Message
	}
	assert.Equal(t, want, got)

	msgs, err = f.svc.Chat.Messages(f.ctx, rex, room.ID, 2)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "three", msgs[0].Message)
	assert.Equal(t, "four", msgs[1].Message)
}
