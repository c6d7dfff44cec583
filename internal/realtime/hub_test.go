package realtime_test

import (
	"context"
	"io"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	"github.com/pawprint-social/backend/internal/models"
	"github.com/pawprint-social/backend/internal/realtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHub() (*realtime.MemoryBroker, *realtime.Hub) {
	logger := log.New("test")
	logger.SetOutput(io.Discard)
	broker := realtime.NewMemoryBroker()
	return broker, realtime.NewHub(broker, logger)
}

type collector struct {
	mu  sync.Mutex
	ids []string
}

func (c *collector) handle(ev realtime.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ids = append(c.ids, ev.ID)
}

func (c *collector) seen() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.ids...)
}

// waitFor blocks until n events have been handled
func (c *collector) waitFor(t *testing.T, n int) []string {
	t.Helper()
	require.Eventually(t, func() bool { return len(c.seen()) >= n }, time.Second, 5*time.Millisecond)
	return c.seen()
}

func mustEvent(t *testing.T, id, subject string) realtime.Event {
	t.Helper()
	ev, err := realtime.NewEvent(id, realtime.EventMessageCreated, subject, map[string]string{"id": id})
	require.NoError(t, err)
	return ev
}

func TestHubDeliversEachEventOnce(t *testing.T) {
	_, hub := newHub()
	subject := realtime.RoomSubject(uuid.New())
	ctx := context.Background()

	c := &collector{}
	cancel, err := hub.Subscribe(subject, c.handle)
	require.NoError(t, err)
	defer cancel()

	for _, id := range []string{"a", "b", "a", "c", "b"} {
		require.NoError(t, hub.Publish(ctx, mustEvent(t, id, subject)))
	}
	// the trailing marker is handled after every earlier delivery
	require.NoError(t, hub.Publish(ctx, mustEvent(t, "end", subject)))
	assert.Equal(t, []string{"a", "b", "c", "end"}, c.waitFor(t, 4))
}

func TestHubKeepsSubjectsApart(t *testing.T) {
	_, hub := newHub()
	ctx := context.Background()
	room1, room2 := realtime.RoomSubject(uuid.New()), realtime.RoomSubject(uuid.New())

	c := &collector{}
	cancel, err := hub.Subscribe(room1, c.handle)
	require.NoError(t, err)
	defer cancel()

	require.NoError(t, hub.Publish(ctx, mustEvent(t, "x", room2)))
	require.NoError(t, hub.Publish(ctx, mustEvent(t, "y", room1)))
	assert.Equal(t, []string{"y"}, c.waitFor(t, 1))
}

func TestHubCancelIsIdempotent(t *testing.T) {
	broker, hub := newHub()
	ctx := context.Background()
	subject := realtime.NotificationSubject(models.PetActor(uuid.New()))

	c := &collector{}
	cancel, err := hub.Subscribe(subject, c.handle)
	require.NoError(t, err)
	other, err := hub.Subscribe(subject, func(realtime.Event) {})
	require.NoError(t, err)
	assert.Equal(t, 2, broker.Subscribers(subject))

	cancel()
	cancel()
	assert.Equal(t, 1, broker.Subscribers(subject))

	require.NoError(t, hub.Publish(ctx, mustEvent(t, "late", subject)))
	assert.Empty(t, c.seen())

	other()
	assert.Zero(t, broker.Subscribers(subject))
}

func TestEachSubscriberHasItsOwnDedupe(t *testing.T) {
	_, hub := newHub()
	ctx := context.Background()
	subject := realtime.RoomSubject(uuid.New())

	first, second := &collector{}, &collector{}
	cancel1, err := hub.Subscribe(subject, first.handle)
	require.NoError(t, err)
	defer cancel1()
	require.NoError(t, hub.Publish(ctx, mustEvent(t, "m1", subject)))

	cancel2, err := hub.Subscribe(subject, second.handle)
	require.NoError(t, err)
	defer cancel2()
	require.NoError(t, hub.Publish(ctx, mustEvent(t, "m1", subject)))
	require.NoError(t, hub.Publish(ctx, mustEvent(t, "m2", subject)))

	assert.Equal(t, []string{"m1", "m2"}, first.waitFor(t, 2))
	assert.Equal(t, []string{"m1", "m2"}, second.waitFor(t, 2))
}

func TestSlowSubscriberDoesNotBlockPublisher(t *testing.T) {
	_, hub := newHub()
	ctx := context.Background()
	subject := realtime.RoomSubject(uuid.New())

	release := make(chan struct{})
	slow := &collector{}
	cancelSlow, err := hub.Subscribe(subject, func(ev realtime.Event) {
		<-release
		slow.handle(ev)
	})
	require.NoError(t, err)
	defer cancelSlow()

	fast := &collector{}
	cancelFast, err := hub.Subscribe(subject, fast.handle)
	require.NoError(t, err)
	defer cancelFast()

	start := time.Now()
	for i := 0; i < 200; i++ {
		require.NoError(t, hub.Publish(ctx, mustEvent(t, fmt.Sprintf("e%d", i), subject)))
	}
	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.NotEmpty(t, fast.waitFor(t, 1))

	// the slow queue kept the oldest 64 events, plus the one in hand, and
	// dropped the rest
	close(release)
	got := slow.waitFor(t, 64)
	assert.Equal(t, "e0", got[0])
	time.Sleep(20 * time.Millisecond)
	assert.LessOrEqual(t, len(slow.seen()), 65)
}
