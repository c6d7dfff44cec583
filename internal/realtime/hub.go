package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

const (
	// seenWindow bounds how many event ids a subscriber remembers
	seenWindow = 1024
	// subscriberBuffer is the queue depth per subscriber; events arriving at
	// a full queue are dropped, as core NATS does for slow consumers
	subscriberBuffer = 64
)

// Hub publishes typed events and hands out subscriptions that invoke their
// handler at most once per event id.
type Hub struct {
	broker Broker
	log    echo.Logger
}

// NewHub wraps a broker
func NewHub(broker Broker, logger echo.Logger) *Hub {
	return &Hub{broker: broker, log: logger}
}

// Publish sends ev on its subject. It never waits on a subscriber's handler.
func (h *Hub) Publish(ctx context.Context, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return h.broker.Publish(ctx, ev.Subject, data)
}

// Subscribe registers handler on subject. Handler calls run one at a time,
// in arrival order, on a goroutine owned by the subscription. The returned
// cancel func tears the subscription down and drops anything still queued;
// it is safe to call more than once.
func (h *Hub) Subscribe(subject string, handler func(Event)) (cancel func(), err error) {
	seen, err := lru.New[string, struct{}](seenWindow)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", subject, err)
	}
	sub := &subscription{
		handler: handler,
		seen:    seen,
		events:  make(chan Event, subscriberBuffer),
		quit:    make(chan struct{}),
	}

	unsubscribe, err := h.broker.Subscribe(subject, func(data []byte) {
		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			h.log.Warnj(log.JSON{"event": "realtime_decode_failed", "subject": subject, "error": err.Error()})
			return
		}
		if !sub.offer(ev) {
			h.log.Warnj(log.JSON{"event": "realtime_subscriber_overflow", "subject": subject, "event_id": ev.ID})
		}
	})
	if err != nil {
		return nil, err
	}
	go sub.run()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(sub.quit)
			if err := unsubscribe(); err != nil {
				h.log.Warnj(log.JSON{"event": "realtime_unsubscribe_failed", "subject": subject, "error": err.Error()})
			}
		})
	}, nil
}

type subscription struct {
	handler func(Event)
	seen    *lru.Cache[string, struct{}]
	events  chan Event
	quit    chan struct{}
}

// offer queues ev without blocking. It reports false when the queue is full.
func (s *subscription) offer(ev Event) bool {
	select {
	case <-s.quit:
		return true
	default:
	}
	select {
	case s.events <- ev:
		return true
	default:
		return false
	}
}

func (s *subscription) run() {
	for {
		select {
		case <-s.quit:
			return
		case ev := <-s.events:
			select {
			case <-s.quit:
				return
			default:
			}
			if found, _ := s.seen.ContainsOrAdd(ev.ID, struct{}{}); found {
				continue
			}
			s.handler(ev)
		}
	}
}
