package realtime

import (
	"context"
	"sync"
)

// Broker moves raw payloads between publishers and subscribers keyed by subject
type Broker interface {
	Publish(ctx context.Context, subject string, data []byte) error
	Subscribe(subject string, handler func(data []byte)) (unsubscribe func() error, err error)
	Close() error
}

// MemoryBroker hands payloads to subscriber callbacks in process, in publish
// order. Callbacks must not block; Hub subscriptions only enqueue. It serves
// single-instance deployments and tests.
type MemoryBroker struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string]map[int]func([]byte)
}

// NewMemoryBroker creates an empty in-process broker
func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{subs: map[string]map[int]func([]byte){}}
}

func (b *MemoryBroker) Publish(_ context.Context, subject string, data []byte) error {
	b.mu.RLock()
	handlers := make([]func([]byte), 0, len(b.subs[subject]))
	for _, h := range b.subs[subject] {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(data)
	}
	return nil
}

func (b *MemoryBroker) Subscribe(subject string, handler func([]byte)) (func() error, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	if b.subs[subject] == nil {
		b.subs[subject] = map[int]func([]byte){}
	}
	b.subs[subject][id] = handler

	return func() error {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[subject], id)
		if len(b.subs[subject]) == 0 {
			delete(b.subs, subject)
		}
		return nil
	}, nil
}

// Subscribers reports the number of live subscriptions on subject
func (b *MemoryBroker) Subscribers(subject string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[subject])
}

func (b *MemoryBroker) Close() error { return nil }
