// Package eventbus provides a small synchronous in-process event dispatcher.
// Auth state changes (signed-in, signed-out, token-refreshed, ...) and goal
// completions are published here so that side effects such as last-login
// bookkeeping and audit logging stay out of the handlers.
package eventbus

import (
	"fmt"
	"sync"
	"time"

	"spendwise/internal/logger"
)

// EventType is an identifier for events.
type EventType string

// Event is the generic envelope used by the bus.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Data      any
}

// NewEvent creates a new Event with the timestamp set to the current time.
func NewEvent(eventType EventType, data any) Event {
	return Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}
}

type handler func(Event) error

// Bus is a concurrency-safe synchronous event dispatcher. All handlers run
// sequentially during Publish.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[EventType]map[uint64]handler
	nextID      uint64
}

// New creates an empty Bus.
func New() *Bus {
	return &Bus{
		subscribers: make(map[EventType]map[uint64]handler),
	}
}

// Subscribe registers a handler for the given event type and returns an
// unsubscribe function.
func (b *Bus) Subscribe(eventType EventType, h func(Event) error) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID

	if b.subscribers[eventType] == nil {
		b.subscribers[eventType] = make(map[uint64]handler)
	}
	b.subscribers[eventType][id] = handler(h)
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		if handlers := b.subscribers[eventType]; handlers != nil {
			delete(handlers, id)
			if len(handlers) == 0 {
				delete(b.subscribers, eventType)
			}
		}
	}
}

// SubscribeTyped registers a handler that expects a specific payload type T.
// It is a free function because Go does not allow extra type parameters on
// methods. Events whose payload is not a T are skipped.
func SubscribeTyped[T any](b *Bus, eventType EventType, h func(Event, T) error) (unsubscribe func()) {
	return b.Subscribe(eventType, func(e Event) error {
		payload, ok := e.Data.(T)
		if !ok {
			logger.Get().Debugw("event payload type mismatch",
				"event", string(eventType),
				"got", fmt.Sprintf("%T", e.Data),
			)
			return nil
		}
		return h(e, payload)
	})
}

// Publish sends the event to all handlers registered for its type, in
// registration order. Handler errors are collected rather than aborting the
// chain; panics are recovered and treated as errors.
func (b *Bus) Publish(e Event) error {
	b.mu.RLock()
	handlers := make([]handler, 0, len(b.subscribers[e.Type]))
	ids := make([]uint64, 0, len(b.subscribers[e.Type]))
	for id := range b.subscribers[e.Type] {
		ids = append(ids, id)
	}
	// Map iteration order is random; restore registration order by id.
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
	for _, id := range ids {
		handlers = append(handlers, b.subscribers[e.Type][id])
	}
	b.mu.RUnlock()

	var errs []error
	for _, h := range handlers {
		err := func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("handler panic for event %s: %v", e.Type, r)
				}
			}()
			return h(e)
		}()
		if err != nil {
			logger.Get().Errorw("event handler failed", "event", string(e.Type), "error", err)
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("event %s: %d handler(s) failed: %v", e.Type, len(errs), errs)
	}
	return nil
}
