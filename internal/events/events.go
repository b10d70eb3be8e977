package events

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"shiftbook/internal/models"
)

// Event types published by the store.
const (
	StateChanged     = "state.changed"
	ShiftsFetched    = "shifts.fetched"
	FetchFailed      = "shifts.fetch_failed"
	ShiftBooked      = "shift.booked"
	ShiftCancelled   = "shift.cancelled"
	MutationFailed   = "shift.mutation_failed"
	MutationRejected = "shift.mutation_rejected"
)

// Event represents a lightweight domain event.
type Event struct {
	ID        int64
	Type      string
	Payload   any
	CreatedAt time.Time
}

// Failure is the payload of FetchFailed and MutationFailed.
type Failure struct {
	ShiftID string               `json:"shiftId,omitempty"`
	Kind    models.MutationState `json:"kind,omitempty"`
	Message string               `json:"message"`
	Code    string               `json:"code,omitempty"`
}

// EventHandler reacts to an event.
type EventHandler func(event Event) error

type subscription struct {
	id      uint64
	handler EventHandler
}

// EventBus provides in-process pub/sub for events.
type EventBus struct {
	subscribers map[string][]subscription
	mu          sync.RWMutex

	nextSub uint64
	seq     atomic.Int64
	log     zerolog.Logger
}

// NewEventBus constructs an empty bus. Handler errors are logged to logger.
func NewEventBus(logger *zerolog.Logger) *EventBus {
	log := zerolog.Nop()
	if logger != nil {
		log = *logger
	}
	return &EventBus{subscribers: make(map[string][]subscription), log: log}
}

// Subscribe registers a handler for a given event type and returns a func
// that removes it. Calling the returned func more than once is harmless.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextSub++
	id := b.nextSub
	b.subscribers[eventType] = append(b.subscribers[eventType], subscription{id: id, handler: handler})

	var once sync.Once
	return func() {
		once.Do(func() { b.unsubscribe(eventType, id) })
	}
}

func (b *EventBus) unsubscribe(eventType string, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.subscribers[eventType]
	for i, s := range subs {
		if s.id == id {
			// Copy so a concurrent Publish keeps iterating its own slice.
			next := make([]subscription, 0, len(subs)-1)
			next = append(next, subs[:i]...)
			next = append(next, subs[i+1:]...)
			if len(next) == 0 {
				delete(b.subscribers, eventType)
			} else {
				b.subscribers[eventType] = next
			}
			return
		}
	}
}

// Subscribers returns the number of handlers registered for eventType.
func (b *EventBus) Subscribers(eventType string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[eventType])
}

// Publish notifies subscribers of the event type.
func (b *EventBus) Publish(event Event) {
	b.mu.RLock()
	subs := append([]subscription(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if len(subs) == 0 {
		return
	}
	if event.ID == 0 {
		event.ID = b.seq.Add(1)
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, s := range subs {
		// Handlers run synchronously; caller decides concurrency model.
		if err := s.handler(event); err != nil {
			b.log.Warn().Err(err).Str("event", event.Type).Int64("event_id", event.ID).Msg("event handler failed")
		}
	}
}
