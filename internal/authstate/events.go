package authstate

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType identifies an auth lifecycle event. All types are handled
// uniformly as "session changed"; the enum exists for logging and for
// subscribers with narrower interests.
type EventType string

const (
	EventSignedIn       EventType = "SIGNED_IN"
	EventSignedOut      EventType = "SIGNED_OUT"
	EventTokenRefreshed EventType = "TOKEN_REFRESHED"
)

// Session is the server-side record of one issued token. It is created
// on login/signup, replaced on refresh and destroyed on logout; the
// application never fabricates one outside those paths.
type Session struct {
	JTI       string    `json:"jti"`
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Event is one auth state change. Session is the affected session: the
// one issued for SIGNED_IN/TOKEN_REFRESHED, the one invalidated for
// SIGNED_OUT.
type Event struct {
	Type    EventType
	Session *Session
	// UserID is always set, even when Session is nil.
	UserID uuid.UUID
}

// Bus fans auth events out to subscribers in publish order.
type Bus struct {
	mu   sync.Mutex
	subs map[int]chan Event
	next int
}

// NewBus creates an event bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Subscribe registers a subscriber and returns its channel plus an
// unsubscribe function. The channel is buffered; delivery order matches
// publish order.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan Event, 256)
	b.subs[id] = ch

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
}

// Publish delivers ev to every subscriber. Blocks if a subscriber's
// buffer is full so ordering is never traded for drops.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		ch <- ev
	}
}
