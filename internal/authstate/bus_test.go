package authstate

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestBusDeliversInPublishOrder(t *testing.T) {
	bus := NewBus()
	events, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	userID := uuid.New()
	for i := 0; i < 50; i++ {
		jti := uuid.New().String()
		bus.Publish(Event{
			Type:    EventSignedIn,
			Session: &Session{JTI: jti, UserID: userID, ExpiresAt: time.Now().Add(time.Hour)},
			UserID:  userID,
		})
	}

	var prev string
	for i := 0; i < 50; i++ {
		select {
		case ev := <-events:
			if ev.Session.JTI == prev {
				t.Fatal("duplicate delivery")
			}
			prev = ev.Session.JTI
		case <-time.After(time.Second):
			t.Fatalf("event %d not delivered", i)
		}
	}
}

func TestBusFansOutToAllSubscribers(t *testing.T) {
	bus := NewBus()
	a, cancelA := bus.Subscribe()
	b, cancelB := bus.Subscribe()
	defer cancelA()
	defer cancelB()

	userID := uuid.New()
	bus.Publish(Event{Type: EventSignedOut, UserID: userID})

	for name, ch := range map[string]<-chan Event{"a": a, "b": b} {
		select {
		case ev := <-ch:
			if ev.UserID != userID {
				t.Errorf("subscriber %s: wrong user id", name)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %s missed event", name)
		}
	}
}

func TestUnsubscribeClosesChannelOnce(t *testing.T) {
	bus := NewBus()
	events, unsubscribe := bus.Subscribe()

	unsubscribe()
	unsubscribe() // Second call must be a no-op.

	if _, ok := <-events; ok {
		t.Error("channel still open after unsubscribe")
	}

	// Publishing after unsubscribe must not panic.
	bus.Publish(Event{Type: EventSignedOut, UserID: uuid.New()})
}
