package authstate

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Renan360Brasil/melody-academy-control/internal/model"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// fakeResolver answers Resolve from a programmable table and can block
// individual calls to order resolutions deterministically.
type fakeResolver struct {
	mu      sync.Mutex
	users   map[uuid.UUID]*model.AuthUser
	errs    map[uuid.UUID]error
	calls   int
	blockCh chan struct{} // When set, the next call waits until closed.
}

func (f *fakeResolver) Resolve(_ context.Context, userID uuid.UUID) (*model.AuthUser, error) {
	f.mu.Lock()
	f.calls++
	block := f.blockCh
	f.blockCh = nil
	user := f.users[userID]
	err := f.errs[userID]
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrProfileNotFound
	}
	return user, nil
}

func (f *fakeResolver) set(u *model.AuthUser) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[u.ID] = u
}

type captureNotifier struct {
	mu     sync.Mutex
	errors []string
}

func (c *captureNotifier) Success(uuid.UUID, string) {}
func (c *captureNotifier) Info(uuid.UUID, string)    {}
func (c *captureNotifier) Error(_ uuid.UUID, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors = append(c.errors, message)
}

func (c *captureNotifier) errorCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.errors)
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{users: make(map[uuid.UUID]*model.AuthUser), errs: make(map[uuid.UUID]error)}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func liveSession(userID uuid.UUID) *Session {
	return &Session{JTI: uuid.New().String(), UserID: userID, Email: "u@example.com", ExpiresAt: time.Now().Add(time.Hour)}
}

func TestWarmStartReplaysSessionsAndReportsReady(t *testing.T) {
	resolver := newFakeResolver()
	userID := uuid.New()
	resolver.set(&model.AuthUser{ID: userID, Name: "Warm", Role: model.RoleAdmin})

	expired := Session{JTI: "expired", UserID: uuid.New(), ExpiresAt: time.Now().Add(-time.Minute)}
	warm := []Session{*liveSession(userID), expired}

	tracker := NewTracker(resolver, &captureNotifier{}, zerolog.Nop())
	tracker.Start(NewBus(), warm)
	defer tracker.Close()

	waitFor(t, "ready", tracker.Ready)

	if !tracker.IsAuthenticated(userID) {
		t.Error("warm session not restored")
	}
	if tracker.IsAuthenticated(expired.UserID) {
		t.Error("expired warm session restored")
	}
	waitFor(t, "profile resolution", func() bool { return tracker.User(userID) != nil })
}

func TestReadyFlipsTrueWithoutWarmSessions(t *testing.T) {
	tracker := NewTracker(newFakeResolver(), &captureNotifier{}, zerolog.Nop())
	tracker.Start(NewBus(), nil)
	defer tracker.Close()

	waitFor(t, "ready", tracker.Ready)
}

func TestSignInEventResolvesProfile(t *testing.T) {
	resolver := newFakeResolver()
	userID := uuid.New()
	resolver.set(&model.AuthUser{ID: userID, Name: "Alice", Role: model.RoleTeacher})

	bus := NewBus()
	tracker := NewTracker(resolver, &captureNotifier{}, zerolog.Nop())
	tracker.Start(bus, nil)
	defer tracker.Close()
	waitFor(t, "ready", tracker.Ready)

	bus.Publish(Event{Type: EventSignedIn, Session: liveSession(userID), UserID: userID})

	waitFor(t, "authenticated", func() bool { return tracker.IsAuthenticated(userID) })
	waitFor(t, "user resolved", func() bool {
		u := tracker.User(userID)
		return u != nil && u.Name == "Alice"
	})
}

func TestSignOutClearsUserImmediately(t *testing.T) {
	resolver := newFakeResolver()
	userID := uuid.New()
	resolver.set(&model.AuthUser{ID: userID, Name: "Bob", Role: model.RoleStudent})

	bus := NewBus()
	tracker := NewTracker(resolver, &captureNotifier{}, zerolog.Nop())
	tracker.Start(bus, nil)
	defer tracker.Close()
	waitFor(t, "ready", tracker.Ready)

	session := liveSession(userID)
	bus.Publish(Event{Type: EventSignedIn, Session: session, UserID: userID})
	waitFor(t, "user resolved", func() bool { return tracker.User(userID) != nil })

	bus.Publish(Event{Type: EventSignedOut, Session: session, UserID: userID})
	waitFor(t, "signed out", func() bool { return !tracker.IsAuthenticated(userID) })

	if tracker.User(userID) != nil {
		t.Error("user not cleared after last session ended")
	}
}

func TestSecondSessionSurvivesFirstSignOut(t *testing.T) {
	resolver := newFakeResolver()
	userID := uuid.New()
	resolver.set(&model.AuthUser{ID: userID, Name: "Cara", Role: model.RoleAdmin})

	bus := NewBus()
	tracker := NewTracker(resolver, &captureNotifier{}, zerolog.Nop())
	tracker.Start(bus, nil)
	defer tracker.Close()
	waitFor(t, "ready", tracker.Ready)

	first := liveSession(userID)
	second := liveSession(userID)
	bus.Publish(Event{Type: EventSignedIn, Session: first, UserID: userID})
	bus.Publish(Event{Type: EventSignedIn, Session: second, UserID: userID})
	waitFor(t, "user resolved", func() bool { return tracker.User(userID) != nil })

	bus.Publish(Event{Type: EventSignedOut, Session: first, UserID: userID})

	// The other session keeps the identity authenticated and resolved.
	time.Sleep(50 * time.Millisecond)
	if !tracker.IsAuthenticated(userID) {
		t.Error("identity lost despite a live session")
	}
	if tracker.User(userID) == nil {
		t.Error("user cleared despite a live session")
	}
}

func TestStaleResolutionIsDiscarded(t *testing.T) {
	resolver := newFakeResolver()
	userID := uuid.New()

	bus := NewBus()
	tracker := NewTracker(resolver, &captureNotifier{}, zerolog.Nop())
	tracker.Start(bus, nil)
	defer tracker.Close()
	waitFor(t, "ready", tracker.Ready)

	// First resolution returns the old name and blocks until released.
	release := make(chan struct{})
	resolver.mu.Lock()
	resolver.users[userID] = &model.AuthUser{ID: userID, Name: "Old", Role: model.RoleStudent}
	resolver.blockCh = release
	resolver.mu.Unlock()

	bus.Publish(Event{Type: EventSignedIn, Session: liveSession(userID), UserID: userID})
	waitFor(t, "first resolution started", func() bool {
		resolver.mu.Lock()
		defer resolver.mu.Unlock()
		return resolver.calls == 1
	})

	// A newer event supersedes the in-flight resolution.
	resolver.set(&model.AuthUser{ID: userID, Name: "New", Role: model.RoleStudent})
	bus.Publish(Event{Type: EventTokenRefreshed, Session: liveSession(userID), UserID: userID})
	time.Sleep(50 * time.Millisecond)
	close(release)

	waitFor(t, "latest resolution committed", func() bool {
		u := tracker.User(userID)
		return u != nil && u.Name == "New"
	})
	if u := tracker.User(userID); u.Name == "Old" {
		t.Error("stale resolution overwrote a newer one")
	}
}

func TestInvalidateRefreshesCachedUser(t *testing.T) {
	resolver := newFakeResolver()
	userID := uuid.New()
	resolver.set(&model.AuthUser{ID: userID, Name: "Before", Role: model.RoleTeacher})

	bus := NewBus()
	tracker := NewTracker(resolver, &captureNotifier{}, zerolog.Nop())
	tracker.Start(bus, nil)
	defer tracker.Close()
	waitFor(t, "ready", tracker.Ready)

	bus.Publish(Event{Type: EventSignedIn, Session: liveSession(userID), UserID: userID})
	waitFor(t, "user resolved", func() bool {
		u := tracker.User(userID)
		return u != nil && u.Name == "Before"
	})

	// The profile row changes out of band; without invalidation the
	// cached user would serve the old name until the next sign-in.
	resolver.set(&model.AuthUser{ID: userID, Name: "After", Role: model.RoleTeacher})
	tracker.Invalidate(userID)

	waitFor(t, "cache refreshed", func() bool {
		u := tracker.User(userID)
		return u != nil && u.Name == "After"
	})
	if u := tracker.ResolveNow(context.Background(), userID); u == nil || u.Name != "After" {
		t.Fatalf("ResolveNow after invalidate: got %+v", u)
	}
	if !tracker.IsAuthenticated(userID) {
		t.Error("invalidation dropped the session")
	}
}

func TestMissingProfileIsSilentAndKeepsSession(t *testing.T) {
	resolver := newFakeResolver() // No user registered: resolver reports not-found.
	notifier := &captureNotifier{}
	userID := uuid.New()

	bus := NewBus()
	tracker := NewTracker(resolver, notifier, zerolog.Nop())
	tracker.Start(bus, nil)
	defer tracker.Close()
	waitFor(t, "ready", tracker.Ready)

	bus.Publish(Event{Type: EventSignedIn, Session: liveSession(userID), UserID: userID})
	waitFor(t, "resolution attempted", func() bool {
		resolver.mu.Lock()
		defer resolver.mu.Unlock()
		return resolver.calls >= 1
	})

	if !tracker.IsAuthenticated(userID) {
		t.Error("missing profile invalidated the session")
	}
	if tracker.User(userID) != nil {
		t.Error("user set despite missing profile")
	}
	if notifier.errorCount() != 0 {
		t.Error("missing profile produced a user-facing error")
	}
}

func TestResolutionFailureNotifiesButKeepsSession(t *testing.T) {
	resolver := newFakeResolver()
	notifier := &captureNotifier{}
	userID := uuid.New()
	resolver.errs[userID] = errors.New("connection refused")

	bus := NewBus()
	tracker := NewTracker(resolver, notifier, zerolog.Nop())
	tracker.Start(bus, nil)
	defer tracker.Close()
	waitFor(t, "ready", tracker.Ready)

	bus.Publish(Event{Type: EventSignedIn, Session: liveSession(userID), UserID: userID})
	waitFor(t, "failure surfaced", func() bool { return notifier.errorCount() == 1 })

	if !tracker.IsAuthenticated(userID) {
		t.Error("resolution failure invalidated the session")
	}
}

func TestResolveNowFallsBackToSynchronousLookup(t *testing.T) {
	resolver := newFakeResolver()
	userID := uuid.New()
	resolver.set(&model.AuthUser{ID: userID, Name: "Sync", Role: model.RoleAdmin})

	tracker := NewTracker(resolver, &captureNotifier{}, zerolog.Nop())
	tracker.Start(NewBus(), nil)
	defer tracker.Close()
	waitFor(t, "ready", tracker.Ready)

	u := tracker.ResolveNow(context.Background(), userID)
	if u == nil || u.Name != "Sync" {
		t.Fatalf("ResolveNow: got %+v", u)
	}

	// Second call hits the cache, not the resolver.
	resolver.mu.Lock()
	calls := resolver.calls
	resolver.mu.Unlock()
	tracker.ResolveNow(context.Background(), userID)
	resolver.mu.Lock()
	defer resolver.mu.Unlock()
	if resolver.calls != calls {
		t.Error("cached ResolveNow still hit the resolver")
	}
}
