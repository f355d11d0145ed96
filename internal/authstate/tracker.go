package authstate

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Renan360Brasil/melody-academy-control/internal/model"
	"github.com/Renan360Brasil/melody-academy-control/internal/notify"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrProfileNotFound signals that the profile row backing a session does
// not exist yet. It is expected momentarily after signup and is never
// surfaced to the user.
var ErrProfileNotFound = errors.New("profile not found")

// Resolver converts a session's user id into a normalized AuthUser.
type Resolver interface {
	Resolve(ctx context.Context, userID uuid.UUID) (*model.AuthUser, error)
}

type resolveTask struct {
	userID uuid.UUID
	gen    uint64
}

// Tracker owns the mutable auth state: live sessions plus the AuthUser
// resolved for each identity. It is the only writer of that state; the
// middleware and handlers read it. Events are applied strictly in
// arrival order on one dispatch goroutine, and profile resolution runs
// deferred on a second goroutine.
//
// Session presence is the hard guarantee; the resolved profile is
// best-effort enrichment. A resolution failure never invalidates the
// session it enriches.
type Tracker struct {
	log      zerolog.Logger
	resolver Resolver
	notifier notify.Notifier

	mu       sync.RWMutex
	ready    bool
	sessions map[string]Session
	byUser   map[uuid.UUID]int
	users    map[uuid.UUID]*model.AuthUser
	gen      map[uuid.UUID]uint64

	tasks       chan resolveTask
	events      <-chan Event
	unsubscribe func()
	done        chan struct{}
	closeOnce   sync.Once
	wg          sync.WaitGroup
}

// NewTracker creates a Tracker. Call Start to begin consuming events.
func NewTracker(resolver Resolver, notifier notify.Notifier, log zerolog.Logger) *Tracker {
	return &Tracker{
		log:      log.With().Str("component", "auth_tracker").Logger(),
		resolver: resolver,
		notifier: notifier,
		sessions: make(map[string]Session),
		byUser:   make(map[uuid.UUID]int),
		users:    make(map[uuid.UUID]*model.AuthUser),
		gen:      make(map[uuid.UUID]uint64),
		tasks:    make(chan resolveTask, 256),
		done:     make(chan struct{}),
	}
}

// Start subscribes to the bus and begins processing. Sessions in warm
// (restored from the registry on boot) are replayed through the same
// event path as live events before the tracker reports Ready.
func (t *Tracker) Start(bus *Bus, warm []Session) {
	t.events, t.unsubscribe = bus.Subscribe()
	t.wg.Add(2)
	go t.dispatchLoop(warm)
	go t.resolveLoop()
}

// Close unsubscribes from the bus and stops both goroutines.
func (t *Tracker) Close() {
	t.closeOnce.Do(func() {
		if t.unsubscribe != nil {
			t.unsubscribe()
		}
		close(t.done)
	})
	t.wg.Wait()
}

// Ready reports whether the initial warm-start pass has been processed.
// It flips to true exactly once, even when there were no sessions to
// restore, and never flips back — profile resolution being in flight
// does not count as loading.
func (t *Tracker) Ready() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.ready
}

// User returns the resolved AuthUser for an identity, or nil while the
// profile is unresolved. The returned value is shared; treat it as
// read-only.
func (t *Tracker) User(userID uuid.UUID) *model.AuthUser {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.users[userID]
}

// IsAuthenticated reports whether the identity has at least one live
// session. Authentication is session-based: it does not wait for the
// profile to resolve.
func (t *Tracker) IsAuthenticated(userID uuid.UUID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.byUser[userID] > 0
}

// Invalidate drops the cached AuthUser for an identity and schedules a
// fresh resolution. Callers that mutate profile rows use this so reads
// pick up the new data without waiting for the next session event.
func (t *Tracker) Invalidate(userID uuid.UUID) {
	t.mu.Lock()
	delete(t.users, userID)
	t.gen[userID]++
	task := resolveTask{userID: userID, gen: t.gen[userID]}
	t.mu.Unlock()

	select {
	case t.tasks <- task:
	case <-t.done:
	}
}

// ResolveNow returns the cached AuthUser or, on a miss, resolves it
// synchronously. This is the request-path fallback; it runs outside the
// event callback so the deferred-scheduling constraint does not apply.
func (t *Tracker) ResolveNow(ctx context.Context, userID uuid.UUID) *model.AuthUser {
	t.mu.Lock()
	if u := t.users[userID]; u != nil {
		t.mu.Unlock()
		return u
	}
	t.gen[userID]++
	task := resolveTask{userID: userID, gen: t.gen[userID]}
	t.mu.Unlock()

	t.resolveAndCommit(ctx, task)

	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.users[userID]
}

func (t *Tracker) dispatchLoop(warm []Session) {
	defer t.wg.Done()

	now := time.Now()
	for i := range warm {
		s := warm[i]
		if s.ExpiresAt.Before(now) {
			continue
		}
		t.handleEvent(Event{Type: EventSignedIn, Session: &s, UserID: s.UserID})
	}
	t.mu.Lock()
	t.ready = true
	t.mu.Unlock()

	for {
		select {
		case <-t.done:
			return
		case ev, ok := <-t.events:
			if !ok {
				return
			}
			t.handleEvent(ev)
		}
	}
}

func (t *Tracker) resolveLoop() {
	defer t.wg.Done()
	for {
		select {
		case <-t.done:
			return
		case task := <-t.tasks:
			t.resolveAndCommit(context.Background(), task)
		}
	}
}

// handleEvent applies one auth event. It must return quickly and must
// never touch storage: resolution is enqueued for the resolver
// goroutine. This deferred boundary is a hard constraint — events are
// published from inside auth call paths, and re-entering storage from
// the dispatch callback is not allowed.
func (t *Tracker) handleEvent(ev Event) {
	if ev.Type == EventSignedOut {
		t.mu.Lock()
		if ev.Session != nil {
			if _, ok := t.sessions[ev.Session.JTI]; ok {
				delete(t.sessions, ev.Session.JTI)
				t.byUser[ev.UserID]--
				if t.byUser[ev.UserID] <= 0 {
					delete(t.byUser, ev.UserID)
					// Last session gone: the derived user is cleared
					// immediately, no resolution round trip.
					delete(t.users, ev.UserID)
					t.gen[ev.UserID]++
				}
			}
		}
		t.mu.Unlock()
		return
	}

	// SIGNED_IN and TOKEN_REFRESHED are both "session changed".
	if ev.Session == nil {
		return
	}
	t.mu.Lock()
	if _, ok := t.sessions[ev.Session.JTI]; !ok {
		t.byUser[ev.UserID]++
	}
	t.sessions[ev.Session.JTI] = *ev.Session
	t.gen[ev.UserID]++
	task := resolveTask{userID: ev.UserID, gen: t.gen[ev.UserID]}
	t.mu.Unlock()

	select {
	case t.tasks <- task:
	case <-t.done:
	}
}

// resolveAndCommit runs one profile resolution and commits the result
// unless a newer resolution for the same identity has started since:
// the latest-started resolution wins and stale completions are dropped.
func (t *Tracker) resolveAndCommit(ctx context.Context, task resolveTask) {
	user, err := t.resolver.Resolve(ctx, task.userID)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.gen[task.userID] != task.gen {
		return
	}

	switch {
	case err == nil:
		t.users[task.userID] = user
	case errors.Is(err, ErrProfileNotFound):
		// Expected right after signup while the profile row is still
		// being created. Silent; the next event or lookup retries.
	default:
		t.log.Error().Err(err).Stringer("user_id", task.userID).Msg("Profile resolution failed")
		t.notifier.Error(task.userID, "Erro ao carregar perfil do usuário.")
	}
}
