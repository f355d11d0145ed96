package authz

import "github.com/Renan360Brasil/melody-academy-control/internal/model"

// NavState is the outcome of evaluating a navigation against the
// permission table.
type NavState int

const (
	// NavLoading means the auth state is not yet known; the caller
	// should wait and retry rather than redirect.
	NavLoading NavState = iota
	// NavUnauthenticated means no session exists.
	NavUnauthenticated
	// NavAllowed means the protected content may render.
	NavAllowed
	// NavDenied means a session exists but the route is not permitted
	// for the resolved role (or the profile is still unresolved).
	NavDenied
)

// Routes the guard redirects to.
const (
	LoginRoute = "/login"
	HomeRoute  = "/"
)

// Decision tells the routing layer what to do with a navigation.
// Each navigation terminates in either rendering (NavAllowed) or a
// redirect; Notify is set when exactly one denial toast must be shown.
type Decision struct {
	State      NavState
	RedirectTo string
	Notify     bool
}

// Evaluate runs the route-protection state machine for one navigation.
//
// Authentication is session-based: a live session counts as
// authenticated even while profile resolution is still pending. A nil
// user with a session denies quietly (fail closed, no toast) — the
// profile is either still resolving or its fetch failure was already
// surfaced by the resolver.
func Evaluate(ready, hasSession bool, user *model.AuthUser, route string) Decision {
	if !ready {
		return Decision{State: NavLoading}
	}
	if !hasSession {
		return Decision{State: NavUnauthenticated, RedirectTo: LoginRoute}
	}
	if user == nil {
		return Decision{State: NavDenied, RedirectTo: HomeRoute}
	}
	if !CanAccessRoute(user, route) {
		return Decision{State: NavDenied, RedirectTo: HomeRoute, Notify: true}
	}
	return Decision{State: NavAllowed}
}
