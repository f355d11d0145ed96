package middleware

import (
	"net/http"

	"github.com/Renan360Brasil/melody-academy-control/internal/authstate"
	"github.com/Renan360Brasil/melody-academy-control/internal/authz"
	"github.com/Renan360Brasil/melody-academy-control/internal/model"
	"github.com/Renan360Brasil/melody-academy-control/internal/notify"
	"github.com/Renan360Brasil/melody-academy-control/internal/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// ContextKeyAuthUser is the Gin context key for the resolved AuthUser.
	ContextKeyAuthUser = "auth_user"
)

// RequireRoute guards an API group with the page-route permission table.
// It runs after RequireAuth, so a session is known to exist; what it
// decides is whether the resolved profile's role may use this route.
//
// Denials for a resolved user are announced with a toast; denials while
// the profile is still unresolved stay silent, since the likely cause
// is a profile row that has not landed yet rather than a real
// permission problem.
func RequireRoute(tracker *authstate.Tracker, notifier notify.Notifier, route string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortRedirect(c, http.StatusUnauthorized, response.ErrTokenRequired, authz.LoginRoute)
			return
		}
		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			response.AbortRedirect(c, http.StatusUnauthorized, response.ErrTokenInvalid, authz.LoginRoute)
			return
		}

		user := tracker.User(userID)
		if user == nil {
			user = tracker.ResolveNow(c.Request.Context(), userID)
		}

		decision := authz.Evaluate(tracker.Ready(), true, user, route)
		switch decision.State {
		case authz.NavLoading:
			response.AbortFail(c, http.StatusServiceUnavailable, response.ErrProfileIncomplete)
		case authz.NavUnauthenticated:
			response.AbortRedirect(c, http.StatusUnauthorized, response.ErrTokenRequired, decision.RedirectTo)
		case authz.NavDenied:
			if decision.Notify {
				notifier.Error(userID, response.GetMessage(response.ErrRouteDenied))
				response.AbortRedirect(c, http.StatusForbidden, response.ErrRouteDenied, decision.RedirectTo)
				return
			}
			response.AbortRedirect(c, http.StatusForbidden, response.ErrProfileIncomplete, decision.RedirectTo)
		default:
			c.Set(ContextKeyAuthUser, user)
			c.Next()
		}
	}
}

// RequireAdmin restricts an endpoint to admins. It runs after
// RequireRoute, which placed the resolved user in the context; pages
// every role can open still have admin-only mutations behind this.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := GetAuthUser(c)
		if user == nil || user.Role != model.RoleAdmin {
			response.AbortFail(c, http.StatusForbidden, response.ErrForbidden)
			return
		}
		c.Next()
	}
}

// GetAuthUser retrieves the resolved AuthUser from the Gin context.
func GetAuthUser(c *gin.Context) *model.AuthUser {
	val, exists := c.Get(ContextKeyAuthUser)
	if !exists {
		return nil
	}
	user, ok := val.(*model.AuthUser)
	if !ok {
		return nil
	}
	return user
}
