package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/Renan360Brasil/melody-academy-control/internal/authz"
	"github.com/Renan360Brasil/melody-academy-control/internal/response"
	"github.com/Renan360Brasil/melody-academy-control/internal/service"
	"github.com/gin-gonic/gin"
)

const (
	// ContextKeyClaims is the Gin context key for JWT claims.
	ContextKeyClaims = "claims"
)

// RequireAuth validates the JWT from the Authorization header and checks
// that its session is still registered. A valid signature is not enough:
// a token whose session was deleted (logout, refresh, admin revocation)
// is rejected before expiry.
func RequireAuth(authService *service.AuthService, sessions *service.SessionRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := extractAndValidateClaims(c, authService)
		if err != nil {
			code := response.ErrTokenInvalid
			if strings.Contains(err.Error(), "required") {
				code = response.ErrTokenRequired
			}
			response.AbortRedirect(c, http.StatusUnauthorized, code, authz.LoginRoute)
			return
		}

		if _, err := sessions.Get(c.Request.Context(), claims.ID); err != nil {
			response.AbortRedirect(c, http.StatusUnauthorized, response.ErrSessionInvalidated, authz.LoginRoute)
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// GetClaims retrieves the JWT claims from the Gin context.
func GetClaims(c *gin.Context) *service.Claims {
	val, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil
	}
	claims, ok := val.(*service.Claims)
	if !ok {
		return nil
	}
	return claims
}

func extractAndValidateClaims(c *gin.Context, authService *service.AuthService) (*service.Claims, error) {
	tokenStr := ""

	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			tokenStr = parts[1]
		}
	}

	// Fallback for WebSocket upgrades which cannot send headers.
	if tokenStr == "" {
		tokenStr = c.Query("token")
	}

	if tokenStr == "" {
		return nil, fmt.Errorf("authorization header or token query required")
	}

	return authService.ValidateToken(tokenStr)
}
