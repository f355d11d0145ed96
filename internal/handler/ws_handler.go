package handler

import (
	"net/http"

	"github.com/Renan360Brasil/melody-academy-control/internal/middleware"
	"github.com/Renan360Brasil/melody-academy-control/internal/notify"
	"github.com/Renan360Brasil/melody-academy-control/internal/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WSHandler upgrades authenticated clients onto the toast hub.
type WSHandler struct {
	hub *notify.Hub
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(hub *notify.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

// Notifications godoc
// GET /api/v1/ws/notifications?token=...
// Streams toast notifications for the authenticated identity.
func (h *WSHandler) Notifications(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
		return
	}

	h.hub.Serve(c.Writer, c.Request, userID)
}
