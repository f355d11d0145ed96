package handler

import (
	"errors"
	"net/http"

	"github.com/Renan360Brasil/melody-academy-control/internal/authstate"
	"github.com/Renan360Brasil/melody-academy-control/internal/authz"
	"github.com/Renan360Brasil/melody-academy-control/internal/middleware"
	"github.com/Renan360Brasil/melody-academy-control/internal/model"
	"github.com/Renan360Brasil/melody-academy-control/internal/response"
	"github.com/Renan360Brasil/melody-academy-control/internal/service"
	"github.com/Renan360Brasil/melody-academy-control/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService *service.AuthService
	tracker     *authstate.Tracker
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService, tracker *authstate.Tracker) *AuthHandler {
	return &AuthHandler{authService: authService, tracker: tracker}
}

// Login godoc
// POST /api/v1/auth/login
// Validates email + password and returns a JWT plus the resolved user.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	token, session, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		switch service.ClassifyAuthError(err) {
		case service.AuthErrInvalidCredentials:
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		case service.AuthErrEmailNotConfirmed:
			response.Fail(c, http.StatusUnauthorized, response.ErrEmailNotConfirmed)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	user := h.tracker.ResolveNow(c.Request.Context(), session.UserID)
	response.Success(c, http.StatusOK, gin.H{
		"token":      token,
		"expires_at": session.ExpiresAt,
		"user":       user,
	})
}

// SignUp godoc
// POST /api/v1/auth/signup
// Registers a new account. Depending on the auto-confirm setting the
// account is usable immediately or must confirm its email first.
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req model.SignUpRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	pending, _, err := h.authService.SignUp(c.Request.Context(), req)
	if err != nil {
		switch service.ClassifyAuthError(err) {
		case service.AuthErrAlreadyRegistered:
			response.Fail(c, http.StatusConflict, response.ErrAlreadyRegistered)
		case service.AuthErrWeakPassword:
			response.Fail(c, http.StatusBadRequest, response.ErrWeakPassword)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"confirmation_pending": pending,
	})
}

// Confirm godoc
// GET /api/v1/auth/confirm?token=...
// Redeems an email-confirmation token.
func (h *AuthHandler) Confirm(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrConfirmInvalid)
		return
	}

	if err := h.authService.Confirm(c.Request.Context(), token); err != nil {
		if errors.Is(err, service.ErrConfirmTokenInvalid) {
			response.Fail(c, http.StatusBadRequest, response.ErrConfirmInvalid)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"confirmed": true})
}

// Logout godoc
// POST /api/v1/auth/logout
// Invalidates the caller's session. Always succeeds.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	h.authService.Logout(c.Request.Context(), claims)
	response.Success(c, http.StatusOK, gin.H{})
}

// Refresh godoc
// POST /api/v1/auth/refresh
// Replaces the caller's token with a fresh one.
func (h *AuthHandler) Refresh(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	token, session, err := h.authService.Refresh(c.Request.Context(), claims)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token":      token,
		"expires_at": session.ExpiresAt,
	})
}

// Me godoc
// GET /api/v1/auth/me
// Returns the caller's resolved user and the routes its role may access.
func (h *AuthHandler) Me(c *gin.Context) {
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

	user := h.tracker.User(userID)
	if user == nil {
		user = h.tracker.ResolveNow(c.Request.Context(), userID)
	}
	if user == nil {
		// Session is live but the profile row has not landed yet.
		response.Fail(c, http.StatusServiceUnavailable, response.ErrProfileIncomplete)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"user":           user,
		"allowed_routes": authz.AllowedRoutes(user.Role),
	})
}
