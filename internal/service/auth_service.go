package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/Renan360Brasil/melody-academy-control/internal/authstate"
	"github.com/Renan360Brasil/melody-academy-control/internal/config"
	"github.com/Renan360Brasil/melody-academy-control/internal/model"
	"github.com/Renan360Brasil/melody-academy-control/internal/notify"
	"github.com/Renan360Brasil/melody-academy-control/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// Common auth errors.
var (
	ErrInvalidCredentials  = errors.New("invalid login credentials")
	ErrEmailNotConfirmed   = errors.New("email not confirmed")
	ErrAlreadyRegistered   = errors.New("user already registered")
	ErrWeakPassword        = errors.New("weak password: must be at least 6 characters")
	ErrConfirmTokenInvalid = errors.New("confirmation token invalid or expired")
)

const confirmTokenTTL = 48 * time.Hour

// Claims extends JWT standard claims with the identity attributes the
// middleware needs without a profile lookup. Subject is the profile id,
// ID is the session JTI.
type Claims struct {
	jwt.RegisteredClaims
	Role  model.Role `json:"role"`
	Name  string     `json:"name"`
	Email string     `json:"email"`
}

// ProfileStore is the slice of the profile repository the auth flows use.
type ProfileStore interface {
	GetByEmail(ctx context.Context, email string) (*model.Profile, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Profile, error)
	Create(ctx context.Context, p *model.Profile) error
	ConfirmEmail(ctx context.Context, id uuid.UUID) error
}

type settingValueGetter interface {
	GetValue(ctx context.Context, key, fallback string) (string, error)
}

// AuthService handles login, signup, logout, token refresh and JWT
// validation. Every completed state change is published on the auth
// event bus; the tracker derives the shared auth state from that stream.
type AuthService struct {
	cfg      *config.Config
	log      zerolog.Logger
	profiles ProfileStore
	sessions *SessionRegistry
	settings settingValueGetter
	bus      *authstate.Bus
	notifier notify.Notifier

	// inFlight counts auth actions currently executing. Incremented at
	// entry and decremented via defer, so error paths release it too.
	inFlight atomic.Int64
}

// NewAuthService creates an AuthService.
func NewAuthService(
	cfg *config.Config,
	profiles ProfileStore,
	sessions *SessionRegistry,
	settings settingValueGetter,
	bus *authstate.Bus,
	notifier notify.Notifier,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		cfg:      cfg,
		log:      log.With().Str("component", "auth_service").Logger(),
		profiles: profiles,
		sessions: sessions,
		settings: settings,
		bus:      bus,
		notifier: notifier,
	}
}

// ActionsInFlight reports how many auth actions are currently executing.
func (s *AuthService) ActionsInFlight() int64 {
	return s.inFlight.Load()
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// Login authenticates an email/password pair and issues a token plus its
// session. The email is trimmed before lookup; missing accounts and bad
// passwords collapse into the same error.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (string, *authstate.Session, error) {
	s.inFlight.Add(1)
	defer s.inFlight.Add(-1)

	email := strings.ToLower(strings.TrimSpace(req.Email))

	p, err := s.profiles.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("fetch profile: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(req.Password)) != nil {
		return "", nil, ErrInvalidCredentials
	}
	if !p.EmailConfirmed {
		return "", nil, ErrEmailNotConfirmed
	}

	token, session, err := s.issueSession(ctx, p)
	if err != nil {
		return "", nil, err
	}

	s.bus.Publish(authstate.Event{Type: authstate.EventSignedIn, Session: session, UserID: p.ID})
	s.notifier.Success(p.ID, "Login realizado com sucesso!")
	s.log.Info().Str("email", p.Email).Str("role", string(p.Role)).Msg("User logged in")
	return token, session, nil
}

// SignUp registers a new account. When the auto-confirm setting is on
// the account is usable immediately; otherwise a single-use confirmation
// token is stored and must be redeemed via Confirm first. Returns
// whether confirmation is still pending and, in that case, the token.
func (s *AuthService) SignUp(ctx context.Context, req model.SignUpRequest) (bool, string, error) {
	s.inFlight.Add(1)
	defer s.inFlight.Add(-1)

	if len(req.Password) < 6 {
		return false, "", ErrWeakPassword
	}

	autoConfirm, err := s.settings.GetValue(ctx, model.SettingAutoConfirmAccounts, "true")
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		s.log.Warn().Err(err).Msg("Auto-confirm setting lookup failed, using default")
	}

	hash, err := s.HashPassword(req.Password)
	if err != nil {
		return false, "", fmt.Errorf("hash password: %w", err)
	}

	p := &model.Profile{
		ID:             uuid.New(),
		Name:           strings.TrimSpace(req.Name),
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		Role:           req.Role,
		PasswordHash:   hash,
		EmailConfirmed: autoConfirm == "true",
	}
	if err := s.profiles.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return false, "", ErrAlreadyRegistered
		}
		return false, "", fmt.Errorf("create profile: %w", err)
	}

	if p.EmailConfirmed {
		s.log.Info().Str("email", p.Email).Str("role", string(p.Role)).Msg("Account created, auto-confirmed")
		return false, "", nil
	}

	token := uuid.New().String()
	if err := s.sessions.StoreConfirmToken(ctx, token, p.ID, confirmTokenTTL); err != nil {
		return false, "", fmt.Errorf("store confirm token: %w", err)
	}
	s.log.Info().
		Str("email", p.Email).
		Str("confirm_url", fmt.Sprintf("%s?token=%s", s.cfg.ConfirmRedirectURL, token)).
		Msg("Account created, confirmation pending")
	return true, token, nil
}

// Confirm redeems an email-confirmation token.
func (s *AuthService) Confirm(ctx context.Context, token string) error {
	profileID, err := s.sessions.TakeConfirmToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return ErrConfirmTokenInvalid
		}
		return fmt.Errorf("redeem confirm token: %w", err)
	}
	if err := s.profiles.ConfirmEmail(ctx, profileID); err != nil {
		return fmt.Errorf("confirm email: %w", err)
	}
	s.log.Info().Stringer("profile_id", profileID).Msg("Email confirmed")
	return nil
}

// Logout invalidates the session behind the given claims. It never
// fails: the SIGNED_OUT event is published even when the registry
// delete errors, so the in-memory state is cleared regardless, and
// calling it for an already-dead session is a no-op.
func (s *AuthService) Logout(ctx context.Context, claims *Claims) {
	s.inFlight.Add(1)
	defer s.inFlight.Add(-1)

	userID, _ := uuid.Parse(claims.Subject)
	session := &authstate.Session{
		JTI:       claims.ID,
		UserID:    userID,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Time,
	}

	if err := s.sessions.Delete(ctx, claims.ID); err != nil {
		s.log.Warn().Err(err).Str("jti", claims.ID).Msg("Session delete failed during logout")
	}
	s.bus.Publish(authstate.Event{Type: authstate.EventSignedOut, Session: session, UserID: userID})
	s.notifier.Info(userID, "Você saiu do sistema.")
	s.log.Info().Str("email", claims.Email).Msg("User logged out")
}

// Refresh replaces a live session with a fresh token. The refreshed
// session is announced before the old one is retired so the identity
// never appears signed out in between.
func (s *AuthService) Refresh(ctx context.Context, claims *Claims) (string, *authstate.Session, error) {
	s.inFlight.Add(1)
	defer s.inFlight.Add(-1)

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return "", nil, fmt.Errorf("parse subject: %w", err)
	}
	p, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return "", nil, fmt.Errorf("fetch profile: %w", err)
	}

	token, session, err := s.issueSession(ctx, p)
	if err != nil {
		return "", nil, err
	}

	old := &authstate.Session{
		JTI:       claims.ID,
		UserID:    userID,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	s.bus.Publish(authstate.Event{Type: authstate.EventTokenRefreshed, Session: session, UserID: userID})
	s.bus.Publish(authstate.Event{Type: authstate.EventSignedOut, Session: old, UserID: userID})

	if err := s.sessions.Delete(ctx, claims.ID); err != nil {
		s.log.Warn().Err(err).Str("jti", claims.ID).Msg("Old session delete failed during refresh")
	}
	return token, session, nil
}

// ValidateToken parses and verifies a JWT.
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

func (s *AuthService) issueSession(ctx context.Context, p *model.Profile) (string, *authstate.Session, error) {
	jti := uuid.New().String()
	now := time.Now()
	expiresAt := now.Add(s.cfg.JWTExpiry)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   p.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Role:  p.Role,
		Name:  p.Name,
		Email: p.Email,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}

	session := &authstate.Session{JTI: jti, UserID: p.ID, Email: p.Email, ExpiresAt: expiresAt}
	if err := s.sessions.Put(ctx, *session); err != nil {
		return "", nil, err
	}
	return signed, session, nil
}
