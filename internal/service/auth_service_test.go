package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Renan360Brasil/melody-academy-control/internal/authstate"
	"github.com/Renan360Brasil/melody-academy-control/internal/config"
	"github.com/Renan360Brasil/melody-academy-control/internal/model"
	"github.com/Renan360Brasil/melody-academy-control/internal/notify"
	"github.com/Renan360Brasil/melody-academy-control/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

type fakeProfileStore struct {
	byEmail     map[string]*model.Profile
	byID        map[uuid.UUID]*model.Profile
	created     []*model.Profile
	createErr   error
	lastLookup  string
	confirmedID uuid.UUID
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{
		byEmail: make(map[string]*model.Profile),
		byID:    make(map[uuid.UUID]*model.Profile),
	}
}

func (f *fakeProfileStore) GetByEmail(_ context.Context, email string) (*model.Profile, error) {
	f.lastLookup = email
	if p, ok := f.byEmail[email]; ok {
		return p, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeProfileStore) GetByID(_ context.Context, id uuid.UUID) (*model.Profile, error) {
	if p, ok := f.byID[id]; ok {
		return p, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeProfileStore) Create(_ context.Context, p *model.Profile) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, p)
	f.byEmail[p.Email] = p
	f.byID[p.ID] = p
	return nil
}

func (f *fakeProfileStore) ConfirmEmail(_ context.Context, id uuid.UUID) error {
	f.confirmedID = id
	return nil
}

type fakeSettings struct{ autoConfirm string }

func (f *fakeSettings) GetValue(_ context.Context, _, fallback string) (string, error) {
	if f.autoConfirm == "" {
		return fallback, pgx.ErrNoRows
	}
	return f.autoConfirm, nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:  "test-secret",
		JWTExpiry:  time.Hour,
		BcryptCost: bcrypt.MinCost,
	}
}

// deadRegistry talks to a port nothing listens on, so every Redis call
// fails without hanging.
func deadRegistry() *SessionRegistry {
	return NewSessionRegistry(redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	}))
}

func newTestAuthService(profiles ProfileStore, settings settingValueGetter, bus *authstate.Bus) *AuthService {
	if bus == nil {
		bus = authstate.NewBus()
	}
	return NewAuthService(testConfig(), profiles, deadRegistry(), settings, bus, notify.Nop{}, zerolog.Nop())
}

func seedProfile(store *fakeProfileStore, email, password string, confirmed bool) *model.Profile {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	p := &model.Profile{
		ID:             uuid.New(),
		Name:           "Seed User",
		Email:          email,
		Role:           model.RoleAdmin,
		PasswordHash:   string(hash),
		EmailConfirmed: confirmed,
	}
	store.byEmail[email] = p
	store.byID[p.ID] = p
	return p
}

func TestLoginUnknownEmailMapsToInvalidCredentials(t *testing.T) {
	svc := newTestAuthService(newFakeProfileStore(), &fakeSettings{}, nil)

	_, _, err := svc.Login(context.Background(), model.LoginRequest{Email: "ghost@example.com", Password: "password123"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err: got %v, want ErrInvalidCredentials", err)
	}
	if svc.ActionsInFlight() != 0 {
		t.Error("in-flight counter not released on error path")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	store := newFakeProfileStore()
	seedProfile(store, "user@example.com", "password123", true)
	svc := newTestAuthService(store, &fakeSettings{}, nil)

	_, _, err := svc.Login(context.Background(), model.LoginRequest{Email: "user@example.com", Password: "wrong-pass"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err: got %v, want ErrInvalidCredentials", err)
	}
	if svc.ActionsInFlight() != 0 {
		t.Error("in-flight counter not released on error path")
	}
}

func TestLoginUnconfirmedEmail(t *testing.T) {
	store := newFakeProfileStore()
	seedProfile(store, "user@example.com", "password123", false)
	svc := newTestAuthService(store, &fakeSettings{}, nil)

	_, _, err := svc.Login(context.Background(), model.LoginRequest{Email: "user@example.com", Password: "password123"})
	if !errors.Is(err, ErrEmailNotConfirmed) {
		t.Fatalf("err: got %v, want ErrEmailNotConfirmed", err)
	}
}

func TestLoginTrimsAndLowercasesEmail(t *testing.T) {
	store := newFakeProfileStore()
	svc := newTestAuthService(store, &fakeSettings{}, nil)

	svc.Login(context.Background(), model.LoginRequest{Email: "  User@Example.COM ", Password: "password123"})
	if store.lastLookup != "user@example.com" {
		t.Errorf("lookup email: got %q, want %q", store.lastLookup, "user@example.com")
	}
}

func TestSignUpAutoConfirmed(t *testing.T) {
	store := newFakeProfileStore()
	svc := newTestAuthService(store, &fakeSettings{autoConfirm: "true"}, nil)

	pending, _, err := svc.SignUp(context.Background(), model.SignUpRequest{
		Email:    " New@Example.com ",
		Password: "password123",
		Name:     "New User",
		Role:     model.RoleStudent,
	})
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if pending {
		t.Error("auto-confirmed signup reported confirmation pending")
	}
	if len(store.created) != 1 {
		t.Fatalf("profiles created: got %d, want 1", len(store.created))
	}

	p := store.created[0]
	if p.Email != "new@example.com" {
		t.Errorf("email: got %q, want normalized", p.Email)
	}
	if !p.EmailConfirmed {
		t.Error("profile not confirmed despite auto-confirm setting")
	}
	if p.Role != model.RoleStudent {
		t.Errorf("role: got %s, want student", p.Role)
	}
	if bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte("password123")) != nil {
		t.Error("stored hash does not match the password")
	}
	if svc.ActionsInFlight() != 0 {
		t.Error("in-flight counter not released")
	}
}

func TestSignUpWeakPassword(t *testing.T) {
	svc := newTestAuthService(newFakeProfileStore(), &fakeSettings{autoConfirm: "true"}, nil)

	_, _, err := svc.SignUp(context.Background(), model.SignUpRequest{
		Email:    "new@example.com",
		Password: "short",
		Name:     "New User",
		Role:     model.RoleStudent,
	})
	if !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("err: got %v, want ErrWeakPassword", err)
	}
}

func TestSignUpDuplicateEmail(t *testing.T) {
	store := newFakeProfileStore()
	store.createErr = repository.ErrDuplicateEmail
	svc := newTestAuthService(store, &fakeSettings{autoConfirm: "true"}, nil)

	_, _, err := svc.SignUp(context.Background(), model.SignUpRequest{
		Email:    "dup@example.com",
		Password: "password123",
		Name:     "Dup User",
		Role:     model.RoleTeacher,
	})
	if !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("err: got %v, want ErrAlreadyRegistered", err)
	}
	if svc.ActionsInFlight() != 0 {
		t.Error("in-flight counter not released on error path")
	}
}

func TestLogoutPublishesSignOutEvenWhenRegistryFails(t *testing.T) {
	bus := authstate.NewBus()
	events, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	svc := newTestAuthService(newFakeProfileStore(), &fakeSettings{}, bus)

	userID := uuid.New()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Email: "user@example.com",
	}

	// The registry is unreachable; logout must still announce sign-out.
	svc.Logout(context.Background(), claims)
	select {
	case ev := <-events:
		if ev.Type != authstate.EventSignedOut {
			t.Fatalf("event type: got %s, want SIGNED_OUT", ev.Type)
		}
		if ev.UserID != userID || ev.Session == nil || ev.Session.JTI != claims.ID {
			t.Error("sign-out event carries wrong session")
		}
	case <-time.After(time.Second):
		t.Fatal("no sign-out event published")
	}

	// Logging out an already-dead session is a no-op, not an error.
	svc.Logout(context.Background(), claims)
	select {
	case <-events:
	case <-time.After(time.Second):
		t.Fatal("repeated logout did not publish")
	}

	if svc.ActionsInFlight() != 0 {
		t.Error("in-flight counter not released")
	}
}

func TestValidateToken(t *testing.T) {
	cfg := testConfig()
	svc := newTestAuthService(newFakeProfileStore(), &fakeSettings{}, nil)

	sign := func(secret string, expiresAt time.Time) string {
		claims := Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        uuid.New().String(),
				Subject:   uuid.New().String(),
				IssuedAt:  jwt.NewNumericDate(time.Now()),
				ExpiresAt: jwt.NewNumericDate(expiresAt),
			},
			Role:  model.RoleTeacher,
			Name:  "Tok User",
			Email: "tok@example.com",
		}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		signed, err := token.SignedString([]byte(secret))
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return signed
	}

	claims, err := svc.ValidateToken(sign(cfg.JWTSecret, time.Now().Add(time.Hour)))
	if err != nil {
		t.Fatalf("valid token rejected: %v", err)
	}
	if claims.Role != model.RoleTeacher || claims.Email != "tok@example.com" {
		t.Error("claims not round-tripped")
	}

	if _, err := svc.ValidateToken(sign("other-secret", time.Now().Add(time.Hour))); err == nil {
		t.Error("token with wrong secret accepted")
	}
	if _, err := svc.ValidateToken(sign(cfg.JWTSecret, time.Now().Add(-time.Minute))); err == nil {
		t.Error("expired token accepted")
	}
}
