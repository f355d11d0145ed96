package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Renan360Brasil/melody-academy-control/internal/authstate"
	"github.com/Renan360Brasil/melody-academy-control/internal/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrSessionNotFound signals a token whose session is no longer registered.
var ErrSessionNotFound = errors.New("session not registered")

// SessionRegistry persists issued sessions in Redis, keyed by JTI, with
// a TTL matching the token expiry. It is the source of truth for which
// tokens are still honored: deleting the entry invalidates the token
// before its cryptographic expiry.
type SessionRegistry struct {
	rdb *redis.Client
}

// NewSessionRegistry creates a SessionRegistry.
func NewSessionRegistry(rdb *redis.Client) *SessionRegistry {
	return &SessionRegistry{rdb: rdb}
}

// Put registers a session until its expiry.
func (r *SessionRegistry) Put(ctx context.Context, s authstate.Session) error {
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session already expired")
	}
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := r.rdb.Set(ctx, config.CacheKey.SessionKey(s.JTI), payload, ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// Get retrieves a registered session by JTI. Returns ErrSessionNotFound
// when the entry expired or was deleted.
func (r *SessionRegistry) Get(ctx context.Context, jti string) (*authstate.Session, error) {
	payload, err := r.rdb.Get(ctx, config.CacheKey.SessionKey(jti)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("fetch session: %w", err)
	}
	s := &authstate.Session{}
	if err := json.Unmarshal(payload, s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return s, nil
}

// Delete removes a session, invalidating its token.
func (r *SessionRegistry) Delete(ctx context.Context, jti string) error {
	return r.rdb.Del(ctx, config.CacheKey.SessionKey(jti)).Err()
}

// Active scans all registered sessions. Used once at boot to warm the
// in-memory auth state; entries that fail to decode are skipped.
func (r *SessionRegistry) Active(ctx context.Context) ([]authstate.Session, error) {
	var sessions []authstate.Session
	iter := r.rdb.Scan(ctx, 0, config.CacheKey.SessionScanPattern(), 100).Iterator()
	for iter.Next(ctx) {
		payload, err := r.rdb.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			continue
		}
		var s authstate.Session
		if err := json.Unmarshal(payload, &s); err != nil {
			continue
		}
		sessions = append(sessions, s)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan sessions: %w", err)
	}
	return sessions, nil
}

// StoreConfirmToken stores an email-confirmation token pointing at a profile.
func (r *SessionRegistry) StoreConfirmToken(ctx context.Context, token string, profileID uuid.UUID, ttl time.Duration) error {
	return r.rdb.Set(ctx, config.CacheKey.ConfirmTokenKey(token), profileID.String(), ttl).Err()
}

// TakeConfirmToken consumes a confirmation token, returning the profile
// it was issued for. Tokens are single-use.
func (r *SessionRegistry) TakeConfirmToken(ctx context.Context, token string) (uuid.UUID, error) {
	val, err := r.rdb.GetDel(ctx, config.CacheKey.ConfirmTokenKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, ErrSessionNotFound
		}
		return uuid.Nil, fmt.Errorf("consume confirm token: %w", err)
	}
	id, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, fmt.Errorf("decode confirm token: %w", err)
	}
	return id, nil
}
