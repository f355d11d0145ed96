package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Renan360Brasil/melody-academy-control/internal/authstate"
	"github.com/Renan360Brasil/melody-academy-control/internal/model"
	"github.com/Renan360Brasil/melody-academy-control/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ErrWrongPassword signals a password change with a bad current password.
var ErrWrongPassword = errors.New("current password does not match")

// ProfileService handles self-service account operations.
type ProfileService struct {
	profiles *repository.ProfileRepository
	auth     *AuthService
	tracker  *authstate.Tracker
}

// NewProfileService creates a ProfileService.
func NewProfileService(profiles *repository.ProfileRepository, auth *AuthService, tracker *authstate.Tracker) *ProfileService {
	return &ProfileService{profiles: profiles, auth: auth, tracker: tracker}
}

// Get returns a profile by id.
func (s *ProfileService) Get(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	return s.profiles.GetByID(ctx, id)
}

// Update changes the display attributes of the caller's own profile and
// returns the updated record.
func (s *ProfileService) Update(ctx context.Context, id uuid.UUID, req model.UpdateProfileRequest) (*model.Profile, error) {
	if err := s.profiles.UpdateProfile(ctx, id, req.Name, req.Avatar); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	// The tracker caches the resolved user; drop it so the next read
	// sees the new name and avatar instead of the login-time snapshot.
	s.tracker.Invalidate(id)
	return s.profiles.GetByID(ctx, id)
}

// ChangePassword verifies the current password and replaces it.
func (s *ProfileService) ChangePassword(ctx context.Context, id uuid.UUID, req model.ChangePasswordRequest) error {
	p, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("fetch profile: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(req.CurrentPassword)) != nil {
		return ErrWrongPassword
	}
	if len(req.NewPassword) < 6 {
		return ErrWeakPassword
	}
	hash, err := s.auth.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.profiles.UpdatePassword(ctx, id, hash)
}
