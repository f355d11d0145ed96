package authstate

import (
	"context"
	"errors"
	"fmt"

	"github.com/Renan360Brasil/melody-academy-control/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

type profileGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Profile, error)
}

type linkIDGetter interface {
	GetIDByProfileID(ctx context.Context, profileID uuid.UUID) (uuid.UUID, error)
}

// DBResolver builds an AuthUser from the profiles table plus, for
// teachers and students, the id of the row referencing the profile.
type DBResolver struct {
	log      zerolog.Logger
	profiles profileGetter
	teachers linkIDGetter
	students linkIDGetter
}

// NewDBResolver creates a DBResolver over the given repositories.
func NewDBResolver(profiles profileGetter, teachers, students linkIDGetter, log zerolog.Logger) *DBResolver {
	return &DBResolver{
		log:      log.With().Str("component", "profile_resolver").Logger(),
		profiles: profiles,
		teachers: teachers,
		students: students,
	}
}

// Resolve implements Resolver. A missing profile row maps to
// ErrProfileNotFound; a missing role-linkage row is tolerated and the
// corresponding id stays unset.
func (r *DBResolver) Resolve(ctx context.Context, userID uuid.UUID) (*model.AuthUser, error) {
	p, err := r.profiles.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("fetch profile: %w", err)
	}

	user := &model.AuthUser{
		ID:     p.ID,
		Name:   p.Name,
		Email:  p.Email,
		Role:   p.Role,
		Avatar: p.Avatar,
	}

	switch p.Role {
	case model.RoleTeacher:
		id, err := r.teachers.GetIDByProfileID(ctx, p.ID)
		switch {
		case err == nil:
			user.TeacherID = &id
		case errors.Is(err, pgx.ErrNoRows):
			// No teacher record yet; not an error.
		default:
			r.log.Warn().Err(err).Stringer("profile_id", p.ID).Msg("Teacher linkage lookup failed")
		}
	case model.RoleStudent:
		id, err := r.students.GetIDByProfileID(ctx, p.ID)
		switch {
		case err == nil:
			user.StudentID = &id
		case errors.Is(err, pgx.ErrNoRows):
			// No student record yet; not an error.
		default:
			r.log.Warn().Err(err).Stringer("profile_id", p.ID).Msg("Student linkage lookup failed")
		}
	}

	return user, nil
}
