package repository

import (
	"context"
	"errors"

	"github.com/Renan360Brasil/melody-academy-control/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrDuplicateEmail = errors.New("profile with this email already exists")

// ProfileRepository handles account/profile data access.
type ProfileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

// GetByID retrieves a profile by its id.
func (r *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	p := &model.Profile{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, email, role, COALESCE(avatar, ''), password_hash, email_confirmed, created_at, updated_at
		 FROM profiles WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.Email, &p.Role, &p.Avatar, &p.PasswordHash, &p.EmailConfirmed, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetByEmail retrieves a profile by its unique email.
func (r *ProfileRepository) GetByEmail(ctx context.Context, email string) (*model.Profile, error) {
	p := &model.Profile{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, email, role, COALESCE(avatar, ''), password_hash, email_confirmed, created_at, updated_at
		 FROM profiles WHERE email = $1`, email,
	).Scan(&p.ID, &p.Name, &p.Email, &p.Role, &p.Avatar, &p.PasswordHash, &p.EmailConfirmed, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create inserts a new profile.
func (r *ProfileRepository) Create(ctx context.Context, p *model.Profile) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO profiles (id, name, email, role, avatar, password_hash, email_confirmed)
		 VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7)
		 RETURNING created_at, updated_at`,
		p.ID, p.Name, p.Email, p.Role, p.Avatar, p.PasswordHash, p.EmailConfirmed,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// ConfirmEmail marks a profile's email as confirmed.
func (r *ProfileRepository) ConfirmEmail(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE profiles SET email_confirmed = TRUE, updated_at = CURRENT_TIMESTAMP WHERE id = $1`, id)
	return err
}

// UpdateProfile modifies the display attributes of a profile.
func (r *ProfileRepository) UpdateProfile(ctx context.Context, id uuid.UUID, name, avatar string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE profiles SET name = $1, avatar = NULLIF($2, ''), updated_at = CURRENT_TIMESTAMP WHERE id = $3`,
		name, avatar, id)
	return err
}

// UpdatePassword updates a profile's password hash.
func (r *ProfileRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE profiles SET password_hash = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`,
		passwordHash, id)
	return err
}
