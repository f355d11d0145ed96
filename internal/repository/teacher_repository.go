package repository

import (
	"context"
	"errors"

	"github.com/Renan360Brasil/melody-academy-control/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrDuplicateTeacherEmail = errors.New("teacher with this email already exists")

// TeacherRepository handles teacher data access.
type TeacherRepository struct {
	pool *pgxpool.Pool
}

// NewTeacherRepository creates a new TeacherRepository.
func NewTeacherRepository(pool *pgxpool.Pool) *TeacherRepository {
	return &TeacherRepository{pool: pool}
}

const teacherColumns = `t.id, t.profile_id, t.name, t.email, t.phone, t.instruments, t.availability,
	t.created_at, t.updated_at,
	COALESCE(
		(SELECT array_agg(c.name ORDER BY c.name) FROM courses c WHERE c.teacher_id = t.id),
		'{}'::text[]
	)`

func scanTeacher(row interface{ Scan(...any) error }) (*model.Teacher, error) {
	t := &model.Teacher{}
	err := row.Scan(&t.ID, &t.ProfileID, &t.Name, &t.Email, &t.Phone, &t.Instruments, &t.Availability,
		&t.CreatedAt, &t.UpdatedAt, &t.Courses)
	if err != nil {
		return nil, err
	}
	if t.Availability == nil {
		t.Availability = []model.Availability{}
	}
	return t, nil
}

// GetByID retrieves a teacher by id, including assigned course names.
func (r *TeacherRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Teacher, error) {
	return scanTeacher(r.pool.QueryRow(ctx,
		`SELECT `+teacherColumns+` FROM teachers t WHERE t.id = $1`, id))
}

// GetIDByProfileID retrieves the teacher id linked to a profile.
func (r *TeacherRepository) GetIDByProfileID(ctx context.Context, profileID uuid.UUID) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx,
		`SELECT id FROM teachers WHERE profile_id = $1`, profileID).Scan(&id)
	return id, err
}

// List retrieves all teachers ordered by name.
func (r *TeacherRepository) List(ctx context.Context) ([]model.Teacher, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+teacherColumns+` FROM teachers t ORDER BY t.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teachers []model.Teacher
	for rows.Next() {
		t, err := scanTeacher(rows)
		if err != nil {
			return nil, err
		}
		teachers = append(teachers, *t)
	}
	return teachers, rows.Err()
}

// Create inserts a new teacher. Availability is stored as JSONB.
func (r *TeacherRepository) Create(ctx context.Context, t *model.Teacher) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO teachers (id, profile_id, name, email, phone, instruments, availability)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at, updated_at`,
		t.ID, t.ProfileID, t.Name, t.Email, t.Phone, t.Instruments, t.Availability,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateTeacherEmail
		}
		return err
	}
	return nil
}

// Update modifies a teacher's record.
func (r *TeacherRepository) Update(ctx context.Context, t *model.Teacher) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE teachers SET name = $1, email = $2, phone = $3, instruments = $4, availability = $5,
		 updated_at = CURRENT_TIMESTAMP
		 WHERE id = $6`,
		t.Name, t.Email, t.Phone, t.Instruments, t.Availability, t.ID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateTeacherEmail
		}
		return err
	}
	return nil
}

// Delete removes a teacher by id. Fails while courses reference it.
func (r *TeacherRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM teachers WHERE id = $1`, id)
	return err
}
