package repository

import (
	"context"
	"errors"
	"strconv"

	"github.com/Renan360Brasil/melody-academy-control/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrDuplicateStudentEmail = errors.New("student with this email already exists")

// StudentRepository handles student data access.
type StudentRepository struct {
	pool *pgxpool.Pool
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

const studentColumns = `s.id, s.profile_id, s.name, s.email, s.phone, s.address, s.birth_date,
	COALESCE(s.guardian, ''), s.status, s.created_at, s.updated_at,
	COALESCE(
		(SELECT array_agg(c.name ORDER BY c.name)
		 FROM enrollments e JOIN courses c ON c.id = e.course_id
		 WHERE e.student_id = s.id AND e.status = 'active'),
		'{}'::text[]
	)`

func scanStudent(row interface{ Scan(...any) error }) (*model.Student, error) {
	s := &model.Student{}
	err := row.Scan(&s.ID, &s.ProfileID, &s.Name, &s.Email, &s.Phone, &s.Address, &s.BirthDate,
		&s.Guardian, &s.Status, &s.CreatedAt, &s.UpdatedAt, &s.Courses)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetByID retrieves a student by id, including active course names.
func (r *StudentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	return scanStudent(r.pool.QueryRow(ctx,
		`SELECT `+studentColumns+` FROM students s WHERE s.id = $1`, id))
}

// GetIDByProfileID retrieves the student id linked to a profile.
func (r *StudentRepository) GetIDByProfileID(ctx context.Context, profileID uuid.UUID) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx,
		`SELECT id FROM students WHERE profile_id = $1`, profileID).Scan(&id)
	return id, err
}

// ListPaginated retrieves students filtered by a name/email search term
// and an optional status, newest first.
func (r *StudentRepository) ListPaginated(ctx context.Context, search string, status *model.StudentStatus, limit, offset int) ([]model.Student, int, error) {
	where := ` WHERE ($1 = '' OR s.name ILIKE '%' || $1 || '%' OR s.email ILIKE '%' || $1 || '%')`
	args := []interface{}{search}
	if status != nil {
		where += ` AND s.status = $2`
		args = append(args, *status)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM students s`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	argIdx := len(args) + 1
	query := `SELECT ` + studentColumns + ` FROM students s` + where +
		` ORDER BY s.created_at DESC LIMIT $` + strconv.Itoa(argIdx) + ` OFFSET $` + strconv.Itoa(argIdx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var students []model.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, 0, err
		}
		students = append(students, *s)
	}
	return students, total, rows.Err()
}

// Create inserts a new student.
func (r *StudentRepository) Create(ctx context.Context, s *model.Student) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO students (id, profile_id, name, email, phone, address, birth_date, guardian, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9)
		 RETURNING created_at, updated_at`,
		s.ID, s.ProfileID, s.Name, s.Email, s.Phone, s.Address, s.BirthDate, s.Guardian, s.Status,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateStudentEmail
		}
		return err
	}
	return nil
}

// Update modifies a student's record.
func (r *StudentRepository) Update(ctx context.Context, s *model.Student) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE students SET name = $1, email = $2, phone = $3, address = $4, birth_date = $5,
		 guardian = NULLIF($6, ''), status = $7, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $8`,
		s.Name, s.Email, s.Phone, s.Address, s.BirthDate, s.Guardian, s.Status, s.ID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateStudentEmail
		}
		return err
	}
	return nil
}

// Delete removes a student by id.
func (r *StudentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	return err
}
