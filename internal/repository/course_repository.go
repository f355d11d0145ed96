package repository

import (
	"context"
	"errors"

	"github.com/Renan360Brasil/melody-academy-control/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrDuplicateCourseName = errors.New("course with this name already exists")

// CourseRepository handles course data access.
type CourseRepository struct {
	pool *pgxpool.Pool
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{pool: pool}
}

const courseColumns = `c.id, c.name, c.weekly_hours, c.duration_weeks, c.price_cents,
	c.teacher_id, t.name, c.created_at, c.updated_at,
	(SELECT COUNT(*) FROM enrollments e WHERE e.course_id = c.id AND e.status = 'active')`

func scanCourse(row interface{ Scan(...any) error }) (*model.Course, error) {
	c := &model.Course{}
	err := row.Scan(&c.ID, &c.Name, &c.WeeklyHours, &c.DurationWeeks, &c.PriceCents,
		&c.TeacherID, &c.TeacherName, &c.CreatedAt, &c.UpdatedAt, &c.Students)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetByID retrieves a course by id with teacher name and enrollment count.
func (r *CourseRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	return scanCourse(r.pool.QueryRow(ctx,
		`SELECT `+courseColumns+` FROM courses c JOIN teachers t ON t.id = c.teacher_id WHERE c.id = $1`, id))
}

// List retrieves all courses ordered by name.
func (r *CourseRepository) List(ctx context.Context) ([]model.Course, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+courseColumns+` FROM courses c JOIN teachers t ON t.id = c.teacher_id ORDER BY c.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, *c)
	}
	return courses, rows.Err()
}

// Create inserts a new course.
func (r *CourseRepository) Create(ctx context.Context, c *model.Course) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO courses (id, name, weekly_hours, duration_weeks, price_cents, teacher_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at, updated_at`,
		c.ID, c.Name, c.WeeklyHours, c.DurationWeeks, c.PriceCents, c.TeacherID,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateCourseName
		}
		return err
	}
	return nil
}

// Update modifies a course.
func (r *CourseRepository) Update(ctx context.Context, c *model.Course) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE courses SET name = $1, weekly_hours = $2, duration_weeks = $3, price_cents = $4,
		 teacher_id = $5, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $6`,
		c.Name, c.WeeklyHours, c.DurationWeeks, c.PriceCents, c.TeacherID, c.ID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateCourseName
		}
		return err
	}
	return nil
}

// Delete removes a course by id. Fails while enrollments reference it.
func (r *CourseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	return err
}
