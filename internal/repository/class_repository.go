package repository

import (
	"context"

	"github.com/Renan360Brasil/melody-academy-control/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ClassRepository handles class schedule data access.
type ClassRepository struct {
	pool *pgxpool.Pool
}

// NewClassRepository creates a new ClassRepository.
func NewClassRepository(pool *pgxpool.Pool) *ClassRepository {
	return &ClassRepository{pool: pool}
}

const classColumns = `cl.id, cl.course_id, c.name, c.teacher_id, t.name,
	cl.day_of_week, cl.start_time, cl.end_time, cl.location, cl.created_at`

const classJoins = `
	 FROM classes cl
	 JOIN courses c ON c.id = cl.course_id
	 JOIN teachers t ON t.id = c.teacher_id`

func scanClass(row interface{ Scan(...any) error }) (*model.Class, error) {
	cl := &model.Class{}
	err := row.Scan(&cl.ID, &cl.CourseID, &cl.CourseName, &cl.TeacherID, &cl.TeacherName,
		&cl.DayOfWeek, &cl.StartTime, &cl.EndTime, &cl.Location, &cl.CreatedAt)
	if err != nil {
		return nil, err
	}
	return cl, nil
}

// GetByID retrieves a class slot by id.
func (r *ClassRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Class, error) {
	return scanClass(r.pool.QueryRow(ctx,
		`SELECT `+classColumns+classJoins+` WHERE cl.id = $1`, id))
}

// List retrieves the full weekly schedule.
func (r *ClassRepository) List(ctx context.Context) ([]model.Class, error) {
	return r.list(ctx,
		`SELECT `+classColumns+classJoins+` ORDER BY cl.day_of_week, cl.start_time`)
}

// ListByTeacher retrieves the schedule slots taught by one teacher.
func (r *ClassRepository) ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]model.Class, error) {
	return r.list(ctx,
		`SELECT `+classColumns+classJoins+
			` WHERE c.teacher_id = $1 ORDER BY cl.day_of_week, cl.start_time`, teacherID)
}

// ListByStudent retrieves the schedule slots of the courses a student is
// actively enrolled in.
func (r *ClassRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]model.Class, error) {
	return r.list(ctx,
		`SELECT `+classColumns+classJoins+`
		 WHERE EXISTS (
			SELECT 1 FROM enrollments e
			WHERE e.course_id = cl.course_id AND e.student_id = $1 AND e.status = 'active'
		 )
		 ORDER BY cl.day_of_week, cl.start_time`, studentID)
}

// ListByTeacherAndDay retrieves a teacher's slots on one weekday,
// excluding a given class id (uuid.Nil excludes nothing). Used for
// conflict checking.
func (r *ClassRepository) ListByTeacherAndDay(ctx context.Context, teacherID uuid.UUID, dayOfWeek int, excludeID uuid.UUID) ([]model.Class, error) {
	return r.list(ctx,
		`SELECT `+classColumns+classJoins+
			` WHERE c.teacher_id = $1 AND cl.day_of_week = $2 AND cl.id <> $3
		 ORDER BY cl.start_time`, teacherID, dayOfWeek, excludeID)
}

func (r *ClassRepository) list(ctx context.Context, query string, args ...interface{}) ([]model.Class, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []model.Class
	for rows.Next() {
		cl, err := scanClass(rows)
		if err != nil {
			return nil, err
		}
		classes = append(classes, *cl)
	}
	return classes, rows.Err()
}

// Create inserts a new class slot.
func (r *ClassRepository) Create(ctx context.Context, cl *model.Class) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO classes (id, course_id, day_of_week, start_time, end_time, location)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at`,
		cl.ID, cl.CourseID, cl.DayOfWeek, cl.StartTime, cl.EndTime, cl.Location,
	).Scan(&cl.CreatedAt)
}

// Update modifies a class slot.
func (r *ClassRepository) Update(ctx context.Context, cl *model.Class) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE classes SET course_id = $1, day_of_week = $2, start_time = $3, end_time = $4, location = $5
		 WHERE id = $6`,
		cl.CourseID, cl.DayOfWeek, cl.StartTime, cl.EndTime, cl.Location, cl.ID)
	return err
}

// Delete removes a class slot by id.
func (r *ClassRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM classes WHERE id = $1`, id)
	return err
}
