package repository

import (
	"context"
	"fmt"

	"github.com/Renan360Brasil/melody-academy-control/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EnrollmentRepository handles enrollment data access. Creation and
// cancellation also touch the payments table, inside one transaction.
type EnrollmentRepository struct {
	pool *pgxpool.Pool
}

// NewEnrollmentRepository creates a new EnrollmentRepository.
func NewEnrollmentRepository(pool *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{pool: pool}
}

const enrollmentColumns = `e.id, e.student_id, s.name, e.course_id, c.name,
	e.start_date, e.end_date, e.price_cents, e.installments, e.status, e.created_at`

func scanEnrollment(row interface{ Scan(...any) error }) (*model.Enrollment, error) {
	e := &model.Enrollment{}
	err := row.Scan(&e.ID, &e.StudentID, &e.StudentName, &e.CourseID, &e.CourseName,
		&e.StartDate, &e.EndDate, &e.PriceCents, &e.Installments, &e.Status, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// GetByID retrieves an enrollment with student and course names.
func (r *EnrollmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Enrollment, error) {
	return scanEnrollment(r.pool.QueryRow(ctx,
		`SELECT `+enrollmentColumns+`
		 FROM enrollments e
		 JOIN students s ON s.id = e.student_id
		 JOIN courses c ON c.id = e.course_id
		 WHERE e.id = $1`, id))
}

// List retrieves enrollments matching a student/course search term,
// newest first.
func (r *EnrollmentRepository) List(ctx context.Context, search string) ([]model.Enrollment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+enrollmentColumns+`
		 FROM enrollments e
		 JOIN students s ON s.id = e.student_id
		 JOIN courses c ON c.id = e.course_id
		 WHERE $1 = '' OR s.name ILIKE '%' || $1 || '%' OR c.name ILIKE '%' || $1 || '%'
		 ORDER BY e.created_at DESC`, search)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enrollments []model.Enrollment
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, err
		}
		enrollments = append(enrollments, *e)
	}
	return enrollments, rows.Err()
}

// ListByStudent retrieves a student's enrollments, newest first.
func (r *EnrollmentRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]model.Enrollment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+enrollmentColumns+`
		 FROM enrollments e
		 JOIN students s ON s.id = e.student_id
		 JOIN courses c ON c.id = e.course_id
		 WHERE e.student_id = $1
		 ORDER BY e.created_at DESC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enrollments []model.Enrollment
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, err
		}
		enrollments = append(enrollments, *e)
	}
	return enrollments, rows.Err()
}

// CreateWithPayments inserts an enrollment and its installment payments
// atomically.
func (r *EnrollmentRepository) CreateWithPayments(ctx context.Context, e *model.Enrollment, payments []model.Payment) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO enrollments (id, student_id, course_id, start_date, end_date, price_cents, installments, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at`,
		e.ID, e.StudentID, e.CourseID, e.StartDate, e.EndDate, e.PriceCents, e.Installments, e.Status,
	).Scan(&e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert enrollment: %w", err)
	}

	for i := range payments {
		p := &payments[i]
		err = tx.QueryRow(ctx,
			`INSERT INTO payments (id, enrollment_id, amount_cents, due_date, status)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING created_at`,
			p.ID, p.EnrollmentID, p.AmountCents, p.DueDate, p.Status,
		).Scan(&p.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert payment %d: %w", i+1, err)
		}
	}

	return tx.Commit(ctx)
}

// Cancel marks an enrollment cancelled and drops its unsettled payments,
// atomically. Paid installments are kept for the financial history.
func (r *EnrollmentRepository) Cancel(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE enrollments SET status = $1 WHERE id = $2 AND status = $3`,
		model.EnrollmentCancelled, id, model.EnrollmentActive)
	if err != nil {
		return fmt.Errorf("cancel enrollment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotActive
	}

	_, err = tx.Exec(ctx,
		`DELETE FROM payments WHERE enrollment_id = $1 AND status IN ($2, $3)`,
		id, model.PaymentPending, model.PaymentOverdue)
	if err != nil {
		return fmt.Errorf("drop pending payments: %w", err)
	}

	return tx.Commit(ctx)
}
