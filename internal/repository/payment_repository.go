package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Renan360Brasil/melody-academy-control/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotActive signals a state-changing operation against a record that
// is not in the state the operation requires.
var ErrNotActive = errors.New("record is not in the required state")

// PaymentRepository handles payment data access.
type PaymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository creates a new PaymentRepository.
func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

const paymentColumns = `p.id, p.enrollment_id, s.name, c.name, p.amount_cents,
	p.due_date, p.paid_date, p.status, p.created_at`

const paymentJoins = `
	 FROM payments p
	 JOIN enrollments e ON e.id = p.enrollment_id
	 JOIN students s ON s.id = e.student_id
	 JOIN courses c ON c.id = e.course_id`

func scanPayment(row interface{ Scan(...any) error }) (*model.Payment, error) {
	p := &model.Payment{}
	err := row.Scan(&p.ID, &p.EnrollmentID, &p.StudentName, &p.CourseName, &p.AmountCents,
		&p.DueDate, &p.PaidDate, &p.Status, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetByID retrieves a payment with its student and course names.
func (r *PaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	return scanPayment(r.pool.QueryRow(ctx,
		`SELECT `+paymentColumns+paymentJoins+` WHERE p.id = $1`, id))
}

// List retrieves payments matching a student/course search term and an
// optional status, ordered by due date.
func (r *PaymentRepository) List(ctx context.Context, search string, status *model.PaymentStatus) ([]model.Payment, error) {
	query := `SELECT ` + paymentColumns + paymentJoins +
		` WHERE ($1 = '' OR s.name ILIKE '%' || $1 || '%' OR c.name ILIKE '%' || $1 || '%')`
	args := []interface{}{search}
	if status != nil {
		query += ` AND p.status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY p.due_date`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []model.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, *p)
	}
	return payments, rows.Err()
}

// ListByEnrollment retrieves an enrollment's payments ordered by due date.
func (r *PaymentRepository) ListByEnrollment(ctx context.Context, enrollmentID uuid.UUID) ([]model.Payment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+paymentColumns+paymentJoins+` WHERE p.enrollment_id = $1 ORDER BY p.due_date`, enrollmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []model.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, *p)
	}
	return payments, rows.Err()
}

// MarkPaid settles a pending or overdue payment. Returns ErrNotActive
// when the payment was already settled.
func (r *PaymentRepository) MarkPaid(ctx context.Context, id uuid.UUID, paidDate time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE payments SET status = $1, paid_date = $2 WHERE id = $3 AND status IN ($4, $5)`,
		model.PaymentPaid, paidDate, id, model.PaymentPending, model.PaymentOverdue)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotActive
	}
	return nil
}

// MarkOverdue flips pending payments due strictly before the cutoff to
// overdue, returning how many rows changed.
func (r *PaymentRepository) MarkOverdue(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE payments SET status = $1 WHERE status = $2 AND due_date < $3`,
		model.PaymentOverdue, model.PaymentPending, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Summary aggregates settled and outstanding totals.
func (r *PaymentRepository) Summary(ctx context.Context) (*model.FinancialSummary, error) {
	s := &model.FinancialSummary{}
	err := r.pool.QueryRow(ctx,
		`SELECT
			COALESCE(SUM(amount_cents) FILTER (WHERE status = $1), 0),
			COALESCE(SUM(amount_cents) FILTER (WHERE status = $2), 0),
			COALESCE(SUM(amount_cents) FILTER (WHERE status = $3), 0)
		 FROM payments`,
		model.PaymentPaid, model.PaymentPending, model.PaymentOverdue,
	).Scan(&s.ReceivedCents, &s.PendingCents, &s.OverdueCents)
	if err != nil {
		return nil, err
	}
	return s, nil
}
