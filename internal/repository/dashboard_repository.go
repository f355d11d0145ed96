package repository

import (
	"context"
	"time"

	"github.com/Renan360Brasil/melody-academy-control/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DashboardRepository handles dashboard data access.
type DashboardRepository struct {
	pool *pgxpool.Pool
}

// NewDashboardRepository creates a new DashboardRepository.
func NewDashboardRepository(pool *pgxpool.Pool) *DashboardRepository {
	return &DashboardRepository{pool: pool}
}

// GetStats retrieves the headline dashboard numbers. Monthly revenue
// sums payments settled inside the month containing now; upcoming
// classes counts scheduled weekly slots.
func (r *DashboardRepository) GetStats(ctx context.Context, now time.Time) (*model.DashboardStats, error) {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	nextMonth := monthStart.AddDate(0, 1, 0)

	stats := &model.DashboardStats{}
	err := r.pool.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM students),
			(SELECT COUNT(*) FROM students WHERE status = 'active'),
			(SELECT COUNT(*) FROM teachers),
			(SELECT COUNT(*) FROM courses),
			(SELECT COUNT(*) FROM classes),
			(SELECT COALESCE(SUM(amount_cents), 0) FROM payments
				WHERE status = 'paid' AND paid_date >= $1 AND paid_date < $2),
			(SELECT COALESCE(SUM(amount_cents), 0) FROM payments
				WHERE status IN ('pending', 'overdue'))`,
		monthStart, nextMonth,
	).Scan(
		&stats.TotalStudents,
		&stats.ActiveStudents,
		&stats.TotalTeachers,
		&stats.TotalCourses,
		&stats.UpcomingClasses,
		&stats.MonthlyRevenueCents,
		&stats.PendingPaymentsCents,
	)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
