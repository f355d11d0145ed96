package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Renan360Brasil/melody-academy-control/internal/model"
	"github.com/Renan360Brasil/melody-academy-control/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrEnrollmentNotActive signals a cancel against a non-active enrollment.
var ErrEnrollmentNotActive = errors.New("enrollment is not active")

// EnrollmentService handles enrollments and the installment schedule
// derived from them.
type EnrollmentService struct {
	enrollments *repository.EnrollmentRepository
	courses     *repository.CourseRepository
}

// NewEnrollmentService creates an EnrollmentService.
func NewEnrollmentService(enrollments *repository.EnrollmentRepository, courses *repository.CourseRepository) *EnrollmentService {
	return &EnrollmentService{enrollments: enrollments, courses: courses}
}

// List returns enrollments matching a student/course search term.
func (s *EnrollmentService) List(ctx context.Context, search string) ([]model.Enrollment, error) {
	return s.enrollments.List(ctx, search)
}

// ListByStudent returns one student's enrollments.
func (s *EnrollmentService) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]model.Enrollment, error) {
	return s.enrollments.ListByStudent(ctx, studentID)
}

// Get returns one enrollment.
func (s *EnrollmentService) Get(ctx context.Context, id uuid.UUID) (*model.Enrollment, error) {
	return s.enrollments.GetByID(ctx, id)
}

// Create enrolls a student in a course. The end date is derived from
// the course duration, and the price is split into monthly installments
// starting on the start date. Enrollment and payments commit atomically.
func (s *EnrollmentService) Create(ctx context.Context, req model.CreateEnrollmentRequest) (*model.Enrollment, error) {
	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("parse start date: %w", err)
	}

	course, err := s.courses.GetByID(ctx, req.CourseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch course: %w", err)
	}

	enrollment := &model.Enrollment{
		ID:           uuid.New(),
		StudentID:    req.StudentID,
		CourseID:     req.CourseID,
		StartDate:    startDate,
		EndDate:      computeEndDate(startDate, course.DurationWeeks),
		PriceCents:   course.PriceCents,
		Installments: req.Installments,
		Status:       model.EnrollmentActive,
	}
	payments := buildInstallmentSchedule(enrollment.ID, course.PriceCents, req.Installments, startDate)

	if err := s.enrollments.CreateWithPayments(ctx, enrollment, payments); err != nil {
		if repository.IsForeignKeyViolation(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.enrollments.GetByID(ctx, enrollment.ID)
}

// Cancel cancels an active enrollment and drops its unsettled payments.
func (s *EnrollmentService) Cancel(ctx context.Context, id uuid.UUID) error {
	if err := s.enrollments.Cancel(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotActive) {
			return ErrEnrollmentNotActive
		}
		return err
	}
	return nil
}

// computeEndDate derives when an enrollment finishes from its course
// duration in weeks.
func computeEndDate(startDate time.Time, durationWeeks int) time.Time {
	return startDate.AddDate(0, 0, durationWeeks*7)
}

// buildInstallmentSchedule splits priceCents into n monthly payments
// due starting on startDate. Cents that do not divide evenly land on
// the final installment, so the amounts always sum to the price.
func buildInstallmentSchedule(enrollmentID uuid.UUID, priceCents int64, n int, startDate time.Time) []model.Payment {
	if n < 1 {
		n = 1
	}
	base := priceCents / int64(n)
	payments := make([]model.Payment, n)
	for i := 0; i < n; i++ {
		amount := base
		if i == n-1 {
			amount = priceCents - base*int64(n-1)
		}
		payments[i] = model.Payment{
			ID:           uuid.New(),
			EnrollmentID: enrollmentID,
			AmountCents:  amount,
			DueDate:      startDate.AddDate(0, i, 0),
			Status:       model.PaymentPending,
		}
	}
	return payments
}
