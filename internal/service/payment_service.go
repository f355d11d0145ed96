package service

import (
	"context"
	"errors"
	"time"

	"github.com/Renan360Brasil/melody-academy-control/internal/model"
	"github.com/Renan360Brasil/melody-academy-control/internal/repository"
	"github.com/google/uuid"
)

// ErrPaymentSettled signals a MarkPaid against an already-paid payment.
var ErrPaymentSettled = errors.New("payment already settled")

// PaymentService handles payment listing and settlement.
type PaymentService struct {
	payments *repository.PaymentRepository
}

// NewPaymentService creates a PaymentService.
func NewPaymentService(payments *repository.PaymentRepository) *PaymentService {
	return &PaymentService{payments: payments}
}

// List returns payments matching a search term and optional status.
func (s *PaymentService) List(ctx context.Context, search string, status *model.PaymentStatus) ([]model.Payment, error) {
	return s.payments.List(ctx, search, status)
}

// ListByEnrollment returns the installment schedule of one enrollment.
func (s *PaymentService) ListByEnrollment(ctx context.Context, enrollmentID uuid.UUID) ([]model.Payment, error) {
	return s.payments.ListByEnrollment(ctx, enrollmentID)
}

// MarkPaid settles a pending or overdue payment as of now.
func (s *PaymentService) MarkPaid(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	if err := s.payments.MarkPaid(ctx, id, time.Now()); err != nil {
		if errors.Is(err, repository.ErrNotActive) {
			return nil, ErrPaymentSettled
		}
		return nil, err
	}
	return s.payments.GetByID(ctx, id)
}

// Summary returns the received/pending/overdue totals.
func (s *PaymentService) Summary(ctx context.Context) (*model.FinancialSummary, error) {
	return s.payments.Summary(ctx)
}
