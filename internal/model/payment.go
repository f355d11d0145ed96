package model

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus represents a payment's settlement state.
type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "paid"
	PaymentPending PaymentStatus = "pending"
	PaymentOverdue PaymentStatus = "overdue"
)

// Payment is a single installment owed for an enrollment.
type Payment struct {
	ID           uuid.UUID     `json:"id"`
	EnrollmentID uuid.UUID     `json:"enrollment_id"`
	StudentName  string        `json:"student_name"`
	CourseName   string        `json:"course_name"`
	AmountCents  int64         `json:"amount_cents"`
	DueDate      time.Time     `json:"due_date"`
	PaidDate     *time.Time    `json:"paid_date,omitempty"`
	Status       PaymentStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
}

// FinancialSummary aggregates payment totals for the financial page.
type FinancialSummary struct {
	ReceivedCents int64 `json:"received_cents"`
	PendingCents  int64 `json:"pending_cents"`
	OverdueCents  int64 `json:"overdue_cents"`
}
