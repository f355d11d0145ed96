package model

import (
	"time"

	"github.com/google/uuid"
)

// EnrollmentStatus represents an enrollment's lifecycle state.
type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentCompleted EnrollmentStatus = "completed"
	EnrollmentCancelled EnrollmentStatus = "cancelled"
)

// Enrollment ties a student to a course for a date range. EndDate is
// derived from the course duration; the price is split into monthly
// installment payments at creation time.
type Enrollment struct {
	ID           uuid.UUID        `json:"id"`
	StudentID    uuid.UUID        `json:"student_id"`
	StudentName  string           `json:"student_name"`
	CourseID     uuid.UUID        `json:"course_id"`
	CourseName   string           `json:"course_name"`
	StartDate    time.Time        `json:"start_date"`
	EndDate      time.Time        `json:"end_date"`
	PriceCents   int64            `json:"price_cents"`
	Installments int              `json:"installments"`
	Status       EnrollmentStatus `json:"status"`
	CreatedAt    time.Time        `json:"created_at"`
}

// CreateEnrollmentRequest is the payload for enrolling a student in a course.
type CreateEnrollmentRequest struct {
	StudentID    uuid.UUID `json:"student_id" binding:"required"`
	CourseID     uuid.UUID `json:"course_id" binding:"required"`
	StartDate    string    `json:"start_date" binding:"required,datetime=2006-01-02"`
	Installments int       `json:"installments" binding:"required,min=1,max=24"`
}
