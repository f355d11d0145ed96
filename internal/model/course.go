package model

import (
	"time"

	"github.com/google/uuid"
)

// Course represents a course offering. Prices are stored in centavos.
type Course struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	WeeklyHours   int       `json:"weekly_hours"`
	DurationWeeks int       `json:"duration_weeks"`
	PriceCents    int64     `json:"price_cents"`
	TeacherID     uuid.UUID `json:"teacher_id"`
	TeacherName   string    `json:"teacher_name"`
	Students      int       `json:"students"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CreateCourseRequest is the payload for creating or updating a course.
type CreateCourseRequest struct {
	Name          string    `json:"name" binding:"required,min=2,max=100"`
	WeeklyHours   int       `json:"weekly_hours" binding:"required,min=1,max=40"`
	DurationWeeks int       `json:"duration_weeks" binding:"required,min=1,max=104"`
	PriceCents    int64     `json:"price_cents" binding:"required,min=1"`
	TeacherID     uuid.UUID `json:"teacher_id" binding:"required"`
}
