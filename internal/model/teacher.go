package model

import (
	"time"

	"github.com/google/uuid"
)

// Availability is a weekly recurring slot in which a teacher can take classes.
// DayOfWeek follows time.Weekday numbering (0 = Sunday).
type Availability struct {
	DayOfWeek int    `json:"day_of_week" binding:"min=0,max=6"`
	StartTime string `json:"start_time" binding:"required,datetime=15:04"`
	EndTime   string `json:"end_time" binding:"required,datetime=15:04"`
}

// Teacher represents a teacher record. ProfileID links it to a login account.
type Teacher struct {
	ID           uuid.UUID      `json:"id"`
	ProfileID    *uuid.UUID     `json:"profile_id,omitempty"`
	Name         string         `json:"name"`
	Email        string         `json:"email"`
	Phone        string         `json:"phone"`
	Instruments  []string       `json:"instruments"`
	Availability []Availability `json:"availability"`
	Courses      []string       `json:"courses"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// CreateTeacherRequest is the payload for registering a new teacher.
type CreateTeacherRequest struct {
	Name         string         `json:"name" binding:"required,min=2,max=100"`
	Email        string         `json:"email" binding:"required,email"`
	Phone        string         `json:"phone" binding:"required,min=8,max=20"`
	Instruments  []string       `json:"instruments" binding:"required,min=1,dive,min=2,max=50"`
	Availability []Availability `json:"availability" binding:"omitempty,dive"`
}
