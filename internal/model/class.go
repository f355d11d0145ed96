package model

import (
	"time"

	"github.com/google/uuid"
)

// Class is a weekly recurring lesson slot on the schedule.
// DayOfWeek follows time.Weekday numbering (0 = Sunday); times are "HH:MM".
type Class struct {
	ID          uuid.UUID `json:"id"`
	CourseID    uuid.UUID `json:"course_id"`
	CourseName  string    `json:"course_name"`
	TeacherID   uuid.UUID `json:"teacher_id"`
	TeacherName string    `json:"teacher_name"`
	DayOfWeek   int       `json:"day_of_week"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	Location    string    `json:"location"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateClassRequest is the payload for creating or updating a class slot.
type CreateClassRequest struct {
	CourseID  uuid.UUID `json:"course_id" binding:"required"`
	DayOfWeek int       `json:"day_of_week" binding:"min=0,max=6"`
	StartTime string    `json:"start_time" binding:"required,datetime=15:04"`
	EndTime   string    `json:"end_time" binding:"required,datetime=15:04"`
	Location  string    `json:"location" binding:"required,min=1,max=100"`
}
