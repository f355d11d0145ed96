package model

import (
	"time"

	"github.com/google/uuid"
)

// StudentStatus represents a student's standing at the school.
type StudentStatus string

const (
	StudentActive    StudentStatus = "active"
	StudentInactive  StudentStatus = "inactive"
	StudentSuspended StudentStatus = "suspended"
)

// Student represents an enrolled (or formerly enrolled) student record.
// ProfileID links the record to a login account when the student has one.
type Student struct {
	ID        uuid.UUID     `json:"id"`
	ProfileID *uuid.UUID    `json:"profile_id,omitempty"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Phone     string        `json:"phone"`
	Address   string        `json:"address"`
	BirthDate time.Time     `json:"birth_date"`
	Guardian  string        `json:"guardian,omitempty"`
	Status    StudentStatus `json:"status"`
	Courses   []string      `json:"courses"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// CreateStudentRequest is the payload for registering a new student.
type CreateStudentRequest struct {
	Name      string        `json:"name" binding:"required,min=2,max=100"`
	Email     string        `json:"email" binding:"required,email"`
	Phone     string        `json:"phone" binding:"required,min=8,max=20"`
	Address   string        `json:"address" binding:"required,max=200"`
	BirthDate string        `json:"birth_date" binding:"required,datetime=2006-01-02"`
	Guardian  string        `json:"guardian" binding:"omitempty,max=100"`
	Status    StudentStatus `json:"status" binding:"required,oneof=active inactive suspended"`
}

// UpdateStudentRequest is the payload for updating an existing student.
type UpdateStudentRequest struct {
	Name      string        `json:"name" binding:"required,min=2,max=100"`
	Email     string        `json:"email" binding:"required,email"`
	Phone     string        `json:"phone" binding:"required,min=8,max=20"`
	Address   string        `json:"address" binding:"required,max=200"`
	BirthDate string        `json:"birth_date" binding:"required,datetime=2006-01-02"`
	Guardian  string        `json:"guardian" binding:"omitempty,max=100"`
	Status    StudentStatus `json:"status" binding:"required,oneof=active inactive suspended"`
}
