package model

import "github.com/google/uuid"

// AuthUser is the normalized identity the application layer works with.
// It is derived from a profile row plus, for teachers and students, the
// id of their role-specific record. At most one of TeacherID/StudentID
// is set, chosen by Role; neither is set for admins.
type AuthUser struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      Role       `json:"role"`
	Avatar    string     `json:"avatar,omitempty"`
	TeacherID *uuid.UUID `json:"teacher_id,omitempty"`
	StudentID *uuid.UUID `json:"student_id,omitempty"`
}
