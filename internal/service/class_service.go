package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Renan360Brasil/melody-academy-control/internal/model"
	"github.com/Renan360Brasil/melody-academy-control/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrScheduleConflict signals a class slot overlapping another slot of
// the same teacher on the same weekday.
var ErrScheduleConflict = errors.New("teacher already has a class in this slot")

// ClassService handles the weekly class schedule.
type ClassService struct {
	classes *repository.ClassRepository
	courses *repository.CourseRepository
}

// NewClassService creates a ClassService.
func NewClassService(classes *repository.ClassRepository, courses *repository.CourseRepository) *ClassService {
	return &ClassService{classes: classes, courses: courses}
}

// List returns the full weekly schedule.
func (s *ClassService) List(ctx context.Context) ([]model.Class, error) {
	return s.classes.List(ctx)
}

// ListForUser returns the schedule visible to a user: teachers see the
// slots they teach, students the slots of their active enrollments, and
// everyone else the full schedule.
func (s *ClassService) ListForUser(ctx context.Context, user *model.AuthUser) ([]model.Class, error) {
	switch {
	case user.Role == model.RoleTeacher && user.TeacherID != nil:
		return s.classes.ListByTeacher(ctx, *user.TeacherID)
	case user.Role == model.RoleStudent && user.StudentID != nil:
		return s.classes.ListByStudent(ctx, *user.StudentID)
	}
	return s.classes.List(ctx)
}

// Create adds a class slot after checking the teacher's schedule.
func (s *ClassService) Create(ctx context.Context, req model.CreateClassRequest) (*model.Class, error) {
	class := &model.Class{
		ID:        uuid.New(),
		CourseID:  req.CourseID,
		DayOfWeek: req.DayOfWeek,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Location:  req.Location,
	}
	if err := s.checkConflict(ctx, class, uuid.Nil); err != nil {
		return nil, err
	}
	if err := s.classes.Create(ctx, class); err != nil {
		if repository.IsForeignKeyViolation(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.classes.GetByID(ctx, class.ID)
}

// Update modifies a class slot, re-checking the teacher's schedule.
func (s *ClassService) Update(ctx context.Context, id uuid.UUID, req model.CreateClassRequest) (*model.Class, error) {
	class, err := s.classes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	class.CourseID = req.CourseID
	class.DayOfWeek = req.DayOfWeek
	class.StartTime = req.StartTime
	class.EndTime = req.EndTime
	class.Location = req.Location
	if err := s.checkConflict(ctx, class, id); err != nil {
		return nil, err
	}
	if err := s.classes.Update(ctx, class); err != nil {
		return nil, err
	}
	return s.classes.GetByID(ctx, id)
}

// Delete removes a class slot.
func (s *ClassService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.classes.Delete(ctx, id)
}

func (s *ClassService) checkConflict(ctx context.Context, class *model.Class, excludeID uuid.UUID) error {
	course, err := s.courses.GetByID(ctx, class.CourseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("fetch course: %w", err)
	}
	existing, err := s.classes.ListByTeacherAndDay(ctx, course.TeacherID, class.DayOfWeek, excludeID)
	if err != nil {
		return fmt.Errorf("fetch teacher slots: %w", err)
	}
	for i := range existing {
		if slotsOverlap(class.StartTime, class.EndTime, existing[i].StartTime, existing[i].EndTime) {
			return ErrScheduleConflict
		}
	}
	return nil
}

// slotsOverlap reports whether two same-day "HH:MM" intervals intersect.
// Touching endpoints (one ends exactly when the other starts) do not
// count as overlap. Lexicographic comparison is ordering-correct for
// zero-padded 24h times.
func slotsOverlap(aStart, aEnd, bStart, bEnd string) bool {
	return aStart < bEnd && bStart < aEnd
}
