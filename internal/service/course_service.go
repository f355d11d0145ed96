package service

import (
	"context"
	"errors"

	"github.com/Renan360Brasil/melody-academy-control/internal/model"
	"github.com/Renan360Brasil/melody-academy-control/internal/repository"
	"github.com/google/uuid"
)

// CourseService handles course CRUD.
type CourseService struct {
	courses *repository.CourseRepository
}

// NewCourseService creates a CourseService.
func NewCourseService(courses *repository.CourseRepository) *CourseService {
	return &CourseService{courses: courses}
}

// List returns all courses with teacher names and active student counts.
func (s *CourseService) List(ctx context.Context) ([]model.Course, error) {
	return s.courses.List(ctx)
}

// Get returns one course.
func (s *CourseService) Get(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	return s.courses.GetByID(ctx, id)
}

// Create registers a new course.
func (s *CourseService) Create(ctx context.Context, req model.CreateCourseRequest) (*model.Course, error) {
	course := &model.Course{
		ID:            uuid.New(),
		Name:          req.Name,
		WeeklyHours:   req.WeeklyHours,
		DurationWeeks: req.DurationWeeks,
		PriceCents:    req.PriceCents,
		TeacherID:     req.TeacherID,
	}
	if err := s.courses.Create(ctx, course); err != nil {
		if errors.Is(err, repository.ErrDuplicateCourseName) {
			return nil, ErrDuplicate
		}
		if repository.IsForeignKeyViolation(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.courses.GetByID(ctx, course.ID)
}

// Update modifies a course.
func (s *CourseService) Update(ctx context.Context, id uuid.UUID, req model.CreateCourseRequest) (*model.Course, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	course.Name = req.Name
	course.WeeklyHours = req.WeeklyHours
	course.DurationWeeks = req.DurationWeeks
	course.PriceCents = req.PriceCents
	course.TeacherID = req.TeacherID
	if err := s.courses.Update(ctx, course); err != nil {
		if errors.Is(err, repository.ErrDuplicateCourseName) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return s.courses.GetByID(ctx, id)
}

// Delete removes a course. Courses with enrollments or classes cannot
// be deleted.
func (s *CourseService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.courses.Delete(ctx, id); err != nil {
		if repository.IsForeignKeyViolation(err) {
			return ErrHasDependencies
		}
		return err
	}
	return nil
}
