package service

import (
	"context"
	"errors"

	"github.com/Renan360Brasil/melody-academy-control/internal/model"
	"github.com/Renan360Brasil/melody-academy-control/internal/repository"
	"github.com/google/uuid"
)

// TeacherService handles teacher CRUD.
type TeacherService struct {
	teachers *repository.TeacherRepository
}

// NewTeacherService creates a TeacherService.
func NewTeacherService(teachers *repository.TeacherRepository) *TeacherService {
	return &TeacherService{teachers: teachers}
}

// List returns all teachers.
func (s *TeacherService) List(ctx context.Context) ([]model.Teacher, error) {
	return s.teachers.List(ctx)
}

// Get returns one teacher.
func (s *TeacherService) Get(ctx context.Context, id uuid.UUID) (*model.Teacher, error) {
	return s.teachers.GetByID(ctx, id)
}

// Create registers a new teacher.
func (s *TeacherService) Create(ctx context.Context, req model.CreateTeacherRequest) (*model.Teacher, error) {
	teacher := &model.Teacher{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Instruments:  req.Instruments,
		Availability: req.Availability,
		Courses:      []string{},
	}
	if teacher.Availability == nil {
		teacher.Availability = []model.Availability{}
	}
	if err := s.teachers.Create(ctx, teacher); err != nil {
		if errors.Is(err, repository.ErrDuplicateTeacherEmail) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return teacher, nil
}

// Update modifies a teacher.
func (s *TeacherService) Update(ctx context.Context, id uuid.UUID, req model.CreateTeacherRequest) (*model.Teacher, error) {
	teacher, err := s.teachers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	teacher.Name = req.Name
	teacher.Email = req.Email
	teacher.Phone = req.Phone
	teacher.Instruments = req.Instruments
	teacher.Availability = req.Availability
	if teacher.Availability == nil {
		teacher.Availability = []model.Availability{}
	}
	if err := s.teachers.Update(ctx, teacher); err != nil {
		if errors.Is(err, repository.ErrDuplicateTeacherEmail) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return teacher, nil
}

// Delete removes a teacher. Teachers with courses cannot be deleted.
func (s *TeacherService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.teachers.Delete(ctx, id); err != nil {
		if repository.IsForeignKeyViolation(err) {
			return ErrHasDependencies
		}
		return err
	}
	return nil
}
