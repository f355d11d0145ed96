package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Renan360Brasil/melody-academy-control/internal/model"
	"github.com/Renan360Brasil/melody-academy-control/internal/repository"
	"github.com/google/uuid"
)

// Shared domain errors.
var (
	ErrNotFound        = errors.New("record not found")
	ErrDuplicate       = errors.New("record already exists")
	ErrHasDependencies = errors.New("record is referenced by other records")
)

const dateLayout = "2006-01-02"

// StudentService handles student CRUD.
type StudentService struct {
	students *repository.StudentRepository
}

// NewStudentService creates a StudentService.
func NewStudentService(students *repository.StudentRepository) *StudentService {
	return &StudentService{students: students}
}

// List returns a page of students plus the total match count.
func (s *StudentService) List(ctx context.Context, search string, status *model.StudentStatus, page, perPage int) ([]model.Student, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return s.students.ListPaginated(ctx, search, status, perPage, (page-1)*perPage)
}

// Get returns one student.
func (s *StudentService) Get(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	return s.students.GetByID(ctx, id)
}

// Create registers a new student.
func (s *StudentService) Create(ctx context.Context, req model.CreateStudentRequest) (*model.Student, error) {
	birthDate, err := time.Parse(dateLayout, req.BirthDate)
	if err != nil {
		return nil, fmt.Errorf("parse birth date: %w", err)
	}
	student := &model.Student{
		ID:        uuid.New(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		BirthDate: birthDate,
		Guardian:  req.Guardian,
		Status:    req.Status,
		Courses:   []string{},
	}
	if err := s.students.Create(ctx, student); err != nil {
		if errors.Is(err, repository.ErrDuplicateStudentEmail) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return student, nil
}

// Update modifies a student.
func (s *StudentService) Update(ctx context.Context, id uuid.UUID, req model.UpdateStudentRequest) (*model.Student, error) {
	birthDate, err := time.Parse(dateLayout, req.BirthDate)
	if err != nil {
		return nil, fmt.Errorf("parse birth date: %w", err)
	}
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	student.Name = req.Name
	student.Email = req.Email
	student.Phone = req.Phone
	student.Address = req.Address
	student.BirthDate = birthDate
	student.Guardian = req.Guardian
	student.Status = req.Status
	if err := s.students.Update(ctx, student); err != nil {
		if errors.Is(err, repository.ErrDuplicateStudentEmail) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return student, nil
}

// Delete removes a student. Students with enrollments cannot be deleted.
func (s *StudentService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.students.Delete(ctx, id); err != nil {
		if repository.IsForeignKeyViolation(err) {
			return ErrHasDependencies
		}
		return err
	}
	return nil
}
