package service

import (
	"context"
	"strings"

	"github.com/Freeeeeet/tutor_scheduler/internal/auth"
	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/Freeeeeet/tutor_scheduler/internal/repository"
	"go.uber.org/zap"
)

type StudentService struct {
	students *repository.StudentRepository
	logger   *zap.Logger
}

func NewStudentService(students *repository.StudentRepository, logger *zap.Logger) *StudentService {
	return &StudentService{
		students: students,
		logger:   logger,
	}
}

type RegisterStudentInput struct {
	Name     string
	Email    string
	Phone    *string
	Slug     string
	Password string
}

// UpdateStudentInput nil-поля не меняются
type UpdateStudentInput struct {
	Name     *string
	Email    *string
	Phone    *string
	IsActive *bool
}

// Register создаёт студента с хешем пароля
func (s *StudentService) Register(ctx context.Context, in RegisterStudentInput) (*model.Student, error) {
	if err := validateAccount(in.Name, in.Email, in.Slug, in.Password); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	student := &model.Student{
		Name:         strings.TrimSpace(in.Name),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:        in.Phone,
		Slug:         in.Slug,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.students.Create(ctx, student); err != nil {
		return nil, err
	}

	s.logger.Info("Student registered",
		zap.Int64("student_id", student.ID),
		zap.String("slug", student.Slug),
	)

	return student, nil
}

// Get получает студента по ID
func (s *StudentService) Get(ctx context.Context, id int64) (*model.Student, error) {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, model.ErrStudentNotFound
	}
	return student, nil
}

// GetBySlug получает студента по slug
func (s *StudentService) GetBySlug(ctx context.Context, slug string) (*model.Student, error) {
	student, err := s.students.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, model.ErrStudentNotFound
	}
	return student, nil
}

// List постраничный список студентов
func (s *StudentService) List(ctx context.Context, onlyActive bool, page model.Page) (model.PageResult[*model.Student], error) {
	students, total, err := s.students.List(ctx, onlyActive, page)
	if err != nil {
		return model.PageResult[*model.Student]{}, err
	}
	return model.NewPageResult(students, total, page), nil
}

// Update меняет контактные данные
func (s *StudentService) Update(ctx context.Context, id int64, in UpdateStudentInput) (*model.Student, error) {
	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		student.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		student.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Phone != nil {
		student.Phone = in.Phone
	}
	if in.IsActive != nil {
		student.IsActive = *in.IsActive
	}
	if err := validateContacts(student.Name, student.Email); err != nil {
		return nil, err
	}

	if err := s.students.Update(ctx, student); err != nil {
		return nil, err
	}

	s.logger.Info("Student updated", zap.Int64("student_id", id))
	return student, nil
}

// Delete мягко удаляет студента
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	if err := s.students.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Student deleted", zap.Int64("student_id", id))
	return nil
}
