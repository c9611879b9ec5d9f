package service

import (
	"context"
	"strings"

	"github.com/Freeeeeet/tutor_scheduler/internal/auth"
	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/Freeeeeet/tutor_scheduler/internal/repository"
	"go.uber.org/zap"
)

type TeacherService struct {
	teachers *repository.TeacherRepository
	logger   *zap.Logger
}

func NewTeacherService(teachers *repository.TeacherRepository, logger *zap.Logger) *TeacherService {
	return &TeacherService{
		teachers: teachers,
		logger:   logger,
	}
}

type RegisterTeacherInput struct {
	Name     string
	Email    string
	Phone    *string
	Bio      *string
	Slug     string
	Password string
}

// UpdateTeacherInput nil-поля не меняются
type UpdateTeacherInput struct {
	Name     *string
	Email    *string
	Phone    *string
	Bio      *string
	IsActive *bool
}

// Register создаёт учителя с хешем пароля
func (s *TeacherService) Register(ctx context.Context, in RegisterTeacherInput) (*model.Teacher, error) {
	if err := validateAccount(in.Name, in.Email, in.Slug, in.Password); err != nil {
		return nil, err
	}
	if in.Bio != nil && len([]rune(*in.Bio)) > 1000 {
		return nil, model.NewValidationError("bio must be at most 1000 characters")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	teacher := &model.Teacher{
		Name:         strings.TrimSpace(in.Name),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:        in.Phone,
		Bio:          in.Bio,
		Slug:         in.Slug,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.teachers.Create(ctx, teacher); err != nil {
		return nil, err
	}

	s.logger.Info("Teacher registered",
		zap.Int64("teacher_id", teacher.ID),
		zap.String("slug", teacher.Slug),
	)

	return teacher, nil
}

// Get получает учителя по ID
func (s *TeacherService) Get(ctx context.Context, id int64) (*model.Teacher, error) {
	teacher, err := s.teachers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if teacher == nil {
		return nil, model.ErrTeacherNotFound
	}
	return teacher, nil
}

// GetBySlug получает учителя по slug
func (s *TeacherService) GetBySlug(ctx context.Context, slug string) (*model.Teacher, error) {
	teacher, err := s.teachers.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if teacher == nil {
		return nil, model.ErrTeacherNotFound
	}
	return teacher, nil
}

// List постраничный список учителей
func (s *TeacherService) List(ctx context.Context, onlyActive bool, page model.Page) (model.PageResult[*model.Teacher], error) {
	teachers, total, err := s.teachers.List(ctx, onlyActive, page)
	if err != nil {
		return model.PageResult[*model.Teacher]{}, err
	}
	return model.NewPageResult(teachers, total, page), nil
}

// Update меняет контактные данные
func (s *TeacherService) Update(ctx context.Context, id int64, in UpdateTeacherInput) (*model.Teacher, error) {
	teacher, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		teacher.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		teacher.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Phone != nil {
		teacher.Phone = in.Phone
	}
	if in.Bio != nil {
		teacher.Bio = in.Bio
	}
	if in.IsActive != nil {
		teacher.IsActive = *in.IsActive
	}
	if err := validateContacts(teacher.Name, teacher.Email); err != nil {
		return nil, err
	}

	if err := s.teachers.Update(ctx, teacher); err != nil {
		return nil, err
	}

	s.logger.Info("Teacher updated", zap.Int64("teacher_id", id))
	return teacher, nil
}

// Delete мягко удаляет учителя
func (s *TeacherService) Delete(ctx context.Context, id int64) error {
	if err := s.teachers.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Teacher deleted", zap.Int64("teacher_id", id))
	return nil
}
