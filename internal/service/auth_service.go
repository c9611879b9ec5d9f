package service

import (
	"context"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Freeeeeet/tutor_scheduler/internal/auth"
	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/Freeeeeet/tutor_scheduler/internal/repository"
	"go.uber.org/zap"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9_-]{3,20}$`)

const minPasswordLength = 8

func validateContacts(name, email string) error {
	if name == "" || utf8.RuneCountInString(name) > 100 {
		return model.NewValidationError("name must be 1 to 100 characters")
	}
	if len(email) > 100 || !strings.Contains(email, "@") {
		return model.NewValidationError("email is invalid")
	}
	return nil
}

func validateAccount(name, email, slug, password string) error {
	if err := validateContacts(strings.TrimSpace(name), strings.TrimSpace(email)); err != nil {
		return err
	}
	if !slugPattern.MatchString(slug) {
		return model.NewValidationError("slug must be 3 to 20 characters of a-z, 0-9, _ or -")
	}
	if len(password) < minPasswordLength {
		return model.NewValidationError("password must be at least 8 characters")
	}
	return nil
}

// Identity кто стоит за токеном или Telegram аккаунтом
type Identity struct {
	ID   int64
	Role model.Role
	Name string
}

type Token struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	ExpiresAt   time.Time  `json:"expires_at"`
	Role        model.Role `json:"role"`
	UserID      int64      `json:"user_id"`
}

type AuthService struct {
	teachers *repository.TeacherRepository
	students *repository.StudentRepository
	issuer   *auth.Issuer
	logger   *zap.Logger
}

func NewAuthService(
	teachers *repository.TeacherRepository,
	students *repository.StudentRepository,
	issuer *auth.Issuer,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		teachers: teachers,
		students: students,
		issuer:   issuer,
		logger:   logger,
	}
}

// authenticate проверяет slug или email и пароль. Любая неудача - ErrInvalidCredentials.
func (s *AuthService) authenticate(ctx context.Context, role model.Role, login, password string) (*Identity, error) {
	var (
		id       int64
		name     string
		hash     string
		isActive bool
	)

	switch role {
	case model.RoleTeacher:
		t, err := s.teachers.GetByLogin(ctx, login)
		if err != nil {
			return nil, err
		}
		if t == nil {
			return nil, model.ErrInvalidCredentials
		}
		id, name, hash, isActive = t.ID, t.Name, t.PasswordHash, t.IsActive
	case model.RoleStudent:
		st, err := s.students.GetByLogin(ctx, login)
		if err != nil {
			return nil, err
		}
		if st == nil {
			return nil, model.ErrInvalidCredentials
		}
		id, name, hash, isActive = st.ID, st.Name, st.PasswordHash, st.IsActive
	default:
		return nil, model.NewValidationError("role must be teacher or student")
	}

	if !isActive || !auth.CheckPassword(hash, password) {
		return nil, model.ErrInvalidCredentials
	}
	return &Identity{ID: id, Role: role, Name: name}, nil
}

// Login выдаёт токен доступа
func (s *AuthService) Login(ctx context.Context, role model.Role, login, password string) (*Token, error) {
	identity, err := s.authenticate(ctx, role, login, password)
	if err != nil {
		return nil, err
	}

	raw, expires, err := s.issuer.MakeToken(identity.ID, identity.Role)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User logged in",
		zap.Int64("user_id", identity.ID),
		zap.String("role", string(identity.Role)),
	)

	return &Token{
		AccessToken: raw,
		TokenType:   "Bearer",
		ExpiresAt:   expires,
		Role:        identity.Role,
		UserID:      identity.ID,
	}, nil
}

// LinkTelegram привязывает Telegram аккаунт к профилю после проверки пароля
func (s *AuthService) LinkTelegram(ctx context.Context, role model.Role, slug, password string, telegramID int64) (*Identity, error) {
	identity, err := s.authenticate(ctx, role, slug, password)
	if err != nil {
		return nil, err
	}

	switch role {
	case model.RoleTeacher:
		err = s.teachers.SetTelegramID(ctx, identity.ID, telegramID)
	default:
		err = s.students.SetTelegramID(ctx, identity.ID, telegramID)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("Telegram account linked",
		zap.Int64("user_id", identity.ID),
		zap.String("role", string(role)),
		zap.Int64("telegram_id", telegramID),
	)

	return identity, nil
}

// WhoIs ищет профиль по Telegram ID. Сначала учителя, потом студенты. nil, nil если не привязан.
func (s *AuthService) WhoIs(ctx context.Context, telegramID int64) (*Identity, error) {
	t, err := s.teachers.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	if t != nil {
		return &Identity{ID: t.ID, Role: model.RoleTeacher, Name: t.Name}, nil
	}

	st, err := s.students.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	if st != nil {
		return &Identity{ID: st.ID, Role: model.RoleStudent, Name: st.Name}, nil
	}

	return nil, nil
}
