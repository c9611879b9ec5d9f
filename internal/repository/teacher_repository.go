package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/Freeeeeet/tutor_scheduler/internal/repository/base"
	"github.com/jackc/pgx/v5"
)

const teacherColumns = `id, name, email, phone, bio, slug, password_hash, telegram_id, is_active, is_deleted, created_at, updated_at`

type TeacherRepository struct {
	base.Repository
}

func NewTeacherRepository(q base.Querier) *TeacherRepository {
	return &TeacherRepository{Repository: base.NewRepository(q)}
}

func (r *TeacherRepository) WithTx(tx pgx.Tx) *TeacherRepository {
	return NewTeacherRepository(tx)
}

func scanTeacher(row pgx.Row) (*model.Teacher, error) {
	var t model.Teacher
	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Email,
		&t.Phone,
		&t.Bio,
		&t.Slug,
		&t.PasswordHash,
		&t.TelegramID,
		&t.IsActive,
		&t.IsDeleted,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// accountConflict переводит нарушение уникальности email/slug/telegram в доменную ошибку
func accountConflict(err error, table string) error {
	switch {
	case base.IsUniqueViolation(err, table+"_email_key"):
		return model.ErrEmailTaken
	case base.IsUniqueViolation(err, table+"_slug_key"):
		return model.ErrSlugTaken
	case base.IsUniqueViolation(err, table+"_telegram_id_key"):
		return model.ErrTelegramLinked
	}
	return nil
}

// Create создаёт учителя
func (r *TeacherRepository) Create(ctx context.Context, t *model.Teacher) error {
	query := `
		INSERT INTO teachers (name, email, phone, bio, slug, password_hash, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.DB().QueryRow(ctx, query, t.Name, t.Email, t.Phone, t.Bio, t.Slug, t.PasswordHash, t.IsActive).
		Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		if domainErr := accountConflict(err, "teachers"); domainErr != nil {
			return domainErr
		}
		return fmt.Errorf("create teacher: %w", err)
	}

	return nil
}

func (r *TeacherRepository) getOne(ctx context.Context, cond string, arg any) (*model.Teacher, error) {
	query := `SELECT ` + teacherColumns + ` FROM teachers WHERE ` + cond + ` AND ` + base.NotDeleted("")

	t, err := scanTeacher(r.DB().QueryRow(ctx, query, arg))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get teacher: %w", err)
	}
	return t, nil
}

// GetByID получает учителя по ID. Возвращает nil, nil если не найден.
func (r *TeacherRepository) GetByID(ctx context.Context, id int64) (*model.Teacher, error) {
	return r.getOne(ctx, "id = $1", id)
}

// GetBySlug получает учителя по slug
func (r *TeacherRepository) GetBySlug(ctx context.Context, slug string) (*model.Teacher, error) {
	return r.getOne(ctx, "slug = $1", slug)
}

// GetByLogin получает учителя по slug или email
func (r *TeacherRepository) GetByLogin(ctx context.Context, login string) (*model.Teacher, error) {
	return r.getOne(ctx, "(slug = $1 OR email = lower($1))", login)
}

// GetByTelegramID получает учителя по привязанному Telegram аккаунту
func (r *TeacherRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*model.Teacher, error) {
	return r.getOne(ctx, "telegram_id = $1", telegramID)
}

// List постраничный список учителей
func (r *TeacherRepository) List(ctx context.Context, onlyActive bool, page model.Page) ([]*model.Teacher, int64, error) {
	w := base.NewWhere(base.NotDeleted(""))
	if onlyActive {
		w.Raw("is_active = TRUE")
	}

	total, err := r.Count(ctx, `SELECT COUNT(*) FROM teachers`+w.SQL(), w.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("count teachers: %w", err)
	}

	tail, args := w.Paginate(page.Limit(), page.Offset())
	rows, err := r.DB().Query(ctx, `SELECT `+teacherColumns+` FROM teachers`+w.SQL()+` ORDER BY id`+tail, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list teachers: %w", err)
	}
	defer rows.Close()

	var teachers []*model.Teacher
	for rows.Next() {
		t, err := scanTeacher(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan teacher: %w", err)
		}
		teachers = append(teachers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate teachers: %w", err)
	}

	return teachers, total, nil
}

// Update сохраняет контактные данные учителя
func (r *TeacherRepository) Update(ctx context.Context, t *model.Teacher) error {
	query := `
		UPDATE teachers
		SET name = $1, email = $2, phone = $3, bio = $4, is_active = $5, updated_at = (NOW() AT TIME ZONE 'utc')
		WHERE id = $6 AND ` + base.NotDeleted("") + `
		RETURNING updated_at
	`

	err := r.DB().QueryRow(ctx, query, t.Name, t.Email, t.Phone, t.Bio, t.IsActive, t.ID).Scan(&t.UpdatedAt)
	if err != nil {
		if base.IsNotFound(err) {
			return model.ErrTeacherNotFound
		}
		if domainErr := accountConflict(err, "teachers"); domainErr != nil {
			return domainErr
		}
		return fmt.Errorf("update teacher: %w", err)
	}

	return nil
}

// SetTelegramID привязывает Telegram аккаунт
func (r *TeacherRepository) SetTelegramID(ctx context.Context, id, telegramID int64) error {
	affected, err := r.ExecAffected(ctx, `
		UPDATE teachers SET telegram_id = $1, updated_at = (NOW() AT TIME ZONE 'utc')
		WHERE id = $2 AND ` + base.NotDeleted("") + `
	`, telegramID, id)
	if err != nil {
		if domainErr := accountConflict(err, "teachers"); domainErr != nil {
			return domainErr
		}
		return fmt.Errorf("set teacher telegram id: %w", err)
	}
	if affected == 0 {
		return model.ErrTeacherNotFound
	}
	return nil
}

// SoftDelete помечает учителя удалённым
func (r *TeacherRepository) SoftDelete(ctx context.Context, id int64) error {
	affected, err := r.ExecAffected(ctx, `
		UPDATE teachers SET is_deleted = TRUE, is_active = FALSE, updated_at = (NOW() AT TIME ZONE 'utc')
		WHERE id = $1 AND ` + base.NotDeleted("") + `
	`, id)
	if err != nil {
		return fmt.Errorf("delete teacher: %w", err)
	}
	if affected == 0 {
		return model.ErrTeacherNotFound
	}
	return nil
}
