package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/Freeeeeet/tutor_scheduler/internal/repository/base"
	"github.com/jackc/pgx/v5"
)

const studentColumns = `id, name, email, phone, slug, password_hash, telegram_id, is_active, is_deleted, created_at, updated_at`

type StudentRepository struct {
	base.Repository
}

func NewStudentRepository(q base.Querier) *StudentRepository {
	return &StudentRepository{Repository: base.NewRepository(q)}
}

func (r *StudentRepository) WithTx(tx pgx.Tx) *StudentRepository {
	return NewStudentRepository(tx)
}

func scanStudent(row pgx.Row) (*model.Student, error) {
	var s model.Student
	err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Email,
		&s.Phone,
		&s.Slug,
		&s.PasswordHash,
		&s.TelegramID,
		&s.IsActive,
		&s.IsDeleted,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create создаёт студента
func (r *StudentRepository) Create(ctx context.Context, st *model.Student) error {
	query := `
		INSERT INTO students (name, email, phone, slug, password_hash, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.DB().QueryRow(ctx, query, st.Name, st.Email, st.Phone, st.Slug, st.PasswordHash, st.IsActive).
		Scan(&st.ID, &st.CreatedAt)
	if err != nil {
		if domainErr := accountConflict(err, "students"); domainErr != nil {
			return domainErr
		}
		return fmt.Errorf("create student: %w", err)
	}

	return nil
}

func (r *StudentRepository) getOne(ctx context.Context, cond string, arg any) (*model.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE ` + cond + ` AND ` + base.NotDeleted("")

	s, err := scanStudent(r.DB().QueryRow(ctx, query, arg))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get student: %w", err)
	}
	return s, nil
}

// GetByID получает студента по ID. Возвращает nil, nil если не найден.
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*model.Student, error) {
	return r.getOne(ctx, "id = $1", id)
}

// GetBySlug получает студента по slug
func (r *StudentRepository) GetBySlug(ctx context.Context, slug string) (*model.Student, error) {
	return r.getOne(ctx, "slug = $1", slug)
}

// GetByLogin получает студента по slug или email
func (r *StudentRepository) GetByLogin(ctx context.Context, login string) (*model.Student, error) {
	return r.getOne(ctx, "(slug = $1 OR email = lower($1))", login)
}

// GetByTelegramID получает студента по привязанному Telegram аккаунту
func (r *StudentRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*model.Student, error) {
	return r.getOne(ctx, "telegram_id = $1", telegramID)
}

// List постраничный список студентов
func (r *StudentRepository) List(ctx context.Context, onlyActive bool, page model.Page) ([]*model.Student, int64, error) {
	w := base.NewWhere(base.NotDeleted(""))
	if onlyActive {
		w.Raw("is_active = TRUE")
	}

	total, err := r.Count(ctx, `SELECT COUNT(*) FROM students`+w.SQL(), w.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}

	tail, args := w.Paginate(page.Limit(), page.Offset())
	rows, err := r.DB().Query(ctx, `SELECT `+studentColumns+` FROM students`+w.SQL()+` ORDER BY id`+tail, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}
	defer rows.Close()

	var students []*model.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan student: %w", err)
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate students: %w", err)
	}

	return students, total, nil
}

// Update сохраняет контактные данные студента
func (r *StudentRepository) Update(ctx context.Context, st *model.Student) error {
	query := `
		UPDATE students
		SET name = $1, email = $2, phone = $3, is_active = $4, updated_at = (NOW() AT TIME ZONE 'utc')
		WHERE id = $5 AND ` + base.NotDeleted("") + `
		RETURNING updated_at
	`

	err := r.DB().QueryRow(ctx, query, st.Name, st.Email, st.Phone, st.IsActive, st.ID).Scan(&st.UpdatedAt)
	if err != nil {
		if base.IsNotFound(err) {
			return model.ErrStudentNotFound
		}
		if domainErr := accountConflict(err, "students"); domainErr != nil {
			return domainErr
		}
		return fmt.Errorf("update student: %w", err)
	}

	return nil
}

// SetTelegramID привязывает Telegram аккаунт
func (r *StudentRepository) SetTelegramID(ctx context.Context, id, telegramID int64) error {
	affected, err := r.ExecAffected(ctx, `
		UPDATE students SET telegram_id = $1, updated_at = (NOW() AT TIME ZONE 'utc')
		WHERE id = $2 AND ` + base.NotDeleted("") + `
	`, telegramID, id)
	if err != nil {
		if domainErr := accountConflict(err, "students"); domainErr != nil {
			return domainErr
		}
		return fmt.Errorf("set student telegram id: %w", err)
	}
	if affected == 0 {
		return model.ErrStudentNotFound
	}
	return nil
}

// SoftDelete помечает студента удалённым
func (r *StudentRepository) SoftDelete(ctx context.Context, id int64) error {
	affected, err := r.ExecAffected(ctx, `
		UPDATE students SET is_deleted = TRUE, is_active = FALSE, updated_at = (NOW() AT TIME ZONE 'utc')
		WHERE id = $1 AND ` + base.NotDeleted("") + `
	`, id)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	if affected == 0 {
		return model.ErrStudentNotFound
	}
	return nil
}
