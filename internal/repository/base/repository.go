package base

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier общий интерфейс для пула и транзакции
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository базовый репозиторий с общими методами
type Repository struct {
	q Querier
}

// NewRepository создаёт новый базовый репозиторий
func NewRepository(q Querier) Repository {
	return Repository{q: q}
}

// DB возвращает пул или транзакцию, к которой привязан репозиторий
func (r Repository) DB() Querier {
	return r.q
}

// ExecAffected выполняет команду и возвращает количество затронутых строк
func (r Repository) ExecAffected(ctx context.Context, query string, args ...any) (int64, error) {
	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Count выполняет SELECT COUNT(*) ...
func (r Repository) Count(ctx context.Context, query string, args ...any) (int64, error) {
	var total int64
	if err := r.q.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// NotDeleted условие мягкого удаления для алиаса таблицы
func NotDeleted(alias string) string {
	if alias == "" {
		return "is_deleted = FALSE"
	}
	return alias + ".is_deleted = FALSE"
}

// IsNotFound проверяет является ли ошибка "строка не найдена"
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
