// Package testutil общие помощники для интеграционных тестов с postgres.
// Тесты пропускаются, если TEST_DB_DSN не задан.
package testutil

import (
	"context"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/tutor_scheduler/internal/auth"
	"github.com/Freeeeeet/tutor_scheduler/internal/migrations"
	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/Freeeeeet/tutor_scheduler/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/lock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const Password = "password123"

var (
	migrateOnce sync.Once
	migrateErr  error
)

// Pool подключается к тестовой базе и применяет миграции
func Pool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	_ = godotenv.Load("../../.env")

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := pgxpool.ParseConfig(dsn)
	require.NoError(t, err)
	cfg.MaxConns = 20

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	migrateOnce.Do(func() { migrateErr = migrate(ctx, pool) })
	require.NoError(t, migrateErr)

	return pool
}

// migrate применяет миграции под session lock, пакеты тестов могут стартовать параллельно
func migrate(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	locker, err := lock.NewPostgresSessionLocker()
	if err != nil {
		return err
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS, goose.WithSessionLocker(locker))
	if err != nil {
		return err
	}

	_, err = provider.Up(ctx)
	return err
}

// Logger логгер, пишущий в вывод теста только при -v
func Logger(t *testing.T) *zap.Logger {
	t.Helper()
	if testing.Verbose() {
		return zap.NewExample()
	}
	return zap.NewNop()
}

// Unique уникальная строка для slug и email: prefix + 8 hex символов
func Unique(prefix string) string {
	return prefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

func CreateTeacher(t *testing.T, pool *pgxpool.Pool) *model.Teacher {
	t.Helper()
	hash, err := auth.HashPassword(Password)
	require.NoError(t, err)

	slug := Unique("t-")
	teacher := &model.Teacher{
		Name:         "Teacher " + slug,
		Email:        slug + "@example.com",
		Slug:         slug,
		PasswordHash: hash,
		IsActive:     true,
	}
	require.NoError(t, repository.NewTeacherRepository(pool).Create(context.Background(), teacher))
	return teacher
}

func CreateStudent(t *testing.T, pool *pgxpool.Pool) *model.Student {
	t.Helper()
	hash, err := auth.HashPassword(Password)
	require.NoError(t, err)

	slug := Unique("s-")
	student := &model.Student{
		Name:         "Student " + slug,
		Email:        slug + "@example.com",
		Slug:         slug,
		PasswordHash: hash,
		IsActive:     true,
	}
	require.NoError(t, repository.NewStudentRepository(pool).Create(context.Background(), student))
	return student
}
