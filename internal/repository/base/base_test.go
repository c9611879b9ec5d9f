package base

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Freeeeeet/tutor_scheduler/internal/apperror"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestLockKeys(t *testing.T) {
	assert.Equal(t, "slot:42", SlotLockKey(42))
	assert.Equal(t, "teacher_slots:7", TeacherSlotsLockKey(7))
	assert.NotEqual(t, SlotLockKey(7), TeacherSlotsLockKey(7))
}

func TestNotDeleted(t *testing.T) {
	assert.Equal(t, "is_deleted = FALSE", NotDeleted(""))
	assert.Equal(t, "ts.is_deleted = FALSE", NotDeleted("ts"))
}

func TestErrorClassification(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505", ConstraintName: "uq_bookings_active_student_slot"}
	lockTimeout := fmt.Errorf("acquire lock: %w", &pgconn.PgError{Code: "55P03"})
	deadlock := &pgconn.PgError{Code: "40P01"}

	assert.True(t, IsUniqueViolation(unique, ""))
	assert.True(t, IsUniqueViolation(unique, "uq_bookings_active_student_slot"))
	assert.False(t, IsUniqueViolation(unique, "teachers_email_key"))
	assert.False(t, IsUniqueViolation(errors.New("x"), ""))

	assert.True(t, IsLockTimeout(lockTimeout))
	assert.True(t, IsRetryable(lockTimeout))
	assert.True(t, IsRetryable(deadlock))
	assert.False(t, IsRetryable(unique))

	assert.True(t, IsNotFound(fmt.Errorf("get: %w", pgx.ErrNoRows)))
}

func TestClassifyMapsRetryableToUnavailable(t *testing.T) {
	err := classify(fmt.Errorf("book slot: %w", &pgconn.PgError{Code: "55P03"}))
	assert.Equal(t, apperror.KindUnavailable, apperror.KindOf(err))

	plain := errors.New("boom")
	assert.Same(t, plain, classify(plain))
}

func TestFormatTimeout(t *testing.T) {
	assert.Equal(t, "5000ms", formatTimeout(5*time.Second))
	assert.Equal(t, "250ms", formatTimeout(250*time.Millisecond))
	assert.Equal(t, "1ms", formatTimeout(time.Microsecond))
}

func TestWhereBuilder(t *testing.T) {
	w := NewWhere(NotDeleted("ts")).
		Add("ts.teacher_id = $%d", int64(3)).
		Add("ts.start_time >= $%d", "2030-01-01")

	assert.Equal(t, " WHERE ts.is_deleted = FALSE AND ts.teacher_id = $1 AND ts.start_time >= $2", w.SQL())
	assert.Equal(t, []any{int64(3), "2030-01-01"}, w.Args())

	tail, args := w.Paginate(20, 40)
	assert.Equal(t, " LIMIT $3 OFFSET $4", tail)
	assert.Equal(t, []any{int64(3), "2030-01-01", 20, 40}, args)
	assert.Len(t, w.Args(), 2)

	assert.Equal(t, "", NewWhere().SQL())
}
