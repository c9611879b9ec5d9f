package base

import (
	"context"
	"fmt"
	"strconv"
)

// SlotLockKey блокировка одного слота: бронирования, отмены, изменения
func SlotLockKey(slotID int64) string {
	return "slot:" + strconv.FormatInt(slotID, 10)
}

// TeacherSlotsLockKey блокировка расписания учителя: создание и перенос слотов
func TeacherSlotsLockKey(teacherID int64) string {
	return "teacher_slots:" + strconv.FormatInt(teacherID, 10)
}

// AcquireLock берёт advisory lock до конца транзакции.
// Ключ-строка хешируется в bigint на стороне postgres.
func AcquireLock(ctx context.Context, q Querier, key string) error {
	if _, err := q.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtextextended($1, 0))", key); err != nil {
		return fmt.Errorf("acquire lock %s: %w", key, err)
	}
	return nil
}
