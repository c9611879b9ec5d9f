package model

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"   // Ожидает подтверждения учителя
	BookingStatusConfirmed BookingStatus = "confirmed" // Подтверждено
	BookingStatusCancelled BookingStatus = "cancelled" // Отменено
	BookingStatusCompleted BookingStatus = "completed" // Урок проведён
)

// AllBookingStatuses возвращает все статусы в порядке жизненного цикла
func AllBookingStatuses() []BookingStatus {
	return []BookingStatus{
		BookingStatusPending,
		BookingStatusConfirmed,
		BookingStatusCancelled,
		BookingStatusCompleted,
	}
}

func (s BookingStatus) Valid() bool {
	for _, st := range AllBookingStatuses() {
		if s == st {
			return true
		}
	}
	return false
}

type Booking struct {
	ID           int64         `json:"id"`
	TimeSlotID   int64         `json:"time_slot_id"`
	StudentID    int64         `json:"student_id"`
	Status       BookingStatus `json:"status"`
	StudentNotes *string       `json:"student_notes"`
	TeacherNotes *string       `json:"teacher_notes"`
	BookingTime  time.Time     `json:"booking_time"`
	ConfirmedAt  *time.Time    `json:"confirmed_at"`
	CancelledAt  *time.Time    `json:"cancelled_at"`
	CompletedAt  *time.Time    `json:"completed_at"`
	IsDeleted    bool          `json:"-"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    *time.Time    `json:"updated_at"`

	// Дополнительные поля для удобства (не из БД)
	TimeSlot *TimeSlot `json:"time_slot,omitempty"`
	Student  *Student  `json:"student,omitempty"`
}

// IsActive true для брони, которая занимает место в слоте
func (b *Booking) IsActive() bool {
	return b.Status != BookingStatusCancelled && !b.IsDeleted
}

// Confirm переводит pending -> confirmed
func (b *Booking) Confirm(now time.Time, teacherNotes *string) error {
	switch b.Status {
	case BookingStatusConfirmed:
		return ErrAlreadyConfirmed
	case BookingStatusCancelled:
		return ErrCannotConfirmCancelled
	case BookingStatusCompleted:
		return ErrCannotConfirmCompleted
	}

	b.Status = BookingStatusConfirmed
	b.ConfirmedAt = &now
	if hasText(teacherNotes) {
		b.TeacherNotes = teacherNotes
	}
	return nil
}

// Cancel переводит pending/confirmed -> cancelled. Причина пишется в заметки учителя.
func (b *Booking) Cancel(now time.Time, reason *string) error {
	switch b.Status {
	case BookingStatusCancelled:
		return ErrAlreadyCancelled
	case BookingStatusCompleted:
		return ErrCannotCancelCompleted
	}

	b.Status = BookingStatusCancelled
	b.CancelledAt = &now
	if hasText(reason) {
		b.TeacherNotes = reason
	}
	return nil
}

// Complete переводит confirmed -> completed
func (b *Booking) Complete(now time.Time, teacherNotes *string) error {
	if b.Status != BookingStatusConfirmed {
		return ErrCanOnlyCompleteConfirmed
	}

	b.Status = BookingStatusCompleted
	b.CompletedAt = &now
	if hasText(teacherNotes) {
		b.TeacherNotes = teacherNotes
	}
	return nil
}

func hasText(s *string) bool {
	return s != nil && *s != ""
}

// BookingStats количество броней по каждому статусу
type BookingStats map[BookingStatus]int64

// NewBookingStats возвращает статистику с нулями для всех статусов
func NewBookingStats() BookingStats {
	stats := make(BookingStats, len(AllBookingStatuses()))
	for _, st := range AllBookingStatuses() {
		stats[st] = 0
	}
	return stats
}

// ManagedBy true, если пользователь может менять бронь: студент брони или учитель слота.
// Для учителя нужен загруженный TimeSlot.
func (b *Booking) ManagedBy(role Role, userID int64) bool {
	switch role {
	case RoleStudent:
		return b.StudentID == userID
	case RoleTeacher:
		return b.TimeSlot != nil && b.TimeSlot.TeacherID == userID
	default:
		return false
	}
}
