package model

import (
	"encoding/json"
	"time"
)

type SlotStatus string

const (
	SlotStatusAvailable SlotStatus = "available"
	SlotStatusBooked    SlotStatus = "booked"    // Все места заняты
	SlotStatusCancelled SlotStatus = "cancelled" // Отменён учителем
)

const (
	MinSlotCapacity = 1
	MaxSlotCapacity = 10
	MaxTextLength   = 500
)

func (s SlotStatus) Valid() bool {
	switch s {
	case SlotStatusAvailable, SlotStatusBooked, SlotStatusCancelled:
		return true
	}
	return false
}

type TimeSlot struct {
	ID              int64      `json:"id"`
	TeacherID       int64      `json:"teacher_id"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         time.Time  `json:"end_time"`
	MaxStudents     int        `json:"max_students"`
	CurrentBookings int        `json:"current_bookings"`
	Status          SlotStatus `json:"status"`
	Description     *string    `json:"description"`
	Price           *float64   `json:"price"`
	MeetingURL      string     `json:"meeting_url"`
	IsDeleted       bool       `json:"-"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at"`

	// Дополнительные поля для удобства (не из БД)
	Teacher  *Teacher   `json:"teacher,omitempty"`
	Bookings []*Booking `json:"bookings,omitempty"`
}

// IsFull true, когда все места заняты
func (s *TimeSlot) IsFull() bool {
	return s.CurrentBookings >= s.MaxStudents
}

// IsAvailable true, когда на слот ещё можно записаться
func (s *TimeSlot) IsAvailable() bool {
	return s.Status == SlotStatusAvailable && !s.IsFull() && !s.IsDeleted
}

func (s *TimeSlot) Interval() Interval {
	return Interval{Start: s.StartTime, End: s.EndTime}
}

// Reserve занимает одно место. Статус становится booked при заполнении.
func (s *TimeSlot) Reserve() error {
	if s.IsFull() {
		return ErrSlotFull
	}
	s.CurrentBookings++
	if s.IsFull() {
		s.Status = SlotStatusBooked
	}
	return nil
}

// Release освобождает одно место. Счётчик не уходит ниже нуля.
func (s *TimeSlot) Release() {
	if s.CurrentBookings > 0 {
		s.CurrentBookings--
	}
	s.SyncStatus()
}

// SyncStatus выравнивает available/booked по счётчику. Отменённый слот не трогаем.
func (s *TimeSlot) SyncStatus() {
	switch {
	case s.Status == SlotStatusCancelled:
	case s.IsFull():
		s.Status = SlotStatusBooked
	case s.Status == SlotStatusBooked:
		s.Status = SlotStatusAvailable
	}
}

func (s TimeSlot) MarshalJSON() ([]byte, error) {
	type plain TimeSlot
	return json.Marshal(struct {
		plain
		IsAvailable bool `json:"is_available"`
		IsFull      bool `json:"is_full"`
	}{
		plain:       plain(s),
		IsAvailable: s.IsAvailable(),
		IsFull:      s.IsFull(),
	})
}
