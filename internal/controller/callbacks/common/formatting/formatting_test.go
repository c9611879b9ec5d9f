package formatting

import (
	"strings"
	"testing"
	"time"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	p := func(v float64) *float64 { return &v }

	assert.Equal(t, "бесплатно", FormatPrice(nil))
	assert.Equal(t, "бесплатно", FormatPrice(p(0)))
	assert.Equal(t, "1500 ₽", FormatPrice(p(1500)))
	assert.Equal(t, "99.50 ₽", FormatPrice(p(99.5)))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "45 мин", FormatDuration(45*time.Minute))
	assert.Equal(t, "1 ч", FormatDuration(time.Hour))
	assert.Equal(t, "1 ч 30 мин", FormatDuration(90*time.Minute))
}

func TestStatuses(t *testing.T) {
	assert.Equal(t, "🟢 Свободен", SlotStatus(model.SlotStatusAvailable).String())
	assert.Equal(t, "✅ Подтверждена", BookingStatus(model.BookingStatusConfirmed).String())
	assert.Equal(t, "❓ Неизвестно", BookingStatus("lost").String())
}

func TestWeekdayShort(t *testing.T) {
	assert.Equal(t, "Пн", WeekdayShort(0))
	assert.Equal(t, "Вс", WeekdayShort(6))
	assert.Equal(t, "?", WeekdayShort(7))
	assert.Equal(t, "Пн 07.01", SlotDay(time.Date(2030, 1, 7, 10, 0, 0, 0, time.UTC)))
}

func TestFormatSlotLine(t *testing.T) {
	start := time.Date(2030, 1, 7, 10, 0, 0, 0, time.UTC)
	price := 1000.0
	line := FormatSlotLine(&model.TimeSlot{StartTime: start, EndTime: start.Add(time.Hour), MaxStudents: 3, CurrentBookings: 1, Price: &price})
	assert.Equal(t, "Пн 07.01 10:00-11:00 · мест 2/3 · 1000 ₽", line)
}

func TestFormatBooking(t *testing.T) {
	start := time.Date(2030, 1, 9, 15, 0, 0, 0, time.UTC)
	notes := "хочу разобрать задачи"
	b := &model.Booking{
		ID:           5,
		Status:       model.BookingStatusConfirmed,
		StudentNotes: &notes,
		TimeSlot:     &model.TimeSlot{StartTime: start, EndTime: start.Add(90 * time.Minute), MeetingURL: "https://meet/abc"},
		Student:      &model.Student{Name: "Борис"},
	}

	text := FormatBooking(b)
	assert.True(t, strings.HasPrefix(text, "Запись #5\n"))
	assert.Contains(t, text, "✅ Подтверждена")
	assert.Contains(t, text, "Ср 09.01 15:00-16:30 (1 ч 30 мин)")
	assert.Contains(t, text, "https://meet/abc")
	assert.Contains(t, text, "👤 Борис")
	assert.Contains(t, text, notes)

	b.Status = model.BookingStatusPending
	assert.NotContains(t, FormatBooking(b), "https://meet/abc")
}
