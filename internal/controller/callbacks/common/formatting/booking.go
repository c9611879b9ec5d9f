package formatting

import (
	"fmt"
	"strings"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
)

// FormatSlotLine одна строка списка слотов
func FormatSlotLine(slot *model.TimeSlot) string {
	return fmt.Sprintf("%s %s · мест %d/%d · %s",
		SlotDay(slot.StartTime),
		FormatTimeRange(slot.StartTime, slot.EndTime),
		slot.MaxStudents-slot.CurrentBookings,
		slot.MaxStudents,
		FormatPrice(slot.Price),
	)
}

// FormatBooking карточка брони
func FormatBooking(b *model.Booking) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Запись #%d\n", b.ID)
	fmt.Fprintf(&sb, "📊 Статус: %s\n", BookingStatus(b.Status))

	if b.TimeSlot != nil {
		fmt.Fprintf(&sb, "📅 %s %s (%s)\n",
			SlotDay(b.TimeSlot.StartTime),
			FormatTimeRange(b.TimeSlot.StartTime, b.TimeSlot.EndTime),
			FormatDuration(b.TimeSlot.EndTime.Sub(b.TimeSlot.StartTime)))
		if b.Status == model.BookingStatusConfirmed && b.TimeSlot.MeetingURL != "" {
			fmt.Fprintf(&sb, "🔗 %s\n", b.TimeSlot.MeetingURL)
		}
	}
	if b.Student != nil {
		fmt.Fprintf(&sb, "👤 %s\n", b.Student.Name)
	}
	if b.StudentNotes != nil && *b.StudentNotes != "" {
		fmt.Fprintf(&sb, "💬 %s\n", *b.StudentNotes)
	}
	if b.TeacherNotes != nil && *b.TeacherNotes != "" {
		fmt.Fprintf(&sb, "📝 %s\n", *b.TeacherNotes)
	}
	return strings.TrimRight(sb.String(), "\n")
}
