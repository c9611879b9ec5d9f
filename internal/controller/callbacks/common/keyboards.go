package common

import (
	"github.com/Freeeeeet/tutor_scheduler/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/go-telegram/bot/models"
)

// BookingKeyboard кнопки действий над бронью для роли
func BookingKeyboard(b *model.Booking, role model.Role) *models.InlineKeyboardMarkup {
	kb := keyboard.NewBuilder()
	cancel := keyboard.Button("❌ Отменить", CallbackData(CancelBooking, b.ID))

	switch {
	case role == model.RoleStudent && (b.Status == model.BookingStatusPending || b.Status == model.BookingStatusConfirmed):
		kb.Row(cancel)
	case role == model.RoleTeacher && b.Status == model.BookingStatusPending:
		kb.Row(keyboard.Button("✅ Подтвердить", CallbackData(ConfirmBooking, b.ID)), cancel)
	case role == model.RoleTeacher && b.Status == model.BookingStatusConfirmed:
		kb.Row(keyboard.Button("✔️ Проведено", CallbackData(CompleteBooking, b.ID)), cancel)
	}

	if role == model.RoleStudent && b.Status == model.BookingStatusConfirmed && b.TimeSlot != nil && b.TimeSlot.MeetingURL != "" {
		kb.Row(keyboard.URLButton("🔗 Подключиться", b.TimeSlot.MeetingURL))
	}
	return kb.Build()
}

// SlotsKeyboard кнопки записи на свободные слоты
func SlotsKeyboard(slots []*model.TimeSlot) *models.InlineKeyboardMarkup {
	kb := keyboard.NewBuilder()
	for _, s := range slots {
		label := "📝 " + s.StartTime.Format("02.01 15:04")
		kb.Row(keyboard.Button(label, CallbackData(BookLesson, s.ID)))
	}
	return kb.Build()
}
