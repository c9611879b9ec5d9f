package callbacks

import (
	"context"

	"github.com/Freeeeeet/tutor_scheduler/internal/controller/callbacks/common"
	"github.com/Freeeeeet/tutor_scheduler/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/Freeeeeet/tutor_scheduler/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// handleBookLesson студент записывается на слот
func (h *Handler) handleBookLesson(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, identity *service.Identity, slotID int64) {
	if identity.Role != model.RoleStudent {
		h.fail(ctx, b, callback, "book lesson", common.ErrNotAStudent)
		return
	}

	booking, err := h.bookings.CreateBooking(ctx, service.CreateBookingInput{
		TimeSlotID: slotID,
		StudentID:  identity.ID,
	})
	if err != nil {
		h.fail(ctx, b, callback, "book lesson", err)
		return
	}

	if details, err := h.bookings.GetBookingDetails(ctx, booking.ID); err == nil {
		booking = details
	}

	text := "✅ Запись создана!\n\n" + formatting.FormatBooking(booking) +
		"\n\nУчитель получил запрос на подтверждение."
	h.send(ctx, b, callback.From.ID, text, common.BookingKeyboard(booking, model.RoleStudent))
	common.AnswerCallback(ctx, b, callback.ID, "✅ Запись создана")

	h.notifyTeacher(ctx, b, booking, "⏳ Новая запись\n\n")
}

func (h *Handler) handleCancelBooking(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, identity *service.Identity, id int64) {
	h.manage(ctx, b, callback, identity, id, "cancel booking", "❌ Запись отменена", func() (*model.Booking, error) {
		return h.bookings.CancelBooking(ctx, id, nil)
	})
}

func (h *Handler) handleConfirmBooking(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, identity *service.Identity, id int64) {
	if identity.Role != model.RoleTeacher {
		h.fail(ctx, b, callback, "confirm booking", common.ErrNotATeacher)
		return
	}
	h.manage(ctx, b, callback, identity, id, "confirm booking", "✅ Запись подтверждена", func() (*model.Booking, error) {
		return h.bookings.ConfirmBooking(ctx, id, nil)
	})
}

func (h *Handler) handleCompleteBooking(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, identity *service.Identity, id int64) {
	if identity.Role != model.RoleTeacher {
		h.fail(ctx, b, callback, "complete booking", common.ErrNotATeacher)
		return
	}
	h.manage(ctx, b, callback, identity, id, "complete booking", "✔️ Занятие проведено", func() (*model.Booking, error) {
		return h.bookings.CompleteBooking(ctx, id, nil)
	})
}

// manage проверяет доступ к брони, выполняет переход и обновляет сообщение
func (h *Handler) manage(
	ctx context.Context,
	b *bot.Bot,
	callback *models.CallbackQuery,
	identity *service.Identity,
	id int64,
	operation string,
	done string,
	apply func() (*model.Booking, error),
) {
	details, err := h.bookings.GetBookingDetails(ctx, id)
	if err != nil {
		h.fail(ctx, b, callback, operation, err)
		return
	}
	if !details.ManagedBy(identity.Role, identity.ID) {
		h.fail(ctx, b, callback, operation, common.ErrNotOwner)
		return
	}

	updated, err := apply()
	if err != nil {
		h.fail(ctx, b, callback, operation, err)
		return
	}
	updated.TimeSlot, updated.Student = details.TimeSlot, details.Student

	h.logger.Info("Booking changed from bot",
		zap.String("operation", operation),
		zap.Int64("booking_id", id),
		zap.Int64("user_id", identity.ID))

	text := done + "\n\n" + formatting.FormatBooking(updated)
	kb := common.BookingKeyboard(updated, identity.Role)

	if msg := common.GetMessageFromCallback(callback); msg != nil {
		_, err := b.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:      msg.Chat.ID,
			MessageID:   msg.ID,
			Text:        text,
			ReplyMarkup: kb,
		})
		if err != nil {
			h.logger.Warn("Failed to edit message", zap.Error(err))
		}
	} else {
		h.send(ctx, b, callback.From.ID, text, kb)
	}
	common.AnswerCallback(ctx, b, callback.ID, done)

	if identity.Role == model.RoleTeacher {
		h.notifyStudent(ctx, b, updated, done+"\n\n")
	} else {
		h.notifyTeacher(ctx, b, updated, done+" студентом\n\n")
	}
}

// notifyTeacher сообщает учителю слота, если он привязал Telegram
func (h *Handler) notifyTeacher(ctx context.Context, b *bot.Bot, booking *model.Booking, header string) {
	if booking.TimeSlot == nil {
		return
	}
	teacher, err := h.teachers.Get(ctx, booking.TimeSlot.TeacherID)
	if err != nil || teacher.TelegramID == nil {
		return
	}
	h.send(ctx, b, *teacher.TelegramID, header+formatting.FormatBooking(booking),
		common.BookingKeyboard(booking, model.RoleTeacher))
}

// notifyStudent сообщает студенту брони, если он привязал Telegram
func (h *Handler) notifyStudent(ctx context.Context, b *bot.Bot, booking *model.Booking, header string) {
	student, err := h.students.Get(ctx, booking.StudentID)
	if err != nil || student.TelegramID == nil {
		return
	}
	h.send(ctx, b, *student.TelegramID, header+formatting.FormatBooking(booking),
		common.BookingKeyboard(booking, model.RoleStudent))
}

func (h *Handler) send(ctx context.Context, b *bot.Bot, chatID int64, text string, kb *models.InlineKeyboardMarkup) {
	params := &bot.SendMessageParams{ChatID: chatID, Text: text}
	if kb != nil && len(kb.InlineKeyboard) > 0 {
		params.ReplyMarkup = kb
	}
	if _, err := b.SendMessage(ctx, params); err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}
}
