package handlers

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/tutor_scheduler/internal/controller/callbacks/common"
	"github.com/Freeeeeet/tutor_scheduler/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// maxListedItems сколько слотов или броней показывать в одном ответе
const maxListedItems = 10

const helpText = "📚 Справка по командам:\n\n" +
	"/link <teacher|student> <slug> <пароль> - Привязать аккаунт\n" +
	"/slots <slug учителя> - Свободные слоты учителя\n" +
	"/mybookings - Мои записи\n" +
	"/help - Показать эту справку\n\n" +
	"Для учителей:\n" +
	"/myschedule - Расписание на неделю"

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	identity, err := h.auth.WhoIs(ctx, update.Message.From.ID)
	if err != nil {
		h.logger.Error("Failed to resolve telegram user", zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, common.ErrorMessage(err))
		return
	}

	var text string
	if identity == nil {
		text = fmt.Sprintf("👋 Привет, %s!\n\n"+
			"Это бот для записи на занятия к учителям.\n"+
			"Чтобы начать, привяжите аккаунт, зарегистрированный на сайте:\n"+
			"/link student <slug> <пароль>\n\n", update.Message.From.FirstName) + helpText
	} else {
		text = fmt.Sprintf("👋 С возвращением, %s!\n\n", identity.Name) + helpText
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, text, nil)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.sendMessage(ctx, b, update.Message.Chat.ID, helpText, nil)
}

// HandleLink обрабатывает /link <role> <slug> <password>.
// Сообщение с паролем удаляется из чата.
func (h *Handlers) HandleLink(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	chatID := update.Message.Chat.ID

	args, err := parseLinkArgs(update.Message.Text)
	if err != nil {
		h.sendError(ctx, b, chatID, "ℹ️ Формат: /link <teacher|student> <slug> <пароль>")
		return
	}

	if _, err := b.DeleteMessage(ctx, &bot.DeleteMessageParams{ChatID: chatID, MessageID: update.Message.ID}); err != nil {
		h.logger.Warn("Failed to delete link message", zap.Error(err))
	}

	identity, err := h.auth.LinkTelegram(ctx, args.role, args.slug, args.password, update.Message.From.ID)
	if err != nil {
		h.logger.Warn("Link failed",
			zap.Int64("telegram_id", update.Message.From.ID),
			zap.String("slug", args.slug),
			zap.Error(err))
		h.sendError(ctx, b, chatID, common.ErrorMessage(err))
		return
	}

	h.sendMessage(ctx, b, chatID, fmt.Sprintf("✅ Аккаунт %s привязан.\n\n%s", identity.Name, helpText), nil)
}

// HandleSlots обрабатывает /slots <teacher_slug>
func (h *Handlers) HandleSlots(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	slug, err := parseSlotsArgs(update.Message.Text)
	if err != nil {
		h.sendError(ctx, b, chatID, "ℹ️ Формат: /slots <slug учителя>")
		return
	}

	teacher, err := h.teachers.GetBySlug(ctx, slug)
	if err != nil {
		h.sendError(ctx, b, chatID, common.ErrorMessage(err))
		return
	}

	now := h.now().UTC()
	slots, err := h.slots.AvailableSlots(ctx, &teacher.ID, &now, nil)
	if err != nil {
		h.logger.Error("Failed to load available slots", zap.Int64("teacher_id", teacher.ID), zap.Error(err))
		h.sendError(ctx, b, chatID, common.ErrorMessage(err))
		return
	}

	if len(slots) == 0 {
		h.sendMessage(ctx, b, chatID, fmt.Sprintf("😔 У %s пока нет свободных слотов.", teacher.Name), nil)
		return
	}
	if len(slots) > maxListedItems {
		slots = slots[:maxListedItems]
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📅 Свободные слоты: %s (время UTC)\n\n", teacher.Name)
	for _, s := range slots {
		sb.WriteString(formatting.FormatSlotLine(s))
		sb.WriteString("\n")
	}
	sb.WriteString("\nВыберите время для записи:")

	h.sendMessage(ctx, b, chatID, sb.String(), common.SlotsKeyboard(slots))
}

// HandleMyBookings обрабатывает /mybookings: активные записи студента или учителя
func (h *Handlers) HandleMyBookings(ctx context.Context, b *bot.Bot, update *models.Update) {
	identity, ok := h.requireIdentity(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	page, _ := model.NewPage(1, maxListedItems)
	var active []*model.Booking
	for _, status := range []model.BookingStatus{model.BookingStatusPending, model.BookingStatusConfirmed} {
		var res model.PageResult[*model.Booking]
		var err error
		if identity.Role == model.RoleTeacher {
			from := h.now().UTC().Add(-24 * time.Hour)
			res, err = h.bookings.TeacherBookings(ctx, identity.ID, &from, nil, &status, page)
		} else {
			res, err = h.bookings.StudentBookings(ctx, identity.ID, &status, page)
		}
		if err != nil {
			h.logger.Error("Failed to load bookings", zap.Int64("user_id", identity.ID), zap.Error(err))
			h.sendError(ctx, b, chatID, common.ErrorMessage(err))
			return
		}
		active = append(active, res.Items...)
	}

	if len(active) == 0 {
		h.sendMessage(ctx, b, chatID, "📭 У вас нет активных записей.", nil)
		return
	}

	h.sendMessage(ctx, b, chatID, fmt.Sprintf("📅 Активных записей: %d", len(active)), nil)
	for _, booking := range active {
		if details, err := h.bookings.GetBookingDetails(ctx, booking.ID); err == nil {
			booking = details
		}
		h.sendMessage(ctx, b, chatID, formatting.FormatBooking(booking), common.BookingKeyboard(booking, identity.Role))
	}
}

// HandleMySchedule обрабатывает /myschedule: картинка с неделей учителя
func (h *Handlers) HandleMySchedule(ctx context.Context, b *bot.Bot, update *models.Update) {
	identity, ok := h.requireTeacher(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	now := h.now().UTC()
	weekStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -model.Weekday(now))
	weekEnd := weekStart.AddDate(0, 0, 7)

	slots, err := h.slots.TeacherSchedule(ctx, identity.ID, weekStart, weekEnd)
	if err != nil {
		h.logger.Error("Failed to load schedule", zap.Int64("teacher_id", identity.ID), zap.Error(err))
		h.sendError(ctx, b, chatID, common.ErrorMessage(err))
		return
	}

	img, err := common.GenerateWeekImage(weekStart, slots, now)
	if err != nil {
		h.logger.Error("Failed to render week image", zap.Error(err))
		h.sendError(ctx, b, chatID, common.ErrorMessage(err))
		return
	}

	_, err = b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:  chatID,
		Photo:   &models.InputFileUpload{Filename: "week.png", Data: bytes.NewReader(img)},
		Caption: fmt.Sprintf("🗓 Неделя %s - %s, слотов: %d", formatting.FormatDate(weekStart), formatting.FormatDate(weekEnd.AddDate(0, 0, -1)), len(slots)),
	})
	if err != nil {
		h.logger.Error("Failed to send week image", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// HandleDefault отвечает на всё, что не является командой
func (h *Handlers) HandleDefault(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}
	h.sendMessage(ctx, b, update.Message.Chat.ID, "🤔 Неизвестная команда.\n\n"+helpText, nil)
}
