package handlers

import (
	"context"

	"github.com/Freeeeeet/tutor_scheduler/internal/controller/callbacks/common"
	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/Freeeeeet/tutor_scheduler/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// requireIdentity находит привязанный профиль.
// Возвращает identity и true если OK, иначе сообщение уже отправлено.
func (h *Handlers) requireIdentity(ctx context.Context, b *bot.Bot, update *models.Update) (*service.Identity, bool) {
	if update.Message == nil || update.Message.From == nil {
		return nil, false
	}

	telegramID := update.Message.From.ID
	identity, err := h.auth.WhoIs(ctx, telegramID)
	if err != nil {
		h.logger.Error("Failed to resolve telegram user", zap.Int64("telegram_id", telegramID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, common.ErrorMessage(err))
		return nil, false
	}
	if identity == nil {
		h.sendError(ctx, b, update.Message.Chat.ID, common.ErrorMessage(common.ErrNotLinked))
		return nil, false
	}
	return identity, true
}

// requireTeacher проверяет что пользователь является учителем
func (h *Handlers) requireTeacher(ctx context.Context, b *bot.Bot, update *models.Update) (*service.Identity, bool) {
	identity, ok := h.requireIdentity(ctx, b, update)
	if !ok {
		return nil, false
	}
	if identity.Role != model.RoleTeacher {
		h.sendError(ctx, b, update.Message.Chat.ID, common.ErrorMessage(common.ErrNotATeacher))
		return nil, false
	}
	return identity, true
}

// sendError отправляет сообщение об ошибке и логирует если не удалось
func (h *Handlers) sendError(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send error message",
			zap.Int64("chat_id", chatID),
			zap.String("text", text),
			zap.Error(err),
		)
	}
}

// sendMessage отправляет сообщение и логирует если не удалось
func (h *Handlers) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string, kb *models.InlineKeyboardMarkup) {
	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}
	if kb != nil && len(kb.InlineKeyboard) > 0 {
		params.ReplyMarkup = kb
	}
	if _, err := b.SendMessage(ctx, params); err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}
