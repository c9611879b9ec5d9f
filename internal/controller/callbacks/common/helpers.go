package common

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Callback data. После двоеточия - ID.
const (
	BookLesson      = "book_lesson:"      // book_lesson:slot_id
	CancelBooking   = "cancel_booking:"   // cancel_booking:booking_id
	ConfirmBooking  = "confirm_booking:"  // confirm_booking:booking_id
	CompleteBooking = "complete_booking:" // complete_booking:booking_id
	Noop            = "noop"
)

// CallbackData собирает данные кнопки: prefix + id
func CallbackData(prefix string, id int64) string {
	return prefix + strconv.FormatInt(id, 10)
}

// AnswerCallback отвечает на callback query (без alert)
func AnswerCallback(ctx context.Context, b *bot.Bot, callbackID string, text string) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       false,
	})
}

// AnswerCallbackAlert отвечает на callback query с alert (всплывающее окно)
func AnswerCallbackAlert(ctx context.Context, b *bot.Bot, callbackID string, text string) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       true,
	})
}

// GetMessageFromCallback извлекает сообщение из callback query
func GetMessageFromCallback(callback *models.CallbackQuery) *models.Message {
	if callback.Message.Message != nil {
		return callback.Message.Message
	}
	return nil
}

// ParseIDFromCallback извлекает ID из callback data
// Например: "cancel_booking:123" -> 123
func ParseIDFromCallback(data string) (int64, error) {
	parts := strings.Split(data, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("parse callback %q: %w", data, ErrInvalidFormat)
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("parse callback %q: %w", data, ErrInvalidFormat)
	}
	return id, nil
}
