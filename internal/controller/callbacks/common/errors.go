package common

import (
	"errors"

	"github.com/Freeeeeet/tutor_scheduler/internal/apperror"
	"github.com/Freeeeeet/tutor_scheduler/internal/model"
)

// Общие ошибки для обработчиков
var (
	ErrNotLinked     = errors.New("telegram account is not linked")
	ErrNotATeacher   = errors.New("user is not a teacher")
	ErrNotAStudent   = errors.New("user is not a student")
	ErrNotOwner      = errors.New("user does not own this booking")
	ErrNoMessage     = errors.New("no message in callback")
	ErrInvalidFormat = errors.New("invalid callback format")
)

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrNotLinked):
		return "❌ Аккаунт не привязан. Используйте /link"
	case errors.Is(err, ErrNotATeacher):
		return "❌ Эта функция доступна только учителям"
	case errors.Is(err, ErrNotAStudent):
		return "❌ Эта функция доступна только студентам"
	case errors.Is(err, ErrNotOwner):
		return "❌ У вас нет доступа к этой записи"
	case errors.Is(err, ErrNoMessage):
		return "❌ Ошибка обработки сообщения"
	case errors.Is(err, ErrInvalidFormat):
		return "❌ Неверный формат данных"
	case errors.Is(err, model.ErrSlotFull):
		return "😔 Все места на это время уже заняты"
	case errors.Is(err, model.ErrAlreadyBooked):
		return "ℹ️ Вы уже записаны на это время"
	case errors.Is(err, model.ErrSlotStarted):
		return "❌ Занятие уже началось"
	case errors.Is(err, model.ErrSlotNotAvailable):
		return "❌ Слот недоступен для записи"
	case errors.Is(err, model.ErrSlotNotFound):
		return "❌ Слот не найден"
	case errors.Is(err, model.ErrBookingNotFound):
		return "❌ Бронирование не найдено"
	case errors.Is(err, model.ErrTeacherNotFound):
		return "❌ Учитель не найден"
	case errors.Is(err, model.ErrInvalidCredentials):
		return "❌ Неверный логин или пароль"
	case errors.Is(err, model.ErrTelegramLinked):
		return "❌ Этот Telegram уже привязан к другому аккаунту"
	}

	switch apperror.KindOf(err) {
	case apperror.KindUnavailable:
		return "⏳ Сервис занят, попробуйте ещё раз"
	case apperror.KindInternal:
		return "❌ Произошла ошибка. Попробуйте позже."
	default:
		return "❌ " + apperror.Message(err)
	}
}
