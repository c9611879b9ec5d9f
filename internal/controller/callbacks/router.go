package callbacks

import (
	"context"
	"strings"

	"github.com/Freeeeeet/tutor_scheduler/internal/controller/callbacks/common"
	"github.com/Freeeeeet/tutor_scheduler/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Handler обрабатывает нажатия на inline кнопки
type Handler struct {
	auth     *service.AuthService
	teachers *service.TeacherService
	students *service.StudentService
	bookings *service.BookingService
	logger   *zap.Logger
}

func NewHandler(
	auth *service.AuthService,
	teachers *service.TeacherService,
	students *service.StudentService,
	bookings *service.BookingService,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		auth:     auth,
		teachers: teachers,
		students: students,
		bookings: bookings,
		logger:   logger,
	}
}

// action разобранные данные кнопки
type action struct {
	prefix string
	id     int64
}

var prefixes = []string{
	common.BookLesson,
	common.CancelBooking,
	common.ConfirmBooking,
	common.CompleteBooking,
}

// parseAction распознаёт callback data вида prefix:id
func parseAction(data string) (action, error) {
	for _, p := range prefixes {
		if strings.HasPrefix(data, p) {
			id, err := common.ParseIDFromCallback(data)
			if err != nil {
				return action{}, err
			}
			return action{prefix: p, id: id}, nil
		}
	}
	return action{}, common.ErrInvalidFormat
}

// HandleCallbackQuery распределяет callback query по обработчикам
func (h *Handler) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	callback := update.CallbackQuery
	if callback == nil {
		return
	}

	h.logger.Info("Routing callback",
		zap.String("data", callback.Data),
		zap.Int64("telegram_id", callback.From.ID))

	if callback.Data == common.Noop {
		common.AnswerCallback(ctx, b, callback.ID, "")
		return
	}

	act, err := parseAction(callback.Data)
	if err != nil {
		h.logger.Warn("Unknown callback", zap.String("data", callback.Data))
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(err))
		return
	}

	identity, err := h.auth.WhoIs(ctx, callback.From.ID)
	if err == nil && identity == nil {
		err = common.ErrNotLinked
	}
	if err != nil {
		h.fail(ctx, b, callback, "who is", err)
		return
	}

	switch act.prefix {
	case common.BookLesson:
		h.handleBookLesson(ctx, b, callback, identity, act.id)
	case common.CancelBooking:
		h.handleCancelBooking(ctx, b, callback, identity, act.id)
	case common.ConfirmBooking:
		h.handleConfirmBooking(ctx, b, callback, identity, act.id)
	case common.CompleteBooking:
		h.handleCompleteBooking(ctx, b, callback, identity, act.id)
	}
}

// fail логирует ошибку операции и показывает пользователю alert
func (h *Handler) fail(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, operation string, err error) {
	h.logger.Warn("Callback failed",
		zap.String("operation", operation),
		zap.String("data", callback.Data),
		zap.Int64("telegram_id", callback.From.ID),
		zap.Error(err))
	common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(err))
}
