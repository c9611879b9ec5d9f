package controller

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tutor_scheduler/internal/controller/callbacks"
	"github.com/Freeeeeet/tutor_scheduler/internal/controller/handlers"
	"github.com/Freeeeeet/tutor_scheduler/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type Services struct {
	Auth     *service.AuthService
	Teachers *service.TeacherService
	Students *service.StudentService
	Slots    *service.SlotService
	Bookings *service.BookingService
}

type BotController struct {
	bot             *bot.Bot
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Handler
	logger          *zap.Logger
}

// NewBotController создаёт бота и обработчики поверх тех же сервисов, что и HTTP API
func NewBotController(token string, s Services, logger *zap.Logger) (*BotController, error) {
	c := &BotController{
		handlers:        handlers.NewHandlers(s.Auth, s.Teachers, s.Slots, s.Bookings, logger),
		callbackHandler: callbacks.NewHandler(s.Auth, s.Teachers, s.Students, s.Bookings, logger),
		logger:          logger,
	}

	b, err := bot.New(token,
		bot.WithDefaultHandler(c.handlers.HandleDefault),
		bot.WithErrorsHandler(func(err error) {
			logger.Warn("Telegram polling error", zap.Error(err))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	c.bot = b

	return c, nil
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/link", bot.MatchTypePrefix, c.handlers.HandleLink)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/slots", bot.MatchTypePrefix, c.handlers.HandleSlots)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/mybookings", bot.MatchTypeExact, c.handlers.HandleMyBookings)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/myschedule", bot.MatchTypeExact, c.handlers.HandleMySchedule)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)

	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Начать работу с ботом"},
		{Command: "help", Description: "❓ Справка по командам"},
		{Command: "link", Description: "🔑 Привязать аккаунт"},
		{Command: "slots", Description: "📅 Свободные слоты учителя"},
		{Command: "mybookings", Description: "📝 Мои записи"},
		{Command: "myschedule", Description: "🗓 Моё расписание (учитель)"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})
	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return fmt.Errorf("set bot commands: %w", err)
	}

	c.logger.Info("Bot commands menu set")
	return nil
}

// Start запускает long polling и блокируется до отмены ctx
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	c.logger.Info("Bot stopped")
	return nil
}
