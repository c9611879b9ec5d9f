package app

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tutor_scheduler/internal/auth"
	"github.com/Freeeeeet/tutor_scheduler/internal/config"
	"github.com/Freeeeeet/tutor_scheduler/internal/controller"
	"github.com/Freeeeeet/tutor_scheduler/internal/httpapi"
	"github.com/Freeeeeet/tutor_scheduler/internal/repository"
	"github.com/Freeeeeet/tutor_scheduler/internal/repository/base"
	"github.com/Freeeeeet/tutor_scheduler/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// App собранное приложение: HTTP API, бот и фоновые задачи
type App struct {
	cfg       *config.Config
	pool      *pgxpool.Pool
	router    *gin.Engine
	limiter   *httpapi.RateLimiter
	bot       *controller.BotController
	scheduler *Scheduler
	logger    *zap.Logger
}

// OpenPool подключается к базе и проверяет соединение
func OpenPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("parse db dsn: %w", err)
	}
	poolCfg.MaxConns = cfg.DBMaxConns

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// New собирает репозитории, сервисы и транспорты поверх пула
func New(cfg *config.Config, pool *pgxpool.Pool, logger *zap.Logger) (*App, error) {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Репозитории
	slotRepo := repository.NewSlotRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	teacherRepo := repository.NewTeacherRepository(pool)
	studentRepo := repository.NewStudentRepository(pool)

	// Сервисы
	txm := base.NewTxManager(pool, cfg.LockTimeout)
	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.JWTTTL)

	capacity := service.NewCapacityManager(txm, slotRepo, bookingRepo, logger)
	slotService := service.NewSlotService(txm, slotRepo, teacherRepo, bookingRepo, cfg.ServerURL, logger)
	bookingService := service.NewBookingService(txm, capacity, slotRepo, bookingRepo, studentRepo, logger)
	teacherService := service.NewTeacherService(teacherRepo, logger)
	studentService := service.NewStudentService(studentRepo, logger)
	authService := service.NewAuthService(teacherRepo, studentRepo, issuer, logger)

	// HTTP
	limiter := httpapi.NewRateLimiter(cfg.LoginRateRPS, cfg.LoginRateBurst)
	handler := httpapi.NewHandler(httpapi.Deps{
		Auth:     authService,
		Teachers: teacherService,
		Students: studentService,
		Slots:    slotService,
		Bookings: bookingService,
		Issuer:   issuer,
		DB:       pool,
	}, logger)
	router, err := httpapi.NewRouter(handler, httpapi.RouterConfig{
		CORSOrigins: cfg.CORSOrigins,
		Login:       limiter,
	})
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:       cfg,
		pool:      pool,
		router:    router,
		limiter:   limiter,
		scheduler: NewScheduler(capacity, cfg.ReconcileInterval, logger),
		logger:    logger,
	}

	// Telegram
	if cfg.TelegramToken != "" {
		a.bot, err = controller.NewBotController(cfg.TelegramToken, controller.Services{
			Auth:     authService,
			Teachers: teacherService,
			Students: studentService,
			Slots:    slotService,
			Bookings: bookingService,
		}, logger)
		if err != nil {
			return nil, err
		}
	} else {
		logger.Info("TELEGRAM_TOKEN is empty, bot disabled")
	}

	return a, nil
}

// Run запускает все компоненты и ждёт отмены ctx или ошибки одного из них
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return httpapi.Serve(ctx, a.cfg.HTTPAddr, a.router, a.logger)
	})
	g.Go(func() error {
		a.limiter.Cleanup(ctx)
		return nil
	})
	g.Go(func() error {
		return a.scheduler.Run(ctx)
	})

	if a.bot != nil {
		g.Go(func() error {
			if err := a.bot.RegisterHandlers(ctx); err != nil {
				// меню команд не критично, бот работает и без него
				a.logger.Warn("Bot commands are not set", zap.Error(err))
			}
			return a.bot.Start(ctx)
		})
	}

	return g.Wait()
}
