package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RouterConfig struct {
	CORSOrigins []string
	Login       *RateLimiter
}

// NewRouter собирает gin engine со всеми маршрутами API
func NewRouter(h *Handler, cfg RouterConfig) (*gin.Engine, error) {
	if err := registerValidators(); err != nil {
		return nil, fmt.Errorf("register validators: %w", err)
	}

	r := gin.New()
	r.Use(RequestLogger(h.logger), Recovery(h.logger))
	if len(cfg.CORSOrigins) > 0 {
		corsMiddleware, err := CORS(cfg.CORSOrigins)
		if err != nil {
			return nil, err
		}
		r.Use(corsMiddleware)
	}

	r.GET("/health", h.Health)

	api := r.Group("/api/v1")

	login := []gin.HandlerFunc{h.Login}
	if cfg.Login != nil {
		login = append([]gin.HandlerFunc{cfg.Login.Middleware()}, login...)
	}
	api.POST("/auth/login", login...)

	authn := Authenticate(h.issuer)
	teacherOnly := RequireRole(model.RoleTeacher)
	studentOnly := RequireRole(model.RoleStudent)

	teachers := api.Group("/teachers")
	{
		teachers.POST("", h.RegisterTeacher)
		teachers.GET("", h.ListTeachers)
		teachers.GET("/slug/:slug", h.GetTeacherBySlug)
		teachers.GET("/:id", h.GetTeacher)
		teachers.PUT("/:id", authn, teacherOnly, h.UpdateTeacher)
		teachers.DELETE("/:id", authn, teacherOnly, h.DeleteTeacher)
	}

	students := api.Group("/students")
	{
		students.POST("", h.RegisterStudent)
		students.GET("", h.ListStudents)
		students.GET("/slug/:slug", h.GetStudentBySlug)
		students.GET("/:id", h.GetStudent)
		students.PUT("/:id", authn, studentOnly, h.UpdateStudent)
		students.DELETE("/:id", authn, studentOnly, h.DeleteStudent)
	}

	slots := api.Group("/slots")
	{
		slots.GET("", h.ListSlots)
		slots.GET("/available", h.AvailableSlots)
		slots.GET("/teacher/:teacher_id/schedule", h.TeacherSchedule)
		slots.GET("/teacher/:teacher_id/availability", h.TeacherAvailability)
		slots.GET("/:id", h.GetSlot)
		slots.GET("/:id/details", h.GetSlotDetails)
		slots.POST("", authn, teacherOnly, h.CreateSlot)
		slots.POST("/bulk", authn, teacherOnly, h.CreateBulkSlots)
		slots.PUT("/:id", authn, teacherOnly, h.UpdateSlot)
		slots.DELETE("/:id", authn, teacherOnly, h.DeleteSlot)
	}

	bookings := api.Group("/bookings", authn)
	{
		bookings.GET("", h.ListBookings)
		bookings.GET("/stats", h.BookingStats)
		bookings.GET("/teacher/:teacher_id", h.TeacherBookings)
		bookings.GET("/student/:student_id", h.StudentBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.GET("/:id/details", h.GetBookingDetails)
		bookings.POST("", studentOnly, h.CreateBooking)
		bookings.POST("/:id/confirm", teacherOnly, h.ConfirmBooking)
		bookings.POST("/:id/cancel", h.CancelBooking)
		bookings.POST("/:id/complete", teacherOnly, h.CompleteBooking)
	}

	return r, nil
}

// Serve запускает HTTP сервер и останавливает его при отмене ctx
func Serve(ctx context.Context, addr string, handler http.Handler, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server started", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("Shutting down HTTP server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}
