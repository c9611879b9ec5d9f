package handlers

import (
	"time"

	"github.com/Freeeeeet/tutor_scheduler/internal/service"
	"go.uber.org/zap"
)

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	auth     *service.AuthService
	teachers *service.TeacherService
	slots    *service.SlotService
	bookings *service.BookingService
	logger   *zap.Logger
	now      func() time.Time
}

func NewHandlers(
	auth *service.AuthService,
	teachers *service.TeacherService,
	slots *service.SlotService,
	bookings *service.BookingService,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		auth:     auth,
		teachers: teachers,
		slots:    slots,
		bookings: bookings,
		logger:   logger,
		now:      time.Now,
	}
}
