package httpapi

import (
	"context"
	"time"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/Freeeeeet/tutor_scheduler/internal/repository"
	"github.com/Freeeeeet/tutor_scheduler/internal/service"
)

// Интерфейсы сервисов, которые нужны HTTP слою

type AuthAPI interface {
	Login(ctx context.Context, role model.Role, login, password string) (*service.Token, error)
}

type TeacherAPI interface {
	Register(ctx context.Context, in service.RegisterTeacherInput) (*model.Teacher, error)
	Get(ctx context.Context, id int64) (*model.Teacher, error)
	GetBySlug(ctx context.Context, slug string) (*model.Teacher, error)
	List(ctx context.Context, onlyActive bool, page model.Page) (model.PageResult[*model.Teacher], error)
	Update(ctx context.Context, id int64, in service.UpdateTeacherInput) (*model.Teacher, error)
	Delete(ctx context.Context, id int64) error
}

type StudentAPI interface {
	Register(ctx context.Context, in service.RegisterStudentInput) (*model.Student, error)
	Get(ctx context.Context, id int64) (*model.Student, error)
	GetBySlug(ctx context.Context, slug string) (*model.Student, error)
	List(ctx context.Context, onlyActive bool, page model.Page) (model.PageResult[*model.Student], error)
	Update(ctx context.Context, id int64, in service.UpdateStudentInput) (*model.Student, error)
	Delete(ctx context.Context, id int64) error
}

type SlotAPI interface {
	CreateSlot(ctx context.Context, in service.CreateSlotInput) (*model.TimeSlot, error)
	CreateBulkSlots(ctx context.Context, in service.BulkSlotsInput) ([]*model.TimeSlot, error)
	UpdateSlot(ctx context.Context, id int64, in service.UpdateSlotInput) (*model.TimeSlot, error)
	DeleteSlot(ctx context.Context, id int64) error
	GetSlot(ctx context.Context, id int64) (*model.TimeSlot, error)
	GetSlotDetails(ctx context.Context, id int64) (*model.TimeSlot, error)
	ListSlots(ctx context.Context, f repository.SlotFilter, page model.Page) (model.PageResult[*model.TimeSlot], error)
	AvailableSlots(ctx context.Context, teacherID *int64, from, to *time.Time) ([]*model.TimeSlot, error)
	TeacherSchedule(ctx context.Context, teacherID int64, from, to time.Time) ([]*model.TimeSlot, error)
}

type BookingAPI interface {
	CreateBooking(ctx context.Context, in service.CreateBookingInput) (*model.Booking, error)
	ConfirmBooking(ctx context.Context, id int64, teacherNotes *string) (*model.Booking, error)
	CancelBooking(ctx context.Context, id int64, reason *string) (*model.Booking, error)
	CompleteBooking(ctx context.Context, id int64, teacherNotes *string) (*model.Booking, error)
	GetBooking(ctx context.Context, id int64) (*model.Booking, error)
	GetBookingDetails(ctx context.Context, id int64) (*model.Booking, error)
	ListBookings(ctx context.Context, status *model.BookingStatus, page model.Page) (model.PageResult[*model.Booking], error)
	TeacherBookings(ctx context.Context, teacherID int64, from, to *time.Time, status *model.BookingStatus, page model.Page) (model.PageResult[*model.Booking], error)
	StudentBookings(ctx context.Context, studentID int64, status *model.BookingStatus, page model.Page) (model.PageResult[*model.Booking], error)
	Stats(ctx context.Context, teacherID *int64, from, to *time.Time) (model.BookingStats, error)
}

// Pinger проверка соединения с базой для /health
type Pinger interface {
	Ping(ctx context.Context) error
}
