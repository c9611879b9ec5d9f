package service

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/Freeeeeet/tutor_scheduler/internal/repository"
	"github.com/Freeeeeet/tutor_scheduler/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingService struct {
	tx       *base.TxManager
	capacity *CapacityManager
	slots    *repository.SlotRepository
	bookings *repository.BookingRepository
	students *repository.StudentRepository
	logger   *zap.Logger
	now      func() time.Time
}

func NewBookingService(
	tx *base.TxManager,
	capacity *CapacityManager,
	slots *repository.SlotRepository,
	bookings *repository.BookingRepository,
	students *repository.StudentRepository,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		tx:       tx,
		capacity: capacity,
		slots:    slots,
		bookings: bookings,
		students: students,
		logger:   logger,
		now:      time.Now,
	}
}

type CreateBookingInput struct {
	TimeSlotID   int64
	StudentID    int64
	StudentNotes *string
}

func validateNotes(notes *string) error {
	if notes != nil && utf8.RuneCountInString(*notes) > model.MaxTextLength {
		return model.ErrTextTooLong
	}
	return nil
}

// CreateBooking бронирует место в слоте для студента.
// Проверки, вставка брони и увеличение счётчика выполняются в одной транзакции под блокировкой слота.
func (s *BookingService) CreateBooking(ctx context.Context, in CreateBookingInput) (*model.Booking, error) {
	if err := validateNotes(in.StudentNotes); err != nil {
		return nil, err
	}

	now := model.ToNaiveUTC(s.now())
	booking := &model.Booking{
		TimeSlotID:   in.TimeSlotID,
		StudentID:    in.StudentID,
		Status:       model.BookingStatusPending,
		StudentNotes: in.StudentNotes,
		BookingTime:  now,
	}

	err := s.tx.WithTx(ctx, func(tx pgx.Tx) error {
		slot, err := s.capacity.LockSlot(ctx, tx, in.TimeSlotID)
		if err != nil {
			return err
		}
		if slot.Status == model.SlotStatusCancelled {
			return model.ErrSlotNotAvailable
		}
		if slot.StartTime.Before(now) {
			return model.ErrSlotStarted
		}

		student, err := s.students.WithTx(tx).GetByID(ctx, in.StudentID)
		if err != nil {
			return err
		}
		if student == nil || !student.IsActive {
			return model.ErrStudentNotFound
		}

		bookingRepo := s.bookings.WithTx(tx)
		existing, err := bookingRepo.GetActiveByStudentAndSlot(ctx, in.StudentID, in.TimeSlotID)
		if err != nil {
			return err
		}
		if existing != nil {
			return model.ErrAlreadyBooked
		}

		if err := bookingRepo.Create(ctx, booking); err != nil {
			return err
		}
		if err := s.capacity.Reserve(ctx, tx, slot); err != nil {
			return err
		}
		booking.TimeSlot = slot
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Booking created",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("slot_id", booking.TimeSlotID),
		zap.Int64("student_id", booking.StudentID),
	)

	return booking, nil
}

// transition загружает бронь под блокировкой её слота и применяет переход статуса.
// release освобождает место в слоте в той же транзакции.
func (s *BookingService) transition(ctx context.Context, id int64, apply func(b *model.Booking, now time.Time) error, release bool) (*model.Booking, error) {
	current, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, model.ErrBookingNotFound
	}

	var booking *model.Booking
	err = s.tx.WithTx(ctx, func(tx pgx.Tx) error {
		if err := base.AcquireLock(ctx, tx, base.SlotLockKey(current.TimeSlotID)); err != nil {
			return err
		}

		bookingRepo := s.bookings.WithTx(tx)
		b, err := bookingRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if b == nil {
			return model.ErrBookingNotFound
		}

		if err := apply(b, model.ToNaiveUTC(s.now())); err != nil {
			return err
		}
		if err := bookingRepo.UpdateStatus(ctx, b); err != nil {
			return err
		}

		if release {
			slot, err := s.slots.WithTx(tx).GetByID(ctx, b.TimeSlotID)
			if err != nil {
				return err
			}
			if slot == nil {
				return model.ErrSlotNotFound
			}
			if err := s.capacity.Release(ctx, tx, slot); err != nil {
				return err
			}
			b.TimeSlot = slot
		}

		booking = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Booking status changed",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("slot_id", booking.TimeSlotID),
		zap.String("status", string(booking.Status)),
	)

	return booking, nil
}

// ConfirmBooking подтверждает бронь
func (s *BookingService) ConfirmBooking(ctx context.Context, id int64, teacherNotes *string) (*model.Booking, error) {
	if err := validateNotes(teacherNotes); err != nil {
		return nil, err
	}
	return s.transition(ctx, id, func(b *model.Booking, now time.Time) error {
		return b.Confirm(now, teacherNotes)
	}, false)
}

// CancelBooking отменяет бронь и освобождает место в слоте
func (s *BookingService) CancelBooking(ctx context.Context, id int64, reason *string) (*model.Booking, error) {
	if err := validateNotes(reason); err != nil {
		return nil, err
	}
	return s.transition(ctx, id, func(b *model.Booking, now time.Time) error {
		return b.Cancel(now, reason)
	}, true)
}

// CompleteBooking отмечает урок проведённым
func (s *BookingService) CompleteBooking(ctx context.Context, id int64, teacherNotes *string) (*model.Booking, error) {
	if err := validateNotes(teacherNotes); err != nil {
		return nil, err
	}
	return s.transition(ctx, id, func(b *model.Booking, now time.Time) error {
		return b.Complete(now, teacherNotes)
	}, false)
}

// GetBooking получает бронь по ID
func (s *BookingService) GetBooking(ctx context.Context, id int64) (*model.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, model.ErrBookingNotFound
	}
	return b, nil
}

// GetBookingDetails бронь вместе со слотом и студентом
func (s *BookingService) GetBookingDetails(ctx context.Context, id int64) (*model.Booking, error) {
	b, err := s.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.TimeSlot, err = s.slots.GetByID(ctx, b.TimeSlotID); err != nil {
		return nil, err
	}
	if b.Student, err = s.students.GetByID(ctx, b.StudentID); err != nil {
		return nil, err
	}
	return b, nil
}

// ListBookings постраничный список с фильтром по статусу
func (s *BookingService) ListBookings(ctx context.Context, status *model.BookingStatus, page model.Page) (model.PageResult[*model.Booking], error) {
	return s.list(ctx, repository.BookingFilter{Status: status}, page)
}

// TeacherBookings брони на слоты учителя, период фильтрует по времени слота
func (s *BookingService) TeacherBookings(ctx context.Context, teacherID int64, from, to *time.Time, status *model.BookingStatus, page model.Page) (model.PageResult[*model.Booking], error) {
	return s.list(ctx, repository.BookingFilter{TeacherID: &teacherID, SlotFrom: from, SlotTo: to, Status: status}, page)
}

// StudentBookings брони студента
func (s *BookingService) StudentBookings(ctx context.Context, studentID int64, status *model.BookingStatus, page model.Page) (model.PageResult[*model.Booking], error) {
	return s.list(ctx, repository.BookingFilter{StudentID: &studentID, Status: status}, page)
}

func (s *BookingService) list(ctx context.Context, f repository.BookingFilter, page model.Page) (model.PageResult[*model.Booking], error) {
	if f.Status != nil && !f.Status.Valid() {
		return model.PageResult[*model.Booking]{}, model.NewValidationError("unknown booking status")
	}
	bookings, total, err := s.bookings.List(ctx, f, page)
	if err != nil {
		return model.PageResult[*model.Booking]{}, err
	}
	return model.NewPageResult(bookings, total, page), nil
}

// Stats количество броней по статусам. Статусы без броней возвращаются с нулём.
func (s *BookingService) Stats(ctx context.Context, teacherID *int64, from, to *time.Time) (model.BookingStats, error) {
	return s.bookings.Stats(ctx, repository.BookingFilter{TeacherID: teacherID, BookedFrom: from, BookedTo: to})
}
