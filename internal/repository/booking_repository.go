package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/Freeeeeet/tutor_scheduler/internal/repository/base"
	"github.com/jackc/pgx/v5"
)

const bookingColumns = `b.id, b.time_slot_id, b.student_id, b.status, b.student_notes, b.teacher_notes,
	b.booking_time, b.confirmed_at, b.cancelled_at, b.completed_at, b.is_deleted, b.created_at, b.updated_at`

// uqActiveBooking частичный уникальный индекс: одна активная бронь студента на слот
const uqActiveBooking = "uq_bookings_active_student_slot"

type BookingRepository struct {
	base.Repository
}

func NewBookingRepository(q base.Querier) *BookingRepository {
	return &BookingRepository{Repository: base.NewRepository(q)}
}

// WithTx возвращает копию репозитория, работающую внутри транзакции
func (r *BookingRepository) WithTx(tx pgx.Tx) *BookingRepository {
	return NewBookingRepository(tx)
}

// BookingFilter фильтры для списка броней. Время фильтрует по слоту, Booked* - по booking_time.
type BookingFilter struct {
	Status     *model.BookingStatus
	StudentID  *int64
	TeacherID  *int64
	SlotFrom   *time.Time
	SlotTo     *time.Time
	BookedFrom *time.Time
	BookedTo   *time.Time
}

func (f BookingFilter) where() *base.Where {
	w := base.NewWhere(base.NotDeleted("b"))
	if f.Status != nil {
		w.Add("b.status = $%d", *f.Status)
	}
	if f.StudentID != nil {
		w.Add("b.student_id = $%d", *f.StudentID)
	}
	if f.TeacherID != nil {
		w.Add("ts.teacher_id = $%d", *f.TeacherID)
	}
	if f.SlotFrom != nil {
		w.Add("ts.start_time >= $%d", model.ToNaiveUTC(*f.SlotFrom))
	}
	if f.SlotTo != nil {
		w.Add("ts.end_time <= $%d", model.ToNaiveUTC(*f.SlotTo))
	}
	if f.BookedFrom != nil {
		w.Add("b.booking_time >= $%d", model.ToNaiveUTC(*f.BookedFrom))
	}
	if f.BookedTo != nil {
		w.Add("b.booking_time <= $%d", model.ToNaiveUTC(*f.BookedTo))
	}
	return w
}

func scanBooking(row pgx.Row) (*model.Booking, error) {
	var b model.Booking
	err := row.Scan(
		&b.ID,
		&b.TimeSlotID,
		&b.StudentID,
		&b.Status,
		&b.StudentNotes,
		&b.TeacherNotes,
		&b.BookingTime,
		&b.ConfirmedAt,
		&b.CancelledAt,
		&b.CompletedAt,
		&b.IsDeleted,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func collectBookings(rows pgx.Rows) ([]*model.Booking, error) {
	defer rows.Close()

	var bookings []*model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}
	return bookings, nil
}

// Create создаёт новое бронирование
func (r *BookingRepository) Create(ctx context.Context, b *model.Booking) error {
	query := `
		INSERT INTO bookings (time_slot_id, student_id, status, student_notes, booking_time)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.DB().QueryRow(
		ctx, query,
		b.TimeSlotID,
		b.StudentID,
		b.Status,
		b.StudentNotes,
		model.ToNaiveUTC(b.BookingTime),
	).Scan(&b.ID, &b.CreatedAt)

	if err != nil {
		if base.IsUniqueViolation(err, uqActiveBooking) {
			return model.ErrAlreadyBooked
		}
		return fmt.Errorf("create booking: %w", err)
	}

	return nil
}

// GetByID получает бронирование по ID. Возвращает nil, nil если брони нет.
func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b WHERE b.id = $1 AND ` + base.NotDeleted("b")

	b, err := scanBooking(r.DB().QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking by id: %w", err)
	}

	return b, nil
}

// GetActiveByStudentAndSlot активная (не отменённая) бронь студента на слот
func (r *BookingRepository) GetActiveByStudentAndSlot(ctx context.Context, studentID, slotID int64) (*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings b
		WHERE b.student_id = $1
		  AND b.time_slot_id = $2
		  AND b.status <> 'cancelled'
		  AND ` + base.NotDeleted("b") + `
		LIMIT 1
	`

	b, err := scanBooking(r.DB().QueryRow(ctx, query, studentID, slotID))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active booking: %w", err)
	}

	return b, nil
}

// GetBySlotID все брони слота
func (r *BookingRepository) GetBySlotID(ctx context.Context, slotID int64) ([]*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings b
		WHERE b.time_slot_id = $1 AND ` + base.NotDeleted("b") + `
		ORDER BY b.booking_time
	`

	rows, err := r.DB().Query(ctx, query, slotID)
	if err != nil {
		return nil, fmt.Errorf("get bookings by slot: %w", err)
	}

	return collectBookings(rows)
}

// UpdateStatus сохраняет статус, заметки и отметки времени переходов
func (r *BookingRepository) UpdateStatus(ctx context.Context, b *model.Booking) error {
	query := `
		UPDATE bookings
		SET status = $1, teacher_notes = $2, confirmed_at = $3, cancelled_at = $4, completed_at = $5,
		    updated_at = (NOW() AT TIME ZONE 'utc')
		WHERE id = $6 AND ` + base.NotDeleted("") + `
		RETURNING updated_at
	`

	err := r.DB().QueryRow(
		ctx, query,
		b.Status,
		b.TeacherNotes,
		naivePtr(b.ConfirmedAt),
		naivePtr(b.CancelledAt),
		naivePtr(b.CompletedAt),
		b.ID,
	).Scan(&b.UpdatedAt)
	if err != nil {
		if base.IsNotFound(err) {
			return model.ErrBookingNotFound
		}
		return fmt.Errorf("update booking status: %w", err)
	}

	return nil
}

// List постраничный список броней
func (r *BookingRepository) List(ctx context.Context, f BookingFilter, page model.Page) ([]*model.Booking, int64, error) {
	w := f.where()
	from := ` FROM bookings b JOIN time_slots ts ON ts.id = b.time_slot_id`

	total, err := r.Count(ctx, `SELECT COUNT(*)`+from+w.SQL(), w.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("count bookings: %w", err)
	}

	tail, args := w.Paginate(page.Limit(), page.Offset())
	rows, err := r.DB().Query(ctx, `SELECT `+bookingColumns+from+w.SQL()+` ORDER BY b.booking_time DESC, b.id DESC`+tail, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings: %w", err)
	}

	bookings, err := collectBookings(rows)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// Stats количество броней по статусам, нули для отсутствующих статусов
func (r *BookingRepository) Stats(ctx context.Context, f BookingFilter) (model.BookingStats, error) {
	w := f.where()
	query := `
		SELECT b.status, COUNT(*)
		FROM bookings b JOIN time_slots ts ON ts.id = b.time_slot_id` + w.SQL() + `
		GROUP BY b.status
	`

	rows, err := r.DB().Query(ctx, query, w.Args()...)
	if err != nil {
		return nil, fmt.Errorf("booking stats: %w", err)
	}
	defer rows.Close()

	stats := model.NewBookingStats()
	for rows.Next() {
		var status model.BookingStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan booking stats: %w", err)
		}
		stats[status] = count
	}

	return stats, rows.Err()
}

// CountActiveBySlot число активных броней слота
func (r *BookingRepository) CountActiveBySlot(ctx context.Context, slotID int64) (int, error) {
	total, err := r.Count(ctx, `
		SELECT COUNT(*) FROM bookings
		WHERE time_slot_id = $1 AND status <> 'cancelled' AND ` + base.NotDeleted("") + `
	`, slotID)
	if err != nil {
		return 0, fmt.Errorf("count active bookings: %w", err)
	}
	return int(total), nil
}

func naivePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := model.ToNaiveUTC(*t)
	return &v
}
