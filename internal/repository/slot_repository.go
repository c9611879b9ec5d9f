package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/Freeeeeet/tutor_scheduler/internal/repository/base"
	"github.com/jackc/pgx/v5"
)

const slotColumns = `ts.id, ts.teacher_id, ts.start_time, ts.end_time, ts.max_students, ts.current_bookings,
	ts.status, ts.description, ts.price, ts.meeting_url, ts.is_deleted, ts.created_at, ts.updated_at`

type SlotRepository struct {
	base.Repository
}

func NewSlotRepository(q base.Querier) *SlotRepository {
	return &SlotRepository{Repository: base.NewRepository(q)}
}

// WithTx возвращает копию репозитория, работающую внутри транзакции
func (r *SlotRepository) WithTx(tx pgx.Tx) *SlotRepository {
	return NewSlotRepository(tx)
}

// SlotFilter фильтры для списка слотов. nil - без ограничения.
type SlotFilter struct {
	TeacherID *int64
	From      *time.Time
	To        *time.Time
	Status    *model.SlotStatus
}

func (f SlotFilter) where() *base.Where {
	w := base.NewWhere(base.NotDeleted("ts"))
	if f.TeacherID != nil {
		w.Add("ts.teacher_id = $%d", *f.TeacherID)
	}
	if f.From != nil {
		w.Add("ts.start_time >= $%d", model.ToNaiveUTC(*f.From))
	}
	if f.To != nil {
		w.Add("ts.end_time <= $%d", model.ToNaiveUTC(*f.To))
	}
	if f.Status != nil {
		w.Add("ts.status = $%d", *f.Status)
	}
	return w
}

func scanSlot(row pgx.Row) (*model.TimeSlot, error) {
	var slot model.TimeSlot
	err := row.Scan(
		&slot.ID,
		&slot.TeacherID,
		&slot.StartTime,
		&slot.EndTime,
		&slot.MaxStudents,
		&slot.CurrentBookings,
		&slot.Status,
		&slot.Description,
		&slot.Price,
		&slot.MeetingURL,
		&slot.IsDeleted,
		&slot.CreatedAt,
		&slot.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func collectSlots(rows pgx.Rows) ([]*model.TimeSlot, error) {
	defer rows.Close()

	var slots []*model.TimeSlot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate slots: %w", err)
	}
	return slots, nil
}

// Create создаёт новый слот
func (r *SlotRepository) Create(ctx context.Context, slot *model.TimeSlot) error {
	query := `
		INSERT INTO time_slots (teacher_id, start_time, end_time, max_students, current_bookings,
		                        status, description, price, meeting_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`

	err := r.DB().QueryRow(
		ctx, query,
		slot.TeacherID,
		model.ToNaiveUTC(slot.StartTime),
		model.ToNaiveUTC(slot.EndTime),
		slot.MaxStudents,
		slot.CurrentBookings,
		slot.Status,
		slot.Description,
		slot.Price,
		slot.MeetingURL,
	).Scan(&slot.ID, &slot.CreatedAt)

	if err != nil {
		return fmt.Errorf("create slot: %w", err)
	}

	return nil
}

// GetByID получает неудалённый слот по ID. Возвращает nil, nil если слота нет.
func (r *SlotRepository) GetByID(ctx context.Context, id int64) (*model.TimeSlot, error) {
	query := `SELECT ` + slotColumns + ` FROM time_slots ts WHERE ts.id = $1 AND ` + base.NotDeleted("ts")

	slot, err := scanSlot(r.DB().QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get slot by id: %w", err)
	}

	return slot, nil
}

// HasOverlap есть ли у учителя неудалённый слот, пересекающийся с [start, end)
func (r *SlotRepository) HasOverlap(ctx context.Context, teacherID int64, start, end time.Time, excludeID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM time_slots
			WHERE teacher_id = $1
			  AND ` + base.NotDeleted("") + `
			  AND start_time < $3
			  AND end_time > $2
			  AND ($4::BIGINT = 0 OR id <> $4)
		)
	`

	var exists bool
	err := r.DB().QueryRow(ctx, query, teacherID, model.ToNaiveUTC(start), model.ToNaiveUTC(end), excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check slot overlap: %w", err)
	}

	return exists, nil
}

// GetByTeacherRange слоты учителя, пересекающиеся с [from, to), по времени начала
func (r *SlotRepository) GetByTeacherRange(ctx context.Context, teacherID int64, from, to time.Time) ([]*model.TimeSlot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM time_slots ts
		WHERE ts.teacher_id = $1
		  AND ` + base.NotDeleted("ts") + `
		  AND ts.start_time < $3
		  AND ts.end_time > $2
		ORDER BY ts.start_time
	`

	rows, err := r.DB().Query(ctx, query, teacherID, model.ToNaiveUTC(from), model.ToNaiveUTC(to))
	if err != nil {
		return nil, fmt.Errorf("get slots by teacher: %w", err)
	}

	return collectSlots(rows)
}

// List постраничный список слотов
func (r *SlotRepository) List(ctx context.Context, f SlotFilter, page model.Page) ([]*model.TimeSlot, int64, error) {
	w := f.where()

	total, err := r.Count(ctx, `SELECT COUNT(*) FROM time_slots ts`+w.SQL(), w.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("count slots: %w", err)
	}

	tail, args := w.Paginate(page.Limit(), page.Offset())
	rows, err := r.DB().Query(ctx, `SELECT `+slotColumns+` FROM time_slots ts`+w.SQL()+` ORDER BY ts.start_time, ts.id`+tail, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list slots: %w", err)
	}

	slots, err := collectSlots(rows)
	if err != nil {
		return nil, 0, err
	}
	return slots, total, nil
}

// GetAvailable свободные слоты: статус available и есть места
func (r *SlotRepository) GetAvailable(ctx context.Context, f SlotFilter, limit int) ([]*model.TimeSlot, error) {
	w := f.where().
		Add("ts.status = $%d", model.SlotStatusAvailable).
		Raw("ts.current_bookings < ts.max_students")

	tail, args := w.Paginate(limit, 0)
	rows, err := r.DB().Query(ctx, `SELECT `+slotColumns+` FROM time_slots ts`+w.SQL()+` ORDER BY ts.start_time, ts.id`+tail, args...)
	if err != nil {
		return nil, fmt.Errorf("get available slots: %w", err)
	}

	return collectSlots(rows)
}

// UpdateCapacity сохраняет счётчик броней и статус
func (r *SlotRepository) UpdateCapacity(ctx context.Context, slot *model.TimeSlot) error {
	query := `
		UPDATE time_slots
		SET current_bookings = $1, status = $2, updated_at = (NOW() AT TIME ZONE 'utc')
		WHERE id = $3
		RETURNING updated_at
	`

	err := r.DB().QueryRow(ctx, query, slot.CurrentBookings, slot.Status, slot.ID).Scan(&slot.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update slot capacity: %w", err)
	}

	return nil
}

// Update сохраняет изменяемые поля слота
func (r *SlotRepository) Update(ctx context.Context, slot *model.TimeSlot) error {
	query := `
		UPDATE time_slots
		SET start_time = $1, end_time = $2, max_students = $3, status = $4,
		    description = $5, price = $6, updated_at = (NOW() AT TIME ZONE 'utc')
		WHERE id = $7 AND ` + base.NotDeleted("") + `
		RETURNING updated_at
	`

	err := r.DB().QueryRow(
		ctx, query,
		model.ToNaiveUTC(slot.StartTime),
		model.ToNaiveUTC(slot.EndTime),
		slot.MaxStudents,
		slot.Status,
		slot.Description,
		slot.Price,
		slot.ID,
	).Scan(&slot.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update slot: %w", err)
	}

	return nil
}

// SoftDelete помечает слот удалённым
func (r *SlotRepository) SoftDelete(ctx context.Context, id int64) error {
	affected, err := r.ExecAffected(ctx, `
		UPDATE time_slots
		SET is_deleted = TRUE, updated_at = (NOW() AT TIME ZONE 'utc')
		WHERE id = $1 AND ` + base.NotDeleted("") + `
	`, id)
	if err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}
	if affected == 0 {
		return model.ErrSlotNotFound
	}
	return nil
}

// CapacityDrift слот, у которого счётчик не совпадает с числом активных броней
type CapacityDrift struct {
	SlotID   int64
	Recorded int
	Actual   int
}

// FindCapacityDrift ищет расхождения current_bookings с активными бронями
func (r *SlotRepository) FindCapacityDrift(ctx context.Context) ([]CapacityDrift, error) {
	query := `
		SELECT ts.id, ts.current_bookings, COUNT(b.id)::INT AS actual
		FROM time_slots ts
		LEFT JOIN bookings b
		       ON b.time_slot_id = ts.id
		      AND b.status <> 'cancelled'
		      AND ` + base.NotDeleted("b") + `
		WHERE ` + base.NotDeleted("ts") + `
		GROUP BY ts.id, ts.current_bookings
		HAVING ts.current_bookings <> COUNT(b.id)
		ORDER BY ts.id
	`

	rows, err := r.DB().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("find capacity drift: %w", err)
	}
	defer rows.Close()

	var drifts []CapacityDrift
	for rows.Next() {
		var d CapacityDrift
		if err := rows.Scan(&d.SlotID, &d.Recorded, &d.Actual); err != nil {
			return nil, fmt.Errorf("scan capacity drift: %w", err)
		}
		drifts = append(drifts, d)
	}

	return drifts, rows.Err()
}
