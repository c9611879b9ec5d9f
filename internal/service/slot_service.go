package service

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/Freeeeeet/tutor_scheduler/internal/repository"
	"github.com/Freeeeeet/tutor_scheduler/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// maxBulkRangeDays максимальная длина периода массового создания слотов
const maxBulkRangeDays = 366

// maxAvailableSlots ограничение выдачи свободных слотов
const maxAvailableSlots = 500

type SlotService struct {
	tx        *base.TxManager
	slots     *repository.SlotRepository
	teachers  *repository.TeacherRepository
	bookings  *repository.BookingRepository
	serverURL string
	logger    *zap.Logger
	now       func() time.Time
}

func NewSlotService(
	tx *base.TxManager,
	slots *repository.SlotRepository,
	teachers *repository.TeacherRepository,
	bookings *repository.BookingRepository,
	serverURL string,
	logger *zap.Logger,
) *SlotService {
	return &SlotService{
		tx:        tx,
		slots:     slots,
		teachers:  teachers,
		bookings:  bookings,
		serverURL: serverURL,
		logger:    logger,
		now:       time.Now,
	}
}

type CreateSlotInput struct {
	TeacherID   int64
	StartTime   time.Time
	EndTime     time.Time
	MaxStudents int
	Description *string
	Price       *float64
}

type BulkSlotsInput struct {
	TeacherID   int64
	StartDate   time.Time
	EndDate     time.Time
	DailyStart  model.ClockTime
	DailyEnd    model.ClockTime
	DaysOfWeek  []int // 0 - понедельник
	MaxStudents int
	Description *string
	Price       *float64
}

// UpdateSlotInput nil-поля не меняются
type UpdateSlotInput struct {
	StartTime   *time.Time
	EndTime     *time.Time
	MaxStudents *int
	Description *string
	Price       *float64
	Status      *model.SlotStatus
}

func validateSlotFields(maxStudents int, price *float64, description *string) error {
	if maxStudents < model.MinSlotCapacity || maxStudents > model.MaxSlotCapacity {
		return model.ErrInvalidCapacity
	}
	if price != nil && *price < 0 {
		return model.ErrInvalidPrice
	}
	if description != nil && utf8.RuneCountInString(*description) > model.MaxTextLength {
		return model.ErrTextTooLong
	}
	return nil
}

func (s *SlotService) meetingURL() string {
	return s.serverURL + "/" + uuid.NewString()
}

func (s *SlotService) requireTeacher(ctx context.Context, q base.Querier, teacherID int64) error {
	teacher, err := repository.NewTeacherRepository(q).GetByID(ctx, teacherID)
	if err != nil {
		return err
	}
	if teacher == nil {
		return model.ErrTeacherNotFound
	}
	return nil
}

// Overlaps есть ли у учителя слот, пересекающийся с [start, end)
func (s *SlotService) Overlaps(ctx context.Context, teacherID int64, start, end time.Time, excludeSlotID int64) (bool, error) {
	interval, err := model.NewInterval(start, end)
	if err != nil {
		return false, err
	}
	return s.slots.HasOverlap(ctx, teacherID, interval.Start, interval.End, excludeSlotID)
}

// CreateSlot создаёт временной слот
func (s *SlotService) CreateSlot(ctx context.Context, in CreateSlotInput) (*model.TimeSlot, error) {
	interval, err := model.NewInterval(in.StartTime, in.EndTime)
	if err != nil {
		return nil, err
	}
	if interval.Start.Before(s.now()) {
		return nil, model.ErrSlotInPast
	}
	if err := validateSlotFields(in.MaxStudents, in.Price, in.Description); err != nil {
		return nil, err
	}

	slot := &model.TimeSlot{
		TeacherID:   in.TeacherID,
		StartTime:   interval.Start,
		EndTime:     interval.End,
		MaxStudents: in.MaxStudents,
		Status:      model.SlotStatusAvailable,
		Description: in.Description,
		Price:       in.Price,
		MeetingURL:  s.meetingURL(),
	}

	err = s.tx.WithTx(ctx, func(tx pgx.Tx) error {
		if err := base.AcquireLock(ctx, tx, base.TeacherSlotsLockKey(in.TeacherID)); err != nil {
			return err
		}
		if err := s.requireTeacher(ctx, tx, in.TeacherID); err != nil {
			return err
		}

		slotRepo := s.slots.WithTx(tx)
		overlap, err := slotRepo.HasOverlap(ctx, in.TeacherID, interval.Start, interval.End, 0)
		if err != nil {
			return err
		}
		if overlap {
			return model.ErrSlotOverlap
		}

		return slotRepo.Create(ctx, slot)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Slot created",
		zap.Int64("slot_id", slot.ID),
		zap.Int64("teacher_id", slot.TeacherID),
		zap.Time("start_time", slot.StartTime),
		zap.Int("max_students", slot.MaxStudents),
	)

	return slot, nil
}

func validateBulk(in BulkSlotsInput) error {
	if in.DailyStart.Minutes() >= in.DailyEnd.Minutes() {
		return model.NewValidationError("daily start time must be before end time")
	}
	if in.EndDate.Before(in.StartDate) {
		return model.NewValidationError("start_date must not be after end_date")
	}
	if days := int(in.EndDate.Sub(in.StartDate).Hours()/24) + 1; days > maxBulkRangeDays {
		return model.NewValidationError(fmt.Sprintf("date range must not exceed %d days", maxBulkRangeDays))
	}
	// дни недели - множество, повторы допустимы
	if len(in.DaysOfWeek) == 0 {
		return model.NewValidationError("days_of_week must contain at least one day")
	}
	for _, d := range in.DaysOfWeek {
		if d < 0 || d > 6 {
			return model.NewValidationError("days_of_week values must be between 0 (Monday) and 6 (Sunday)")
		}
	}
	return validateSlotFields(in.MaxStudents, in.Price, in.Description)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// expandRecurrence разворачивает правило в интервалы на каждый выбранный день.
// Интервалы, начинающиеся раньше now, пропускаются.
func expandRecurrence(in BulkSlotsInput, now time.Time) []model.Interval {
	days := make(map[int]bool, len(in.DaysOfWeek))
	for _, d := range in.DaysOfWeek {
		days[d] = true
	}

	var out []model.Interval
	end := dateOnly(in.EndDate)
	for date := dateOnly(in.StartDate); !date.After(end); date = date.AddDate(0, 0, 1) {
		if !days[model.Weekday(date)] {
			continue
		}

		candidate := model.Interval{Start: in.DailyStart.On(date), End: in.DailyEnd.On(date)}
		if candidate.Start.Before(now) {
			continue
		}
		out = append(out, candidate)
	}
	return out
}

// CreateBulkSlots создаёт слоты по дням недели в диапазоне дат.
// Пересекающиеся с существующими слоты пропускаются без ошибки.
func (s *SlotService) CreateBulkSlots(ctx context.Context, in BulkSlotsInput) ([]*model.TimeSlot, error) {
	if err := validateBulk(in); err != nil {
		return nil, err
	}

	candidates := expandRecurrence(in, s.now())
	created := make([]*model.TimeSlot, 0, len(candidates))

	err := s.tx.WithTx(ctx, func(tx pgx.Tx) error {
		if err := base.AcquireLock(ctx, tx, base.TeacherSlotsLockKey(in.TeacherID)); err != nil {
			return err
		}
		if err := s.requireTeacher(ctx, tx, in.TeacherID); err != nil {
			return err
		}
		if len(candidates) == 0 {
			return nil
		}

		slotRepo := s.slots.WithTx(tx)
		existing, err := slotRepo.GetByTeacherRange(ctx, in.TeacherID,
			candidates[0].Start, candidates[len(candidates)-1].End)
		if err != nil {
			return err
		}

		for _, c := range candidates {
			if model.AnyOverlap(existing, c, 0) {
				s.logger.Debug("Slot overlaps, skipping",
					zap.Int64("teacher_id", in.TeacherID),
					zap.Time("start_time", c.Start),
				)
				continue
			}

			slot := &model.TimeSlot{
				TeacherID:   in.TeacherID,
				StartTime:   c.Start,
				EndTime:     c.End,
				MaxStudents: in.MaxStudents,
				Status:      model.SlotStatusAvailable,
				Description: in.Description,
				Price:       in.Price,
				MeetingURL:  s.meetingURL(),
			}
			if err := slotRepo.Create(ctx, slot); err != nil {
				return err
			}
			existing = append(existing, slot)
			created = append(created, slot)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Bulk slots created",
		zap.Int64("teacher_id", in.TeacherID),
		zap.Int("candidates", len(candidates)),
		zap.Int("created", len(created)),
	)

	return created, nil
}

// UpdateSlot меняет время, вместимость, описание, цену или статус слота
func (s *SlotService) UpdateSlot(ctx context.Context, id int64, in UpdateSlotInput) (*model.TimeSlot, error) {
	current, err := s.slots.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, model.ErrSlotNotFound
	}

	var slot *model.TimeSlot
	err = s.tx.WithTx(ctx, func(tx pgx.Tx) error {
		// Порядок блокировок: расписание учителя, затем слот
		if err := base.AcquireLock(ctx, tx, base.TeacherSlotsLockKey(current.TeacherID)); err != nil {
			return err
		}
		if err := base.AcquireLock(ctx, tx, base.SlotLockKey(id)); err != nil {
			return err
		}

		slotRepo := s.slots.WithTx(tx)
		if slot, err = slotRepo.GetByID(ctx, id); err != nil {
			return err
		}
		if slot == nil {
			return model.ErrSlotNotFound
		}

		if err := applySlotUpdate(slot, in); err != nil {
			return err
		}

		if in.StartTime != nil || in.EndTime != nil {
			overlap, err := slotRepo.HasOverlap(ctx, slot.TeacherID, slot.StartTime, slot.EndTime, slot.ID)
			if err != nil {
				return err
			}
			if overlap {
				return model.ErrSlotOverlap
			}
		}

		return slotRepo.Update(ctx, slot)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Slot updated",
		zap.Int64("slot_id", slot.ID),
		zap.String("status", string(slot.Status)),
	)

	return slot, nil
}

// applySlotUpdate применяет изменения к слоту в памяти и проверяет инварианты
func applySlotUpdate(slot *model.TimeSlot, in UpdateSlotInput) error {
	start, end := slot.StartTime, slot.EndTime
	if in.StartTime != nil {
		start = *in.StartTime
	}
	if in.EndTime != nil {
		end = *in.EndTime
	}
	interval, err := model.NewInterval(start, end)
	if err != nil {
		return err
	}
	slot.StartTime, slot.EndTime = interval.Start, interval.End

	if in.MaxStudents != nil {
		slot.MaxStudents = *in.MaxStudents
	}
	if in.Description != nil {
		slot.Description = in.Description
	}
	if in.Price != nil {
		slot.Price = in.Price
	}
	if err := validateSlotFields(slot.MaxStudents, slot.Price, slot.Description); err != nil {
		return err
	}
	if slot.MaxStudents < slot.CurrentBookings {
		return model.ErrCapacityBelowUse
	}

	if in.Status != nil {
		switch *in.Status {
		case model.SlotStatusAvailable, model.SlotStatusCancelled:
			slot.Status = *in.Status
		default:
			return model.NewValidationError("status can only be set to available or cancelled")
		}
	}
	slot.SyncStatus()
	return nil
}

// DeleteSlot мягко удаляет слот без активных броней
func (s *SlotService) DeleteSlot(ctx context.Context, id int64) error {
	err := s.tx.WithTx(ctx, func(tx pgx.Tx) error {
		if err := base.AcquireLock(ctx, tx, base.SlotLockKey(id)); err != nil {
			return err
		}

		slotRepo := s.slots.WithTx(tx)
		slot, err := slotRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if slot == nil {
			return model.ErrSlotNotFound
		}
		if slot.CurrentBookings > 0 {
			return model.ErrSlotHasBookings
		}

		return slotRepo.SoftDelete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Slot deleted", zap.Int64("slot_id", id))
	return nil
}

// GetSlot получает слот по ID
func (s *SlotService) GetSlot(ctx context.Context, id int64) (*model.TimeSlot, error) {
	slot, err := s.slots.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if slot == nil {
		return nil, model.ErrSlotNotFound
	}
	return slot, nil
}

// GetSlotDetails слот вместе с учителем и бронями
func (s *SlotService) GetSlotDetails(ctx context.Context, id int64) (*model.TimeSlot, error) {
	slot, err := s.GetSlot(ctx, id)
	if err != nil {
		return nil, err
	}

	if slot.Teacher, err = s.teachers.GetByID(ctx, slot.TeacherID); err != nil {
		return nil, err
	}
	if slot.Bookings, err = s.bookings.GetBySlotID(ctx, slot.ID); err != nil {
		return nil, err
	}
	return slot, nil
}

// ListSlots постраничный список слотов
func (s *SlotService) ListSlots(ctx context.Context, f repository.SlotFilter, page model.Page) (model.PageResult[*model.TimeSlot], error) {
	slots, total, err := s.slots.List(ctx, f, page)
	if err != nil {
		return model.PageResult[*model.TimeSlot]{}, err
	}
	return model.NewPageResult(slots, total, page), nil
}

// AvailableSlots свободные слоты, отсортированные по времени начала
func (s *SlotService) AvailableSlots(ctx context.Context, teacherID *int64, from, to *time.Time) ([]*model.TimeSlot, error) {
	return s.slots.GetAvailable(ctx, repository.SlotFilter{TeacherID: teacherID, From: from, To: to}, maxAvailableSlots)
}

// TeacherSchedule все неудалённые слоты учителя в периоде
func (s *SlotService) TeacherSchedule(ctx context.Context, teacherID int64, from, to time.Time) ([]*model.TimeSlot, error) {
	if err := s.requireTeacher(ctx, s.slots.DB(), teacherID); err != nil {
		return nil, err
	}
	if !from.Before(to) {
		return nil, model.ErrInvalidInterval
	}
	return s.slots.GetByTeacherRange(ctx, teacherID, from, to)
}
