package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/Freeeeeet/tutor_scheduler/internal/repository"
	"github.com/Freeeeeet/tutor_scheduler/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// CapacityManager следит за счётчиком мест в слоте.
// Все изменения current_bookings идут под блокировкой slot:<id>.
type CapacityManager struct {
	tx       *base.TxManager
	slots    *repository.SlotRepository
	bookings *repository.BookingRepository
	logger   *zap.Logger
}

func NewCapacityManager(
	tx *base.TxManager,
	slots *repository.SlotRepository,
	bookings *repository.BookingRepository,
	logger *zap.Logger,
) *CapacityManager {
	return &CapacityManager{
		tx:       tx,
		slots:    slots,
		bookings: bookings,
		logger:   logger,
	}
}

// BookSlot занимает одно место в слоте
func (m *CapacityManager) BookSlot(ctx context.Context, slotID int64) (*model.TimeSlot, error) {
	var slot *model.TimeSlot
	err := m.tx.WithTx(ctx, func(tx pgx.Tx) error {
		var err error
		if slot, err = m.LockSlot(ctx, tx, slotID); err != nil {
			return err
		}
		return m.Reserve(ctx, tx, slot)
	})
	if err != nil {
		return nil, err
	}
	return slot, nil
}

// UnbookSlot освобождает одно место в слоте. На нуле ничего не делает.
func (m *CapacityManager) UnbookSlot(ctx context.Context, slotID int64) (*model.TimeSlot, error) {
	var slot *model.TimeSlot
	err := m.tx.WithTx(ctx, func(tx pgx.Tx) error {
		var err error
		if slot, err = m.LockSlot(ctx, tx, slotID); err != nil {
			return err
		}
		return m.Release(ctx, tx, slot)
	})
	if err != nil {
		return nil, err
	}
	return slot, nil
}

// LockSlot берёт блокировку слота в транзакции и только потом читает его
func (m *CapacityManager) LockSlot(ctx context.Context, tx pgx.Tx, slotID int64) (*model.TimeSlot, error) {
	if err := base.AcquireLock(ctx, tx, base.SlotLockKey(slotID)); err != nil {
		return nil, err
	}

	slot, err := m.slots.WithTx(tx).GetByID(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if slot == nil {
		return nil, model.ErrSlotNotFound
	}
	return slot, nil
}

// Reserve увеличивает счётчик заблокированного слота
func (m *CapacityManager) Reserve(ctx context.Context, tx pgx.Tx, slot *model.TimeSlot) error {
	if err := slot.Reserve(); err != nil {
		return err
	}
	if err := m.slots.WithTx(tx).UpdateCapacity(ctx, slot); err != nil {
		return err
	}

	m.logger.Debug("Slot seat reserved",
		zap.Int64("slot_id", slot.ID),
		zap.Int("current_bookings", slot.CurrentBookings),
		zap.String("status", string(slot.Status)))
	return nil
}

// Release уменьшает счётчик заблокированного слота
func (m *CapacityManager) Release(ctx context.Context, tx pgx.Tx, slot *model.TimeSlot) error {
	slot.Release()
	if err := m.slots.WithTx(tx).UpdateCapacity(ctx, slot); err != nil {
		return err
	}

	m.logger.Debug("Slot seat released",
		zap.Int64("slot_id", slot.ID),
		zap.Int("current_bookings", slot.CurrentBookings),
		zap.String("status", string(slot.Status)))
	return nil
}

// Reconcile приводит current_bookings к числу активных броней. Возвращает число исправленных слотов.
func (m *CapacityManager) Reconcile(ctx context.Context) (int, error) {
	drifts, err := m.slots.FindCapacityDrift(ctx)
	if err != nil {
		return 0, err
	}

	fixed := 0
	for _, d := range drifts {
		repaired := false
		err := m.tx.WithTx(ctx, func(tx pgx.Tx) error {
			slot, err := m.LockSlot(ctx, tx, d.SlotID)
			if err != nil {
				return err
			}

			actual, err := m.bookings.WithTx(tx).CountActiveBySlot(ctx, slot.ID)
			if err != nil {
				return err
			}
			if actual == slot.CurrentBookings {
				return nil
			}
			if actual > slot.MaxStudents {
				return fmt.Errorf("slot %d has %d active bookings for %d seats", slot.ID, actual, slot.MaxStudents)
			}

			m.logger.Warn("Repairing slot capacity drift",
				zap.Int64("slot_id", slot.ID),
				zap.Int("recorded", slot.CurrentBookings),
				zap.Int("actual", actual))

			slot.CurrentBookings = actual
			slot.SyncStatus()
			if err := m.slots.WithTx(tx).UpdateCapacity(ctx, slot); err != nil {
				return err
			}
			repaired = true
			return nil
		})
		if err != nil {
			m.logger.Error("Failed to reconcile slot", zap.Int64("slot_id", d.SlotID), zap.Error(err))
			continue
		}
		if repaired {
			fixed++
		}
	}

	return fixed, nil
}
