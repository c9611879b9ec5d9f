package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Reconciler исправляет расхождения счётчика мест
type Reconciler interface {
	Reconcile(ctx context.Context) (int, error)
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	reconciler Reconciler
	interval   time.Duration
	logger     *zap.Logger
}

// NewScheduler создаёт новый планировщик. interval <= 0 отключает задачу.
func NewScheduler(reconciler Reconciler, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		reconciler: reconciler,
		interval:   interval,
		logger:     logger,
	}
}

// Run выполняет сверку сразу и затем по тикеру, пока не отменён ctx
func (s *Scheduler) Run(ctx context.Context) error {
	if s.interval <= 0 {
		s.logger.Info("Capacity reconciliation disabled")
		return nil
	}

	s.logger.Info("Starting background scheduler", zap.Duration("interval", s.interval))

	// Первый запуск сразу при старте
	s.reconcile(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.reconcile(ctx)
		case <-ctx.Done():
			s.logger.Info("Background scheduler stopped")
			return nil
		}
	}
}

func (s *Scheduler) reconcile(ctx context.Context) {
	fixed, err := s.reconciler.Reconcile(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Error("Failed to reconcile slot capacity", zap.Error(err))
		}
		return
	}

	if fixed > 0 {
		s.logger.Warn("Slot capacity repaired", zap.Int("slots", fixed))
		return
	}
	s.logger.Debug("Slot capacity consistent")
}
