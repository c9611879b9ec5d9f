package service

import (
	"testing"
	"time"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clock(t *testing.T, s string) model.ClockTime {
	t.Helper()
	c, err := model.ParseClockTime(s)
	require.NoError(t, err)
	return c
}

func TestExpandRecurrenceMonWedFri(t *testing.T) {
	// 2030-01-07 понедельник
	in := BulkSlotsInput{
		StartDate:  time.Date(2030, 1, 7, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2030, 1, 13, 0, 0, 0, 0, time.UTC),
		DailyStart: clock(t, "10:00"),
		DailyEnd:   clock(t, "11:00"),
		DaysOfWeek: []int{0, 2, 4},
	}

	got := expandRecurrence(in, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))
	require.Len(t, got, 3)

	wantDays := []time.Weekday{time.Monday, time.Wednesday, time.Friday}
	for i, iv := range got {
		assert.Equal(t, wantDays[i], iv.Start.Weekday())
		assert.Equal(t, 10, iv.Start.Hour())
		assert.Equal(t, time.Hour, iv.Duration())
		assert.Equal(t, time.UTC, iv.Start.Location())
	}
}

func TestExpandRecurrenceRepeatedDays(t *testing.T) {
	in := BulkSlotsInput{
		StartDate:  time.Date(2030, 1, 7, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2030, 1, 13, 0, 0, 0, 0, time.UTC),
		DailyStart: clock(t, "10:00"),
		DailyEnd:   clock(t, "11:00"),
		DaysOfWeek: []int{2, 0, 2, 2, 0},
	}

	got := expandRecurrence(in, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))
	require.Len(t, got, 2)
	assert.Equal(t, time.Monday, got[0].Start.Weekday())
	assert.Equal(t, time.Wednesday, got[1].Start.Weekday())
}

func TestExpandRecurrenceSkipsPast(t *testing.T) {
	in := BulkSlotsInput{
		StartDate:  time.Date(2030, 1, 7, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2030, 1, 9, 0, 0, 0, 0, time.UTC),
		DailyStart: clock(t, "10:00"),
		DailyEnd:   clock(t, "11:00"),
		DaysOfWeek: []int{0, 1, 2},
	}

	now := time.Date(2030, 1, 8, 10, 30, 0, 0, time.UTC)
	got := expandRecurrence(in, now)
	require.Len(t, got, 1)
	assert.Equal(t, time.Wednesday, got[0].Start.Weekday())
}

func TestExpandRecurrenceSingleDayAndSunday(t *testing.T) {
	sunday := time.Date(2030, 1, 13, 15, 0, 0, 0, time.UTC)
	in := BulkSlotsInput{
		StartDate:  sunday,
		EndDate:    sunday,
		DailyStart: clock(t, "18:00"),
		DailyEnd:   clock(t, "19:30"),
		DaysOfWeek: []int{6},
	}

	got := expandRecurrence(in, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))
	require.Len(t, got, 1)
	assert.Equal(t, time.Date(2030, 1, 13, 18, 0, 0, 0, time.UTC), got[0].Start)
	assert.Equal(t, 90*time.Minute, got[0].Duration())
}

func TestValidateBulk(t *testing.T) {
	valid := func() BulkSlotsInput {
		return BulkSlotsInput{
			StartDate:   time.Date(2030, 1, 7, 0, 0, 0, 0, time.UTC),
			EndDate:     time.Date(2030, 1, 31, 0, 0, 0, 0, time.UTC),
			DailyStart:  model.ClockTime{Hour: 10},
			DailyEnd:    model.ClockTime{Hour: 11},
			DaysOfWeek:  []int{0, 2, 4},
			MaxStudents: 1,
		}
	}
	require.NoError(t, validateBulk(valid()))

	repeated := valid()
	repeated.DaysOfWeek = []int{1, 1, 3, 1, 3, 1, 1, 1}
	require.NoError(t, validateBulk(repeated))

	negative := -1.0
	tests := []struct {
		name   string
		mutate func(in *BulkSlotsInput)
	}{
		{"daily end before start", func(in *BulkSlotsInput) { in.DailyEnd = model.ClockTime{Hour: 9} }},
		{"daily equal", func(in *BulkSlotsInput) { in.DailyEnd = in.DailyStart }},
		{"dates reversed", func(in *BulkSlotsInput) { in.EndDate = in.StartDate.AddDate(0, 0, -1) }},
		{"range too long", func(in *BulkSlotsInput) { in.EndDate = in.StartDate.AddDate(1, 1, 0) }},
		{"no days", func(in *BulkSlotsInput) { in.DaysOfWeek = nil }},
		{"day out of range", func(in *BulkSlotsInput) { in.DaysOfWeek = []int{7} }},
		{"capacity zero", func(in *BulkSlotsInput) { in.MaxStudents = 0 }},
		{"capacity eleven", func(in *BulkSlotsInput) { in.MaxStudents = 11 }},
		{"negative price", func(in *BulkSlotsInput) { in.Price = &negative }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid()
			tt.mutate(&in)
			assert.Error(t, validateBulk(in))
		})
	}
}

func TestApplySlotUpdate(t *testing.T) {
	base := func() *model.TimeSlot {
		return &model.TimeSlot{
			ID:              1,
			StartTime:       time.Date(2030, 1, 7, 10, 0, 0, 0, time.UTC),
			EndTime:         time.Date(2030, 1, 7, 11, 0, 0, 0, time.UTC),
			MaxStudents:     2,
			CurrentBookings: 2,
			Status:          model.SlotStatusBooked,
		}
	}

	t.Run("raising capacity frees the slot", func(t *testing.T) {
		slot := base()
		three := 3
		require.NoError(t, applySlotUpdate(slot, UpdateSlotInput{MaxStudents: &three}))
		assert.Equal(t, model.SlotStatusAvailable, slot.Status)
	})

	t.Run("capacity below bookings", func(t *testing.T) {
		one := 1
		assert.ErrorIs(t, applySlotUpdate(base(), UpdateSlotInput{MaxStudents: &one}), model.ErrCapacityBelowUse)
	})

	t.Run("end before start", func(t *testing.T) {
		end := time.Date(2030, 1, 7, 9, 0, 0, 0, time.UTC)
		assert.ErrorIs(t, applySlotUpdate(base(), UpdateSlotInput{EndTime: &end}), model.ErrInvalidInterval)
	})

	t.Run("cancel", func(t *testing.T) {
		slot := base()
		cancelled := model.SlotStatusCancelled
		require.NoError(t, applySlotUpdate(slot, UpdateSlotInput{Status: &cancelled}))
		assert.Equal(t, model.SlotStatusCancelled, slot.Status)
	})

	t.Run("reopen full slot stays booked", func(t *testing.T) {
		slot := base()
		slot.Status = model.SlotStatusCancelled
		available := model.SlotStatusAvailable
		require.NoError(t, applySlotUpdate(slot, UpdateSlotInput{Status: &available}))
		assert.Equal(t, model.SlotStatusBooked, slot.Status)
	})

	t.Run("booked cannot be set directly", func(t *testing.T) {
		booked := model.SlotStatusBooked
		assert.Error(t, applySlotUpdate(base(), UpdateSlotInput{Status: &booked}))
	})
}

func TestValidateAccount(t *testing.T) {
	assert.NoError(t, validateAccount("Anna", "anna@example.com", "anna_k", "password123"))
	assert.Error(t, validateAccount("", "anna@example.com", "anna_k", "password123"))
	assert.Error(t, validateAccount("Anna", "anna.example.com", "anna_k", "password123"))
	assert.Error(t, validateAccount("Anna", "anna@example.com", "An", "password123"))
	assert.Error(t, validateAccount("Anna", "anna@example.com", "Anna K", "password123"))
	assert.Error(t, validateAccount("Anna", "anna@example.com", "anna_k", "short"))
}
