package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour, minute int) time.Time {
	return time.Date(2030, 1, 7, hour, minute, 0, 0, time.UTC)
}

func TestIntervalOverlaps(t *testing.T) {
	base := Interval{Start: at(10, 0), End: at(11, 0)}

	tests := []struct {
		name  string
		other Interval
		want  bool
	}{
		{"same", base, true},
		{"inside", Interval{at(10, 15), at(10, 45)}, true},
		{"covers", Interval{at(9, 0), at(12, 0)}, true},
		{"left partial", Interval{at(9, 30), at(10, 30)}, true},
		{"right partial", Interval{at(10, 30), at(11, 30)}, true},
		{"touches end", Interval{at(11, 0), at(12, 0)}, false},
		{"touches start", Interval{at(9, 0), at(10, 0)}, false},
		{"disjoint", Interval{at(13, 0), at(14, 0)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.Overlaps(tt.other))
			assert.Equal(t, tt.want, tt.other.Overlaps(base))
		})
	}
}

func TestNewIntervalNormalisesToUTC(t *testing.T) {
	msk := time.FixedZone("MSK", 3*60*60)
	i, err := NewInterval(
		time.Date(2030, 1, 7, 13, 0, 0, 1500, msk),
		time.Date(2030, 1, 7, 14, 0, 0, 0, msk),
	)
	require.NoError(t, err)

	assert.Equal(t, time.UTC, i.Start.Location())
	assert.Equal(t, at(10, 0).Add(time.Microsecond), i.Start)
	assert.Equal(t, at(11, 0), i.End)

	_, err = NewInterval(at(11, 0), at(11, 0))
	assert.ErrorIs(t, err, ErrInvalidInterval)
	_, err = NewInterval(at(12, 0), at(11, 0))
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestAnyOverlap(t *testing.T) {
	slots := []*TimeSlot{
		{ID: 1, StartTime: at(10, 0), EndTime: at(11, 0)},
		{ID: 2, StartTime: at(12, 0), EndTime: at(13, 0), IsDeleted: true},
	}

	assert.True(t, AnyOverlap(slots, Interval{at(10, 30), at(11, 30)}, 0))
	assert.False(t, AnyOverlap(slots, Interval{at(10, 30), at(11, 30)}, 1))
	assert.False(t, AnyOverlap(slots, Interval{at(12, 0), at(13, 0)}, 0))
	assert.False(t, AnyOverlap(nil, Interval{at(12, 0), at(13, 0)}, 0))
}

func TestTimeSlotReserveRelease(t *testing.T) {
	slot := &TimeSlot{MaxStudents: 2, Status: SlotStatusAvailable}

	require.NoError(t, slot.Reserve())
	assert.Equal(t, 1, slot.CurrentBookings)
	assert.Equal(t, SlotStatusAvailable, slot.Status)

	require.NoError(t, slot.Reserve())
	assert.Equal(t, 2, slot.CurrentBookings)
	assert.Equal(t, SlotStatusBooked, slot.Status)
	assert.False(t, slot.IsAvailable())

	assert.ErrorIs(t, slot.Reserve(), ErrSlotFull)
	assert.Equal(t, 2, slot.CurrentBookings)

	slot.Release()
	assert.Equal(t, 1, slot.CurrentBookings)
	assert.Equal(t, SlotStatusAvailable, slot.Status)

	slot.Release()
	slot.Release()
	assert.Equal(t, 0, slot.CurrentBookings)
}

func TestTimeSlotReleaseKeepsCancelled(t *testing.T) {
	slot := &TimeSlot{MaxStudents: 1, CurrentBookings: 1, Status: SlotStatusCancelled}
	slot.Release()
	assert.Equal(t, SlotStatusCancelled, slot.Status)
}

func TestTimeSlotJSONHasDerivedFields(t *testing.T) {
	slot := TimeSlot{ID: 5, MaxStudents: 1, CurrentBookings: 1, Status: SlotStatusBooked, MeetingURL: "http://x/1"}

	raw, err := json.Marshal(slot)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, true, out["is_full"])
	assert.Equal(t, false, out["is_available"])
	assert.Equal(t, "booked", out["status"])
	assert.NotContains(t, out, "is_deleted")
}

func TestBookingTransitions(t *testing.T) {
	now := at(9, 0)
	notes := "bring the workbook"

	tests := []struct {
		name    string
		from    BookingStatus
		apply   func(b *Booking) error
		wantErr error
		want    BookingStatus
	}{
		{"confirm pending", BookingStatusPending, func(b *Booking) error { return b.Confirm(now, &notes) }, nil, BookingStatusConfirmed},
		{"confirm confirmed", BookingStatusConfirmed, func(b *Booking) error { return b.Confirm(now, nil) }, ErrAlreadyConfirmed, BookingStatusConfirmed},
		{"confirm cancelled", BookingStatusCancelled, func(b *Booking) error { return b.Confirm(now, nil) }, ErrCannotConfirmCancelled, BookingStatusCancelled},
		{"confirm completed", BookingStatusCompleted, func(b *Booking) error { return b.Confirm(now, nil) }, ErrCannotConfirmCompleted, BookingStatusCompleted},
		{"cancel pending", BookingStatusPending, func(b *Booking) error { return b.Cancel(now, nil) }, nil, BookingStatusCancelled},
		{"cancel confirmed", BookingStatusConfirmed, func(b *Booking) error { return b.Cancel(now, &notes) }, nil, BookingStatusCancelled},
		{"cancel cancelled", BookingStatusCancelled, func(b *Booking) error { return b.Cancel(now, nil) }, ErrAlreadyCancelled, BookingStatusCancelled},
		{"cancel completed", BookingStatusCompleted, func(b *Booking) error { return b.Cancel(now, nil) }, ErrCannotCancelCompleted, BookingStatusCompleted},
		{"complete confirmed", BookingStatusConfirmed, func(b *Booking) error { return b.Complete(now, nil) }, nil, BookingStatusCompleted},
		{"complete pending", BookingStatusPending, func(b *Booking) error { return b.Complete(now, nil) }, ErrCanOnlyCompleteConfirmed, BookingStatusPending},
		{"complete cancelled", BookingStatusCancelled, func(b *Booking) error { return b.Complete(now, nil) }, ErrCanOnlyCompleteConfirmed, BookingStatusCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Booking{Status: tt.from}
			err := tt.apply(b)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, b.Status)
		})
	}
}

func TestBookingTimestampsAndNotes(t *testing.T) {
	now := at(9, 0)
	notes := "ok"
	b := &Booking{Status: BookingStatusPending}

	require.NoError(t, b.Confirm(now, &notes))
	require.NotNil(t, b.ConfirmedAt)
	assert.Equal(t, now, *b.ConfirmedAt)
	assert.Equal(t, "ok", *b.TeacherNotes)

	empty := ""
	require.NoError(t, b.Complete(now.Add(time.Hour), &empty))
	require.NotNil(t, b.CompletedAt)
	assert.Equal(t, "ok", *b.TeacherNotes)
	assert.True(t, b.IsActive())
}

func TestNewBookingStatsZeroFilled(t *testing.T) {
	stats := NewBookingStats()
	assert.Len(t, stats, 4)
	for _, st := range AllBookingStatuses() {
		assert.Zero(t, stats[st])
	}
}

func TestNewPage(t *testing.T) {
	p, err := NewPage(0, 0)
	require.NoError(t, err)
	assert.Equal(t, Page{Page: 1, Size: DefaultPageSize}, p)

	p, err = NewPage(3, 10)
	require.NoError(t, err)
	assert.Equal(t, 20, p.Offset())
	assert.Equal(t, 10, p.Limit())

	_, err = NewPage(-1, 10)
	assert.ErrorIs(t, err, ErrInvalidPage)
	_, err = NewPage(1, 101)
	assert.Error(t, err)
}

func TestNewPageResult(t *testing.T) {
	res := NewPageResult([]int{1, 2}, 41, Page{Page: 1, Size: 20})
	assert.Equal(t, 3, res.Pages)
	assert.Equal(t, int64(41), res.Total)

	empty := NewPageResult[int](nil, 0, Page{Page: 1, Size: 20})
	assert.NotNil(t, empty.Items)
	assert.Zero(t, empty.Pages)
}

func TestClockTime(t *testing.T) {
	c, err := ParseClockTime("09:05")
	require.NoError(t, err)
	assert.Equal(t, ClockTime{Hour: 9, Minute: 5}, c)
	assert.Equal(t, "09:05", c.String())
	assert.Equal(t, 545, c.Minutes())
	assert.Equal(t, time.Date(2030, 1, 7, 9, 5, 0, 0, time.UTC), c.On(at(23, 59)))

	_, err = ParseClockTime("25:00")
	assert.Error(t, err)
}

func TestWeekdayStartsMonday(t *testing.T) {
	monday := time.Date(2030, 1, 7, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Monday, monday.Weekday())
	assert.Equal(t, 0, Weekday(monday))
	assert.Equal(t, 6, Weekday(monday.AddDate(0, 0, 6)))
}

func TestBookingManagedBy(t *testing.T) {
	b := &Booking{ID: 1, StudentID: 7, TimeSlot: &TimeSlot{ID: 2, TeacherID: 5}}

	assert.True(t, b.ManagedBy(RoleStudent, 7))
	assert.False(t, b.ManagedBy(RoleStudent, 5))
	assert.True(t, b.ManagedBy(RoleTeacher, 5))
	assert.False(t, b.ManagedBy(RoleTeacher, 7))
	assert.False(t, b.ManagedBy(Role("admin"), 7))

	b.TimeSlot = nil
	assert.False(t, b.ManagedBy(RoleTeacher, 5))
}
