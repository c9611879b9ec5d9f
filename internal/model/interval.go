package model

import "time"

// Interval полуоткрытый интервал [Start, End)
type Interval struct {
	Start time.Time
	End   time.Time
}

// ToNaiveUTC приводит время к UTC с точностью до микросекунд (как хранит postgres)
func ToNaiveUTC(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// NewInterval нормализует границы и проверяет, что start < end
func NewInterval(start, end time.Time) (Interval, error) {
	i := Interval{Start: ToNaiveUTC(start), End: ToNaiveUTC(end)}
	if !i.Start.Before(i.End) {
		return Interval{}, ErrInvalidInterval
	}
	return i, nil
}

// Overlaps true, если интервалы пересекаются. Касание границ пересечением не считается.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && i.End.After(o.Start)
}

func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// AnyOverlap проверяет кандидата против слотов одного учителя.
// Удалённые слоты и слот с excludeID (0 - без исключения) пропускаются.
func AnyOverlap(slots []*TimeSlot, candidate Interval, excludeID int64) bool {
	for _, s := range slots {
		if s == nil || s.IsDeleted {
			continue
		}
		if excludeID != 0 && s.ID == excludeID {
			continue
		}
		if s.Interval().Overlaps(candidate) {
			return true
		}
	}
	return false
}
