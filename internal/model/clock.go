package model

import (
	"fmt"
	"time"
)

// ClockTime время суток в формате HH:MM
type ClockTime struct {
	Hour   int
	Minute int
}

func ParseClockTime(s string) (ClockTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return ClockTime{}, fmt.Errorf("parse clock time %q: %w", s, err)
	}
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Minutes минуты от начала суток
func (c ClockTime) Minutes() int {
	return c.Hour*60 + c.Minute
}

// On возвращает момент на указанную дату в UTC
func (c ClockTime) On(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, c.Hour, c.Minute, 0, 0, time.UTC)
}

// Weekday номер дня недели, 0 - понедельник, 6 - воскресенье
func Weekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
