package formatting

import "github.com/Freeeeeet/tutor_scheduler/internal/model"

// StatusDisplay emoji и текст для статуса
type StatusDisplay struct {
	Emoji string
	Text  string
}

func (d StatusDisplay) String() string {
	return d.Emoji + " " + d.Text
}

var slotStatuses = map[model.SlotStatus]StatusDisplay{
	model.SlotStatusAvailable: {"🟢", "Свободен"},
	model.SlotStatusBooked:    {"🔴", "Занят"},
	model.SlotStatusCancelled: {"⚫️", "Отменён"},
}

var bookingStatuses = map[model.BookingStatus]StatusDisplay{
	model.BookingStatusPending:   {"⏳", "Ожидает подтверждения"},
	model.BookingStatusConfirmed: {"✅", "Подтверждена"},
	model.BookingStatusCancelled: {"❌", "Отменена"},
	model.BookingStatusCompleted: {"✔️", "Завершена"},
}

// SlotStatus возвращает отображение статуса слота
func SlotStatus(status model.SlotStatus) StatusDisplay {
	if d, ok := slotStatuses[status]; ok {
		return d
	}
	return StatusDisplay{"❓", "Неизвестно"}
}

// BookingStatus возвращает отображение статуса брони
func BookingStatus(status model.BookingStatus) StatusDisplay {
	if d, ok := bookingStatuses[status]; ok {
		return d
	}
	return StatusDisplay{"❓", "Неизвестно"}
}
