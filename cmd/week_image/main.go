package main

import (
	"fmt"
	"os"
	"time"

	"github.com/Freeeeeet/tutor_scheduler/internal/controller/callbacks/common"
	"github.com/Freeeeeet/tutor_scheduler/internal/model"
)

// Рисует картинку недели на тестовых слотах, чтобы проверить вёрстку без бота.
// Использование: week_image [файл.png]
func main() {
	filename := "week.png"
	if len(os.Args) > 1 {
		filename = os.Args[1]
	}

	now := time.Now().UTC()
	monday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -model.Weekday(now))

	slot := func(day, hour, minutes, capacity, booked int, status model.SlotStatus) *model.TimeSlot {
		start := monday.AddDate(0, 0, day).Add(time.Duration(hour) * time.Hour)
		return &model.TimeSlot{
			StartTime:       start,
			EndTime:         start.Add(time.Duration(minutes) * time.Minute),
			MaxStudents:     capacity,
			CurrentBookings: booked,
			Status:          status,
		}
	}

	slots := []*model.TimeSlot{
		slot(0, 9, 60, 1, 0, model.SlotStatusAvailable),
		slot(0, 14, 60, 1, 1, model.SlotStatusBooked),
		slot(1, 10, 90, 4, 2, model.SlotStatusAvailable),
		slot(1, 16, 60, 1, 0, model.SlotStatusCancelled),
		slot(2, 9, 60, 3, 3, model.SlotStatusBooked),
		slot(2, 15, 45, 1, 0, model.SlotStatusAvailable),
		slot(4, 11, 60, 10, 4, model.SlotStatusAvailable),
		slot(4, 13, 60, 1, 1, model.SlotStatusBooked),
	}

	imageData, err := common.GenerateWeekImage(monday, slots, now)
	if err != nil {
		fmt.Printf("Ошибка генерации изображения: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(filename, imageData, 0o644); err != nil {
		fmt.Printf("Ошибка сохранения файла: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Изображение сохранено в %s\n", filename)
	fmt.Printf("Период: %s - %s, слотов: %d\n", monday.Format("02.01.2006"), monday.AddDate(0, 0, 6).Format("02.01.2006"), len(slots))
}
