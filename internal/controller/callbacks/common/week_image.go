package common

import (
	"bytes"
	"fmt"
	"image/color"
	"sync"
	"time"

	"github.com/Freeeeeet/tutor_scheduler/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

type FontStyle string

const (
	FontStyleDefault FontStyle = ""
	FontStyleMedium  FontStyle = "medium"
	FontStyleBold    FontStyle = "bold"
)

// Размеры и отступы
const (
	imageWidth       = 1400
	imageHeight      = 900
	headerHeight     = 100
	leftLabelsWidth  = 80
	legendWidth      = 120
	dayPaddingX      = 8
	minSlotHeight    = 8.0
	slotBorderRadius = 6.0
	shadowOffset     = 3.0
	totalDaysInWeek  = 7
	hourPaddingTop   = 2
	hourPaddingBot   = 2
	defaultMinHour   = 8
	defaultMaxHour   = 20
)

// Размеры шрифтов
const (
	titleFontSize      = 25.0
	dayFontSize        = 27.0
	hourLabelFontSize  = 18.0
	slotTimeFontSize   = 17.0
	legendItemFontSize = 12.0
)

// Цветовая схема
var (
	bgColor          = color.RGBA{245, 246, 248, 255}
	textColor        = color.RGBA{80, 85, 90, 220}
	hourLabelColor   = color.RGBA{110, 115, 120, 200}
	hourLineColor    = color.NRGBA{150, 150, 150, 255}
	todayBgColor     = color.NRGBA{255, 99, 71, 125}
	evenDayColor     = color.NRGBA{240, 240, 240, 255}
	oddDayColor      = color.NRGBA{220, 220, 220, 255}
	currentTimeColor = color.NRGBA{255, 80, 80, 200}

	slotFreeColor       = color.RGBA{133, 193, 85, 220}
	slotPartialColor    = color.RGBA{250, 210, 110, 230}
	slotBookedColor     = color.RGBA{255, 182, 193, 255}
	slotCancelledColor  = color.RGBA{158, 158, 158, 200}
	slotTextColor       = color.RGBA{20, 24, 28, 230}
	slotBookedTextColor = color.RGBA{120, 40, 50, 255}
	slotShadowColor     = color.RGBA{0, 0, 0, 20}

	legendItemColor = color.RGBA{70, 74, 78, 220}
)

type weekBounds struct {
	start time.Time
	end   time.Time
}

type hourRange struct {
	start int
	end   int
	total int
}

var fontData = map[FontStyle][]byte{
	FontStyleDefault: goregular.TTF,
	FontStyleMedium:  gomedium.TTF,
	FontStyleBold:    gobold.TTF,
}

var (
	fontsMu     sync.Mutex
	cachedFonts = make(map[FontStyle]*opentype.Font)
)

func parsedFont(style FontStyle) (*opentype.Font, error) {
	fontsMu.Lock()
	defer fontsMu.Unlock()

	if f, ok := cachedFonts[style]; ok {
		return f, nil
	}
	data, ok := fontData[style]
	if !ok {
		data = goregular.TTF
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, err
	}
	cachedFonts[style] = f
	return f, nil
}

// loadFont ставит шрифт нужного стиля, при ошибке basicfont
func loadFont(dc *gg.Context, size float64, style FontStyle) {
	f, err := parsedFont(style)
	if err == nil {
		face, err := opentype.NewFace(f, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err == nil {
			dc.SetFontFace(face)
			return
		}
	}
	dc.SetFontFace(basicfont.Face7x13)
}

// GenerateWeekImage рисует PNG с неделей, в которую попадает weekDate.
// На слоте время начала и занятость мест.
func GenerateWeekImage(weekDate time.Time, slots []*model.TimeSlot, now time.Time) ([]byte, error) {
	week := normalizeToWeekBounds(weekDate)
	today := normalizeToDay(now)
	highlightToday := isTodayInWeek(today, week)

	slotsByDay := groupSlotsByDay(slots, week)
	hours := calculateHourRange(slotsByDay)

	dc := createCanvas()
	dayWidth := (imageWidth - leftLabelsWidth - legendWidth) / totalDaysInWeek
	dayHeight := imageHeight - headerHeight
	cellHeight := float64(dayHeight) / float64(hours.total)

	drawHeader(dc, week)
	drawHourLabels(dc, hours, cellHeight)

	currentDate := week.start
	for dayIndex := 0; dayIndex < totalDaysInWeek; dayIndex++ {
		x := float64(leftLabelsWidth + dayIndex*dayWidth)
		y := float64(headerHeight)

		drawDayBackground(dc, x, y, dayWidth, dayHeight, dayIndex, highlightToday && currentDate.Equal(today))
		drawDayHeader(dc, currentDate, x, y, dayWidth)
		drawHourLines(dc, x, y, dayWidth, hours, cellHeight)
		for _, slot := range slotsByDay[currentDate.Format(time.DateOnly)] {
			drawSlot(dc, slot, x, y, dayWidth, hours, cellHeight)
		}
		currentDate = currentDate.AddDate(0, 0, 1)
	}

	if highlightToday {
		drawCurrentTimeLine(dc, now, hours, cellHeight, dayWidth)
	}
	drawLegend(dc, dayWidth)

	return encodeImage(dc)
}

// normalizeToWeekBounds границы недели Пн-Вс
func normalizeToWeekBounds(date time.Time) weekBounds {
	start := normalizeToDay(date).AddDate(0, 0, -model.Weekday(date))
	return weekBounds{start: start, end: start.AddDate(0, 0, 6)}
}

func normalizeToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func isTodayInWeek(today time.Time, week weekBounds) bool {
	return !today.Before(week.start) && !today.After(week.end)
}

// groupSlotsByDay группирует слоты недели по дате начала
func groupSlotsByDay(slots []*model.TimeSlot, week weekBounds) map[string][]*model.TimeSlot {
	slotsByDay := make(map[string][]*model.TimeSlot)
	for _, slot := range slots {
		day := normalizeToDay(slot.StartTime)
		if day.Before(week.start) || day.After(week.end) {
			continue
		}
		key := day.Format(time.DateOnly)
		slotsByDay[key] = append(slotsByDay[key], slot)
	}
	return slotsByDay
}

// calculateHourRange диапазон часов с запасом сверху и снизу
func calculateHourRange(slotsByDay map[string][]*model.TimeSlot) hourRange {
	minHour, maxHour := 24, 0
	for _, daySlots := range slotsByDay {
		for _, slot := range daySlots {
			startH := slot.StartTime.Hour()
			endH := slot.EndTime.Hour()
			if slot.EndTime.Minute() > 0 {
				endH++
			}
			// слот через полночь дорисовывается до конца дня
			if normalizeToDay(slot.EndTime).After(normalizeToDay(slot.StartTime)) {
				endH = 23
			}
			minHour = min(minHour, startH)
			maxHour = max(maxHour, endH)
		}
	}

	if minHour == 24 {
		minHour, maxHour = defaultMinHour, defaultMaxHour
	}

	startHour := max(minHour-hourPaddingTop, 0)
	endHour := min(maxHour+hourPaddingBot, 23)

	return hourRange{
		start: startHour,
		end:   endHour,
		total: endHour - startHour + 1,
	}
}

func createCanvas() *gg.Context {
	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(bgColor)
	dc.Clear()
	return dc
}

// drawHeader заголовок с названием месяца
func drawHeader(dc *gg.Context, week weekBounds) {
	title := formatting.MonthName(week.start.Month())
	if week.end.Month() != week.start.Month() {
		title += " - " + formatting.MonthName(week.end.Month())
	}
	title += fmt.Sprintf(" %d", week.start.Year())

	loadFont(dc, titleFontSize, FontStyleBold)
	dc.SetColor(textColor)
	w, h := dc.MeasureString(title)
	dc.DrawStringAnchored(title, w/2+10, float64(headerHeight)/8+h/2, 0, 0)
}

func drawHourLabels(dc *gg.Context, hours hourRange, cellHeight float64) {
	loadFont(dc, hourLabelFontSize, FontStyleMedium)
	dc.SetColor(hourLabelColor)

	for hIdx := 0; hIdx < hours.total; hIdx++ {
		y := float64(headerHeight) + float64(hIdx)*cellHeight
		dc.DrawStringAnchored(fmt.Sprintf("%02d:00", hours.start+hIdx), float64(leftLabelsWidth)-10, y, 1, 0.5)
	}
}

func drawDayBackground(dc *gg.Context, x, y float64, dayWidth, dayHeight, dayIndex int, isToday bool) {
	switch {
	case isToday:
		dc.SetColor(todayBgColor)
	case dayIndex%2 == 0:
		dc.SetColor(evenDayColor)
	default:
		dc.SetColor(oddDayColor)
	}
	dc.DrawRectangle(x, y, float64(dayWidth), float64(dayHeight))
	dc.Fill()
}

// drawDayHeader день недели и дата
func drawDayHeader(dc *gg.Context, date time.Time, x, y float64, dayWidth int) {
	loadFont(dc, dayFontSize, FontStyleBold)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(date.Format("02.01"), x+float64(dayWidth)/2, y, 0.5, -1)
	dc.DrawStringAnchored(formatting.WeekdayShort(model.Weekday(date)), x+float64(dayWidth)/2, y, 0.5, -0.2)
}

func drawHourLines(dc *gg.Context, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	dc.SetLineWidth(0.3)
	dc.SetColor(hourLineColor)

	for hIdx := 0; hIdx <= hours.total; hIdx++ {
		hy := y + float64(hIdx)*cellHeight
		dc.DrawLine(x, hy, x+float64(dayWidth), hy)
		dc.Stroke()
	}
}

func hourOf(t time.Time) float64 {
	return float64(t.Hour()) + float64(t.Minute())/60.0
}

// drawSlot один слот: время и занятые места
func drawSlot(dc *gg.Context, slot *model.TimeSlot, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	startHour := hourOf(slot.StartTime)
	endHour := hourOf(slot.EndTime)
	if normalizeToDay(slot.EndTime).After(normalizeToDay(slot.StartTime)) {
		endHour = float64(hours.end + 1)
	}

	slotY := y + (startHour-float64(hours.start))*cellHeight
	slotHeight := max((endHour-startHour)*cellHeight, minSlotHeight)

	fillColor := slotColor(slot)
	slotWidth := float64(dayWidth) - float64(dayPaddingX*2)

	dc.SetColor(slotShadowColor)
	dc.DrawRoundedRectangle(x+dayPaddingX+shadowOffset, slotY+2+shadowOffset, slotWidth, slotHeight-4, slotBorderRadius)
	dc.Fill()

	dc.SetColor(fillColor)
	dc.DrawRoundedRectangle(x+float64(dayPaddingX), slotY+2, slotWidth, slotHeight-4, slotBorderRadius)
	dc.Fill()

	dc.SetColor(darkenColor(fillColor, 0.8))
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(x+float64(dayPaddingX), slotY+2, slotWidth, slotHeight-4, slotBorderRadius)
	dc.Stroke()

	txtColor := slotTextColor
	if slot.Status == model.SlotStatusBooked {
		txtColor = slotBookedTextColor
	}

	loadFont(dc, slotTimeFontSize, FontStyleMedium)
	dc.SetColor(txtColor)
	txtX := x + float64(dayPaddingX) + 8
	txtY := slotY + 18
	dc.DrawStringAnchored(slot.StartTime.Format("15:04"), txtX, txtY, 0, 0)

	if slotHeight > 25 {
		loadFont(dc, slotTimeFontSize-2, FontStyleDefault)
		dc.DrawStringAnchored(fmt.Sprintf("%d/%d", slot.CurrentBookings, slot.MaxStudents), txtX, txtY+16, 0, 0)
	}
}

// slotColor цвет по статусу; частично занятый слот отдельным цветом
func slotColor(slot *model.TimeSlot) color.RGBA {
	switch {
	case slot.Status == model.SlotStatusCancelled:
		return slotCancelledColor
	case slot.Status == model.SlotStatusBooked || slot.IsFull():
		return slotBookedColor
	case slot.CurrentBookings > 0:
		return slotPartialColor
	default:
		return slotFreeColor
	}
}

func darkenColor(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

// drawCurrentTimeLine красная линия текущего времени
func drawCurrentTimeLine(dc *gg.Context, now time.Time, hours hourRange, cellHeight float64, dayWidth int) {
	currentHour := hourOf(now)
	if currentHour < float64(hours.start) || currentHour > float64(hours.end) {
		return
	}

	currentTimeY := float64(headerHeight) + (currentHour-float64(hours.start))*cellHeight
	dc.SetColor(currentTimeColor)
	dc.SetLineWidth(2.0)
	dc.DrawLine(float64(leftLabelsWidth), currentTimeY, float64(leftLabelsWidth+totalDaysInWeek*dayWidth), currentTimeY)
	dc.Stroke()
}

// drawLegend легенда справа
func drawLegend(dc *gg.Context, dayWidth int) {
	legendItems := []struct {
		Label string
		Clr   color.Color
	}{
		{"Свободно", slotFreeColor},
		{"Есть места", slotPartialColor},
		{"Занято", slotBookedColor},
		{"Отменено", slotCancelledColor},
	}

	boxW, boxH := 20.0, 14.0
	liX := float64(leftLabelsWidth + totalDaysInWeek*dayWidth + 10)
	liY := float64(imageHeight) - 120.0

	for _, item := range legendItems {
		dc.SetColor(item.Clr)
		dc.DrawRoundedRectangle(liX, liY, boxW, boxH, 3)
		dc.Fill()

		loadFont(dc, legendItemFontSize, FontStyleDefault)
		dc.SetColor(legendItemColor)
		dc.DrawStringAnchored(item.Label, liX+boxW+8, liY+boxH/2+1, 0, 0.2)
		liY += boxH + 14
	}
}

func encodeImage(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode week image: %w", err)
	}
	return buf.Bytes(), nil
}
