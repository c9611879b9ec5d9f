package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/Freeeeeet/tutor_scheduler/internal/repository"
	"github.com/Freeeeeet/tutor_scheduler/internal/service"
	"github.com/gin-gonic/gin"
)

type createSlotRequest struct {
	TeacherID   int64      `json:"teacher_id"`
	StartTime   *requestTime `json:"start_time" binding:"required"`
	EndTime     *requestTime `json:"end_time" binding:"required"`
	MaxStudents *int         `json:"max_students"`
	Description *string      `json:"description"`
	Price       *float64     `json:"price"`
}

type bulkSlotsRequest struct {
	TeacherID   int64    `json:"teacher_id"`
	StartDate   string   `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate     string   `json:"end_date" binding:"required,datetime=2006-01-02"`
	StartTime   string   `json:"start_time" binding:"required,hhmm"`
	EndTime     string   `json:"end_time" binding:"required,hhmm"`
	DaysOfWeek  []int    `json:"days_of_week" binding:"required,min=1,dive,min=0,max=6"`
	MaxStudents *int     `json:"max_students"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
}

type updateSlotRequest struct {
	StartTime   *requestTime      `json:"start_time"`
	EndTime     *requestTime      `json:"end_time"`
	MaxStudents *int              `json:"max_students"`
	Description *string           `json:"description"`
	Price       *float64          `json:"price"`
	Status      *model.SlotStatus `json:"status"`
}

// input переводит строки запроса в параметры генерации
func (r bulkSlotsRequest) input(teacherID int64) (service.BulkSlotsInput, error) {
	in := service.BulkSlotsInput{
		TeacherID:   teacherID,
		DaysOfWeek:  r.DaysOfWeek,
		MaxStudents: capacityOrDefault(r.MaxStudents),
		Description: r.Description,
		Price:       r.Price,
	}

	var err error
	if in.StartDate, err = time.Parse(time.DateOnly, r.StartDate); err != nil {
		return in, fmt.Errorf("start_date must be YYYY-MM-DD")
	}
	if in.EndDate, err = time.Parse(time.DateOnly, r.EndDate); err != nil {
		return in, fmt.Errorf("end_date must be YYYY-MM-DD")
	}
	if in.DailyStart, err = model.ParseClockTime(r.StartTime); err != nil {
		return in, fmt.Errorf("start_time: %w", err)
	}
	if in.DailyEnd, err = model.ParseClockTime(r.EndTime); err != nil {
		return in, fmt.Errorf("end_time: %w", err)
	}
	return in, nil
}

func capacityOrDefault(v *int) int {
	if v == nil {
		return model.MinSlotCapacity
	}
	return *v
}

// slotTeacher учитель, от имени которого создаются слоты.
// teacher_id из тела допускается только свой.
func slotTeacher(c *gin.Context, requested int64) (int64, error) {
	caller := callerID(c)
	if requested != 0 && requested != caller {
		return 0, errNotOwner
	}
	return caller, nil
}

// ownSlot загружает слот и проверяет, что он принадлежит вызывающему учителю
func (h *Handler) ownSlot(c *gin.Context, id int64) error {
	slot, err := h.slots.GetSlot(c.Request.Context(), id)
	if err != nil {
		return err
	}
	if slot.TeacherID != callerID(c) {
		return errNotOwner
	}
	return nil
}

// CreateSlot POST /slots
func (h *Handler) CreateSlot(c *gin.Context) {
	var req createSlotRequest
	if !bindJSON(c, &req) {
		return
	}
	teacherID, err := slotTeacher(c, req.TeacherID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	slot, err := h.slots.CreateSlot(c.Request.Context(), service.CreateSlotInput{
		TeacherID:   teacherID,
		StartTime:   *req.StartTime.ptr(),
		EndTime:     *req.EndTime.ptr(),
		MaxStudents: capacityOrDefault(req.MaxStudents),
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, slot)
}

// CreateBulkSlots POST /slots/bulk
func (h *Handler) CreateBulkSlots(c *gin.Context) {
	var req bulkSlotsRequest
	if !bindJSON(c, &req) {
		return
	}
	teacherID, err := slotTeacher(c, req.TeacherID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	in, err := req.input(teacherID)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	slots, err := h.slots.CreateBulkSlots(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if slots == nil {
		slots = []*model.TimeSlot{}
	}
	c.JSON(http.StatusCreated, gin.H{"created": len(slots), "slots": slots})
}

// UpdateSlot PUT /slots/:id
func (h *Handler) UpdateSlot(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updateSlotRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.ownSlot(c, id); err != nil {
		h.writeError(c, err)
		return
	}

	slot, err := h.slots.UpdateSlot(c.Request.Context(), id, service.UpdateSlotInput{
		StartTime:   req.StartTime.ptr(),
		EndTime:     req.EndTime.ptr(),
		MaxStudents: req.MaxStudents,
		Description: req.Description,
		Price:       req.Price,
		Status:      req.Status,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, slot)
}

// DeleteSlot DELETE /slots/:id
func (h *Handler) DeleteSlot(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.ownSlot(c, id); err != nil {
		h.writeError(c, err)
		return
	}
	if err := h.slots.DeleteSlot(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetSlot GET /slots/:id
func (h *Handler) GetSlot(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	slot, err := h.slots.GetSlot(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, slot)
}

// GetSlotDetails GET /slots/:id/details
func (h *Handler) GetSlotDetails(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	slot, err := h.slots.GetSlotDetails(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, slot)
}

// ListSlots GET /slots?teacher_id=&from=&to=&status=
func (h *Handler) ListSlots(c *gin.Context) {
	var f repository.SlotFilter
	var ok bool
	if f.TeacherID, ok = queryID(c, "teacher_id"); !ok {
		return
	}
	if f.From, ok = queryTime(c, "from"); !ok {
		return
	}
	if f.To, ok = queryTime(c, "to"); !ok {
		return
	}
	if raw := c.Query("status"); raw != "" {
		status := model.SlotStatus(raw)
		if !status.Valid() {
			badRequest(c, "status must be one of available, booked, cancelled")
			return
		}
		f.Status = &status
	}
	page, ok := queryPage(c)
	if !ok {
		return
	}

	res, err := h.slots.ListSlots(c.Request.Context(), f, page)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// AvailableSlots GET /slots/available?teacher_id=&from=&to=
func (h *Handler) AvailableSlots(c *gin.Context) {
	teacherID, ok := queryID(c, "teacher_id")
	if !ok {
		return
	}
	h.availableSlots(c, teacherID)
}

// TeacherAvailability GET /slots/teacher/:teacher_id/availability
func (h *Handler) TeacherAvailability(c *gin.Context) {
	teacherID, ok := pathID(c, "teacher_id")
	if !ok {
		return
	}
	h.availableSlots(c, &teacherID)
}

func (h *Handler) availableSlots(c *gin.Context, teacherID *int64) {
	from, ok := queryTime(c, "from")
	if !ok {
		return
	}
	to, ok := queryTime(c, "to")
	if !ok {
		return
	}

	slots, err := h.slots.AvailableSlots(c.Request.Context(), teacherID, from, to)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if slots == nil {
		slots = []*model.TimeSlot{}
	}
	c.JSON(http.StatusOK, slots)
}

// TeacherSchedule GET /slots/teacher/:teacher_id/schedule?from=&to=
// Без периода отдаёт текущую неделю начиная с понедельника.
func (h *Handler) TeacherSchedule(c *gin.Context) {
	teacherID, ok := pathID(c, "teacher_id")
	if !ok {
		return
	}
	from, ok := queryTime(c, "from")
	if !ok {
		return
	}
	to, ok := queryTime(c, "to")
	if !ok {
		return
	}

	weekStart := startOfWeek(time.Now().UTC())
	if from == nil {
		from = &weekStart
	}
	if to == nil {
		end := from.AddDate(0, 0, 7)
		to = &end
	}

	slots, err := h.slots.TeacherSchedule(c.Request.Context(), teacherID, *from, *to)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if slots == nil {
		slots = []*model.TimeSlot{}
	}
	c.JSON(http.StatusOK, slots)
}

func startOfWeek(t time.Time) time.Time {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -model.Weekday(day))
}
