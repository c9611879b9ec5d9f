package httpapi

import (
	"net/http"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/Freeeeeet/tutor_scheduler/internal/service"
	"github.com/gin-gonic/gin"
)

type createBookingRequest struct {
	TimeSlotID   int64   `json:"time_slot_id" binding:"required,gt=0"`
	StudentNotes *string `json:"student_notes"`
}

type notesRequest struct {
	TeacherNotes *string `json:"teacher_notes"`
}

type cancelRequest struct {
	Reason *string `json:"reason"`
}

// bindOptionalJSON тело может отсутствовать
func bindOptionalJSON(c *gin.Context, dst any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	return bindJSON(c, dst)
}

// authorizeBooking загружает бронь и проверяет доступ: учитель слота или студент брони
func (h *Handler) authorizeBooking(c *gin.Context, id int64) (*model.Booking, error) {
	b, err := h.bookings.GetBookingDetails(c.Request.Context(), id)
	if err != nil {
		return nil, err
	}

	claims := claimsFrom(c)
	if claims == nil || !b.ManagedBy(claims.Role, callerID(c)) {
		return nil, errNotOwner
	}
	return b, nil
}

// CreateBooking POST /bookings, студент бронирует слот
func (h *Handler) CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if !bindJSON(c, &req) {
		return
	}

	b, err := h.bookings.CreateBooking(c.Request.Context(), service.CreateBookingInput{
		TimeSlotID:   req.TimeSlotID,
		StudentID:    callerID(c),
		StudentNotes: req.StudentNotes,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// ConfirmBooking POST /bookings/:id/confirm
func (h *Handler) ConfirmBooking(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req notesRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	if _, err := h.authorizeBooking(c, id); err != nil {
		h.writeError(c, err)
		return
	}

	b, err := h.bookings.ConfirmBooking(c.Request.Context(), id, req.TeacherNotes)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// CancelBooking POST /bookings/:id/cancel, доступно учителю и студенту
func (h *Handler) CancelBooking(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req cancelRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	if _, err := h.authorizeBooking(c, id); err != nil {
		h.writeError(c, err)
		return
	}

	b, err := h.bookings.CancelBooking(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// CompleteBooking POST /bookings/:id/complete
func (h *Handler) CompleteBooking(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req notesRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	if _, err := h.authorizeBooking(c, id); err != nil {
		h.writeError(c, err)
		return
	}

	b, err := h.bookings.CompleteBooking(c.Request.Context(), id, req.TeacherNotes)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// GetBooking GET /bookings/:id
func (h *Handler) GetBooking(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if _, err := h.authorizeBooking(c, id); err != nil {
		h.writeError(c, err)
		return
	}
	b, err := h.bookings.GetBooking(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// GetBookingDetails GET /bookings/:id/details
func (h *Handler) GetBookingDetails(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	b, err := h.authorizeBooking(c, id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// ListBookings GET /bookings?status=
func (h *Handler) ListBookings(c *gin.Context) {
	status, ok := queryBookingStatus(c)
	if !ok {
		return
	}
	page, ok := queryPage(c)
	if !ok {
		return
	}
	res, err := h.bookings.ListBookings(c.Request.Context(), status, page)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// TeacherBookings GET /bookings/teacher/:teacher_id?from=&to=&status=
func (h *Handler) TeacherBookings(c *gin.Context) {
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
	status, ok := queryBookingStatus(c)
	if !ok {
		return
	}
	page, ok := queryPage(c)
	if !ok {
		return
	}

	res, err := h.bookings.TeacherBookings(c.Request.Context(), teacherID, from, to, status, page)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// StudentBookings GET /bookings/student/:student_id?status=
func (h *Handler) StudentBookings(c *gin.Context) {
	studentID, ok := pathID(c, "student_id")
	if !ok {
		return
	}
	status, ok := queryBookingStatus(c)
	if !ok {
		return
	}
	page, ok := queryPage(c)
	if !ok {
		return
	}

	res, err := h.bookings.StudentBookings(c.Request.Context(), studentID, status, page)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// BookingStats GET /bookings/stats?teacher_id=&from=&to=
func (h *Handler) BookingStats(c *gin.Context) {
	teacherID, ok := queryID(c, "teacher_id")
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

	stats, err := h.bookings.Stats(c.Request.Context(), teacherID, from, to)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
