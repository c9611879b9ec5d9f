package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Freeeeeet/tutor_scheduler/internal/apperror"
	"github.com/Freeeeeet/tutor_scheduler/internal/auth"
	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/Freeeeeet/tutor_scheduler/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubAuth struct {
	AuthAPI
	login func(role model.Role, login, password string) (*service.Token, error)
}

func (s *stubAuth) Login(_ context.Context, role model.Role, login, password string) (*service.Token, error) {
	return s.login(role, login, password)
}

type stubSlots struct {
	SlotAPI
	created   *service.CreateSlotInput
	updated   *service.UpdateSlotInput
	bulk      *service.BulkSlotsInput
	createErr error
	available func(teacherID *int64, from, to *time.Time) ([]*model.TimeSlot, error)
	slot      *model.TimeSlot
}

func (s *stubSlots) CreateSlot(_ context.Context, in service.CreateSlotInput) (*model.TimeSlot, error) {
	s.created = &in
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &model.TimeSlot{ID: 1, TeacherID: in.TeacherID, StartTime: in.StartTime, EndTime: in.EndTime, MaxStudents: in.MaxStudents, Status: model.SlotStatusAvailable}, nil
}

func (s *stubSlots) CreateBulkSlots(_ context.Context, in service.BulkSlotsInput) ([]*model.TimeSlot, error) {
	s.bulk = &in
	return nil, nil
}

func (s *stubSlots) AvailableSlots(_ context.Context, teacherID *int64, from, to *time.Time) ([]*model.TimeSlot, error) {
	return s.available(teacherID, from, to)
}

func (s *stubSlots) GetSlot(_ context.Context, id int64) (*model.TimeSlot, error) {
	if s.slot == nil || s.slot.ID != id {
		return nil, model.ErrSlotNotFound
	}
	return s.slot, nil
}

func (s *stubSlots) UpdateSlot(_ context.Context, id int64, in service.UpdateSlotInput) (*model.TimeSlot, error) {
	s.updated = &in
	return s.slot, nil
}

func (s *stubSlots) DeleteSlot(context.Context, int64) error {
	return nil
}

type stubBookings struct {
	BookingAPI
	created   *service.CreateBookingInput
	booking   *model.Booking
	confirmed bool
	listErr   error
}

func (s *stubBookings) CreateBooking(_ context.Context, in service.CreateBookingInput) (*model.Booking, error) {
	s.created = &in
	return &model.Booking{ID: 10, TimeSlotID: in.TimeSlotID, StudentID: in.StudentID, Status: model.BookingStatusPending}, nil
}

func (s *stubBookings) GetBookingDetails(_ context.Context, id int64) (*model.Booking, error) {
	if s.booking == nil || s.booking.ID != id {
		return nil, model.ErrBookingNotFound
	}
	return s.booking, nil
}

func (s *stubBookings) GetBooking(_ context.Context, id int64) (*model.Booking, error) {
	if s.booking == nil || s.booking.ID != id {
		return nil, model.ErrBookingNotFound
	}
	b := *s.booking
	b.TimeSlot = nil
	return &b, nil
}

func (s *stubBookings) ConfirmBooking(_ context.Context, id int64, _ *string) (*model.Booking, error) {
	s.confirmed = true
	b := *s.booking
	b.Status = model.BookingStatusConfirmed
	return &b, nil
}

func (s *stubBookings) ListBookings(_ context.Context, _ *model.BookingStatus, page model.Page) (model.PageResult[*model.Booking], error) {
	if s.listErr != nil {
		return model.PageResult[*model.Booking]{}, s.listErr
	}
	return model.NewPageResult[*model.Booking](nil, 0, page), nil
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type testServer struct {
	router   *gin.Engine
	issuer   *auth.Issuer
	slots    *stubSlots
	bookings *stubBookings
}

func newTestServer(t *testing.T, login *RateLimiter) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ts := &testServer{
		issuer:   auth.NewIssuer("test-secret", time.Hour),
		slots:    &stubSlots{},
		bookings: &stubBookings{},
	}
	h := NewHandler(Deps{
		Auth: &stubAuth{login: func(role model.Role, login, password string) (*service.Token, error) {
			if password != "password123" {
				return nil, model.ErrInvalidCredentials
			}
			return &service.Token{AccessToken: "tok", TokenType: "bearer", Role: role, UserID: 1}, nil
		}},
		Slots:    ts.slots,
		Bookings: ts.bookings,
		Issuer:   ts.issuer,
		DB:       stubPinger{},
	}, zap.NewNop())

	r, err := NewRouter(h, RouterConfig{Login: login})
	require.NoError(t, err)
	ts.router = r
	return ts
}

func (ts *testServer) token(t *testing.T, id int64, role model.Role) string {
	t.Helper()
	tok, _, err := ts.issuer.MakeToken(id, role)
	require.NoError(t, err)
	return tok
}

func (ts *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil)
	w := ts.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"role": "teacher", "login": "anna", "password": "password123"})
	require.Equal(t, http.StatusOK, w.Code)
	var tok service.Token
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tok))
	assert.Equal(t, "tok", tok.AccessToken)
	assert.Equal(t, model.RoleTeacher, tok.Role)

	w = ts.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"role": "teacher", "login": "anna", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid credentials", errorBody(t, w))

	w = ts.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"role": "admin", "login": "anna", "password": "password123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginRateLimited(t *testing.T) {
	ts := newTestServer(t, NewRateLimiter(0.001, 1))
	body := gin.H{"role": "student", "login": "bob", "password": "password123"}

	assert.Equal(t, http.StatusOK, ts.do(http.MethodPost, "/api/v1/auth/login", "", body).Code)
	w := ts.do(http.MethodPost, "/api/v1/auth/login", "", body)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
}

func TestCreateSlotAuth(t *testing.T) {
	ts := newTestServer(t, nil)
	start := time.Date(2030, 1, 7, 10, 0, 0, 0, time.UTC)
	body := gin.H{"start_time": start, "end_time": start.Add(time.Hour)}

	w := ts.do(http.MethodPost, "/api/v1/slots", "", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(http.MethodPost, "/api/v1/slots", "not-a-jwt", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(http.MethodPost, "/api/v1/slots", ts.token(t, 3, model.RoleStudent), body)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Nil(t, ts.slots.created)

	w = ts.do(http.MethodPost, "/api/v1/slots", ts.token(t, 5, model.RoleTeacher), gin.H{
		"teacher_id": 6, "start_time": start, "end_time": start.Add(time.Hour),
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateSlotUsesCaller(t *testing.T) {
	ts := newTestServer(t, nil)
	start := time.Date(2030, 1, 7, 12, 0, 0, 0, time.FixedZone("MSK", 3*3600))

	w := ts.do(http.MethodPost, "/api/v1/slots", ts.token(t, 5, model.RoleTeacher), gin.H{
		"start_time": start, "end_time": start.Add(time.Hour),
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, ts.slots.created)
	assert.Equal(t, int64(5), ts.slots.created.TeacherID)
	assert.Equal(t, model.MinSlotCapacity, ts.slots.created.MaxStudents)
	assert.True(t, start.Equal(ts.slots.created.StartTime))

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, true, got["is_available"])
	assert.Equal(t, false, got["is_full"])
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		status     int
		message    string
		retryAfter string
	}{
		{"conflict", model.ErrSlotOverlap, http.StatusConflict, "slot overlaps with existing slot", ""},
		{"validation", model.ErrSlotInPast, http.StatusBadRequest, "start_time must be in the future", ""},
		{"not found", model.ErrTeacherNotFound, http.StatusNotFound, "teacher not found", ""},
		{"lock timeout", apperror.Unavailable("resource is busy, retry later", errors.New("55P03")), http.StatusServiceUnavailable, "resource is busy, retry later", "1"},
		{"internal", errors.New("connection reset by peer"), http.StatusInternalServerError, "internal server error", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, nil)
			ts.slots.createErr = tt.err
			start := time.Date(2030, 1, 7, 10, 0, 0, 0, time.UTC)

			w := ts.do(http.MethodPost, "/api/v1/slots", ts.token(t, 5, model.RoleTeacher), gin.H{
				"start_time": start, "end_time": start.Add(time.Hour),
			})
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.message, errorBody(t, w))
			assert.Equal(t, tt.retryAfter, w.Header().Get("Retry-After"))
		})
	}
}

func TestCreateBulkSlots(t *testing.T) {
	ts := newTestServer(t, nil)
	tok := ts.token(t, 5, model.RoleTeacher)

	w := ts.do(http.MethodPost, "/api/v1/slots/bulk", tok, gin.H{
		"start_date": "2030-01-07", "end_date": "2030-01-13",
		"start_time": "10:00", "end_time": "11:00",
		"days_of_week": []int{0, 2, 4}, "max_students": 3,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, ts.slots.bulk)
	assert.Equal(t, int64(5), ts.slots.bulk.TeacherID)
	assert.Equal(t, model.ClockTime{Hour: 10}, ts.slots.bulk.DailyStart)
	assert.Equal(t, model.ClockTime{Hour: 11}, ts.slots.bulk.DailyEnd)
	assert.Equal(t, []int{0, 2, 4}, ts.slots.bulk.DaysOfWeek)
	assert.Equal(t, 3, ts.slots.bulk.MaxStudents)
	assert.Equal(t, time.Date(2030, 1, 7, 0, 0, 0, 0, time.UTC), ts.slots.bulk.StartDate)

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.EqualValues(t, 0, got["created"])
	assert.Equal(t, []any{}, got["slots"])
}

func TestCreateBulkSlotsRepeatedDays(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(http.MethodPost, "/api/v1/slots/bulk", ts.token(t, 5, model.RoleTeacher), gin.H{
		"start_date": "2030-01-07", "end_date": "2030-01-13",
		"start_time": "10:00", "end_time": "11:00",
		"days_of_week": []int{0, 0, 2, 0, 2, 0, 0, 0},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.NotNil(t, ts.slots.bulk)
}

func TestCreateBulkSlotsRejectsBadInput(t *testing.T) {
	ts := newTestServer(t, nil)
	tok := ts.token(t, 5, model.RoleTeacher)

	bodies := map[string]gin.H{
		"bad clock": {"start_date": "2030-01-07", "end_date": "2030-01-13", "start_time": "25:00", "end_time": "11:00", "days_of_week": []int{0}},
		"bad date":  {"start_date": "07.01.2030", "end_date": "2030-01-13", "start_time": "10:00", "end_time": "11:00", "days_of_week": []int{0}},
		"bad day":   {"start_date": "2030-01-07", "end_date": "2030-01-13", "start_time": "10:00", "end_time": "11:00", "days_of_week": []int{7}},
		"no days":   {"start_date": "2030-01-07", "end_date": "2030-01-13", "start_time": "10:00", "end_time": "11:00", "days_of_week": []int{}},
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			w := ts.do(http.MethodPost, "/api/v1/slots/bulk", tok, body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
	assert.Nil(t, ts.slots.bulk)
}

func TestAvailableSlotsQuery(t *testing.T) {
	ts := newTestServer(t, nil)
	var gotTeacher *int64
	var gotFrom *time.Time
	ts.slots.available = func(teacherID *int64, from, to *time.Time) ([]*model.TimeSlot, error) {
		gotTeacher, gotFrom = teacherID, from
		return nil, nil
	}

	w := ts.do(http.MethodGet, "/api/v1/slots/available?teacher_id=4&from=2030-01-07T12:00:00%2B03:00", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
	require.NotNil(t, gotTeacher)
	assert.Equal(t, int64(4), *gotTeacher)
	require.NotNil(t, gotFrom)
	assert.Equal(t, time.Date(2030, 1, 7, 9, 0, 0, 0, time.UTC), *gotFrom)

	w = ts.do(http.MethodGet, "/api/v1/slots/available?from=yesterday", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(http.MethodGet, "/api/v1/slots/teacher/4/availability", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteSlotOwnership(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.slots.slot = &model.TimeSlot{ID: 9, TeacherID: 5}

	w := ts.do(http.MethodDelete, "/api/v1/slots/9", ts.token(t, 6, model.RoleTeacher), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.do(http.MethodDelete, "/api/v1/slots/9", ts.token(t, 5, model.RoleTeacher), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = ts.do(http.MethodDelete, "/api/v1/slots/abc", ts.token(t, 5, model.RoleTeacher), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateBooking(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(http.MethodPost, "/api/v1/bookings", ts.token(t, 5, model.RoleTeacher), gin.H{"time_slot_id": 9})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.do(http.MethodPost, "/api/v1/bookings", ts.token(t, 7, model.RoleStudent), gin.H{"time_slot_id": 9, "student_notes": "hi"})
	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, ts.bookings.created)
	assert.Equal(t, int64(7), ts.bookings.created.StudentID)
	assert.Equal(t, int64(9), ts.bookings.created.TimeSlotID)
}

func TestConfirmBookingOwnership(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.bookings.booking = &model.Booking{
		ID: 10, TimeSlotID: 9, StudentID: 7, Status: model.BookingStatusPending,
		TimeSlot: &model.TimeSlot{ID: 9, TeacherID: 5},
	}

	w := ts.do(http.MethodPost, "/api/v1/bookings/10/confirm", ts.token(t, 6, model.RoleTeacher), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, ts.bookings.confirmed)

	w = ts.do(http.MethodPost, "/api/v1/bookings/10/confirm", ts.token(t, 7, model.RoleStudent), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.do(http.MethodPost, "/api/v1/bookings/10/confirm", ts.token(t, 5, model.RoleTeacher), gin.H{"teacher_notes": "ok"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, ts.bookings.confirmed)

	w = ts.do(http.MethodPost, "/api/v1/bookings/11/confirm", ts.token(t, 5, model.RoleTeacher), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListBookingsPagination(t *testing.T) {
	ts := newTestServer(t, nil)
	tok := ts.token(t, 7, model.RoleStudent)

	w := ts.do(http.MethodGet, "/api/v1/bookings?page=2&size=5", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var res model.PageResult[*model.Booking]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 2, res.Page)
	assert.Equal(t, 5, res.Size)
	assert.Empty(t, res.Items)

	assert.Equal(t, http.StatusBadRequest, ts.do(http.MethodGet, "/api/v1/bookings?size=500", tok, nil).Code)
	assert.Equal(t, http.StatusBadRequest, ts.do(http.MethodGet, "/api/v1/bookings?page=0", tok, nil).Code)
	assert.Equal(t, http.StatusBadRequest, ts.do(http.MethodGet, "/api/v1/bookings?status=lost", tok, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, ts.do(http.MethodGet, "/api/v1/bookings", "", nil).Code)
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
	}{
		{"2030-01-07T10:00:00Z", time.Date(2030, 1, 7, 10, 0, 0, 0, time.UTC)},
		{"2030-01-07T13:00:00+03:00", time.Date(2030, 1, 7, 10, 0, 0, 0, time.UTC)},
		{"2030-01-07T10:00:00", time.Date(2030, 1, 7, 10, 0, 0, 0, time.UTC)},
		{"2030-01-07", time.Date(2030, 1, 7, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := parseTime(tt.raw)
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}

	_, err := parseTime("07/01/2030")
	assert.Error(t, err)
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mw, err := CORS([]string{"http://localhost:3000"})
	require.NoError(t, err)
	r := gin.New()
	r.Use(mw)
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSWildcardWithoutCredentials(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mw, err := CORS([]string{"*"})
	require.NoError(t, err)
	r := gin.New()
	r.Use(mw)
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORSRejectsBadOrigin(t *testing.T) {
	_, err := CORS([]string{"localhost:3000"})
	assert.Error(t, err)
}

func TestCreateSlotAcceptsNaiveAndOffsetTimes(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
	}{
		{"naive", "2030-01-07T10:00:00", "2030-01-07T11:00:00"},
		{"naive with fraction", "2030-01-07T10:00:00.000000", "2030-01-07T11:00:00.000000"},
		{"offset", "2030-01-07T13:00:00+03:00", "2030-01-07T14:00:00+03:00"},
		{"utc", "2030-01-07T10:00:00Z", "2030-01-07T11:00:00Z"},
	}
	want := time.Date(2030, 1, 7, 10, 0, 0, 0, time.UTC)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, nil)
			w := ts.do(http.MethodPost, "/api/v1/slots", ts.token(t, 5, model.RoleTeacher), gin.H{
				"start_time": tt.start, "end_time": tt.end,
			})
			require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
			require.NotNil(t, ts.slots.created)
			assert.Equal(t, want, ts.slots.created.StartTime)
			assert.Equal(t, want.Add(time.Hour), ts.slots.created.EndTime)
		})
	}
}

func TestCreateSlotRejectsBadTimes(t *testing.T) {
	ts := newTestServer(t, nil)
	tok := ts.token(t, 5, model.RoleTeacher)

	w := ts.do(http.MethodPost, "/api/v1/slots", tok, gin.H{"start_time": "07.01.2030 10:00", "end_time": "2030-01-07T11:00:00"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(http.MethodPost, "/api/v1/slots", tok, gin.H{"start_time": 12345, "end_time": "2030-01-07T11:00:00"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(http.MethodPost, "/api/v1/slots", tok, gin.H{"end_time": "2030-01-07T11:00:00"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, ts.slots.created)
}

func TestUpdateSlotNaiveTime(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.slots.slot = &model.TimeSlot{ID: 4, TeacherID: 5, MaxStudents: 1, Status: model.SlotStatusAvailable}

	w := ts.do(http.MethodPut, "/api/v1/slots/4", ts.token(t, 5, model.RoleTeacher), gin.H{"start_time": "2030-01-07T09:30:00"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NotNil(t, ts.slots.updated)
	require.NotNil(t, ts.slots.updated.StartTime)
	assert.Equal(t, time.Date(2030, 1, 7, 9, 30, 0, 0, time.UTC), *ts.slots.updated.StartTime)
	assert.Nil(t, ts.slots.updated.EndTime)
}

func TestBulkSlotsRequestInput(t *testing.T) {
	req := bulkSlotsRequest{
		StartDate: "2030-01-07", EndDate: "2030-01-13",
		StartTime: "9:00", EndTime: "10:30",
		DaysOfWeek: []int{0, 2},
	}
	in, err := req.input(5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), in.TeacherID)
	assert.Equal(t, time.Date(2030, 1, 7, 0, 0, 0, 0, time.UTC), in.StartDate)
	assert.Equal(t, model.ClockTime{Hour: 9}, in.DailyStart)
	assert.Equal(t, model.ClockTime{Hour: 10, Minute: 30}, in.DailyEnd)
	assert.Equal(t, model.MinSlotCapacity, in.MaxStudents)

	for name, mutate := range map[string]func(r *bulkSlotsRequest){
		"start date": func(r *bulkSlotsRequest) { r.StartDate = "07.01.2030" },
		"end date":   func(r *bulkSlotsRequest) { r.EndDate = "" },
		"start time": func(r *bulkSlotsRequest) { r.StartTime = "9am" },
		"end time":   func(r *bulkSlotsRequest) { r.EndTime = "24:00" },
	} {
		bad := req
		mutate(&bad)
		_, err := bad.input(5)
		assert.Error(t, err, name)
	}
}

func TestBookingReadsRequireOwnership(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.bookings.booking = &model.Booking{
		ID: 10, TimeSlotID: 9, StudentID: 7, Status: model.BookingStatusPending,
		TimeSlot: &model.TimeSlot{ID: 9, TeacherID: 5},
	}

	for _, path := range []string{"/api/v1/bookings/10", "/api/v1/bookings/10/details"} {
		assert.Equal(t, http.StatusForbidden, ts.do(http.MethodGet, path, ts.token(t, 8, model.RoleStudent), nil).Code, path)
		assert.Equal(t, http.StatusForbidden, ts.do(http.MethodGet, path, ts.token(t, 6, model.RoleTeacher), nil).Code, path)
		assert.Equal(t, http.StatusOK, ts.do(http.MethodGet, path, ts.token(t, 7, model.RoleStudent), nil).Code, path)
		assert.Equal(t, http.StatusOK, ts.do(http.MethodGet, path, ts.token(t, 5, model.RoleTeacher), nil).Code, path)
	}
	assert.Equal(t, http.StatusNotFound, ts.do(http.MethodGet, "/api/v1/bookings/11", ts.token(t, 7, model.RoleStudent), nil).Code)
}
