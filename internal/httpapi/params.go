package httpapi

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/gin-gonic/gin"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseTime разбирает время запроса. Время без зоны считается UTC.
func parseTime(raw string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return model.ToNaiveUTC(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q, expected RFC3339 or YYYY-MM-DD", raw)
}

// requestTime время в теле запроса, те же форматы что у parseTime
type requestTime time.Time

func (t *requestTime) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("time must be a string: %w", err)
	}
	parsed, err := parseTime(raw)
	if err != nil {
		return err
	}
	*t = requestTime(parsed)
	return nil
}

func (t *requestTime) ptr() *time.Time {
	if t == nil {
		return nil
	}
	v := time.Time(*t)
	return &v
}

// pathID положительный int64 из пути. false - ответ уже отправлен.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, fmt.Sprintf("%s must be a positive integer", name))
		return 0, false
	}
	return id, true
}

func queryTime(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := parseTime(raw)
	if err != nil {
		badRequest(c, fmt.Sprintf("%s: %v", name, err))
		return nil, false
	}
	return &t, true
}

func queryID(c *gin.Context, name string) (*int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, fmt.Sprintf("%s must be a positive integer", name))
		return nil, false
	}
	return &id, true
}

func queryBookingStatus(c *gin.Context) (*model.BookingStatus, bool) {
	raw := c.Query("status")
	if raw == "" {
		return nil, true
	}
	status := model.BookingStatus(raw)
	if !status.Valid() {
		badRequest(c, "status must be one of pending, confirmed, cancelled, completed")
		return nil, false
	}
	return &status, true
}

func queryPage(c *gin.Context) (model.Page, bool) {
	page, err := queryInt(c, "page")
	if err != nil {
		badRequest(c, err.Error())
		return model.Page{}, false
	}
	size, err := queryInt(c, "size")
	if err != nil {
		badRequest(c, err.Error())
		return model.Page{}, false
	}

	p, err := model.NewPage(page, size)
	if err != nil {
		badRequest(c, err.Error())
		return model.Page{}, false
	}
	return p, true
}

func queryInt(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	if v == 0 {
		return 0, fmt.Errorf("%s must not be zero", name)
	}
	return v, nil
}
