package callbacks

import (
	"testing"

	"github.com/Freeeeeet/tutor_scheduler/internal/controller/callbacks/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAction(t *testing.T) {
	tests := []struct {
		data   string
		prefix string
		id     int64
	}{
		{"book_lesson:12", common.BookLesson, 12},
		{"cancel_booking:7", common.CancelBooking, 7},
		{"confirm_booking:3", common.ConfirmBooking, 3},
		{"complete_booking:99", common.CompleteBooking, 99},
	}
	for _, tt := range tests {
		act, err := parseAction(tt.data)
		require.NoError(t, err, tt.data)
		assert.Equal(t, tt.prefix, act.prefix)
		assert.Equal(t, tt.id, act.id)
	}

	for _, bad := range []string{"book_lesson:", "book_lesson:x", "cancel_booking:-1", "approve_booking:1", "confirm_booking:1:2", ""} {
		_, err := parseAction(bad)
		assert.ErrorIs(t, err, common.ErrInvalidFormat, bad)
	}
}
