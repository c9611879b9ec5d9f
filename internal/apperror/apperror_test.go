package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	base := Conflict("slot is already full")
	wrapped := fmt.Errorf("book slot 7: %w", base)

	assert.Equal(t, KindConflict, KindOf(base))
	assert.Equal(t, KindConflict, KindOf(wrapped))
	assert.True(t, errors.Is(wrapped, base))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, KindInternal, KindOf(nil))
}

func TestMessageHidesInternalDetails(t *testing.T) {
	assert.Equal(t, "internal server error", Message(errors.New("pq: connection refused")))
	assert.Equal(t, "slot not found", Message(fmt.Errorf("get: %w", NotFound("slot not found"))))

	cause := errors.New("lock timeout")
	err := Unavailable("resource is busy, retry later", cause)
	assert.Equal(t, "resource is busy, retry later", Message(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "resource is busy, retry later: lock timeout", err.Error())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "not_found", KindNotFound.String())
	assert.Equal(t, "unavailable", KindUnavailable.String())
	assert.Equal(t, "internal", Kind(42).String())
}
