package handlers

import (
	"testing"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLinkArgs(t *testing.T) {
	args, err := parseLinkArgs("/link Teacher anna-k secret123")
	require.NoError(t, err)
	assert.Equal(t, model.RoleTeacher, args.role)
	assert.Equal(t, "anna-k", args.slug)
	assert.Equal(t, "secret123", args.password)

	args, err = parseLinkArgs("/link@tutor_bot student  bob   pw")
	require.NoError(t, err)
	assert.Equal(t, model.RoleStudent, args.role)
	assert.Equal(t, "bob", args.slug)

	for _, bad := range []string{"/link", "/link student bob", "/link admin bob pw", "/link student bob pw extra"} {
		_, err := parseLinkArgs(bad)
		assert.ErrorIs(t, err, errLinkUsage, bad)
	}
}

func TestParseSlotsArgs(t *testing.T) {
	slug, err := parseSlotsArgs("/slots anna-k")
	require.NoError(t, err)
	assert.Equal(t, "anna-k", slug)

	_, err = parseSlotsArgs("/slots")
	assert.ErrorIs(t, err, errSlotsUsage)
	_, err = parseSlotsArgs("/slots a b")
	assert.ErrorIs(t, err, errSlotsUsage)
}
