package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidator(t *testing.T) {
	v := New()
	v.Check(Matches("#a1B2c3", HexRX), "color", "bad color")
	v.Check(Matches("09:05", ClockRX), "start_time", "bad clock")
	assert.True(t, v.Valid())

	v.Check(Matches("9:05", ClockRX), "start_time", "bad clock")
	v.Check(Matches("24:00", ClockRX), "end_time", "bad clock")
	v.Check(In("weekly", "day", "week"), "view", "bad view")
	v.Check(false, "view", "second message is ignored")

	assert.False(t, v.Valid())
	assert.Equal(t, map[string]string{
		"start_time": "bad clock",
		"end_time":   "bad clock",
		"view":       "bad view",
	}, v.Errors)
}
