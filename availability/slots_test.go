package availability

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlotListDefaultGrid(t *testing.T) {
	slots, err := SlotList(DefaultOpenHour, DefaultCloseHour, DefaultSlotStep)
	assert.NoError(t, err)

	assert.Len(t, slots, 23)
	assert.Equal(t, "11:00", slots[0].String())
	assert.Equal(t, "22:00", slots[len(slots)-1].String())

	for i := 1; i < len(slots); i++ {
		assert.Greater(t, slots[i].Minutes(), slots[i-1].Minutes())
	}
}

func TestTimeSlotsRestartable(t *testing.T) {
	seq, err := TimeSlots(11, 22, 30)
	assert.NoError(t, err)

	count := func() int {
		n := 0
		for range seq {
			n++
		}
		return n
	}
	// Sequence yang sama bisa di-range ulang dari awal.
	assert.Equal(t, 23, count())
	assert.Equal(t, 23, count())
}

func TestTimeSlotsEarlyBreak(t *testing.T) {
	seq, err := TimeSlots(11, 22, 30)
	assert.NoError(t, err)

	var first ClockTime
	for s := range seq {
		first = s
		break
	}
	assert.Equal(t, "11:00", first.String())
}

func TestTimeSlotsInvalid(t *testing.T) {
	_, err := TimeSlots(22, 11, 30)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = TimeSlots(11, 22, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = TimeSlots(-1, 22, 30)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = TimeSlots(11, 24, 30)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGenerateBookingCode(t *testing.T) {
	pattern := regexp.MustCompile(`^BKD[A-Z0-9]{5}$`)
	full := regexp.MustCompile(`^[A-Z0-9]{8}$`)

	for i := 0; i < 200; i++ {
		code := GenerateBookingCode()
		assert.Len(t, code, 8)
		assert.Regexp(t, pattern, code)
		assert.Regexp(t, full, code)
	}
}
