package availability

import (
	"fmt"
	"iter"
)

// Jam layanan default (grid slot 30 menit dari 11:00 s/d 22:00).
const (
	DefaultOpenHour  = 11
	DefaultCloseHour = 22
	DefaultSlotStep  = 30
)

// TimeSlots menghasilkan grid slot waktu dari openHour:00 sampai closeHour:00
// inklusif, dengan langkah stepMinutes. Sequence-nya lazy, terbatas, dan bisa
// di-range ulang dari awal.
func TimeSlots(openHour, closeHour, stepMinutes int) (iter.Seq[ClockTime], error) {
	if openHour < 0 || closeHour > 23 || openHour > closeHour {
		return nil, fmt.Errorf("%w: invalid service hours %d..%d", ErrInvalidInput, openHour, closeHour)
	}
	if stepMinutes <= 0 {
		return nil, fmt.Errorf("%w: slot step must be positive, got %d", ErrInvalidInput, stepMinutes)
	}

	start := openHour * 60
	end := closeHour * 60
	return func(yield func(ClockTime) bool) {
		for m := start; m <= end; m += stepMinutes {
			if !yield(ClockTime(m)) {
				return
			}
		}
	}, nil
}

// SlotList mengumpulkan TimeSlots ke slice, untuk response JSON.
func SlotList(openHour, closeHour, stepMinutes int) ([]ClockTime, error) {
	seq, err := TimeSlots(openHour, closeHour, stepMinutes)
	if err != nil {
		return nil, err
	}
	var slots []ClockTime
	for slot := range seq {
		slots = append(slots, slot)
	}
	return slots, nil
}
