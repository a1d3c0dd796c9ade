package availability

import (
	"fmt"
	"time"
)

// ClockTime adalah waktu-dalam-hari dengan granularitas menit, direpresentasikan
// sebagai menit-sejak-tengah-malam (0..1439).
type ClockTime int

// ParseClock mem-parse string "HH:MM" secara ketat (dua digit, range valid).
func ParseClock(s string) (ClockTime, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("%w: time %q must be in HH:MM format", ErrInvalidInput, s)
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("%w: time %q must be in HH:MM format", ErrInvalidInput, s)
		}
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	if h > 23 || m > 59 {
		return 0, fmt.Errorf("%w: time %q out of range", ErrInvalidInput, s)
	}
	return ClockTime(h*60 + m), nil
}

func (t ClockTime) Hour() int    { return int(t) / 60 }
func (t ClockTime) Minute() int  { return int(t) % 60 }
func (t ClockTime) Minutes() int { return int(t) }

func (t ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// MarshalJSON membuat ClockTime tampil sebagai "HH:MM" di response.
func (t ClockTime) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", t.String())), nil
}

// ParseDate mem-parse tanggal "YYYY-MM-DD" (hari layanan lokal, tanpa zona).
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be in YYYY-MM-DD format", ErrInvalidInput, s)
	}
	return d, nil
}

// IsSlotInPast -> true hanya bila date adalah hari ini (kesamaan tanggal
// kalender lokal) dan datetime slot <= now. Dipakai untuk men-disable slot
// yang sudah lewat di booking wizard. Pure function; now selalu dioper.
func IsSlotInPast(date string, t ClockTime, now time.Time) (bool, error) {
	d, err := ParseDate(date)
	if err != nil {
		return false, err
	}
	if d.Year() != now.Year() || d.Month() != now.Month() || d.Day() != now.Day() {
		return false, nil
	}
	slot := time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, now.Location())
	return !slot.After(now), nil
}
