// Package availability berisi engine murni untuk cek ketersediaan meja dan
// derivasi status tampilan. Semua fungsi bekerja pada snapshot booking yang
// dioper caller, tanpa I/O dan tanpa mutasi input, sehingga aman dipanggil
// bersamaan dari banyak reader.
package availability

import (
	"fmt"
	"math"
	"time"

	"github.com/yeremiapane/table-booking/models"
)

// LateThreshold adalah batas keterlambatan sebelum booking confirmed
// ditampilkan sebagai overdue.
const LateThreshold = 15 * time.Minute

// Status tampilan meja hasil derivasi.
const (
	StatusAvailable = "available"
	StatusBooked    = "booked"
	StatusCheckedIn = "checked-in"
	StatusOccupied  = "occupied"
	StatusOverdue   = "overdue"
)

// DisplayStatus adalah status meja yang ditampilkan di dashboard.
// MinutesLate hanya bermakna untuk status overdue.
type DisplayStatus struct {
	Status      string `json:"status"`
	MinutesLate int    `json:"minutes_late,omitempty"`
}

// IsTableBookedAt -> true bila interval [start, start+duration) bentrok dengan
// booking non-cancelled manapun di meja tableID. Semantik interval half-open:
// interval yang saling menyentuh (reqStart == bEnd) BUKAN bentrok.
func IsTableBookedAt(bookings []models.Booking, tableID uint, start ClockTime, durationMinutes int) (bool, error) {
	if durationMinutes <= 0 {
		return false, fmt.Errorf("%w: duration must be positive, got %d", ErrInvalidInput, durationMinutes)
	}

	reqStart := start.Minutes()
	reqEnd := reqStart + durationMinutes

	for _, b := range bookings {
		if b.TableID != tableID || b.Status == models.BookingCancelled {
			continue
		}
		bStart, err := ParseClock(b.BookingTime)
		if err != nil {
			return false, err
		}
		dur := b.DurationMinutes
		if dur <= 0 {
			dur = models.DefaultDurationMinutes
		}
		bEnd := bStart.Minutes() + dur

		if reqStart < bEnd && reqEnd > bStart.Minutes() {
			return true, nil
		}
	}
	return false, nil
}

// ActiveBooking mengambil booking aktif (status bukan cancelled/completed)
// untuk satu meja. Bila ada lebih dari satu -- anomali data -- booking pertama
// menurut urutan iterasi tetap dikembalikan, bersama ErrAmbiguousState agar
// caller bisa melaporkannya.
func ActiveBooking(bookings []models.Booking, tableID uint) (*models.Booking, error) {
	var active *models.Booking
	for i := range bookings {
		b := &bookings[i]
		if b.TableID != tableID {
			continue
		}
		if models.IsTerminal(b.Status) {
			continue
		}
		if active != nil {
			return active, fmt.Errorf("%w: table %d", ErrAmbiguousState, tableID)
		}
		active = b
	}
	return active, nil
}

// TableDisplayStatus menurunkan status tampilan satu meja dari base status plus
// booking aktifnya. Urutan keputusan (yang pertama cocok menang):
//  1. tanpa booking aktif + base occupied -> occupied (walk-in)
//  2. tanpa booking aktif + base available -> available
//  3. booking checked_in -> checked-in
//  4. booking confirmed -> overdue bila hari ini dan sudah lewat >= 15 menit,
//     selain itu booked.
//
// now selalu dioper eksplisit, tidak pernah dibaca internal, supaya deterministik.
func TableDisplayStatus(table models.Table, bookingsForTable []models.Booking, now time.Time, isToday bool) (DisplayStatus, error) {
	if table.Capacity < 1 {
		return DisplayStatus{}, fmt.Errorf("%w: table %d capacity must be >= 1, got %d", ErrInvalidInput, table.ID, table.Capacity)
	}

	active, ambiguous := ActiveBooking(bookingsForTable, table.ID)
	if active == nil {
		if table.Status == models.TableOccupied {
			return DisplayStatus{Status: StatusOccupied}, nil
		}
		return DisplayStatus{Status: StatusAvailable}, nil
	}

	switch active.Status {
	case models.BookingCheckedIn:
		return DisplayStatus{Status: StatusCheckedIn}, ambiguous
	case models.BookingConfirmed:
		if isToday {
			t, err := ParseClock(active.BookingTime)
			if err != nil {
				return DisplayStatus{}, err
			}
			scheduled := time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, now.Location())
			if late := now.Sub(scheduled); late >= LateThreshold {
				return DisplayStatus{Status: StatusOverdue, MinutesLate: int(late.Minutes())}, ambiguous
			}
		}
		return DisplayStatus{Status: StatusBooked}, ambiguous
	}

	// Status booking tak dikenal diperlakukan sebagai input tidak valid.
	return DisplayStatus{}, fmt.Errorf("%w: unknown booking status %q", ErrInvalidInput, active.Status)
}

// Stats adalah ringkasan okupansi satu hari untuk dashboard staff.
type Stats struct {
	Available        int `json:"available"`
	Booked           int `json:"booked"`
	Occupied         int `json:"occupied"`
	Total            int `json:"total"`
	OccupancyPercent int `json:"occupancy_percent"`
}

// OccupancyStats menghitung statistik okupansi dari snapshot meja dan booking
// satu hari. Booked dihitung per-meja distinct (bukan per-booking), karena satu
// meja secara teori bisa punya record lama yang tumpang tindih. Setiap meja
// dihitung maksimal satu kali; checked_in menang atas confirmed.
func OccupancyStats(tables []models.Table, bookingsForDay []models.Booking) Stats {
	confirmed := make(map[uint]bool)
	checkedIn := make(map[uint]bool)
	for _, b := range bookingsForDay {
		switch b.Status {
		case models.BookingConfirmed:
			confirmed[b.TableID] = true
		case models.BookingCheckedIn:
			checkedIn[b.TableID] = true
		}
	}

	var stats Stats
	stats.Total = len(tables)
	for _, t := range tables {
		hasActive := confirmed[t.ID] || checkedIn[t.ID]
		switch {
		case checkedIn[t.ID]:
			stats.Occupied++
		case t.Status == models.TableOccupied && !hasActive:
			stats.Occupied++
		case confirmed[t.ID]:
			stats.Booked++
		case t.Status == models.TableAvailable:
			stats.Available++
		}
	}

	if stats.Total > 0 {
		stats.OccupancyPercent = int(math.Round(float64(stats.Occupied+stats.Booked) / float64(stats.Total) * 100))
	}
	return stats
}
