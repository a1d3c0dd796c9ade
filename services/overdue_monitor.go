package services

import (
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/table-booking/availability"
	"github.com/yeremiapane/table-booking/models"
	"github.com/yeremiapane/table-booking/realtime"
)

// OverdueMonitor memeriksa booking confirmed hari ini yang sudah lewat batas
// keterlambatan dan menyiarkan event overdue sekali per booking, supaya
// dashboard staff refresh tanpa menunggu interaksi. Tidak ada state yang
// dimutasi; overdue murni status tampilan hasil derivasi.
type OverdueMonitor struct {
	DB       *gorm.DB
	StopChan chan struct{}
	Interval time.Duration

	notified    map[uint]bool
	notifiedDay string
}

func NewOverdueMonitor(db *gorm.DB) *OverdueMonitor {
	return &OverdueMonitor{
		DB:       db,
		StopChan: make(chan struct{}),
		Interval: 30 * time.Second,
		notified: make(map[uint]bool),
	}
}

func (om *OverdueMonitor) Start() {
	go func() {
		ticker := time.NewTicker(om.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				om.checkOverdue(time.Now())
			case <-om.StopChan:
				return
			}
		}
	}()
}

func (om *OverdueMonitor) Stop() {
	close(om.StopChan)
}

func (om *OverdueMonitor) checkOverdue(now time.Time) {
	today := now.Format("2006-01-02")
	if om.notifiedDay != today {
		om.notified = make(map[uint]bool)
		om.notifiedDay = today
	}

	var bookings []models.Booking
	if err := om.DB.Where("booking_date = ? AND status = ?", today, models.BookingConfirmed).
		Find(&bookings).Error; err != nil {
		log.Printf("Error fetching today's bookings: %v", err)
		return
	}

	for _, b := range bookings {
		if om.notified[b.ID] {
			continue
		}
		t, err := availability.ParseClock(b.BookingTime)
		if err != nil {
			log.Printf("Skipping booking %d with bad time %q: %v", b.ID, b.BookingTime, err)
			continue
		}
		scheduled := time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, now.Location())
		if now.Sub(scheduled) >= availability.LateThreshold {
			om.notified[b.ID] = true
			realtime.BroadcastMessage(realtime.Message{
				Event: realtime.EventBookingOverdue,
				Data:  b,
			})
		}
	}
}
