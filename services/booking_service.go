package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/table-booking/availability"
	"github.com/yeremiapane/table-booking/models"
	"github.com/yeremiapane/table-booking/realtime"
)

var (
	// ErrTableUnavailable -> slot yang diminta bentrok dengan booking lain,
	// atau meja tidak memenuhi syarat (kapasitas kurang).
	ErrTableUnavailable = errors.New("table is not available for the requested slot")

	// ErrInvalidTransition -> perubahan status di luar lifecycle booking.
	ErrInvalidTransition = errors.New("invalid booking status transition")

	// ErrCodeGenerationExhausted -> kode booking acak bentrok terus dengan
	// kode yang sudah ada sampai batas retry habis. Praktis tidak akan
	// terjadi, tapi keunikan dijamin database, bukan keberuntungan.
	ErrCodeGenerationExhausted = errors.New("could not generate a unique booking code")
)

const maxCodeAttempts = 5

type BookingService struct {
	DB *gorm.DB
}

func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{DB: db}
}

type CreateBookingInput struct {
	TableID         uint
	Date            string
	Time            string
	DurationMinutes int
	PartySize       int
	CustomerName    string
	CustomerPhone   string
	CustomerEmail   *string
	SpecialRequests *string
	ActionBy        string
}

// CreateBooking membuat booking baru dalam satu transaksi: cek bentrok ulang
// terhadap snapshot terbaru (cek di wizard hanya advisory), lalu insert dengan
// kode acak. Tabrakan kode ditangkap lewat unique index booking_code dan
// dicoba ulang dengan kode baru, maksimal maxCodeAttempts kali.
func (s *BookingService) CreateBooking(in CreateBookingInput) (*models.Booking, error) {
	start, err := availability.ParseClock(in.Time)
	if err != nil {
		return nil, err
	}
	if _, err := availability.ParseDate(in.Date); err != nil {
		return nil, err
	}

	duration := in.DurationMinutes
	if duration == 0 {
		duration = models.DefaultDurationMinutes
	}
	if duration < 0 {
		return nil, fmt.Errorf("%w: duration must be positive, got %d", availability.ErrInvalidInput, duration)
	}

	var created models.Booking
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var table models.Table
		if err := tx.First(&table, in.TableID).Error; err != nil {
			return err
		}
		if table.Capacity < in.PartySize {
			return fmt.Errorf("%w: party of %d exceeds capacity %d", ErrTableUnavailable, in.PartySize, table.Capacity)
		}

		var dayBookings []models.Booking
		if err := tx.Where("table_id = ? AND booking_date = ? AND status <> ?",
			in.TableID, in.Date, models.BookingCancelled).Find(&dayBookings).Error; err != nil {
			return err
		}

		booked, err := availability.IsTableBookedAt(dayBookings, in.TableID, start, duration)
		if err != nil {
			return err
		}
		if booked {
			return fmt.Errorf("%w: table %s at %s on %s", ErrTableUnavailable, table.TableNumber, in.Time, in.Date)
		}

		for attempt := 0; attempt < maxCodeAttempts; attempt++ {
			b := models.Booking{
				BookingCode:     availability.GenerateBookingCode(),
				TableID:         in.TableID,
				BookingDate:     in.Date,
				BookingTime:     start.String(),
				DurationMinutes: duration,
				PartySize:       in.PartySize,
				Status:          models.BookingConfirmed,
				CustomerName:    in.CustomerName,
				CustomerPhone:   in.CustomerPhone,
				CustomerEmail:   in.CustomerEmail,
				SpecialRequests: in.SpecialRequests,
			}
			if err := tx.Create(&b).Error; err != nil {
				if isDuplicateKey(err) {
					continue
				}
				return err
			}

			created = b
			audit := models.AuditLog{
				TableID:        in.TableID,
				BookingID:      &b.ID,
				ActionType:     "booked",
				ActionBy:       in.ActionBy,
				Notes:          fmt.Sprintf("Booking %s: %s (%d guests) at %s on %s", b.BookingCode, in.CustomerName, in.PartySize, b.BookingTime, in.Date),
				PreviousStatus: models.TableAvailable,
				NewStatus:      "booked",
			}
			return tx.Create(&audit).Error
		}
		return ErrCodeGenerationExhausted
	})
	if err != nil {
		return nil, err
	}

	realtime.BroadcastBookingCreate(created)
	return &created, nil
}

// TransitionBooking memindahkan booking melewati state machine lifecycle-nya
// (check-in, complete, cancel), mencatat timestamp lifecycle plus audit log,
// lalu broadcast perubahannya.
func (s *BookingService) TransitionBooking(bookingID uint, newStatus, actionBy string) (*models.Booking, error) {
	var b models.Booking
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&b, bookingID).Error; err != nil {
			return err
		}
		if !models.CanTransition(b.Status, newStatus) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.Status, newStatus)
		}

		prev := b.Status
		now := time.Now()
		switch newStatus {
		case models.BookingCheckedIn:
			b.CheckedInAt = &now
		case models.BookingCompleted:
			b.CompletedAt = &now
		case models.BookingCancelled:
			b.CancelledAt = &now
		}
		b.Status = newStatus

		if err := tx.Save(&b).Error; err != nil {
			return err
		}

		audit := models.AuditLog{
			TableID:        b.TableID,
			BookingID:      &b.ID,
			ActionType:     newStatus,
			ActionBy:       actionBy,
			Notes:          transitionNotes(&b, newStatus),
			PreviousStatus: prev,
			NewStatus:      newStatus,
		}
		return tx.Create(&audit).Error
	})
	if err != nil {
		return nil, err
	}

	realtime.BroadcastBookingUpdate(b)
	return &b, nil
}

func transitionNotes(b *models.Booking, newStatus string) string {
	switch newStatus {
	case models.BookingCheckedIn:
		return fmt.Sprintf("Customer %s checked in", b.CustomerName)
	case models.BookingCancelled:
		return fmt.Sprintf("Booking %s cancelled", b.BookingCode)
	case models.BookingCompleted:
		return "Booking completed, table freed"
	default:
		return ""
	}
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// Fallback untuk driver yang tidak menerjemahkan error
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}
