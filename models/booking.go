package models

import (
	"time"
)

// Status lifecycle booking:
// confirmed -> checked_in -> completed
// confirmed -> cancelled
// checked_in -> cancelled (jarang, tapi valid)
// completed dan cancelled bersifat terminal.
const (
	BookingConfirmed = "confirmed"
	BookingCheckedIn = "checked_in"
	BookingCompleted = "completed"
	BookingCancelled = "cancelled"
)

// DefaultDurationMinutes dipakai bila duration_minutes tidak diisi.
const DefaultDurationMinutes = 120

type Booking struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	BookingCode     string     `gorm:"type:varchar(8);not null;uniqueIndex" json:"booking_code"`
	TableID         uint       `gorm:"not null;index" json:"table_id"`
	Table           *Table     `gorm:"foreignKey:TableID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"table,omitempty"`
	BookingDate     string     `gorm:"type:date;not null;index" json:"booking_date"`
	BookingTime     string     `gorm:"type:varchar(5);not null" json:"booking_time"`
	DurationMinutes int        `gorm:"not null;default:120" json:"duration_minutes"`
	PartySize       int        `gorm:"not null" json:"party_size"`
	Status          string     `gorm:"type:varchar(20);not null;default:'confirmed';index" json:"status"`
	CustomerName    string     `gorm:"type:varchar(255);not null" json:"customer_name"`
	CustomerPhone   string     `gorm:"type:varchar(50);not null" json:"customer_phone"`
	CustomerEmail   *string    `gorm:"type:varchar(255)" json:"customer_email,omitempty"`
	SpecialRequests *string    `gorm:"type:text" json:"special_requests,omitempty"`
	CheckedInAt     *time.Time `json:"checked_in_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	CancelledAt     *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt       time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"not null" json:"updated_at"`
}

// IsTerminal -> true untuk status yang tidak boleh berubah lagi.
func IsTerminal(status string) bool {
	return status == BookingCompleted || status == BookingCancelled
}

// CanTransition memvalidasi state machine lifecycle booking.
func CanTransition(from, to string) bool {
	switch from {
	case BookingConfirmed:
		return to == BookingCheckedIn || to == BookingCancelled
	case BookingCheckedIn:
		return to == BookingCompleted || to == BookingCancelled
	default:
		return false
	}
}
