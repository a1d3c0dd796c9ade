package models

import (
	"time"
)

// AuditLog bersifat append-only: dibuat pada setiap aksi yang mengubah status
// meja/booking, tidak pernah di-update atau dihapus.
type AuditLog struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	TableID        uint      `gorm:"not null;index" json:"table_id"`
	BookingID      *uint     `gorm:"index" json:"booking_id,omitempty"`
	ActionType     string    `gorm:"type:varchar(30);not null" json:"action_type"`
	ActionBy       string    `gorm:"type:varchar(100);not null" json:"action_by"`
	Notes          string    `gorm:"type:text" json:"notes"`
	PreviousStatus string    `gorm:"type:varchar(20)" json:"previous_status"`
	NewStatus      string    `gorm:"type:varchar(20)" json:"new_status"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
}
