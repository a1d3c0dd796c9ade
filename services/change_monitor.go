package services

import (
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/table-booking/models"
	"github.com/yeremiapane/table-booking/realtime"
)

// ChangeMonitor mem-polling tabel db_changes (diisi trigger database) dan
// menyiarkan perubahan tables/bookings ke semua client websocket. Ini jalur
// delivery untuk subscription realtime dashboard dan wizard.
type ChangeMonitor struct {
	DB       *gorm.DB
	StopChan chan struct{}
	Interval time.Duration
}

func NewChangeMonitor(db *gorm.DB) *ChangeMonitor {
	return &ChangeMonitor{
		DB:       db,
		StopChan: make(chan struct{}),
		Interval: 1 * time.Second,
	}
}

func (cm *ChangeMonitor) Start() {
	go func() {
		ticker := time.NewTicker(cm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				cm.checkChanges()
			case <-cm.StopChan:
				return
			}
		}
	}()
}

func (cm *ChangeMonitor) Stop() {
	close(cm.StopChan)
}

func (cm *ChangeMonitor) checkChanges() {
	var changes []models.DBChange

	// Transaction supaya dua instance monitor tidak memproses change yang sama
	tx := cm.DB.Begin()

	if err := tx.Where("processed = ?", false).
		Order("changed_at ASC").
		Limit(100).
		Find(&changes).Error; err != nil {
		tx.Rollback()
		log.Printf("Error fetching changes: %v", err)
		return
	}

	for _, change := range changes {
		switch change.TableName {
		case "tables":
			cm.processTableChange(change)
		case "bookings":
			cm.processBookingChange(change)
		}

		if err := tx.Model(&models.DBChange{}).
			Where("id = ?", change.ID).
			Update("processed", true).Error; err != nil {
			tx.Rollback()
			log.Printf("Error marking change as processed: %v", err)
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		log.Printf("Error committing transaction: %v", err)
		tx.Rollback()
		return
	}

	if len(changes) > 0 {
		log.Printf("Processed %d change(s)", len(changes))
	}
}

func (cm *ChangeMonitor) processTableChange(change models.DBChange) {
	var table models.Table

	if change.ActionType != "DELETE" {
		if err := cm.DB.First(&table, change.RecordID).Error; err != nil {
			log.Printf("Error fetching table: %v", err)
			return
		}
	}

	switch change.ActionType {
	case "INSERT":
		realtime.BroadcastTableCreate(table)
	case "UPDATE":
		realtime.BroadcastTableUpdate(table)
	case "DELETE":
		realtime.BroadcastTableDelete(uint(change.RecordID))
	}
}

func (cm *ChangeMonitor) processBookingChange(change models.DBChange) {
	var b models.Booking

	if change.ActionType != "DELETE" {
		if err := cm.DB.First(&b, change.RecordID).Error; err != nil {
			log.Printf("Error fetching booking: %v", err)
			return
		}
	}

	switch change.ActionType {
	case "INSERT":
		realtime.BroadcastBookingCreate(b)
	case "UPDATE":
		realtime.BroadcastBookingUpdate(b)
	}
}
