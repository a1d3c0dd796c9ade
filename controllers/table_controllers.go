package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/table-booking/availability"
	"github.com/yeremiapane/table-booking/models"
	"github.com/yeremiapane/table-booking/realtime"
	"github.com/yeremiapane/table-booking/utils"
)

type TableController struct {
	DB *gorm.DB
}

func NewTableController(db *gorm.DB) *TableController {
	return &TableController{DB: db}
}

// CreateTable -> menambahkan meja baru
func (tc *TableController) CreateTable(c *gin.Context) {
	var req struct {
		TableNumber string   `json:"table_number" binding:"required"`
		Capacity    int      `json:"capacity" binding:"required"`
		Properties  []string `json:"properties"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Capacity < 1 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("capacity must be at least 1"))
		return
	}

	table := models.Table{
		TableNumber: req.TableNumber,
		Capacity:    req.Capacity,
		Properties:  req.Properties,
		Status:      models.TableAvailable,
	}

	if err := tc.DB.Create(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	realtime.BroadcastTableCreate(table)

	utils.InfoLogger.Printf("New table created: %s (capacity=%d)", table.TableNumber, table.Capacity)
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

// GetAllTables -> menampilkan seluruh meja (snapshot mentah, tanpa derivasi)
func (tc *TableController) GetAllTables(c *gin.Context) {
	var tables []models.Table
	if err := tc.DB.Order("id").Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// GetTableByID -> detail satu meja
func (tc *TableController) GetTableByID(c *gin.Context) {
	tableID := c.Param("table_id")
	var table models.Table
	if err := tc.DB.First(&table, tableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", table)
}

// UpdateTable -> ubah nomor/kapasitas/properties meja
func (tc *TableController) UpdateTable(c *gin.Context) {
	tableID := c.Param("table_id")
	var req struct {
		TableNumber *string   `json:"table_number"`
		Capacity    *int      `json:"capacity"`
		Properties  *[]string `json:"properties"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var table models.Table
	if err := tc.DB.First(&table, tableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if req.TableNumber != nil {
		table.TableNumber = *req.TableNumber
	}
	if req.Capacity != nil {
		if *req.Capacity < 1 {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("capacity must be at least 1"))
			return
		}
		table.Capacity = *req.Capacity
	}
	if req.Properties != nil {
		table.Properties = *req.Properties
	}

	if err := tc.DB.Save(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	realtime.BroadcastTableUpdate(table)
	utils.RespondJSON(c, http.StatusOK, "Table updated", table)
}

// DeleteTable -> menghapus meja
func (tc *TableController) DeleteTable(c *gin.Context) {
	tableID := c.Param("table_id")
	var table models.Table

	if err := tc.DB.First(&table, tableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if err := tc.DB.Delete(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	realtime.BroadcastTableDelete(table.ID)

	utils.InfoLogger.Printf("Table %d deleted", table.ID)
	utils.RespondJSON(c, http.StatusOK, "Table deleted", gin.H{
		"id": table.ID,
	})
}

// MarkWalkIn -> staff menandai meja dipakai walk-in (tanpa record booking).
// Hanya boleh untuk meja available tanpa booking aktif hari ini.
func (tc *TableController) MarkWalkIn(c *gin.Context) {
	tableID := c.Param("table_id")
	var req struct {
		CustomerName string `json:"customer_name"`
		PartySize    int    `json:"party_size" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.CustomerName == "" {
		req.CustomerName = "Walk-in"
	}

	var table models.Table
	if err := tc.DB.First(&table, tableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if table.Status != models.TableAvailable {
		utils.RespondError(c, http.StatusConflict, fmt.Errorf("table %s is already occupied", table.TableNumber))
		return
	}

	today := time.Now().Format("2006-01-02")
	var todayBookings []models.Booking
	if err := tc.DB.Where("table_id = ? AND booking_date = ? AND status <> ?",
		table.ID, today, models.BookingCancelled).Find(&todayBookings).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	active, err := availability.ActiveBooking(todayBookings, table.ID)
	if err != nil {
		utils.ErrorLogger.Printf("Ambiguous bookings on table %d: %v", table.ID, err)
	}
	if active != nil {
		utils.RespondError(c, http.StatusConflict, fmt.Errorf("table %s has an active booking (%s)", table.TableNumber, active.BookingCode))
		return
	}

	err = tc.DB.Transaction(func(tx *gorm.DB) error {
		table.Status = models.TableOccupied
		if err := tx.Save(&table).Error; err != nil {
			return err
		}
		audit := models.AuditLog{
			TableID:        table.ID,
			ActionType:     "occupied",
			ActionBy:       "Staff",
			Notes:          fmt.Sprintf("Walk-in: %s (%d guests)", req.CustomerName, req.PartySize),
			PreviousStatus: models.TableAvailable,
			NewStatus:      models.TableOccupied,
		}
		return tx.Create(&audit).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	realtime.BroadcastTableUpdate(table)

	utils.InfoLogger.Printf("Table %d marked as walk-in (%s, %d guests)", table.ID, req.CustomerName, req.PartySize)
	utils.RespondJSON(c, http.StatusOK, "Table marked as occupied", table)
}

// FreeTable -> staff membebaskan meja walk-in
func (tc *TableController) FreeTable(c *gin.Context) {
	tableID := c.Param("table_id")

	var table models.Table
	if err := tc.DB.First(&table, tableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if table.Status != models.TableOccupied {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("table %s is not occupied", table.TableNumber))
		return
	}

	err := tc.DB.Transaction(func(tx *gorm.DB) error {
		table.Status = models.TableAvailable
		if err := tx.Save(&table).Error; err != nil {
			return err
		}
		audit := models.AuditLog{
			TableID:        table.ID,
			ActionType:     "freed",
			ActionBy:       "Staff",
			Notes:          "Table manually freed",
			PreviousStatus: models.TableOccupied,
			NewStatus:      models.TableAvailable,
		}
		return tx.Create(&audit).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	realtime.BroadcastTableUpdate(table)
	utils.RespondJSON(c, http.StatusOK, "Table freed", table)
}

// tableAvailabilityEntry adalah satu baris grid meja di booking wizard.
type tableAvailabilityEntry struct {
	Table       models.Table `json:"table"`
	Status      string       `json:"status"`
	IsAvailable bool         `json:"is_available"`
}

// CheckAvailability -> grid ketersediaan meja untuk wizard pada date+time
// tertentu. Hasilnya advisory: cek final terjadi lagi saat create booking.
func (tc *TableController) CheckAvailability(c *gin.Context) {
	date := c.Query("date")
	timeStr := c.Query("time")
	if date == "" || timeStr == "" {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("date and time query params are required"))
		return
	}

	start, err := availability.ParseClock(timeStr)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if _, err := availability.ParseDate(date); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	duration := models.DefaultDurationMinutes
	if d := c.Query("duration"); d != "" {
		duration, err = strconv.Atoi(d)
		if err != nil || duration <= 0 {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid duration %q", d))
			return
		}
	}

	partySize := 0
	if p := c.Query("party_size"); p != "" {
		partySize, err = strconv.Atoi(p)
		if err != nil || partySize < 1 {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid party_size %q", p))
			return
		}
	}

	var tables []models.Table
	if err := tc.DB.Order("id").Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var bookings []models.Booking
	if err := tc.DB.Where("booking_date = ? AND status <> ?", date, models.BookingCancelled).
		Find(&bookings).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	property := c.Query("property")

	entries := make([]tableAvailabilityEntry, 0, len(tables))
	for _, table := range tables {
		if property != "" && !table.HasProperty(property) {
			continue
		}

		booked, err := availability.IsTableBookedAt(bookings, table.ID, start, duration)
		if err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}

		entry := tableAvailabilityEntry{Table: table, Status: availability.StatusAvailable, IsAvailable: true}
		switch {
		case table.Status == models.TableOccupied:
			entry.Status = availability.StatusOccupied
			entry.IsAvailable = false
		case booked:
			entry.Status = availability.StatusBooked
			entry.IsAvailable = false
		case partySize > 0 && table.Capacity < partySize:
			entry.Status = "too_small"
			entry.IsAvailable = false
		}
		entries = append(entries, entry)
	}

	utils.RespondJSON(c, http.StatusOK, "Table availability", entries)
}
