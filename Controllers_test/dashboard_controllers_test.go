package Controllers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/table-booking/controllers"
	"github.com/yeremiapane/table-booking/models"
	"github.com/yeremiapane/table-booking/utils"
)

func setupTestDBForDashboard() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	err = db.AutoMigrate(&models.Table{}, &models.Booking{}, &models.AuditLog{})
	if err != nil {
		panic(err)
	}
	return db
}

func setupDashboardRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	dashboardCtrl := controllers.NewDashboardController(db)
	auditCtrl := controllers.NewAuditLogController(db)
	router.GET("/staff/dashboard", dashboardCtrl.GetDashboard)
	router.GET("/staff/stats", dashboardCtrl.GetStats)
	router.GET("/staff/audit-logs", auditCtrl.GetAuditLogs)
	return router
}

// seedDashboard membuat empat meja dengan kombinasi status:
// T1 walk-in occupied, T2 ada booking checked_in, T3 ada booking confirmed,
// T4 kosong. Tanggal dipilih besok supaya derivasi overdue tidak ikut main.
func seedDashboard(db *gorm.DB) (date string) {
	date = time.Now().AddDate(0, 0, 1).Format("2006-01-02")

	t1 := models.Table{TableNumber: "T1", Capacity: 4, Status: models.TableOccupied}
	t2 := models.Table{TableNumber: "T2", Capacity: 4, Status: models.TableAvailable}
	t3 := models.Table{TableNumber: "T3", Capacity: 4, Status: models.TableAvailable}
	t4 := models.Table{TableNumber: "T4", Capacity: 2, Status: models.TableAvailable}
	db.Create(&t1)
	db.Create(&t2)
	db.Create(&t3)
	db.Create(&t4)

	bookings := []models.Booking{
		{BookingCode: "BKDDSH01", TableID: t2.ID, BookingDate: date, BookingTime: "18:00", DurationMinutes: 120, PartySize: 2, Status: models.BookingCheckedIn, CustomerName: "B", CustomerPhone: "1"},
		{BookingCode: "BKDDSH02", TableID: t3.ID, BookingDate: date, BookingTime: "19:00", DurationMinutes: 120, PartySize: 2, Status: models.BookingConfirmed, CustomerName: "C", CustomerPhone: "2"},
		{BookingCode: "BKDDSH03", TableID: t3.ID, BookingDate: date, BookingTime: "12:00", DurationMinutes: 120, PartySize: 2, Status: models.BookingCompleted, CustomerName: "D", CustomerPhone: "3"},
	}
	for i := range bookings {
		db.Create(&bookings[i])
	}
	return date
}

func TestGetDashboard(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForDashboard()
	date := seedDashboard(db)

	router := setupDashboardRouter(db)
	w := doJSON(router, "GET", "/staff/dashboard?date="+date, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)

	data := response["data"].(map[string]interface{})
	assert.Equal(t, date, data["date"])
	assert.Equal(t, false, data["is_today"])

	statuses := map[string]string{}
	for _, raw := range data["tables"].([]interface{}) {
		entry := raw.(map[string]interface{})
		statuses[entry["table_number"].(string)] = entry["display_status"].(string)
	}
	assert.Equal(t, "occupied", statuses["T1"])
	assert.Equal(t, "checked-in", statuses["T2"])
	assert.Equal(t, "booked", statuses["T3"])
	assert.Equal(t, "available", statuses["T4"])

	// Panel booking: completed tidak ditampilkan, sisanya urut jam
	bookings := data["bookings"].([]interface{})
	assert.Len(t, bookings, 2)
	assert.Equal(t, "18:00", bookings[0].(map[string]interface{})["booking_time"])
	assert.Equal(t, "19:00", bookings[1].(map[string]interface{})["booking_time"])

	stats := data["stats"].(map[string]interface{})
	assert.Equal(t, float64(4), stats["total"])
	assert.Equal(t, float64(2), stats["occupied"])
	assert.Equal(t, float64(1), stats["booked"])
	assert.Equal(t, float64(1), stats["available"])
	assert.Equal(t, float64(75), stats["occupancy_percent"])
}

func TestGetDashboardOverdue(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForDashboard()

	table := models.Table{TableNumber: "L1", Capacity: 4, Status: models.TableAvailable}
	db.Create(&table)

	// Booking confirmed hari ini yang jamnya sudah lewat > 15 menit
	now := time.Now()
	if now.Hour() == 0 {
		t.Skip("slot telat akan jatuh ke hari kemarin")
	}
	late := now.Add(-30 * time.Minute)
	db.Create(&models.Booking{
		BookingCode: "BKDLATE1", TableID: table.ID,
		BookingDate: now.Format("2006-01-02"), BookingTime: late.Format("15:04"),
		DurationMinutes: 120, PartySize: 2, Status: models.BookingConfirmed,
		CustomerName: "Telat", CustomerPhone: "9",
	})

	router := setupDashboardRouter(db)
	w := doJSON(router, "GET", "/staff/dashboard", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, true, data["is_today"])

	entry := data["tables"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "overdue", entry["display_status"])
	assert.GreaterOrEqual(t, entry["minutes_late"].(float64), float64(30))
}

func TestGetStats(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForDashboard()
	date := seedDashboard(db)

	router := setupDashboardRouter(db)
	w := doJSON(router, "GET", "/staff/stats?date="+date, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	stats := response["data"].(map[string]interface{})
	assert.Equal(t, float64(4), stats["total"])
	assert.Equal(t, float64(75), stats["occupancy_percent"])

	w = doJSON(router, "GET", "/staff/stats?date=bukan-tanggal", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAuditLogs(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForDashboard()

	t1 := models.Table{TableNumber: "T1", Capacity: 4, Status: models.TableAvailable}
	t2 := models.Table{TableNumber: "T2", Capacity: 4, Status: models.TableAvailable}
	db.Create(&t1)
	db.Create(&t2)
	db.Create(&models.AuditLog{TableID: t1.ID, ActionType: "occupied", ActionBy: "Staff", PreviousStatus: "available", NewStatus: "occupied"})
	db.Create(&models.AuditLog{TableID: t2.ID, ActionType: "booked", ActionBy: "Customer", PreviousStatus: "available", NewStatus: "booked"})

	router := setupDashboardRouter(db)

	w := doJSON(router, "GET", "/staff/audit-logs", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Len(t, response["data"].([]interface{}), 2)

	// Filter per meja
	w = doJSON(router, "GET", fmt.Sprintf("/staff/audit-logs?table_id=%d", t1.ID), nil)
	json.Unmarshal(w.Body.Bytes(), &response)
	data := response["data"].([]interface{})
	assert.Len(t, data, 1)
	assert.Equal(t, "occupied", data[0].(map[string]interface{})["action_type"])

	w = doJSON(router, "GET", "/staff/audit-logs?date=salah", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
