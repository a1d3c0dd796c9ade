package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/table-booking/models"
	"github.com/yeremiapane/table-booking/router"
	"github.com/yeremiapane/table-booking/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	os.Exit(m.Run())
}

// TestEndToEndBookingFlow menguji flow utama:
// 1. Staff membuat meja
// 2. Customer membuat booking lewat wizard
// 3. Slot yang sama ditolak, slot yang menyentuh ujung interval diterima
// 4. Staff check-in lalu complete booking
// 5. Dashboard dan audit trail mencerminkan semua langkah di atas
func TestEndToEndBookingFlow(t *testing.T) {
	db := setupIntegrationDB()
	r := router.SetupRouter(db)

	date := time.Now().AddDate(0, 0, 3).Format("2006-01-02")

	tableID := createTableTest(t, r)
	code, bookingID := createBookingTest(t, r, tableID, date)
	conflictBookingTest(t, r, tableID, date)
	lookupBookingTest(t, r, code)
	transitionBookingTest(t, r, bookingID, models.BookingCheckedIn)
	transitionBookingTest(t, r, bookingID, models.BookingCompleted)
	dashboardTest(t, r, date)
	auditTrailTest(t, db, tableID, bookingID)
}

// setupIntegrationDB -> migrasi model di SQLite in-memory
func setupIntegrationDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open in-memory sqlite: %v", err)
	}

	err = db.AutoMigrate(
		&models.Table{},
		&models.Booking{},
		&models.AuditLog{},
		&models.DBChange{},
	)
	if err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func postJSON(r *gin.Engine, method, url string, payload interface{}) *httptest.ResponseRecorder {
	bodyBytes, _ := json.Marshal(payload)
	req := httptest.NewRequest(method, url, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// createTableTest -> POST /staff/tables => 201
func createTableTest(t *testing.T, r *gin.Engine) uint {
	w := postJSON(r, http.MethodPost, "/staff/tables", map[string]interface{}{
		"table_number": "A1",
		"capacity":     4,
		"properties":   []string{"window"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("createTableTest: expected 201, got %d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Status bool `json:"status"`
		Data   struct {
			ID uint `json:"id"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if !resp.Status || resp.Data.ID == 0 {
		t.Fatalf("createTableTest: bad response %s", w.Body.String())
	}
	return resp.Data.ID
}

// createBookingTest -> POST /bookings => 201 => booking confirmed + kode BKD
func createBookingTest(t *testing.T, r *gin.Engine, tableID uint, date string) (string, uint) {
	w := postJSON(r, http.MethodPost, "/bookings", map[string]interface{}{
		"table_id":       tableID,
		"booking_date":   date,
		"booking_time":   "18:00",
		"party_size":     2,
		"customer_name":  "Budi Santoso",
		"customer_phone": "081234567890",
		"customer_email": "budi@example.com",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("createBookingTest: expected 201, got %d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Status bool `json:"status"`
		Data   struct {
			ID          uint   `json:"id"`
			BookingCode string `json:"booking_code"`
			Status      string `json:"status"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Data.Status != models.BookingConfirmed {
		t.Fatalf("createBookingTest: expected status confirmed, got %s", resp.Data.Status)
	}
	if len(resp.Data.BookingCode) != 8 {
		t.Fatalf("createBookingTest: expected 8-char code, got %q", resp.Data.BookingCode)
	}
	return resp.Data.BookingCode, resp.Data.ID
}

// conflictBookingTest -> slot bentrok 409, slot menyentuh ujung 201
func conflictBookingTest(t *testing.T, r *gin.Engine, tableID uint, date string) {
	payload := map[string]interface{}{
		"table_id":       tableID,
		"booking_date":   date,
		"booking_time":   "19:00",
		"party_size":     2,
		"customer_name":  "Sari",
		"customer_phone": "081200012345",
	}
	w := postJSON(r, http.MethodPost, "/bookings", payload)
	if w.Code != http.StatusConflict {
		t.Fatalf("conflictBookingTest: expected 409 for 19:00, got %d, body=%s", w.Code, w.Body.String())
	}

	payload["booking_time"] = "20:00"
	w = postJSON(r, http.MethodPost, "/bookings", payload)
	if w.Code != http.StatusCreated {
		t.Fatalf("conflictBookingTest: expected 201 for 20:00, got %d, body=%s", w.Code, w.Body.String())
	}
}

// lookupBookingTest -> GET /bookings/code/:code => detail + meja ter-preload
func lookupBookingTest(t *testing.T, r *gin.Engine, code string) {
	req := httptest.NewRequest(http.MethodGet, "/bookings/code/"+code, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("lookupBookingTest: expected 200, got %d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			BookingCode string `json:"booking_code"`
			Table       *struct {
				TableNumber string `json:"table_number"`
			} `json:"table"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Data.BookingCode != code {
		t.Fatalf("lookupBookingTest: code mismatch, got %q", resp.Data.BookingCode)
	}
	if resp.Data.Table == nil || resp.Data.Table.TableNumber != "A1" {
		t.Fatalf("lookupBookingTest: table not preloaded, body=%s", w.Body.String())
	}
}

// transitionBookingTest -> PATCH /staff/bookings/:id/status
func transitionBookingTest(t *testing.T, r *gin.Engine, bookingID uint, status string) {
	url := fmt.Sprintf("/staff/bookings/%d/status", bookingID)
	w := postJSON(r, http.MethodPatch, url, map[string]string{"status": status})
	if w.Code != http.StatusOK {
		t.Fatalf("transitionBookingTest(%s): expected 200, got %d, body=%s", status, w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Data.Status != status {
		t.Fatalf("transitionBookingTest: expected %s, got %s", status, resp.Data.Status)
	}
}

// dashboardTest -> GET /staff/dashboard?date= => meja booked (booking 20:00
// masih confirmed), booking completed tidak muncul di panel
func dashboardTest(t *testing.T, r *gin.Engine, date string) {
	req := httptest.NewRequest(http.MethodGet, "/staff/dashboard?date="+date, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("dashboardTest: expected 200, got %d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			Tables []struct {
				DisplayStatus string `json:"display_status"`
			} `json:"tables"`
			Bookings []struct {
				BookingTime string `json:"booking_time"`
				Status      string `json:"status"`
			} `json:"bookings"`
			Stats struct {
				Total  int `json:"total"`
				Booked int `json:"booked"`
			} `json:"stats"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)

	if len(resp.Data.Tables) != 1 || resp.Data.Tables[0].DisplayStatus != "booked" {
		t.Fatalf("dashboardTest: expected table booked, body=%s", w.Body.String())
	}
	if len(resp.Data.Bookings) != 1 || resp.Data.Bookings[0].BookingTime != "20:00" {
		t.Fatalf("dashboardTest: expected only the 20:00 booking listed, body=%s", w.Body.String())
	}
	if resp.Data.Stats.Total != 1 || resp.Data.Stats.Booked != 1 {
		t.Fatalf("dashboardTest: unexpected stats, body=%s", w.Body.String())
	}
}

// auditTrailTest -> setiap langkah meninggalkan jejak append-only
func auditTrailTest(t *testing.T, db *gorm.DB, tableID, bookingID uint) {
	var logs []models.AuditLog
	db.Where("table_id = ?", tableID).Order("id").Find(&logs)

	// booked (customer), booked (20:00), checked_in, completed
	if len(logs) != 4 {
		t.Fatalf("auditTrailTest: expected 4 log entries, got %d", len(logs))
	}
	want := []string{"booked", "booked", models.BookingCheckedIn, models.BookingCompleted}
	for i, w := range want {
		if logs[i].ActionType != w {
			t.Fatalf("auditTrailTest: entry %d expected %s, got %s", i, w, logs[i].ActionType)
		}
	}
	if logs[2].BookingID == nil || *logs[2].BookingID != bookingID {
		t.Fatalf("auditTrailTest: check-in entry not linked to booking %d", bookingID)
	}
}
