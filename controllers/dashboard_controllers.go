package controllers

import (
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/table-booking/availability"
	"github.com/yeremiapane/table-booking/models"
	"github.com/yeremiapane/table-booking/realtime"
	"github.com/yeremiapane/table-booking/utils"
)

type DashboardController struct {
	DB *gorm.DB
}

func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{DB: db}
}

// tableView adalah meja plus status tampilan hasil derivasi engine.
type tableView struct {
	models.Table
	DisplayStatus string `json:"display_status"`
	MinutesLate   int    `json:"minutes_late,omitempty"`
}

type dashboardView struct {
	Date     string             `json:"date"`
	IsToday  bool               `json:"is_today"`
	Tables   []tableView        `json:"tables"`
	Bookings []models.Booking   `json:"bookings"`
	Stats    availability.Stats `json:"stats"`
}

// GetDashboard -> snapshot lengkap dashboard staff untuk satu tanggal:
// meja dengan status derivasi, daftar booking urut jam, dan statistik
// okupansi. Dipanggil ulang oleh client pada setiap event realtime.
func (dc *DashboardController) GetDashboard(c *gin.Context) {
	now := time.Now()
	date := c.Query("date")
	if date == "" {
		date = now.Format("2006-01-02")
	}
	if _, err := availability.ParseDate(date); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	isToday := date == now.Format("2006-01-02")

	var tables []models.Table
	if err := dc.DB.Order("id").Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var bookings []models.Booking
	if err := dc.DB.Where("booking_date = ? AND status <> ?", date, models.BookingCancelled).
		Find(&bookings).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	views := make([]tableView, 0, len(tables))
	for _, table := range tables {
		ds, err := availability.TableDisplayStatus(table, bookings, now, isToday)
		if err != nil {
			if errors.Is(err, availability.ErrAmbiguousState) {
				// Anomali data: pakai booking pertama, laporkan saja
				utils.ErrorLogger.Printf("Dashboard: %v", err)
			} else {
				utils.RespondError(c, http.StatusInternalServerError, err)
				return
			}
		}
		views = append(views, tableView{Table: table, DisplayStatus: ds.Status, MinutesLate: ds.MinutesLate})
	}

	// Panel booking menampilkan yang belum selesai saja
	listed := make([]models.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.Status != models.BookingCompleted {
			listed = append(listed, b)
		}
	}
	sort.Slice(listed, func(i, j int) bool {
		return listed[i].BookingTime < listed[j].BookingTime
	})

	view := dashboardView{
		Date:     date,
		IsToday:  isToday,
		Tables:   views,
		Bookings: listed,
		Stats:    availability.OccupancyStats(tables, bookings),
	}

	utils.RespondJSON(c, http.StatusOK, "Dashboard for "+date, view)
}

// GetStats -> statistik okupansi saja (untuk kartu ringkasan), sekaligus
// di-broadcast agar dashboard lain ikut refresh.
func (dc *DashboardController) GetStats(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	if _, err := availability.ParseDate(date); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var tables []models.Table
	if err := dc.DB.Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var bookings []models.Booking
	if err := dc.DB.Where("booking_date = ? AND status <> ?", date, models.BookingCancelled).
		Find(&bookings).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	stats := availability.OccupancyStats(tables, bookings)
	realtime.BroadcastDashboardUpdate(stats)

	utils.RespondJSON(c, http.StatusOK, "Occupancy stats for "+date, stats)
}
