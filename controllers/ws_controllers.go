package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/yeremiapane/table-booking/availability"
	"github.com/yeremiapane/table-booking/models"
	"github.com/yeremiapane/table-booking/realtime"
	"github.com/yeremiapane/table-booking/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// RealtimeHandler -> endpoint WebSocket untuk dashboard staff dan wizard.
// Client hanya menerima broadcast; pesan masuk diabaikan.
func RealtimeHandler(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	realtime.RegisterClient(ws)
	utils.InfoLogger.Printf("Realtime client connected (%d active)", realtime.ClientCount())

	// Statistik hari ini dikirim sekali saat connect supaya dashboard tidak
	// menunggu event pertama.
	if db := utils.GetDB(); db != nil {
		var tables []models.Table
		var bookings []models.Booking
		today := time.Now().Format("2006-01-02")
		if db.Find(&tables).Error == nil &&
			db.Where("booking_date = ? AND status <> ?", today, models.BookingCancelled).Find(&bookings).Error == nil {
			realtime.BroadcastDashboardUpdate(availability.OccupancyStats(tables, bookings))
		}
	}

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	realtime.UnregisterClient(ws)
	utils.InfoLogger.Printf("Realtime client disconnected (%d active)", realtime.ClientCount())
}
