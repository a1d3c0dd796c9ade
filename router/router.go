package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/table-booking/controllers"
	"github.com/yeremiapane/table-booking/middlewares"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.LoggerMiddleware())

	// Inisialisasi controller
	tableCtrl := controllers.NewTableController(db)
	bookingCtrl := controllers.NewBookingController(db)
	dashboardCtrl := controllers.NewDashboardController(db)
	auditCtrl := controllers.NewAuditLogController(db)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// WebSocket untuk update realtime (dashboard + wizard)
	r.GET("/ws", controllers.RealtimeHandler)

	// ----------------------------------------------------------------
	//                 CUSTOMER (booking wizard, tanpa auth)
	// ----------------------------------------------------------------
	r.GET("/tables", tableCtrl.GetAllTables)
	r.GET("/tables/availability", tableCtrl.CheckAvailability)
	r.GET("/time-slots", bookingCtrl.GetTimeSlots)
	r.GET("/bookings/code/:code", bookingCtrl.GetBookingByCode)

	// Rate limiter khusus pembuatan booking
	public := r.Group("/")
	public.Use(middlewares.NewBookingRateLimiter())
	{
		public.POST("/bookings", bookingCtrl.CreateBooking)
	}

	// ----------------------------------------------------------------
	//                 STAFF (dashboard; auth ditangani gateway eksternal)
	// ----------------------------------------------------------------
	staff := r.Group("/staff")

	staff.GET("/dashboard", dashboardCtrl.GetDashboard)
	staff.GET("/stats", dashboardCtrl.GetStats)
	staff.GET("/bookings", bookingCtrl.GetBookingsForDate)
	staff.POST("/bookings", bookingCtrl.CreatePhoneBooking)
	staff.PATCH("/bookings/:booking_id/status", bookingCtrl.UpdateBookingStatus)

	// TABLE admin
	staff.POST("/tables", tableCtrl.CreateTable)
	staff.GET("/tables/:table_id", tableCtrl.GetTableByID)
	staff.PATCH("/tables/:table_id", tableCtrl.UpdateTable)
	staff.DELETE("/tables/:table_id", tableCtrl.DeleteTable)

	// Walk-in tanpa record booking
	staff.POST("/tables/:table_id/walk-in", tableCtrl.MarkWalkIn)
	staff.POST("/tables/:table_id/free", tableCtrl.FreeTable)

	// AUDIT LOG (read-only; penulisan terjadi di service/controller aksi)
	staff.GET("/audit-logs", auditCtrl.GetAuditLogs)

	return r
}
