package controllers

import (
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/table-booking/availability"
	"github.com/yeremiapane/table-booking/models"
	"github.com/yeremiapane/table-booking/services"
	"github.com/yeremiapane/table-booking/utils"
)

// Batas wizard: maksimal 20 orang, booking sampai 2 bulan ke depan.
const maxPartySize = 20

var emailRx = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type BookingController struct {
	DB      *gorm.DB
	Service *services.BookingService
}

func NewBookingController(db *gorm.DB) *BookingController {
	return &BookingController{DB: db, Service: services.NewBookingService(db)}
}

type createBookingRequest struct {
	TableID         uint   `json:"table_id" binding:"required"`
	BookingDate     string `json:"booking_date" binding:"required"`
	BookingTime     string `json:"booking_time" binding:"required"`
	DurationMinutes int    `json:"duration_minutes"`
	PartySize       int    `json:"party_size" binding:"required"`
	CustomerName    string `json:"customer_name"`
	CustomerPhone   string `json:"customer_phone"`
	CustomerEmail   string `json:"customer_email"`
	SpecialRequests string `json:"special_requests"`
}

func (req *createBookingRequest) validate(now time.Time) error {
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.CustomerPhone = strings.TrimSpace(req.CustomerPhone)
	req.CustomerEmail = strings.TrimSpace(req.CustomerEmail)
	req.SpecialRequests = strings.TrimSpace(req.SpecialRequests)

	if req.CustomerName == "" {
		return fmt.Errorf("customer_name is required")
	}
	if req.CustomerPhone == "" {
		return fmt.Errorf("customer_phone is required")
	}
	if req.CustomerEmail != "" && !emailRx.MatchString(req.CustomerEmail) {
		return fmt.Errorf("customer_email %q is not a valid email address", req.CustomerEmail)
	}
	if req.PartySize < 1 || req.PartySize > maxPartySize {
		return fmt.Errorf("party_size must be between 1 and %d", maxPartySize)
	}

	if _, err := availability.ParseDate(req.BookingDate); err != nil {
		return err
	}
	slot, err := availability.ParseClock(req.BookingTime)
	if err != nil {
		return err
	}

	// Perbandingan leksikografis aman untuk format YYYY-MM-DD
	if req.BookingDate < now.Format("2006-01-02") {
		return fmt.Errorf("booking_date %s is in the past", req.BookingDate)
	}
	if req.BookingDate > now.AddDate(0, 2, 0).Format("2006-01-02") {
		return fmt.Errorf("booking_date %s is more than 2 months ahead", req.BookingDate)
	}

	past, err := availability.IsSlotInPast(req.BookingDate, slot, now)
	if err != nil {
		return err
	}
	if past {
		return fmt.Errorf("time slot %s has already passed", req.BookingTime)
	}
	return nil
}

func (req *createBookingRequest) toInput(actionBy string) services.CreateBookingInput {
	in := services.CreateBookingInput{
		TableID:         req.TableID,
		Date:            req.BookingDate,
		Time:            req.BookingTime,
		DurationMinutes: req.DurationMinutes,
		PartySize:       req.PartySize,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		ActionBy:        actionBy,
	}
	if req.CustomerEmail != "" {
		in.CustomerEmail = &req.CustomerEmail
	}
	if req.SpecialRequests != "" {
		in.SpecialRequests = &req.SpecialRequests
	}
	return in
}

// CreateBooking -> langkah terakhir booking wizard customer
func (bc *BookingController) CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := req.validate(time.Now()); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	booking, err := bc.Service.CreateBooking(req.toInput("Customer"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Booking %s created for table %d on %s %s",
		booking.BookingCode, booking.TableID, booking.BookingDate, booking.BookingTime)
	utils.RespondJSON(c, http.StatusCreated, "Booking created successfully", booking)
}

// CreatePhoneBooking -> staff membuat booking via telepon dari dashboard.
// Email boleh kosong; defaultnya alamat sintetis berbasis nomor telepon.
func (bc *BookingController) CreatePhoneBooking(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.BookingDate == "" {
		req.BookingDate = time.Now().Format("2006-01-02")
	}
	if req.SpecialRequests == "" {
		req.SpecialRequests = "Phone booking"
	}
	if strings.TrimSpace(req.CustomerEmail) == "" && strings.TrimSpace(req.CustomerPhone) != "" {
		req.CustomerEmail = fmt.Sprintf("%s@phone.booking", strings.TrimSpace(req.CustomerPhone))
	}

	if err := req.validate(time.Now()); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	booking, err := bc.Service.CreateBooking(req.toInput("Staff"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Phone booking %s created by staff for table %d", booking.BookingCode, booking.TableID)
	utils.RespondJSON(c, http.StatusCreated, "Booking created successfully", booking)
}

// GetBookingsForDate -> daftar booking satu tanggal (cancelled dikecualikan),
// urut berdasarkan jam. Dipakai panel kanan dashboard staff.
func (bc *BookingController) GetBookingsForDate(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	if _, err := availability.ParseDate(date); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var bookings []models.Booking
	if err := bc.DB.Where("booking_date = ? AND status <> ?", date, models.BookingCancelled).
		Find(&bookings).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	sort.Slice(bookings, func(i, j int) bool {
		return bookings[i].BookingTime < bookings[j].BookingTime
	})

	utils.RespondJSON(c, http.StatusOK, "Bookings for "+date, bookings)
}

// GetBookingByCode -> lookup booking dengan kode yang dipegang customer
func (bc *BookingController) GetBookingByCode(c *gin.Context) {
	code := strings.ToUpper(c.Param("code"))

	var booking models.Booking
	if err := bc.DB.Preload("Table").Where("booking_code = ?", code).First(&booking).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Booking detail", booking)
}

// UpdateBookingStatus -> check-in / cancel / complete dari dashboard staff
func (bc *BookingController) UpdateBookingStatus(c *gin.Context) {
	bookingID := c.Param("booking_id")
	var req struct {
		Status string `json:"status" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	switch req.Status {
	case models.BookingCheckedIn, models.BookingCompleted, models.BookingCancelled:
	default:
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("unknown target status %q", req.Status))
		return
	}

	var id uint
	if _, err := fmt.Sscanf(bookingID, "%d", &id); err != nil {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid booking id %q", bookingID))
		return
	}

	booking, err := bc.Service.TransitionBooking(id, req.Status, "Staff")
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Booking %s -> %s", booking.BookingCode, booking.Status)
	utils.RespondJSON(c, http.StatusOK, "Booking status updated", booking)
}

// timeSlotEntry adalah satu slot pada grid jam layanan wizard.
type timeSlotEntry struct {
	Time   availability.ClockTime `json:"time"`
	IsPast bool                   `json:"is_past"`
}

// GetTimeSlots -> grid slot layanan dengan flag is_past untuk tanggal terpilih
func (bc *BookingController) GetTimeSlots(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	seq, err := availability.TimeSlots(availability.DefaultOpenHour, availability.DefaultCloseHour, availability.DefaultSlotStep)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	now := time.Now()
	var slots []timeSlotEntry
	for slot := range seq {
		past, err := availability.IsSlotInPast(date, slot, now)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		slots = append(slots, timeSlotEntry{Time: slot, IsPast: past})
	}

	utils.RespondJSON(c, http.StatusOK, "Time slots for "+date, slots)
}
