package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dinebook/reservation-app/events"
	"github.com/dinebook/reservation-app/models"
	"github.com/dinebook/reservation-app/services"
	"github.com/dinebook/reservation-app/utils"
)

type BookingController struct {
	DB           *gorm.DB
	Reservations *services.Reservation
}

func NewBookingController(db *gorm.DB) *BookingController {
	return &BookingController{
		DB:           db,
		Reservations: services.NewReservation(db),
	}
}

// GetAvailableTables -> tables of :restaurant_id free for the requested
// window. Query params: booking_date, booking_start_time, booking_end_time.
func (bc *BookingController) GetAvailableTables(c *gin.Context) {
	restaurantID, err := paramUint(c, "restaurant_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	tables, err := bc.Reservations.AvailableTables(
		restaurantID,
		c.Query("booking_date"),
		c.Query("booking_start_time"),
		c.Query("booking_end_time"),
	)
	if err != nil {
		bc.respondReservationError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Available tables", tables)
}

// CreateBooking -> customer reserves one or more tables (pending) and the
// restaurant owner gets notified, atomically.
func (bc *BookingController) CreateBooking(c *gin.Context) {
	customerID, err := currentUserID(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	var req struct {
		RestaurantID    uint                 `json:"restaurant_id" binding:"required"`
		TableID         uint                 `json:"table_id"`
		TableIDs        []uint               `json:"table_ids"`
		BookingDate     string               `json:"booking_date" binding:"required"`
		StartTime       string               `json:"booking_start_time" binding:"required"`
		EndTime         string               `json:"booking_end_time" binding:"required"`
		PartySize       int                  `json:"number_of_people" binding:"required"`
		SpecialRequests string               `json:"special_requests"`
		MenuItems       []models.OrderedItem `json:"menu_items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	tableIDs := req.TableIDs
	if len(tableIDs) == 0 && req.TableID != 0 {
		tableIDs = []uint{req.TableID}
	}

	receipt, err := bc.Reservations.CreateBooking(services.CreateBookingInput{
		CustomerID:      customerID,
		RestaurantID:    req.RestaurantID,
		TableIDs:        tableIDs,
		BookingDate:     req.BookingDate,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		PartySize:       req.PartySize,
		SpecialRequests: req.SpecialRequests,
		OrderedItems:    req.MenuItems,
	})
	if err != nil {
		bc.respondReservationError(c, err)
		return
	}

	events.BroadcastBookingCreated(receipt.OwnerID, gin.H{
		"group_id":      receipt.GroupID,
		"restaurant_id": req.RestaurantID,
		"booking_date":  req.BookingDate,
		"start_time":    req.StartTime,
	})
	// Best effort; the booking is already committed.
	_ = services.PublishBookingEvent(c.Request.Context(), services.BookingEvent{
		Event:        services.BookingEventCreated,
		GroupID:      receipt.GroupID,
		CustomerID:   customerID,
		RestaurantID: req.RestaurantID,
		BookingDate:  req.BookingDate,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		PartySize:    req.PartySize,
		TablesBooked: receipt.TablesBooked,
	})

	utils.InfoLogger.Printf("Booking group %s created: %d table(s), %d seats",
		receipt.GroupID, receipt.TablesBooked, receipt.TotalSeats)
	utils.RespondJSON(c, http.StatusCreated, "Booking request created (pending)", receipt)
}

// GetCustomerBookings -> the caller's reservations, aggregated
func (bc *BookingController) GetCustomerBookings(c *gin.Context) {
	customerID, err := currentUserID(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	rows, err := bc.Reservations.CustomerBookings(customerID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Customer bookings", services.AggregateBookings(rows, false))
}

// GetSellerBookings -> reservations across the caller's restaurants,
// aggregated for the owner dashboard
func (bc *BookingController) GetSellerBookings(c *gin.Context) {
	ownerID, err := currentUserID(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	rows, err := bc.Reservations.RestaurantBookings(ownerID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Restaurant bookings", services.AggregateBookings(rows, true))
}

// UpdateBookingStatus -> owning seller confirms, completes or cancels
func (bc *BookingController) UpdateBookingStatus(c *gin.Context) {
	callerID, err := currentUserID(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}
	bookingID, err := paramUint(c, "booking_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := bc.Reservations.SetStatus(bookingID, callerID, req.Status); err != nil {
		bc.respondReservationError(c, err)
		return
	}

	// SetStatus only succeeds for the owning seller, so the caller is the
	// dashboard to notify.
	events.BroadcastBookingStatus(callerID, gin.H{"booking_id": bookingID, "status": req.Status})
	if req.Status == models.BookingStatusConfirmed {
		var booking models.Booking
		if err := bc.DB.First(&booking, bookingID).Error; err == nil {
			_ = services.PublishBookingEvent(c.Request.Context(), services.BookingEvent{
				Event:        services.BookingEventConfirmed,
				GroupID:      booking.GroupID,
				BookingID:    booking.ID,
				CustomerID:   booking.CustomerID,
				RestaurantID: booking.RestaurantID,
				BookingDate:  booking.BookingDate,
				StartTime:    booking.StartTime,
				EndTime:      booking.EndTime,
				PartySize:    booking.PartySize,
			})
		}
	}

	utils.InfoLogger.Printf("Booking %d status changed to %s", bookingID, req.Status)
	utils.RespondJSON(c, http.StatusOK, "Booking status updated to "+req.Status, nil)
}

// DeleteBooking -> customer removes their own booking, seller any booking
// of their restaurants; no lifecycle restriction
func (bc *BookingController) DeleteBooking(c *gin.Context) {
	callerID, err := currentUserID(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}
	bookingID, err := paramUint(c, "booking_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	role, _ := c.Get("role")
	roleStr, _ := role.(string)

	// Resolve the owner before the row disappears so the dashboard event
	// can be addressed.
	var ownerID uint
	bc.DB.Model(&models.Booking{}).
		Select("restaurants.owner_id").
		Joins("JOIN restaurants ON restaurants.id = bookings.restaurant_id").
		Where("bookings.id = ?", bookingID).
		Scan(&ownerID)

	if err := bc.Reservations.DeleteBooking(bookingID, callerID, roleStr); err != nil {
		bc.respondReservationError(c, err)
		return
	}

	events.BroadcastBookingDeleted(ownerID, gin.H{"booking_id": bookingID})
	utils.RespondJSON(c, http.StatusOK, "Booking deleted successfully", nil)
}

// respondReservationError maps engine error kinds onto HTTP statuses.
func (bc *BookingController) respondReservationError(c *gin.Context, err error) {
	var conflict *services.ConflictError
	switch {
	case errors.As(err, &conflict):
		utils.RespondError(c, http.StatusConflict, err)
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrCapacityExceeded),
		errors.Is(err, services.ErrInvalidItem),
		errors.Is(err, services.ErrInvalidTransition):
		utils.RespondError(c, http.StatusBadRequest, err)
	case errors.Is(err, services.ErrNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, services.ErrForbidden):
		utils.RespondError(c, http.StatusForbidden, err)
	default:
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}

func paramUint(c *gin.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, errors.New("invalid " + name)
	}
	return uint(v), nil
}
