package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dinebook/reservation-app/models"
)

// Reservation is the table reservation engine: availability queries,
// atomic multi-table booking commits and the booking status lifecycle.
// All mutation of bookings goes through this service so the non-overlap
// invariant holds.
type Reservation struct {
	DB *gorm.DB
}

func NewReservation(db *gorm.DB) *Reservation {
	return &Reservation{DB: db}
}

// CreateBookingInput carries one reservation request. A request may span
// several tables; all of them share the same window and party.
type CreateBookingInput struct {
	CustomerID      uint
	RestaurantID    uint
	TableIDs        []uint
	BookingDate     string // YYYY-MM-DD
	StartTime       string // HH:MM
	EndTime         string // HH:MM, exclusive
	PartySize       int
	SpecialRequests string
	OrderedItems    []models.OrderedItem
}

// BookingReceipt reports what a successful CreateBooking committed.
// OwnerID identifies the notified restaurant owner; it is for internal
// event routing and stays out of the response body.
type BookingReceipt struct {
	GroupID      string `json:"group_id"`
	TablesBooked int    `json:"tables_booked"`
	TotalSeats   int    `json:"total_seats"`
	OwnerID      uint   `json:"-"`
}

// AvailableTables -> tables of the restaurant with no confirmed booking
// overlapping [startTime, endTime) on the given date. Two windows overlap
// iff NOT (end1 <= start2 OR start1 >= end2); touching endpoints do not
// conflict, so back-to-back seatings work. Pending bookings never block.
func (r *Reservation) AvailableTables(restaurantID uint, date, startTime, endTime string) ([]models.Table, error) {
	if err := validateWindow(date, startTime, endTime); err != nil {
		return nil, err
	}

	var restaurant models.Restaurant
	if err := r.DB.First(&restaurant, restaurantID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: restaurant %d", ErrNotFound, restaurantID)
		}
		return nil, err
	}

	conflicting := r.DB.Model(&models.Booking{}).
		Select("table_id").
		Where("status = ? AND booking_date = ?", models.BookingStatusConfirmed, date).
		Where("NOT (end_time <= ? OR start_time >= ?)", startTime, endTime)

	var tables []models.Table
	err := r.DB.
		Where("restaurant_id = ?", restaurantID).
		Where("id NOT IN (?)", conflicting).
		Order("table_number").
		Find(&tables).Error
	if err != nil {
		return nil, err
	}
	return tables, nil
}

// CreateBooking validates the request and commits one pending row per
// requested table plus one notification to the restaurant owner, all in a
// single transaction. Validation order and error kinds:
//
//	1. input shape                -> ErrInvalidInput
//	2. table ownership            -> ErrNotFound
//	3. capacity sum >= party size -> ErrCapacityExceeded
//	4. confirmed-window overlap   -> ConflictError (offending table ids)
//	5. ordered items              -> ErrInvalidItem
//
// Any storage failure rolls the whole transaction back and surfaces as
// ErrTransactionFailed; no partial state is ever visible.
func (r *Reservation) CreateBooking(input CreateBookingInput) (BookingReceipt, error) {
	if len(input.TableIDs) == 0 {
		return BookingReceipt{}, fmt.Errorf("%w: at least one table id is required", ErrInvalidInput)
	}
	if err := validateWindow(input.BookingDate, input.StartTime, input.EndTime); err != nil {
		return BookingReceipt{}, err
	}
	if input.PartySize < 1 {
		return BookingReceipt{}, fmt.Errorf("%w: party size must be a positive integer", ErrInvalidInput)
	}

	var receipt BookingReceipt
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var restaurant models.Restaurant
		if err := tx.First(&restaurant, input.RestaurantID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("%w: restaurant %d", ErrNotFound, input.RestaurantID)
			}
			return fmt.Errorf("%w: %v", ErrTransactionFailed, err)
		}

		var tables []models.Table
		if err := tx.Where("restaurant_id = ? AND id IN ?", input.RestaurantID, input.TableIDs).
			Find(&tables).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrTransactionFailed, err)
		}
		if len(tables) != len(uniqueIDs(input.TableIDs)) {
			return fmt.Errorf("%w: one or more table ids invalid", ErrNotFound)
		}

		totalSeats := 0
		for _, t := range tables {
			totalSeats += t.Capacity
		}
		if totalSeats < input.PartySize {
			return fmt.Errorf("%w: %d seats for party of %d", ErrCapacityExceeded, totalSeats, input.PartySize)
		}

		var conflicting []uint
		if err := tx.Model(&models.Booking{}).
			Distinct("table_id").
			Where("table_id IN ? AND status = ? AND booking_date = ?",
				input.TableIDs, models.BookingStatusConfirmed, input.BookingDate).
			Where("NOT (end_time <= ? OR start_time >= ?)", input.StartTime, input.EndTime).
			Pluck("table_id", &conflicting).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrTransactionFailed, err)
		}
		if len(conflicting) > 0 {
			return &ConflictError{TableIDs: conflicting}
		}

		if err := validateOrderedItems(tx, input.RestaurantID, input.OrderedItems); err != nil {
			return err
		}

		groupID := uuid.NewString()
		now := time.Now()
		bookings := make([]models.Booking, 0, len(tables))
		for _, t := range tables {
			bookings = append(bookings, models.Booking{
				GroupID:         groupID,
				CustomerID:      input.CustomerID,
				RestaurantID:    input.RestaurantID,
				TableID:         t.ID,
				BookingDate:     input.BookingDate,
				StartTime:       input.StartTime,
				EndTime:         input.EndTime,
				PartySize:       input.PartySize,
				SpecialRequests: input.SpecialRequests,
				OrderedItems:    input.OrderedItems,
				Status:          models.BookingStatusPending,
				CreatedAt:       now,
				UpdatedAt:       now,
			})
		}
		if err := tx.Create(&bookings).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrTransactionFailed, err)
		}

		notif := models.Notification{
			UserID:  restaurant.OwnerID,
			Message: fmt.Sprintf("New booking request on %s @ %s.", input.BookingDate, input.StartTime),
			Link:    "/seller/bookings",
		}
		if err := tx.Create(&notif).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrTransactionFailed, err)
		}

		receipt = BookingReceipt{
			GroupID:      groupID,
			TablesBooked: len(bookings),
			TotalSeats:   totalSeats,
			OwnerID:      restaurant.OwnerID,
		}
		return nil
	})
	if err != nil {
		return BookingReceipt{}, err
	}
	return receipt, nil
}

// CustomerBookings -> raw booking rows of one customer, newest first.
func (r *Reservation) CustomerBookings(customerID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.DB.Preload("Table").Preload("Restaurant").
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

// RestaurantBookings -> raw booking rows across all restaurants owned by
// the given seller, newest first.
func (r *Reservation) RestaurantBookings(ownerID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.DB.Preload("Table").Preload("Customer").Preload("Restaurant").
		Joins("JOIN restaurants ON restaurants.id = bookings.restaurant_id").
		Where("restaurants.owner_id = ?", ownerID).
		Order("bookings.created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

func validateOrderedItems(tx *gorm.DB, restaurantID uint, items []models.OrderedItem) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		if item.Quantity < 1 {
			return fmt.Errorf("%w: quantity for menu item %d must be a positive integer", ErrInvalidItem, item.MenuItemID)
		}
		ids = append(ids, item.MenuItemID)
	}
	var count int64
	if err := tx.Model(&models.MenuItem{}).
		Where("restaurant_id = ? AND id IN ?", restaurantID, ids).
		Count(&count).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrTransactionFailed, err)
	}
	if count != int64(len(uniqueIDs(ids))) {
		return fmt.Errorf("%w: one or more menu item ids invalid", ErrInvalidItem)
	}
	return nil
}

// validateWindow checks formats and that the window is half-open with a
// strictly later end.
func validateWindow(date, startTime, endTime string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("%w: booking date must be YYYY-MM-DD", ErrInvalidInput)
	}
	if _, err := time.Parse("15:04", startTime); err != nil {
		return fmt.Errorf("%w: start time must be HH:MM", ErrInvalidInput)
	}
	if _, err := time.Parse("15:04", endTime); err != nil {
		return fmt.Errorf("%w: end time must be HH:MM", ErrInvalidInput)
	}
	if endTime <= startTime {
		return fmt.Errorf("%w: end time must be after start time", ErrInvalidInput)
	}
	return nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
