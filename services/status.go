package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/dinebook/reservation-app/models"
)

// legalTransitions is the lifecycle state graph. Cancellation deletes the
// row instead of storing a terminal state; completed is a dead end.
var legalTransitions = map[string][]string{
	models.BookingStatusPending: {
		models.BookingStatusConfirmed,
		models.BookingStatusCompleted,
		models.BookingStatusCanceled,
	},
	models.BookingStatusConfirmed: {
		models.BookingStatusCompleted,
		models.BookingStatusCanceled,
	},
	models.BookingStatusCompleted: {},
}

func transitionAllowed(from, to string) bool {
	for _, next := range legalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// SetStatus moves one booking through its lifecycle. The caller must own
// the booking's restaurant. Confirmation re-runs the overlap check against
// other confirmed bookings on the same table, so two overlapping pending
// requests cannot both be confirmed; the second one fails with a
// ConflictError. A confirmation also notifies the customer.
func (r *Reservation) SetStatus(bookingID, callerID uint, newStatus string) error {
	switch newStatus {
	case models.BookingStatusPending, models.BookingStatusConfirmed,
		models.BookingStatusCompleted, models.BookingStatusCanceled:
	default:
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, newStatus)
	}

	return r.DB.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.First(&booking, bookingID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("%w: booking %d", ErrNotFound, bookingID)
			}
			return fmt.Errorf("%w: %v", ErrTransactionFailed, err)
		}

		var restaurant models.Restaurant
		if err := tx.First(&restaurant, booking.RestaurantID).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrTransactionFailed, err)
		}
		if restaurant.OwnerID != callerID {
			return fmt.Errorf("%w: caller does not own this restaurant", ErrForbidden)
		}

		if !transitionAllowed(booking.Status, newStatus) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, newStatus)
		}

		if newStatus == models.BookingStatusCanceled {
			if err := tx.Delete(&booking).Error; err != nil {
				return fmt.Errorf("%w: %v", ErrTransactionFailed, err)
			}
			return nil
		}

		if newStatus == models.BookingStatusConfirmed {
			// An overlapping request confirmed since this one was created
			// would otherwise be silently double-booked.
			var count int64
			if err := tx.Model(&models.Booking{}).
				Where("table_id = ? AND status = ? AND booking_date = ? AND id <> ?",
					booking.TableID, models.BookingStatusConfirmed, booking.BookingDate, booking.ID).
				Where("NOT (end_time <= ? OR start_time >= ?)", booking.StartTime, booking.EndTime).
				Count(&count).Error; err != nil {
				return fmt.Errorf("%w: %v", ErrTransactionFailed, err)
			}
			if count > 0 {
				return &ConflictError{TableIDs: []uint{booking.TableID}}
			}
		}

		booking.Status = newStatus
		if err := tx.Save(&booking).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrTransactionFailed, err)
		}

		if newStatus == models.BookingStatusConfirmed {
			notif := models.Notification{
				UserID:  booking.CustomerID,
				Message: fmt.Sprintf("Your booking on %s @ %s has been confirmed!", booking.BookingDate, booking.StartTime),
				Link:    "/profile",
			}
			if err := tx.Create(&notif).Error; err != nil {
				return fmt.Errorf("%w: %v", ErrTransactionFailed, err)
			}
		}
		return nil
	})
}

// DeleteBooking removes one booking row regardless of its status. The
// customer may delete their own rows, the owning seller any row of their
// restaurants. Deliberately more permissive than SetStatus: no lifecycle
// restriction applies.
func (r *Reservation) DeleteBooking(bookingID, callerID uint, role string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.First(&booking, bookingID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("%w: booking %d", ErrNotFound, bookingID)
			}
			return fmt.Errorf("%w: %v", ErrTransactionFailed, err)
		}

		switch role {
		case models.RoleCustomer:
			if booking.CustomerID != callerID {
				return fmt.Errorf("%w: booking belongs to another customer", ErrForbidden)
			}
		case models.RoleSeller:
			var restaurant models.Restaurant
			if err := tx.First(&restaurant, booking.RestaurantID).Error; err != nil {
				return fmt.Errorf("%w: %v", ErrTransactionFailed, err)
			}
			if restaurant.OwnerID != callerID {
				return fmt.Errorf("%w: caller does not own this restaurant", ErrForbidden)
			}
		default:
			return fmt.Errorf("%w: unknown role %q", ErrForbidden, role)
		}

		if err := tx.Delete(&booking).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrTransactionFailed, err)
		}
		return nil
	})
}
