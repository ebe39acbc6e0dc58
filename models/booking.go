package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCompleted = "completed"
	// BookingStatusCanceled is a request value only; a canceled booking is
	// deleted, never stored with this status.
	BookingStatusCanceled = "canceled"
)

// OrderedItem is one pre-ordered menu item attached to a booking.
type OrderedItem struct {
	MenuItemID uint `json:"id"`
	Quantity   int  `json:"quantity"`
}

// Booking is one reserved table for one time window. A reservation that
// spans several tables is stored as sibling rows sharing GroupID along
// with date, window, party size, requests and ordered items.
//
// Invariant: no two confirmed rows on the same table may have overlapping
// [start,end) windows on the same date. Touching windows are allowed.
type Booking struct {
	ID              uint                             `gorm:"primaryKey" json:"id"`
	GroupID         string                           `gorm:"type:varchar(36);not null;index" json:"group_id"`
	CustomerID      uint                             `gorm:"not null;index" json:"customer_id"`
	Customer        User                             `gorm:"foreignKey:CustomerID;references:ID" json:"-"`
	RestaurantID    uint                             `gorm:"not null;index" json:"restaurant_id"`
	Restaurant      Restaurant                       `gorm:"foreignKey:RestaurantID;references:ID" json:"-"`
	TableID         uint                             `gorm:"not null;index:idx_bookings_window" json:"table_id"`
	Table           Table                            `gorm:"foreignKey:TableID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"table"`
	BookingDate     string                           `gorm:"type:varchar(10);not null;index:idx_bookings_window" json:"booking_date"` // YYYY-MM-DD
	StartTime       string                           `gorm:"type:varchar(5);not null" json:"start_time"`                              // HH:MM, inclusive
	EndTime         string                           `gorm:"type:varchar(5);not null" json:"end_time"`                                // HH:MM, exclusive
	PartySize       int                              `gorm:"not null" json:"party_size"`
	SpecialRequests string                           `gorm:"type:text" json:"special_requests"`
	OrderedItems    datatypes.JSONSlice[OrderedItem] `json:"ordered_items"`
	Status          string                           `gorm:"type:varchar(20);not null;default:'pending';index:idx_bookings_window" json:"status"`
	CreatedAt       time.Time                        `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time                        `gorm:"not null" json:"updated_at"`
}
