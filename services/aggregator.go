package services

import (
	"fmt"
	"sort"

	"github.com/dinebook/reservation-app/models"
)

// ReservationView is one logical reservation assembled from sibling
// per-table booking rows. Purely a read-side projection; nothing here is
// authoritative.
type ReservationView struct {
	BookingIDs      []uint               `json:"booking_ids"`
	CustomerID      uint                 `json:"customer_id"`
	CustomerName    string               `json:"customer_name,omitempty"`
	RestaurantID    uint                 `json:"restaurant_id"`
	RestaurantName  string               `json:"restaurant_name,omitempty"`
	BookingDate     string               `json:"booking_date"`
	StartTime       string               `json:"start_time"`
	EndTime         string               `json:"end_time"`
	PartySize       int                  `json:"party_size"`
	SpecialRequests string               `json:"special_requests"`
	Status          string               `json:"status"`
	TableNumbers    []string             `json:"table_numbers"`
	TotalSeats      int                  `json:"total_seats"`
	OrderedItems    []models.OrderedItem `json:"ordered_items"`
}

// statusRank orders lifecycle states by progress. A group whose rows have
// diverged reports the least advanced one.
var statusRank = map[string]int{
	models.BookingStatusPending:   0,
	models.BookingStatusConfirmed: 1,
	models.BookingStatusCompleted: 2,
}

// AggregateBookings groups raw rows sharing customer, restaurant, date and
// window into one view per logical reservation, summing seat capacities,
// collecting table numbers and merging the (identical) ordered-item lists
// of sibling rows. Owner views group across restaurants, so the
// restaurant id is left out of the key there. Idempotent and independent
// of row order.
func AggregateBookings(rows []models.Booking, ownerView bool) []ReservationView {
	grouped := make(map[string]*ReservationView)
	order := make([]string, 0)

	for _, b := range rows {
		key := fmt.Sprintf("%d|%s|%s|%s", b.CustomerID, b.BookingDate, b.StartTime, b.EndTime)
		if !ownerView {
			key = fmt.Sprintf("%d|%s", b.RestaurantID, key)
		}

		view, ok := grouped[key]
		if !ok {
			view = &ReservationView{
				CustomerID:      b.CustomerID,
				CustomerName:    b.Customer.Name,
				RestaurantID:    b.RestaurantID,
				RestaurantName:  b.Restaurant.Name,
				BookingDate:     b.BookingDate,
				StartTime:       b.StartTime,
				EndTime:         b.EndTime,
				PartySize:       b.PartySize,
				SpecialRequests: b.SpecialRequests,
				Status:          b.Status,
			}
			grouped[key] = view
			order = append(order, key)
		}

		view.BookingIDs = append(view.BookingIDs, b.ID)
		view.TableNumbers = append(view.TableNumbers, b.Table.TableNumber)
		view.TotalSeats += b.Table.Capacity
		view.OrderedItems = mergeOrderedItems(view.OrderedItems, b.OrderedItems)
		if statusRank[b.Status] < statusRank[view.Status] {
			view.Status = b.Status
		}
		if ownerView && view.RestaurantID != b.RestaurantID {
			// Same customer and window across different restaurants; keep
			// the grouping but drop the single-restaurant attribution.
			view.RestaurantID = 0
			view.RestaurantName = ""
		}
	}

	views := make([]ReservationView, 0, len(grouped))
	for _, key := range order {
		v := grouped[key]
		sort.Slice(v.BookingIDs, func(i, j int) bool { return v.BookingIDs[i] < v.BookingIDs[j] })
		sort.Strings(v.TableNumbers)
		sort.Slice(v.OrderedItems, func(i, j int) bool { return v.OrderedItems[i].MenuItemID < v.OrderedItems[j].MenuItemID })
		views = append(views, *v)
	}

	// Deterministic output regardless of input row order.
	sort.Slice(views, func(i, j int) bool {
		a, b := views[i], views[j]
		if a.BookingDate != b.BookingDate {
			return a.BookingDate < b.BookingDate
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		if a.CustomerID != b.CustomerID {
			return a.CustomerID < b.CustomerID
		}
		return a.RestaurantID < b.RestaurantID
	})
	return views
}

// mergeOrderedItems unions two item lists by menu item id. Sibling rows
// carry copies of the same list, so merging takes the larger quantity
// rather than summing; folding a list into itself is a no-op.
func mergeOrderedItems(into, from []models.OrderedItem) []models.OrderedItem {
	byID := make(map[uint]int, len(into))
	for i, item := range into {
		byID[item.MenuItemID] = i
	}
	for _, item := range from {
		if i, ok := byID[item.MenuItemID]; ok {
			if item.Quantity > into[i].Quantity {
				into[i].Quantity = item.Quantity
			}
			continue
		}
		byID[item.MenuItemID] = len(into)
		into = append(into, item)
	}
	return into
}
