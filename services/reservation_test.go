package services

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dinebook/reservation-app/models"
	"github.com/dinebook/reservation-app/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	os.Exit(m.Run())
}

// setupTestDB -> in-memory SQLite with all models migrated. Each test gets
// its own named shared-cache database so connections from the pool see the
// same data.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Restaurant{},
		&models.Table{},
		&models.MenuItem{},
		&models.Booking{},
		&models.Notification{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

type fixture struct {
	seller     models.User
	customer   models.User
	restaurant models.Restaurant
	tables     []models.Table
	menu       []models.MenuItem
}

// seedFixture -> one seller with a restaurant (tables T1/2, T2/4, T3/6)
// and two menu items, plus one customer.
func seedFixture(t *testing.T, db *gorm.DB) fixture {
	t.Helper()
	f := fixture{
		seller:   models.User{Name: "Seller", Email: "seller@test.dev", Password: "x", Role: models.RoleSeller},
		customer: models.User{Name: "Customer", Email: "customer@test.dev", Password: "x", Role: models.RoleCustomer},
	}
	assert.NoError(t, db.Create(&f.seller).Error)
	assert.NoError(t, db.Create(&f.customer).Error)

	f.restaurant = models.Restaurant{OwnerID: f.seller.ID, Name: "Chez Test"}
	assert.NoError(t, db.Create(&f.restaurant).Error)

	f.tables = []models.Table{
		{RestaurantID: f.restaurant.ID, TableNumber: "T1", Capacity: 2},
		{RestaurantID: f.restaurant.ID, TableNumber: "T2", Capacity: 4},
		{RestaurantID: f.restaurant.ID, TableNumber: "T3", Capacity: 6},
	}
	assert.NoError(t, db.Create(&f.tables).Error)

	f.menu = []models.MenuItem{
		{RestaurantID: f.restaurant.ID, Name: "Soup", Price: 5},
		{RestaurantID: f.restaurant.ID, Name: "Steak", Price: 20},
	}
	assert.NoError(t, db.Create(&f.menu).Error)
	return f
}

func TestAvailableTables(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	svc := NewReservation(db)

	// Confirmed booking on T2 18:00-19:30.
	booked := models.Booking{
		GroupID: "g1", CustomerID: f.customer.ID, RestaurantID: f.restaurant.ID,
		TableID: f.tables[1].ID, BookingDate: "2024-05-01",
		StartTime: "18:00", EndTime: "19:30", PartySize: 4,
		Status: models.BookingStatusConfirmed,
	}
	assert.NoError(t, db.Create(&booked).Error)

	// Pending booking on T3 never blocks.
	pending := models.Booking{
		GroupID: "g2", CustomerID: f.customer.ID, RestaurantID: f.restaurant.ID,
		TableID: f.tables[2].ID, BookingDate: "2024-05-01",
		StartTime: "18:00", EndTime: "19:30", PartySize: 6,
		Status: models.BookingStatusPending,
	}
	assert.NoError(t, db.Create(&pending).Error)

	// Overlapping window: T2 excluded, T1 and T3 free.
	tables, err := svc.AvailableTables(f.restaurant.ID, "2024-05-01", "19:00", "20:00")
	assert.NoError(t, err)
	numbers := tableNumbers(tables)
	assert.Equal(t, []string{"T1", "T3"}, numbers)

	// Touching window (starts exactly when the other ends): no conflict.
	tables, err = svc.AvailableTables(f.restaurant.ID, "2024-05-01", "19:30", "20:30")
	assert.NoError(t, err)
	assert.Equal(t, []string{"T1", "T2", "T3"}, tableNumbers(tables))

	// Different date is unaffected.
	tables, err = svc.AvailableTables(f.restaurant.ID, "2024-05-02", "18:00", "19:00")
	assert.NoError(t, err)
	assert.Len(t, tables, 3)

	// Unknown restaurant.
	_, err = svc.AvailableTables(99999, "2024-05-01", "18:00", "19:00")
	assert.ErrorIs(t, err, ErrNotFound)

	// Degenerate window.
	_, err = svc.AvailableTables(f.restaurant.ID, "2024-05-01", "18:00", "18:00")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateBookingValidation(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	svc := NewReservation(db)

	base := CreateBookingInput{
		CustomerID:   f.customer.ID,
		RestaurantID: f.restaurant.ID,
		TableIDs:     []uint{f.tables[0].ID},
		BookingDate:  "2024-05-01",
		StartTime:    "18:00",
		EndTime:      "19:30",
		PartySize:    2,
	}

	t.Run("no tables", func(t *testing.T) {
		in := base
		in.TableIDs = nil
		_, err := svc.CreateBooking(in)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("end not after start", func(t *testing.T) {
		in := base
		in.EndTime = "18:00"
		_, err := svc.CreateBooking(in)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("non-positive party size", func(t *testing.T) {
		in := base
		in.PartySize = 0
		_, err := svc.CreateBooking(in)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("unknown restaurant", func(t *testing.T) {
		in := base
		in.RestaurantID = 99999
		_, err := svc.CreateBooking(in)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("foreign table id", func(t *testing.T) {
		other := models.Restaurant{OwnerID: f.seller.ID, Name: "Other"}
		assert.NoError(t, db.Create(&other).Error)
		foreign := models.Table{RestaurantID: other.ID, TableNumber: "X1", Capacity: 4}
		assert.NoError(t, db.Create(&foreign).Error)

		in := base
		in.TableIDs = []uint{f.tables[0].ID, foreign.ID}
		_, err := svc.CreateBooking(in)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("capacity exceeded", func(t *testing.T) {
		in := base
		in.PartySize = 3 // T1 seats 2
		_, err := svc.CreateBooking(in)
		assert.ErrorIs(t, err, ErrCapacityExceeded)
	})

	t.Run("unknown menu item", func(t *testing.T) {
		in := base
		in.OrderedItems = []models.OrderedItem{{MenuItemID: 99999, Quantity: 1}}
		_, err := svc.CreateBooking(in)
		assert.ErrorIs(t, err, ErrInvalidItem)
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		in := base
		in.OrderedItems = []models.OrderedItem{{MenuItemID: f.menu[0].ID, Quantity: 0}}
		_, err := svc.CreateBooking(in)
		assert.ErrorIs(t, err, ErrInvalidItem)
	})

	// No validation failure may leave partial state behind.
	var bookings, notifs int64
	db.Model(&models.Booking{}).Count(&bookings)
	db.Model(&models.Notification{}).Count(&notifs)
	assert.Zero(t, bookings)
	assert.Zero(t, notifs)
}

func TestCreateBookingConflict(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	svc := NewReservation(db)

	confirmed := models.Booking{
		GroupID: "g1", CustomerID: f.customer.ID, RestaurantID: f.restaurant.ID,
		TableID: f.tables[1].ID, BookingDate: "2024-05-01",
		StartTime: "18:00", EndTime: "19:30", PartySize: 4,
		Status: models.BookingStatusConfirmed,
	}
	assert.NoError(t, db.Create(&confirmed).Error)

	_, err := svc.CreateBooking(CreateBookingInput{
		CustomerID:   f.customer.ID,
		RestaurantID: f.restaurant.ID,
		TableIDs:     []uint{f.tables[1].ID},
		BookingDate:  "2024-05-01",
		StartTime:    "19:00",
		EndTime:      "20:00",
		PartySize:    2,
	})
	var conflict *ConflictError
	assert.ErrorAs(t, err, &conflict)
	assert.Equal(t, []uint{f.tables[1].ID}, conflict.TableIDs)

	// Back-to-back seating on the same table is fine.
	receipt, err := svc.CreateBooking(CreateBookingInput{
		CustomerID:   f.customer.ID,
		RestaurantID: f.restaurant.ID,
		TableIDs:     []uint{f.tables[1].ID},
		BookingDate:  "2024-05-01",
		StartTime:    "19:30",
		EndTime:      "20:30",
		PartySize:    2,
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, receipt.TablesBooked)
}

func TestCreateBookingCommit(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	svc := NewReservation(db)

	items := []models.OrderedItem{
		{MenuItemID: f.menu[0].ID, Quantity: 2},
		{MenuItemID: f.menu[1].ID, Quantity: 1},
	}
	receipt, err := svc.CreateBooking(CreateBookingInput{
		CustomerID:      f.customer.ID,
		RestaurantID:    f.restaurant.ID,
		TableIDs:        []uint{f.tables[0].ID, f.tables[1].ID},
		BookingDate:     "2024-05-01",
		StartTime:       "18:00",
		EndTime:         "19:30",
		PartySize:       6,
		SpecialRequests: "window seat",
		OrderedItems:    items,
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, receipt.TablesBooked)
	assert.Equal(t, 6, receipt.TotalSeats)
	assert.Equal(t, f.seller.ID, receipt.OwnerID)
	assert.NotEmpty(t, receipt.GroupID)

	var rows []models.Booking
	assert.NoError(t, db.Find(&rows).Error)
	assert.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, receipt.GroupID, row.GroupID)
		assert.Equal(t, models.BookingStatusPending, row.Status)
		assert.Equal(t, "2024-05-01", row.BookingDate)
		assert.Equal(t, "18:00", row.StartTime)
		assert.Equal(t, "19:30", row.EndTime)
		assert.Equal(t, 6, row.PartySize)
		assert.Equal(t, "window seat", row.SpecialRequests)
		assert.Len(t, row.OrderedItems, 2)
	}

	// Exactly one notification, addressed to the owner.
	var notifs []models.Notification
	assert.NoError(t, db.Find(&notifs).Error)
	assert.Len(t, notifs, 1)
	assert.Equal(t, f.seller.ID, notifs[0].UserID)
	assert.Equal(t, "/seller/bookings", notifs[0].Link)
	assert.False(t, notifs[0].IsRead)
}

func tableNumbers(tables []models.Table) []string {
	numbers := make([]string, 0, len(tables))
	for _, t := range tables {
		numbers = append(numbers, t.TableNumber)
	}
	return numbers
}
