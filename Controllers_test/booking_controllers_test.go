package Controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dinebook/reservation-app/controllers"
	"github.com/dinebook/reservation-app/models"
	"github.com/dinebook/reservation-app/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	os.Exit(m.Run())
}

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

// asUser injects the identity AuthMiddleware would have set.
func asUser(userID uint, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("role", role)
		c.Next()
	}
}

type scenario struct {
	seller     models.User
	customer   models.User
	restaurant models.Restaurant
	table      models.Table
}

func seedScenario(t *testing.T, db *gorm.DB) scenario {
	t.Helper()
	s := scenario{
		seller:   models.User{Name: "Seller", Email: "seller@test.dev", Password: "x", Role: models.RoleSeller},
		customer: models.User{Name: "Customer", Email: "customer@test.dev", Password: "x", Role: models.RoleCustomer},
	}
	assert.NoError(t, db.Create(&s.seller).Error)
	assert.NoError(t, db.Create(&s.customer).Error)

	s.restaurant = models.Restaurant{OwnerID: s.seller.ID, Name: "Chez Test"}
	assert.NoError(t, db.Create(&s.restaurant).Error)

	s.table = models.Table{RestaurantID: s.restaurant.ID, TableNumber: "A1", Capacity: 4}
	assert.NoError(t, db.Create(&s.table).Error)
	return s
}

func doJSON(t *testing.T, router *gin.Engine, method, url string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		assert.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req, err := http.NewRequest(method, url, body)
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateBookingEndpoint(t *testing.T) {
	db := setupTestDB(t)
	s := seedScenario(t, db)

	gin.SetMode(gin.TestMode)
	router := gin.Default()
	bookingCtrl := controllers.NewBookingController(db)
	router.POST("/bookings", asUser(s.customer.ID, models.RoleCustomer), bookingCtrl.CreateBooking)

	payload := map[string]interface{}{
		"restaurant_id":      s.restaurant.ID,
		"table_ids":          []uint{s.table.ID},
		"booking_date":       "2024-05-01",
		"booking_start_time": "18:00",
		"booking_end_time":   "19:30",
		"number_of_people":   3,
		"special_requests":   "birthday",
	}
	w := doJSON(t, router, "POST", "/bookings", payload)
	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Booking request created (pending)", response["message"])
	data := response["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["tables_booked"])
	assert.Equal(t, float64(4), data["total_seats"])

	var count int64
	db.Model(&models.Booking{}).Where("status = ?", models.BookingStatusPending).Count(&count)
	assert.Equal(t, int64(1), count)

	// Party larger than the table: rejected, nothing written.
	payload["number_of_people"] = 9
	w = doJSON(t, router, "POST", "/bookings", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	db.Model(&models.Booking{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestBookingStatusEndpoint(t *testing.T) {
	db := setupTestDB(t)
	s := seedScenario(t, db)

	gin.SetMode(gin.TestMode)
	router := gin.Default()
	bookingCtrl := controllers.NewBookingController(db)
	router.POST("/bookings", asUser(s.customer.ID, models.RoleCustomer), bookingCtrl.CreateBooking)
	router.PUT("/bookings/:booking_id/status", asUser(s.seller.ID, models.RoleSeller), bookingCtrl.UpdateBookingStatus)

	w := doJSON(t, router, "POST", "/bookings", map[string]interface{}{
		"restaurant_id":      s.restaurant.ID,
		"table_id":           s.table.ID,
		"booking_date":       "2024-05-01",
		"booking_start_time": "18:00",
		"booking_end_time":   "19:30",
		"number_of_people":   3,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var booking models.Booking
	assert.NoError(t, db.First(&booking).Error)

	url := fmt.Sprintf("/bookings/%d/status", booking.ID)
	w = doJSON(t, router, "PUT", url, map[string]string{"status": "confirmed"})
	assert.Equal(t, http.StatusOK, w.Code)

	assert.NoError(t, db.First(&booking, booking.ID).Error)
	assert.Equal(t, models.BookingStatusConfirmed, booking.Status)

	// completed -> confirmed is illegal
	w = doJSON(t, router, "PUT", url, map[string]string{"status": "completed"})
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, router, "PUT", url, map[string]string{"status": "confirmed"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAvailableTablesEndpoint(t *testing.T) {
	db := setupTestDB(t)
	s := seedScenario(t, db)

	free := models.Table{RestaurantID: s.restaurant.ID, TableNumber: "B2", Capacity: 2}
	assert.NoError(t, db.Create(&free).Error)

	confirmed := models.Booking{
		GroupID: "g1", CustomerID: s.customer.ID, RestaurantID: s.restaurant.ID,
		TableID: s.table.ID, BookingDate: "2024-05-01",
		StartTime: "18:00", EndTime: "19:30", PartySize: 4,
		Status: models.BookingStatusConfirmed,
	}
	assert.NoError(t, db.Create(&confirmed).Error)

	gin.SetMode(gin.TestMode)
	router := gin.Default()
	bookingCtrl := controllers.NewBookingController(db)
	router.GET("/restaurants/:restaurant_id/available-tables", bookingCtrl.GetAvailableTables)

	url := fmt.Sprintf("/restaurants/%d/available-tables?booking_date=2024-05-01&booking_start_time=19:00&booking_end_time=20:00", s.restaurant.ID)
	w := doJSON(t, router, "GET", url, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].([]interface{})
	assert.Len(t, data, 1)
	table := data[0].(map[string]interface{})
	assert.Equal(t, "B2", table["table_number"])

	// Malformed window
	url = fmt.Sprintf("/restaurants/%d/available-tables?booking_date=2024-05-01&booking_start_time=19:00&booking_end_time=19:00", s.restaurant.ID)
	w = doJSON(t, router, "GET", url, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteBookingEndpoint(t *testing.T) {
	db := setupTestDB(t)
	s := seedScenario(t, db)

	gin.SetMode(gin.TestMode)
	router := gin.Default()
	bookingCtrl := controllers.NewBookingController(db)
	router.POST("/bookings", asUser(s.customer.ID, models.RoleCustomer), bookingCtrl.CreateBooking)
	router.DELETE("/bookings/:booking_id", asUser(s.customer.ID, models.RoleCustomer), bookingCtrl.DeleteBooking)

	w := doJSON(t, router, "POST", "/bookings", map[string]interface{}{
		"restaurant_id":      s.restaurant.ID,
		"table_id":           s.table.ID,
		"booking_date":       "2024-05-01",
		"booking_start_time": "18:00",
		"booking_end_time":   "19:30",
		"number_of_people":   3,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var booking models.Booking
	assert.NoError(t, db.First(&booking).Error)

	w = doJSON(t, router, "DELETE", fmt.Sprintf("/bookings/%d", booking.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	err := db.First(&models.Booking{}, booking.ID).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
