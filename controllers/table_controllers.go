package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dinebook/reservation-app/events"
	"github.com/dinebook/reservation-app/models"
	"github.com/dinebook/reservation-app/utils"
)

type TableController struct {
	DB *gorm.DB
}

func NewTableController(db *gorm.DB) *TableController {
	return &TableController{DB: db}
}

// GetRestaurantTables -> all tables of one restaurant
func (tc *TableController) GetRestaurantTables(c *gin.Context) {
	var tables []models.Table
	if err := tc.DB.Where("restaurant_id = ?", c.Param("restaurant_id")).
		Order("table_number").Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// CreateTable -> owning seller adds a table
func (tc *TableController) CreateTable(c *gin.Context) {
	restaurant, ok := tc.ownedRestaurant(c)
	if !ok {
		return
	}

	var req struct {
		TableNumber string `json:"table_number" binding:"required"`
		Capacity    int    `json:"capacity" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table := models.Table{
		RestaurantID: restaurant.ID,
		TableNumber:  req.TableNumber,
		Capacity:     req.Capacity,
	}
	if err := tc.DB.Create(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.NotifyUser(restaurant.OwnerID, events.Message{Event: events.EventTableCreate, Data: table})

	utils.InfoLogger.Printf("New table created: %s (restaurant=%d, capacity=%d)",
		table.TableNumber, table.RestaurantID, table.Capacity)
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

// UpdateTable -> owning seller edits number or capacity
func (tc *TableController) UpdateTable(c *gin.Context) {
	restaurant, ok := tc.ownedRestaurant(c)
	if !ok {
		return
	}

	var table models.Table
	if err := tc.DB.Where("restaurant_id = ?", restaurant.ID).
		First(&table, c.Param("table_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var req struct {
		TableNumber *string `json:"table_number"`
		Capacity    *int    `json:"capacity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.TableNumber != nil {
		table.TableNumber = *req.TableNumber
	}
	if req.Capacity != nil {
		if *req.Capacity < 1 {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("capacity must be a positive integer"))
			return
		}
		table.Capacity = *req.Capacity
	}

	if err := tc.DB.Save(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.NotifyUser(restaurant.OwnerID, events.Message{Event: events.EventTableUpdate, Data: table})
	utils.RespondJSON(c, http.StatusOK, "Table updated", table)
}

// DeleteTable -> owning seller removes a table. Blocked while confirmed
// bookings still reference it.
func (tc *TableController) DeleteTable(c *gin.Context) {
	restaurant, ok := tc.ownedRestaurant(c)
	if !ok {
		return
	}

	var table models.Table
	if err := tc.DB.Where("restaurant_id = ?", restaurant.ID).
		First(&table, c.Param("table_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var confirmed int64
	if err := tc.DB.Model(&models.Booking{}).
		Where("table_id = ? AND status = ?", table.ID, models.BookingStatusConfirmed).
		Count(&confirmed).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if confirmed > 0 {
		utils.RespondError(c, http.StatusConflict,
			fmt.Errorf("table %s has %d confirmed booking(s)", table.TableNumber, confirmed))
		return
	}

	if err := tc.DB.Delete(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.NotifyUser(restaurant.OwnerID, events.Message{Event: events.EventTableDelete, Data: gin.H{"table_id": table.ID}})

	utils.InfoLogger.Printf("Table %d deleted", table.ID)
	utils.RespondJSON(c, http.StatusOK, "Table deleted", gin.H{"id": table.ID})
}

// ownedRestaurant loads the :restaurant_id restaurant and verifies the
// caller owns it. Responds and returns false on failure.
func (tc *TableController) ownedRestaurant(c *gin.Context) (models.Restaurant, bool) {
	var restaurant models.Restaurant

	ownerID, err := currentUserID(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return restaurant, false
	}

	if err := tc.DB.First(&restaurant, c.Param("restaurant_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return restaurant, false
	}
	if restaurant.OwnerID != ownerID {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return restaurant, false
	}
	return restaurant, true
}
