package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dinebook/reservation-app/models"
	"github.com/dinebook/reservation-app/utils"
)

type MenuController struct {
	DB *gorm.DB
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db}
}

// GetRestaurantMenu -> public menu listing of one restaurant
func (mc *MenuController) GetRestaurantMenu(c *gin.Context) {
	var items []models.MenuItem
	if err := mc.DB.Where("restaurant_id = ?", c.Param("restaurant_id")).
		Order("name").Find(&items).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of menu items", items)
}

// CreateMenuItem -> owning seller adds a dish
func (mc *MenuController) CreateMenuItem(c *gin.Context) {
	restaurant, ok := mc.ownedRestaurant(c)
	if !ok {
		return
	}

	var req struct {
		Name        string  `json:"name" binding:"required"`
		Description string  `json:"description"`
		Price       float64 `json:"price" binding:"required,gt=0"`
		ImageURL    string  `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	item := models.MenuItem{
		RestaurantID: restaurant.ID,
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		ImageURL:     req.ImageURL,
	}
	if err := mc.DB.Create(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Menu item created", item)
}

// UpdateMenuItem -> owning seller edits a dish
func (mc *MenuController) UpdateMenuItem(c *gin.Context) {
	restaurant, ok := mc.ownedRestaurant(c)
	if !ok {
		return
	}

	var item models.MenuItem
	if err := mc.DB.Where("restaurant_id = ?", restaurant.ID).
		First(&item, c.Param("item_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var req struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
		ImageURL    *string  `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("price must be positive"))
			return
		}
		item.Price = *req.Price
	}
	if req.ImageURL != nil {
		item.ImageURL = *req.ImageURL
	}

	if err := mc.DB.Save(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu item updated", item)
}

// DeleteMenuItem -> owning seller removes a dish
func (mc *MenuController) DeleteMenuItem(c *gin.Context) {
	restaurant, ok := mc.ownedRestaurant(c)
	if !ok {
		return
	}

	var item models.MenuItem
	if err := mc.DB.Where("restaurant_id = ?", restaurant.ID).
		First(&item, c.Param("item_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if err := mc.DB.Delete(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu item deleted", gin.H{"id": item.ID})
}

func (mc *MenuController) ownedRestaurant(c *gin.Context) (models.Restaurant, bool) {
	var restaurant models.Restaurant

	ownerID, err := currentUserID(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return restaurant, false
	}

	if err := mc.DB.First(&restaurant, c.Param("restaurant_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return restaurant, false
	}
	if restaurant.OwnerID != ownerID {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return restaurant, false
	}
	return restaurant, true
}
