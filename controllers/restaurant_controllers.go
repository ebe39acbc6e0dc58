package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dinebook/reservation-app/models"
	"github.com/dinebook/reservation-app/utils"
)

type RestaurantController struct {
	DB *gorm.DB
}

func NewRestaurantController(db *gorm.DB) *RestaurantController {
	return &RestaurantController{DB: db}
}

// GetAllRestaurants -> public listing
func (rc *RestaurantController) GetAllRestaurants(c *gin.Context) {
	var restaurants []models.Restaurant
	if err := rc.DB.Preload("Owner").Find(&restaurants).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	data := make([]gin.H, 0, len(restaurants))
	for _, r := range restaurants {
		data = append(data, gin.H{
			"id":            r.ID,
			"name":          r.Name,
			"description":   r.Description,
			"address":       r.Address,
			"contact_phone": r.ContactPhone,
			"email":         r.Email,
			"cover_image":   r.CoverImage,
			"cuisine_type":  r.CuisineType,
			"seller_name":   r.Owner.Name,
		})
	}
	utils.RespondJSON(c, http.StatusOK, "List of restaurants", data)
}

// GetRestaurant -> single restaurant detail
func (rc *RestaurantController) GetRestaurant(c *gin.Context) {
	var restaurant models.Restaurant
	if err := rc.DB.Preload("Owner").First(&restaurant, c.Param("restaurant_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Restaurant detail", restaurant)
}

// CreateRestaurant -> seller registers a restaurant
func (rc *RestaurantController) CreateRestaurant(c *gin.Context) {
	ownerID, err := currentUserID(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	var req struct {
		Name         string `json:"name" binding:"required"`
		Description  string `json:"description"`
		Address      string `json:"address"`
		ContactPhone string `json:"contact_phone"`
		Email        string `json:"email"`
		CuisineType  string `json:"cuisine_type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	restaurant := models.Restaurant{
		OwnerID:      ownerID,
		Name:         req.Name,
		Description:  req.Description,
		Address:      req.Address,
		ContactPhone: req.ContactPhone,
		Email:        req.Email,
		CuisineType:  req.CuisineType,
	}
	if err := rc.DB.Create(&restaurant).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("New restaurant created: %s (owner=%d)", restaurant.Name, ownerID)
	utils.RespondJSON(c, http.StatusCreated, "Restaurant created successfully", gin.H{
		"restaurant_id": restaurant.ID,
	})
}

// UpdateRestaurant -> owning seller edits restaurant details
func (rc *RestaurantController) UpdateRestaurant(c *gin.Context) {
	ownerID, err := currentUserID(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	var restaurant models.Restaurant
	if err := rc.DB.First(&restaurant, c.Param("restaurant_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if restaurant.OwnerID != ownerID {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	var req struct {
		Name         *string `json:"name"`
		Description  *string `json:"description"`
		Address      *string `json:"address"`
		ContactPhone *string `json:"contact_phone"`
		Email        *string `json:"email"`
		CuisineType  *string `json:"cuisine_type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Name != nil {
		restaurant.Name = *req.Name
	}
	if req.Description != nil {
		restaurant.Description = *req.Description
	}
	if req.Address != nil {
		restaurant.Address = *req.Address
	}
	if req.ContactPhone != nil {
		restaurant.ContactPhone = *req.ContactPhone
	}
	if req.Email != nil {
		restaurant.Email = *req.Email
	}
	if req.CuisineType != nil {
		restaurant.CuisineType = *req.CuisineType
	}

	if err := rc.DB.Save(&restaurant).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Restaurant updated successfully", restaurant)
}
