package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dinebook/reservation-app/models"
	"github.com/dinebook/reservation-app/utils"
)

type NotificationController struct {
	DB *gorm.DB
}

func NewNotificationController(db *gorm.DB) *NotificationController {
	return &NotificationController{DB: db}
}

// GetMyNotifications -> the caller's notifications, newest first
func (nc *NotificationController) GetMyNotifications(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	var notifs []models.Notification
	if err := nc.DB.Where("user_id = ?", userID).
		Order("created_at DESC").Find(&notifs).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notifications", notifs)
}

// GetUnreadCount -> badge counter
func (nc *NotificationController) GetUnreadCount(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	var count int64
	if err := nc.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Unread notifications", gin.H{"count": count})
}

// MarkRead -> flag one of the caller's notifications as read
func (nc *NotificationController) MarkRead(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	var notif models.Notification
	if err := nc.DB.Where("user_id = ?", userID).
		First(&notif, c.Param("notification_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	notif.IsRead = true
	if err := nc.DB.Save(&notif).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notification marked as read", notif)
}
