package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/dinebook/reservation-app/events"
	"github.com/dinebook/reservation-app/models"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// DashboardHandler -> websocket feed of booking lifecycle events for
// seller dashboards
func DashboardHandler(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	roleInterface, exists := c.Get("role")
	if !exists || roleInterface != models.RoleSeller {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	events.RegisterClient(ws, userID)

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	events.UnregisterClient(ws)
}
