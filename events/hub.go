package events

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/dinebook/reservation-app/utils"
)

// Event types
const (
	EventBookingCreated = "booking_created"
	EventBookingStatus  = "booking_status"
	EventBookingDeleted = "booking_deleted"
	EventTableCreate    = "table_create"
	EventTableUpdate    = "table_update"
	EventTableDelete    = "table_delete"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub holds every connected dashboard client keyed by connection. Every
// event is addressed to one user, so a seller's dashboard only ever
// receives events of their own restaurants.
type Hub struct {
	clients map[*websocket.Conn]uint // conn -> user id
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]uint),
}

// RegisterClient -> add a connection for the given user
func RegisterClient(conn *websocket.Conn, userID uint) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = userID
}

// UnregisterClient -> drop a connection and close it
func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// BroadcastBookingCreated -> new reservation request on the owner's
// dashboard
func BroadcastBookingCreated(ownerID uint, data interface{}) {
	sendToUser(ownerID, Message{Event: EventBookingCreated, Data: data})
}

// BroadcastBookingStatus -> a booking moved through its lifecycle
func BroadcastBookingStatus(ownerID uint, data interface{}) {
	sendToUser(ownerID, Message{Event: EventBookingStatus, Data: data})
}

// BroadcastBookingDeleted -> a booking row was removed
func BroadcastBookingDeleted(ownerID uint, data interface{}) {
	sendToUser(ownerID, Message{Event: EventBookingDeleted, Data: data})
}

// NotifyUser -> deliver an arbitrary event to one user's connections
func NotifyUser(userID uint, msg Message) {
	sendToUser(userID, msg)
}

func sendToUser(userID uint, msg Message) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Printf("Error marshaling event: %v", err)
		return
	}

	for conn, id := range hub.clients {
		if id != userID {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.Printf("Error sending event to client: %v", err)
		}
	}
}
