package services

import (
	"context"
	"encoding/json"
	"os"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/dinebook/reservation-app/utils"
)

const bookingQueueName = "booking.events"

const (
	BookingEventCreated   = "booking.created"
	BookingEventConfirmed = "booking.confirmed"
)

// BookingEvent is the payload published to the booking.events queue when a
// reservation is created or confirmed. Downstream consumers (email,
// analytics) are outside this service.
type BookingEvent struct {
	Event        string `json:"event"`
	GroupID      string `json:"group_id,omitempty"`
	BookingID    uint   `json:"booking_id,omitempty"`
	CustomerID   uint   `json:"customer_id"`
	RestaurantID uint   `json:"restaurant_id"`
	BookingDate  string `json:"booking_date"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	PartySize    int    `json:"party_size"`
	TablesBooked int    `json:"tables_booked,omitempty"`
	OccurredAt   string `json:"occurred_at"`
}

// PublishBookingEvent publishes the event to RabbitMQ, best effort. The
// broker URL comes from RABBITMQ_URL (AMQP_URL as fallback); when neither
// is set the publisher is disabled and the call is a no-op. Errors are
// logged and returned so callers can ignore them without failing the
// request that produced the event.
func PublishBookingEvent(ctx context.Context, event BookingEvent) error {
	url := os.Getenv("RABBITMQ_URL")
	if url == "" {
		url = os.Getenv("AMQP_URL")
	}
	if url == "" {
		return nil
	}

	if event.OccurredAt == "" {
		event.OccurredAt = time.Now().UTC().Format(time.RFC3339)
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		utils.ErrorLogger.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		utils.ErrorLogger.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Durable so events survive broker restarts; declare is idempotent.
	if _, err := ch.QueueDeclare(bookingQueueName, true, false, false, false, nil); err != nil {
		utils.ErrorLogger.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		utils.ErrorLogger.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", bookingQueueName, false, false, pub); err != nil {
		utils.ErrorLogger.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}
