package notification

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// QueueName is the durable queue push workers consume from.
const QueueName = "dinedate.notifications"

// Event is the payload published for downstream push/SMS workers.
type Event struct {
	UserID  uint                   `json:"user_id"`
	Type    string                 `json:"type"`
	Title   string                 `json:"title"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data,omitempty"`
	SentAt  string                 `json:"sent_at"`
}

// AMQPDispatcher publishes notification events to RabbitMQ. Each publish
// dials its own short-lived connection; the dispatcher never panics and
// returns errors for the caller to log and ignore.
type AMQPDispatcher struct {
	url string
}

func NewAMQPDispatcher(url string) *AMQPDispatcher {
	return &AMQPDispatcher{url: url}
}

func (d *AMQPDispatcher) Notify(ctx context.Context, userID uint, event, title, message string, data map[string]interface{}) error {
	conn, err := amqp.Dial(d.url)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; durable so events survive broker restarts.
	if _, err := ch.QueueDeclare(QueueName, true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(Event{
		UserID:  userID,
		Type:    event,
		Title:   title,
		Message: message,
		Data:    data,
		SentAt:  time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", QueueName, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}
