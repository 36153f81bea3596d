package consumer

import (
	"encoding/json"
	"errors"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/prudhivi99/shopsys-go/internal/db"
	"github.com/prudhivi99/shopsys-go/internal/models"
	"github.com/prudhivi99/shopsys-go/internal/publisher"
)

// attemptsHeader counts delivery attempts across republishes.
const attemptsHeader = "x-attempts"

// OrderFulfiller applies an order's stock decrements and status transition.
type OrderFulfiller interface {
	Fulfill(orderID int, lines []models.OrderLineEvent) error
}

// Republisher puts a payload back on a queue, used for bounded retries and
// dead-lettering.
type Republisher interface {
	PublishWithHeaders(queue string, message []byte, headers amqp.Table) error
}

// OrderConsumer processes order_queue deliveries one at a time. Permanent
// failures (undecodable payload, unknown order, insufficient stock) go
// straight to the dead-letter queue; transient failures are republished with
// an incremented attempt counter until maxAttempts, then dead-lettered.
type OrderConsumer struct {
	repo        OrderFulfiller
	mq          Republisher
	maxAttempts int
}

func NewOrderConsumer(repo OrderFulfiller, mq Republisher, maxAttempts int) *OrderConsumer {
	return &OrderConsumer{
		repo:        repo,
		mq:          mq,
		maxAttempts: maxAttempts,
	}
}

// Run consumes deliveries until the channel closes
func (c *OrderConsumer) Run(messages <-chan amqp.Delivery) {
	for msg := range messages {
		c.handle(msg)
	}
}

func (c *OrderConsumer) handle(msg amqp.Delivery) {
	var event models.OrderPlacedEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		log.Printf("❌ Failed to parse order message: %v", err)
		c.deadLetter(msg)
		return
	}

	err := c.repo.Fulfill(event.OrderID, event.Items)
	switch {
	case err == nil:
		if err := msg.Ack(false); err != nil {
			log.Printf("⚠️ Failed to ack order %d: %v", event.OrderID, err)
			return
		}
		log.Printf("✅ Order %d processed", event.OrderID)

	case errors.Is(err, db.ErrAlreadyProcessed):
		// Redelivery of a message whose work already committed.
		if err := msg.Ack(false); err != nil {
			log.Printf("⚠️ Failed to ack duplicate for order %d: %v", event.OrderID, err)
			return
		}
		log.Printf("📦 Order %d already processed, dropping duplicate", event.OrderID)

	case errors.Is(err, db.ErrInsufficientStock), errors.Is(err, db.ErrOrderNotFound):
		log.Printf("❌ Order %d cannot be fulfilled: %v", event.OrderID, err)
		c.deadLetter(msg)

	default:
		attempt := deliveryAttempts(msg) + 1
		if attempt >= c.maxAttempts {
			log.Printf("❌ Order %d failed after %d attempts: %v", event.OrderID, attempt, err)
			c.deadLetter(msg)
			return
		}

		log.Printf("⚠️ Order %d failed (attempt %d/%d), requeueing: %v", event.OrderID, attempt, c.maxAttempts, err)
		headers := amqp.Table{attemptsHeader: int32(attempt)}
		if err := c.mq.PublishWithHeaders(publisher.OrderQueue, msg.Body, headers); err != nil {
			log.Printf("⚠️ Failed to requeue order %d, relying on broker redelivery: %v", event.OrderID, err)
			_ = msg.Nack(false, true)
			return
		}
		_ = msg.Ack(false)
	}
}

// deadLetter moves the payload to the dead-letter queue and acks the original.
// If the dead-letter publish fails the delivery is nacked back for redelivery
// so the message is never lost.
func (c *OrderConsumer) deadLetter(msg amqp.Delivery) {
	if err := c.mq.PublishWithHeaders(publisher.DeadLetterQueue, msg.Body, msg.Headers); err != nil {
		log.Printf("⚠️ Failed to dead-letter message: %v", err)
		_ = msg.Nack(false, true)
		return
	}
	_ = msg.Ack(false)
}

func deliveryAttempts(msg amqp.Delivery) int {
	v, ok := msg.Headers[attemptsHeader]
	if !ok {
		return 0
	}

	switch n := v.(type) {
	case int32:
		return int(n)
	case int64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}
