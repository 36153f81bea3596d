package publisher

import (
	"encoding/json"
	"fmt"

	"github.com/prudhivi99/shopsys-go/internal/messaging"
	"github.com/prudhivi99/shopsys-go/internal/models"
)

// OrderQueue carries serialized order payloads from submission to the
// fulfillment worker. DeadLetterQueue receives payloads the worker gave up
// on.
const (
	OrderQueue      = "order_queue"
	DeadLetterQueue = "order_queue.dead"
)

type OrderPublisher struct {
	mq *messaging.RabbitMQ
}

func NewOrderPublisher(mq *messaging.RabbitMQ) (*OrderPublisher, error) {
	if err := mq.DeclareQueue(OrderQueue); err != nil {
		return nil, err
	}

	return &OrderPublisher{mq: mq}, nil
}

// PublishOrderPlaced publishes the order's line snapshots to the order queue.
// Called after the relational writes have committed.
func (p *OrderPublisher) PublishOrderPlaced(order *models.Order) error {
	event := models.OrderPlacedEvent{
		OrderID: order.ID,
	}

	for _, item := range order.Items {
		event.Items = append(event.Items, models.OrderLineEvent{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	return p.mq.Publish(OrderQueue, data)
}
