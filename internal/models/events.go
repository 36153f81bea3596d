package models

// OrderPlacedEvent is published to the order queue when an order is placed
type OrderPlacedEvent struct {
	OrderID int              `json:"order_id"`
	Items   []OrderLineEvent `json:"items"`
}

type OrderLineEvent struct {
	ProductID int     `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}
