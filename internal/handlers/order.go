package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/prudhivi99/shopsys-go/internal/models"
)

type OrderStore interface {
	Create(order *models.Order) error
	GetAll() ([]models.Order, error)
	GetByID(id int) (*models.Order, error)
}

type OrderPublisher interface {
	PublishOrderPlaced(order *models.Order) error
}

type OrderHandler struct {
	orders    OrderStore
	products  ProductStore
	publisher OrderPublisher
}

func NewOrderHandler(orders OrderStore, products ProductStore, pub OrderPublisher) *OrderHandler {
	return &OrderHandler{
		orders:    orders,
		products:  products,
		publisher: pub,
	}
}

// CreateOrder validates the requested items against current stock, persists
// the order with price snapshots in one transaction, then publishes it to
// the order queue for asynchronous fulfillment. Validation failures stop on
// the first bad line with no rows written. The stock check here is an
// optimistic pre-check; the worker re-checks at decrement time.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var total float64
	items := make([]models.OrderItem, 0, len(req.Items))

	for _, item := range req.Items {
		product, err := h.products.GetByID(item.ProductID)
		if err != nil {
			log.Printf("❌ Failed to look up product %d: %v", item.ProductID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to place order"})
			return
		}
		if product == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product"})
			return
		}
		if item.Quantity > product.Stock {
			c.JSON(http.StatusBadRequest, gin.H{"error": "insufficient stock"})
			return
		}

		total += float64(item.Quantity) * product.Price
		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Quantity:  item.Quantity,
			UnitPrice: product.Price,
		})
	}

	order := &models.Order{
		UserID: req.UserID,
		Total:  total,
		Status: models.OrderStatusPending,
		Items:  items,
	}

	if err := h.orders.Create(order); err != nil {
		log.Printf("❌ Failed to create order: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to place order"})
		return
	}

	if err := h.publisher.PublishOrderPlaced(order); err != nil {
		// The order row stands; fulfillment stalls until the message is
		// republished out of band.
		log.Printf("⚠️ Failed to publish order %d to queue: %v", order.ID, err)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Order placed successfully",
		"order_id": order.ID,
		"total":    order.Total,
	})
}

// ListOrders returns all orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	orders, err := h.orders.GetAll()
	if err != nil {
		log.Printf("❌ Failed to list orders: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list orders"})
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}

	c.JSON(http.StatusOK, orders)
}

// GetOrder returns a single order with items
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order ID"})
		return
	}

	order, err := h.orders.GetByID(id)
	if err != nil {
		log.Printf("❌ Failed to get order %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get order"})
		return
	}

	if order == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}

	c.JSON(http.StatusOK, order)
}
