package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/prudhivi99/shopsys-go/internal/models"
)

type fakeProductStore struct {
	products map[int]models.Product
}

func (f *fakeProductStore) GetAll() ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProductStore) GetByID(id int) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakeProductStore) Create(req models.CreateProductRequest) (*models.Product, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeProductStore) Delete(id int) error {
	return errors.New("not implemented")
}

type fakeOrderStore struct {
	created []*models.Order
	err     error
}

func (f *fakeOrderStore) Create(order *models.Order) error {
	if f.err != nil {
		return f.err
	}
	order.ID = 42
	f.created = append(f.created, order)
	return nil
}

func (f *fakeOrderStore) GetAll() ([]models.Order, error) { return nil, nil }

func (f *fakeOrderStore) GetByID(id int) (*models.Order, error) { return nil, nil }

type fakeOrderPublisher struct {
	published []*models.Order
	err       error
}

func (f *fakeOrderPublisher) PublishOrderPlaced(order *models.Order) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, order)
	return nil
}

func newOrderRouter(orders *fakeOrderStore, products *fakeProductStore, pub *fakeOrderPublisher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewOrderHandler(orders, products, pub)
	router.POST("/orders", handler.CreateOrder)
	return router
}

func postOrder(t *testing.T, router *gin.Engine, body any) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestOrderHandler_CreateOrder(t *testing.T) {
	t.Run("valid order is persisted and published with the computed total", func(t *testing.T) {
		products := &fakeProductStore{products: map[int]models.Product{
			1: {ID: 1, Name: "widget", Price: 5.0, Stock: 10},
		}}
		orders := &fakeOrderStore{}
		pub := &fakeOrderPublisher{}
		router := newOrderRouter(orders, products, pub)

		rec := postOrder(t, router, models.CreateOrderRequest{
			UserID: 7,
			Items:  []models.CreateOrderItemRequest{{ProductID: 1, Quantity: 3}},
		})

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp struct {
			OrderID int     `json:"order_id"`
			Total   float64 `json:"total"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.OrderID != 42 {
			t.Errorf("expected order id 42, got %d", resp.OrderID)
		}
		if resp.Total != 15.0 {
			t.Errorf("expected total 15.0, got %f", resp.Total)
		}

		if len(orders.created) != 1 {
			t.Fatalf("expected one order created, got %d", len(orders.created))
		}
		created := orders.created[0]
		if created.Status != models.OrderStatusPending {
			t.Errorf("expected status pending, got %s", created.Status)
		}
		if len(created.Items) != 1 || created.Items[0].UnitPrice != 5.0 {
			t.Errorf("expected one item with unit price snapshot 5.0, got %+v", created.Items)
		}

		if len(pub.published) != 1 || pub.published[0].ID != 42 {
			t.Fatalf("expected exactly one publish for order 42, got %+v", pub.published)
		}
	})

	t.Run("unknown product fails with 400 and no writes", func(t *testing.T) {
		products := &fakeProductStore{products: map[int]models.Product{}}
		orders := &fakeOrderStore{}
		pub := &fakeOrderPublisher{}
		router := newOrderRouter(orders, products, pub)

		rec := postOrder(t, router, models.CreateOrderRequest{
			UserID: 7,
			Items:  []models.CreateOrderItemRequest{{ProductID: 99, Quantity: 1}},
		})

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
		if rec.Body.String() != `{"error":"invalid product"}` {
			t.Errorf("unexpected body: %s", rec.Body.String())
		}
		if len(orders.created) != 0 || len(pub.published) != 0 {
			t.Error("expected no order created and nothing published")
		}
	})

	t.Run("quantity above stock fails with 400 and no writes", func(t *testing.T) {
		products := &fakeProductStore{products: map[int]models.Product{
			1: {ID: 1, Name: "widget", Price: 5.0, Stock: 7},
		}}
		orders := &fakeOrderStore{}
		pub := &fakeOrderPublisher{}
		router := newOrderRouter(orders, products, pub)

		rec := postOrder(t, router, models.CreateOrderRequest{
			UserID: 7,
			Items:  []models.CreateOrderItemRequest{{ProductID: 1, Quantity: 999}},
		})

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
		if rec.Body.String() != `{"error":"insufficient stock"}` {
			t.Errorf("unexpected body: %s", rec.Body.String())
		}
		if len(orders.created) != 0 || len(pub.published) != 0 {
			t.Error("expected no order created and nothing published")
		}
	})

	t.Run("validation stops at the first bad line", func(t *testing.T) {
		products := &fakeProductStore{products: map[int]models.Product{
			1: {ID: 1, Name: "widget", Price: 5.0, Stock: 10},
		}}
		orders := &fakeOrderStore{}
		pub := &fakeOrderPublisher{}
		router := newOrderRouter(orders, products, pub)

		rec := postOrder(t, router, models.CreateOrderRequest{
			UserID: 7,
			Items: []models.CreateOrderItemRequest{
				{ProductID: 1, Quantity: 1},
				{ProductID: 99, Quantity: 1},
			},
		})

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
		if len(orders.created) != 0 {
			t.Error("expected no order created")
		}
	})

	t.Run("empty items are rejected by binding", func(t *testing.T) {
		router := newOrderRouter(&fakeOrderStore{}, &fakeProductStore{}, &fakeOrderPublisher{})

		rec := postOrder(t, router, map[string]any{"user_id": 7, "items": []any{}})

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
	})

	t.Run("persistence failure surfaces as 500 and publishes nothing", func(t *testing.T) {
		products := &fakeProductStore{products: map[int]models.Product{
			1: {ID: 1, Name: "widget", Price: 5.0, Stock: 10},
		}}
		orders := &fakeOrderStore{err: errors.New("connection refused")}
		pub := &fakeOrderPublisher{}
		router := newOrderRouter(orders, products, pub)

		rec := postOrder(t, router, models.CreateOrderRequest{
			UserID: 7,
			Items:  []models.CreateOrderItemRequest{{ProductID: 1, Quantity: 1}},
		})

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected status 500, got %d", rec.Code)
		}
		if len(pub.published) != 0 {
			t.Error("expected nothing published")
		}
	})

	t.Run("publish failure still returns 201", func(t *testing.T) {
		products := &fakeProductStore{products: map[int]models.Product{
			1: {ID: 1, Name: "widget", Price: 5.0, Stock: 10},
		}}
		orders := &fakeOrderStore{}
		pub := &fakeOrderPublisher{err: errors.New("broker down")}
		router := newOrderRouter(orders, products, pub)

		rec := postOrder(t, router, models.CreateOrderRequest{
			UserID: 7,
			Items:  []models.CreateOrderItemRequest{{ProductID: 1, Quantity: 1}},
		})

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d", rec.Code)
		}
		if len(orders.created) != 1 {
			t.Error("expected order to be created")
		}
	})
}
