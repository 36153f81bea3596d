package db

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/prudhivi99/shopsys-go/internal/models"
)

func TestOrderRepository_Create(t *testing.T) {
	t.Run("inserts order and items in one transaction", func(t *testing.T) {
		mockDB, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("failed to create sqlmock: %v", err)
		}
		defer mockDB.Close()

		now := time.Now()
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO orders (user_id, total, status) VALUES ($1, $2, $3) RETURNING id, created_at`)).
			WithArgs(7, 15.0, models.OrderStatusPending).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(42, now))
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO order_items (order_id, product_id, quantity, unit_price) VALUES ($1, $2, $3, $4) RETURNING id`)).
			WithArgs(42, 1, 3, 5.0).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(101))
		mock.ExpectCommit()

		repo := &OrderRepository{db: mockDB}
		order := &models.Order{
			UserID: 7,
			Total:  15.0,
			Status: models.OrderStatusPending,
			Items:  []models.OrderItem{{ProductID: 1, Quantity: 3, UnitPrice: 5.0}},
		}

		if err := repo.Create(order); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
		if order.ID != 42 {
			t.Errorf("expected order ID 42, got %d", order.ID)
		}
		if order.Items[0].OrderID != 42 {
			t.Errorf("expected item order ID 42, got %d", order.Items[0].OrderID)
		}
		if order.Items[0].ID != 101 {
			t.Errorf("expected item ID 101, got %d", order.Items[0].ID)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})

	t.Run("rolls back when an item insert fails", func(t *testing.T) {
		mockDB, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("failed to create sqlmock: %v", err)
		}
		defer mockDB.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO orders (user_id, total, status) VALUES ($1, $2, $3) RETURNING id, created_at`)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(42, time.Now()))
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO order_items (order_id, product_id, quantity, unit_price) VALUES ($1, $2, $3, $4) RETURNING id`)).
			WillReturnError(errors.New("constraint violation"))
		mock.ExpectRollback()

		repo := &OrderRepository{db: mockDB}
		order := &models.Order{
			UserID: 7,
			Total:  15.0,
			Status: models.OrderStatusPending,
			Items:  []models.OrderItem{{ProductID: 1, Quantity: 3, UnitPrice: 5.0}},
		}

		if err := repo.Create(order); err == nil {
			t.Fatal("expected error, got nil")
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})
}

func TestOrderRepository_Fulfill(t *testing.T) {
	lines := []models.OrderLineEvent{{ProductID: 1, Quantity: 3, UnitPrice: 5.0}}

	t.Run("decrements stock and marks order processed", func(t *testing.T) {
		mockDB, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("failed to create sqlmock: %v", err)
		}
		defer mockDB.Close()

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE orders SET status = $1 WHERE id = $2 AND status = $3`)).
			WithArgs(models.OrderStatusProcessed, 42, models.OrderStatusPending).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE products SET stock = stock - $1 WHERE id = $2 AND stock >= $1`)).
			WithArgs(3, 1).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		repo := &OrderRepository{db: mockDB}
		if err := repo.Fulfill(42, lines); err != nil {
			t.Fatalf("Fulfill returned error: %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})

	t.Run("redelivery of a processed order returns ErrAlreadyProcessed without decrements", func(t *testing.T) {
		mockDB, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("failed to create sqlmock: %v", err)
		}
		defer mockDB.Close()

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE orders SET status = $1 WHERE id = $2 AND status = $3`)).
			WithArgs(models.OrderStatusProcessed, 42, models.OrderStatusPending).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT status FROM orders WHERE id = $1`)).
			WithArgs(42).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(models.OrderStatusProcessed))
		mock.ExpectRollback()

		repo := &OrderRepository{db: mockDB}
		err = repo.Fulfill(42, lines)
		if !errors.Is(err, ErrAlreadyProcessed) {
			t.Fatalf("expected ErrAlreadyProcessed, got %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})

	t.Run("unknown order returns ErrOrderNotFound", func(t *testing.T) {
		mockDB, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("failed to create sqlmock: %v", err)
		}
		defer mockDB.Close()

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE orders SET status = $1 WHERE id = $2 AND status = $3`)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT status FROM orders WHERE id = $1`)).
			WithArgs(99).
			WillReturnRows(sqlmock.NewRows([]string{"status"}))
		mock.ExpectRollback()

		repo := &OrderRepository{db: mockDB}
		err = repo.Fulfill(99, lines)
		if !errors.Is(err, ErrOrderNotFound) {
			t.Fatalf("expected ErrOrderNotFound, got %v", err)
		}
	})

	t.Run("guard miss aborts the transaction with ErrInsufficientStock", func(t *testing.T) {
		mockDB, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("failed to create sqlmock: %v", err)
		}
		defer mockDB.Close()

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE orders SET status = $1 WHERE id = $2 AND status = $3`)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE products SET stock = stock - $1 WHERE id = $2 AND stock >= $1`)).
			WithArgs(3, 1).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		repo := &OrderRepository{db: mockDB}
		err = repo.Fulfill(42, lines)
		if !errors.Is(err, ErrInsufficientStock) {
			t.Fatalf("expected ErrInsufficientStock, got %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})
}
