package db

import (
	"database/sql"
	"fmt"

	"github.com/prudhivi99/shopsys-go/internal/models"
)

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(database *PostgresDB) *OrderRepository {
	return &OrderRepository{db: database.Conn}
}

// Create inserts a new order with its items in a single transaction. The
// order carries status "pending" and the total computed at submission time.
func (r *OrderRepository) Create(order *models.Order) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	orderQuery := `INSERT INTO orders (user_id, total, status) VALUES ($1, $2, $3) RETURNING id, created_at`
	err = tx.QueryRow(orderQuery, order.UserID, order.Total, order.Status).
		Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	itemQuery := `INSERT INTO order_items (order_id, product_id, quantity, unit_price) VALUES ($1, $2, $3, $4) RETURNING id`
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
		err = tx.QueryRow(itemQuery,
			order.ID,
			order.Items[i].ProductID,
			order.Items[i].Quantity,
			order.Items[i].UnitPrice,
		).Scan(&order.Items[i].ID)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetAll returns all orders without items
func (r *OrderRepository) GetAll() ([]models.Order, error) {
	query := `SELECT id, user_id, total, status, created_at FROM orders ORDER BY id DESC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var o models.Order
		err := rows.Scan(&o.ID, &o.UserID, &o.Total, &o.Status, &o.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}

	return orders, rows.Err()
}

// GetByID returns a single order with items, nil when not found
func (r *OrderRepository) GetByID(id int) (*models.Order, error) {
	orderQuery := `SELECT id, user_id, total, status, created_at FROM orders WHERE id = $1`

	var order models.Order
	err := r.db.QueryRow(orderQuery, id).
		Scan(&order.ID, &order.UserID, &order.Total, &order.Status, &order.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	itemsQuery := `SELECT id, order_id, product_id, quantity, unit_price FROM order_items WHERE order_id = $1`

	rows, err := r.db.Query(itemsQuery, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}

	return &order, rows.Err()
}

// Fulfill applies the stock decrements for an order and marks it processed,
// all in one transaction. The status transition pending -> processed is a
// compare-and-set executed before the decrements, so a redelivered message
// finds zero rows affected and returns ErrAlreadyProcessed without touching
// stock. Each decrement is guarded by "stock >= quantity"; a guard miss
// aborts the transaction, leaving the order pending and stock untouched.
func (r *OrderRepository) Fulfill(orderID int, lines []models.OrderLineEvent) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	claimQuery := `UPDATE orders SET status = $1 WHERE id = $2 AND status = $3`
	result, err := tx.Exec(claimQuery, models.OrderStatusProcessed, orderID, models.OrderStatusPending)
	if err != nil {
		return fmt.Errorf("failed to claim order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read claim result: %w", err)
	}
	if rowsAffected == 0 {
		var status string
		err := tx.QueryRow(`SELECT status FROM orders WHERE id = $1`, orderID).Scan(&status)
		if err == sql.ErrNoRows {
			return fmt.Errorf("order %d: %w", orderID, ErrOrderNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to read order status: %w", err)
		}
		return fmt.Errorf("order %d: %w", orderID, ErrAlreadyProcessed)
	}

	decrementQuery := `UPDATE products SET stock = stock - $1 WHERE id = $2 AND stock >= $1`
	for _, line := range lines {
		result, err := tx.Exec(decrementQuery, line.Quantity, line.ProductID)
		if err != nil {
			return fmt.Errorf("failed to decrement stock for product %d: %w", line.ProductID, err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read decrement result: %w", err)
		}
		if rowsAffected == 0 {
			return fmt.Errorf("product %d: %w", line.ProductID, ErrInsufficientStock)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit fulfillment: %w", err)
	}

	return nil
}
