package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/joao-fontenele/order-intake/internal/domain"
)

// OrderRepository is the Postgres-backed order store. Orders live in the
// orders and order_lines tables; availability is read from items.
type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// InsertOrder stores the order with a freshly generated id and returns it.
// The caller's order is not modified.
func (r *OrderRepository) InsertOrder(ctx context.Context, order *domain.Order) (uuid.UUID, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	orderID := uuid.New()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, customer_name, order_description, order_json, order_date)
		VALUES ($1, $2, $3, $4, $5)
	`, orderID, order.CustomerName, order.OrderDescription, order.OrderJSON, order.OrderDate)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert order: %w", err)
	}

	for i, line := range order.Lines {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_lines (id, order_id, line_no, item_number, item_description, quantity, in_stock)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, uuid.New(), orderID, i, line.ItemNumber, line.ItemDescription, line.Quantity, line.InStock)
		if err != nil {
			return uuid.Nil, fmt.Errorf("insert order line %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, fmt.Errorf("commit order: %w", err)
	}

	return orderID, nil
}

func (r *OrderRepository) GetOrderDetails(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	order := &domain.Order{}

	err := r.db.QueryRowContext(ctx, `
		SELECT id, customer_name, order_description, order_json, order_date
		FROM orders
		WHERE id = $1
	`, orderID).Scan(&order.ID, &order.CustomerName, &order.OrderDescription, &order.OrderJSON, &order.OrderDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT item_number, item_description, quantity, in_stock
		FROM order_lines
		WHERE order_id = $1
		ORDER BY line_no
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	order.Lines = []domain.OrderLineItem{}
	for rows.Next() {
		var line domain.OrderLineItem
		if err := rows.Scan(&line.ItemNumber, &line.ItemDescription, &line.Quantity, &line.InStock); err != nil {
			return nil, err
		}
		order.Lines = append(order.Lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return order, nil
}

func (r *OrderRepository) ListOrders(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, customer_name, order_description, order_json, order_date
		FROM orders
		ORDER BY order_date DESC
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	orderMap := make(map[uuid.UUID]*domain.Order)
	var orderIDs []uuid.UUID

	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(&order.ID, &order.CustomerName, &order.OrderDescription, &order.OrderJSON, &order.OrderDate); err != nil {
			return nil, err
		}
		order.Lines = []domain.OrderLineItem{}
		orderMap[order.ID] = &order
		orderIDs = append(orderIDs, order.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(orderIDs) == 0 {
		return []domain.Order{}, nil
	}

	ids := make([]string, len(orderIDs))
	for i, id := range orderIDs {
		ids[i] = id.String()
	}

	lineRows, err := r.db.QueryContext(ctx, `
		SELECT order_id, item_number, item_description, quantity, in_stock
		FROM order_lines
		WHERE order_id = ANY($1::uuid[])
		ORDER BY order_id, line_no
	`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer func() { _ = lineRows.Close() }()

	for lineRows.Next() {
		var orderID uuid.UUID
		var line domain.OrderLineItem
		if err := lineRows.Scan(&orderID, &line.ItemNumber, &line.ItemDescription, &line.Quantity, &line.InStock); err != nil {
			return nil, err
		}
		if order, ok := orderMap[orderID]; ok {
			order.Lines = append(order.Lines, line)
		}
	}

	if err := lineRows.Err(); err != nil {
		return nil, err
	}

	orders := make([]domain.Order, 0, len(orderIDs))
	for _, id := range orderIDs {
		orders = append(orders, *orderMap[id])
	}

	return orders, nil
}

// QuantityAvailable reports 0 for item numbers the inventory does not know.
func (r *OrderRepository) QuantityAvailable(ctx context.Context, itemNumber int) (int, error) {
	var available int
	err := r.db.QueryRowContext(ctx, `
		SELECT available
		FROM items
		WHERE item_number = $1
	`, itemNumber).Scan(&available)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}

	return available, nil
}
