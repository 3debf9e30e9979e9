package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const orderColumns = `order_id, user_id, status, total_price, created_at, updated_at`

func Create(ctx context.Context, db sqlx.ExtContext, ord Order) error {
	const q = `
	INSERT INTO orders
		(order_id, user_id, status, total_price, created_at, updated_at)
	VALUES
		(:order_id, :user_id, :status, :total_price, :created_at, :updated_at)`

	if _, err := sqlx.NamedExecContext(ctx, db, q, ord); err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}
	return nil
}

func CreateItem(ctx context.Context, db sqlx.ExtContext, it Item) error {
	const q = `
	INSERT INTO order_items
		(order_item_id, order_id, product_id, quantity, price_at_purchase, position)
	VALUES
		(:order_item_id, :order_id, :product_id, :quantity, :price_at_purchase, :position)`

	if _, err := sqlx.NamedExecContext(ctx, db, q, it); err != nil {
		return fmt.Errorf("inserting item for product[%s]: %w", it.ProductID, err)
	}
	return nil
}

// Fetch returns the order with its items if it belongs to userID.
func Fetch(ctx context.Context, db sqlx.QueryerContext, orderID, userID string) (Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE order_id = $1 AND user_id = $2`

	var ord Order
	if err := sqlx.GetContext(ctx, db, &ord, q, orderID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Order{}, ErrNotFound
		}
		return Order{}, fmt.Errorf("selecting order[%s]: %w", orderID, err)
	}

	items, err := fetchItems(ctx, db, []string{ord.ID})
	if err != nil {
		return Order{}, err
	}
	ord.Items = items[ord.ID]

	return ord, nil
}

// List returns the orders of userID with their items, newest first.
func List(ctx context.Context, db sqlx.QueryerContext, userID string) ([]Order, error) {
	const q = `
	SELECT ` + orderColumns + `
	FROM orders
	WHERE user_id = $1
	ORDER BY created_at DESC, order_id`

	ords := []Order{}
	if err := sqlx.SelectContext(ctx, db, &ords, q, userID); err != nil {
		return nil, fmt.Errorf("selecting orders of user[%s]: %w", userID, err)
	}
	if len(ords) == 0 {
		return ords, nil
	}

	ids := make([]string, 0, len(ords))
	for _, o := range ords {
		ids = append(ids, o.ID)
	}

	items, err := fetchItems(ctx, db, ids)
	if err != nil {
		return nil, err
	}
	for i := range ords {
		ords[i].Items = items[ords[i].ID]
	}

	return ords, nil
}

func fetchItems(ctx context.Context, db sqlx.QueryerContext, orderIDs []string) (map[string][]Item, error) {
	const q = `
	SELECT oi.order_item_id, oi.order_id, oi.product_id, p.name, oi.quantity, oi.price_at_purchase, oi.position
	FROM order_items oi
	JOIN products p ON p.product_id = oi.product_id
	WHERE oi.order_id = ANY($1)
	ORDER BY oi.order_id, oi.position`

	var items []Item
	if err := sqlx.SelectContext(ctx, db, &items, q, pq.Array(orderIDs)); err != nil {
		return nil, fmt.Errorf("selecting order items: %w", err)
	}

	byOrder := make(map[string][]Item, len(orderIDs))
	for _, it := range items {
		byOrder[it.OrderID] = append(byOrder[it.OrderID], it)
	}
	return byOrder, nil
}

// updateStatus moves the order of userID to status `to` only if its current
// status is one of from. It returns the number of rows changed, 0 or 1.
func updateStatus(ctx context.Context, db sqlx.ExecerContext, orderID, userID string, from []string, to Status, now time.Time) (int64, error) {
	const q = `
	UPDATE orders
	SET status = $1, updated_at = $2
	WHERE order_id = $3 AND user_id = $4 AND status = ANY($5)`

	res, err := db.ExecContext(ctx, q, to, now, orderID, userID, pq.Array(from))
	if err != nil {
		return 0, fmt.Errorf("updating status of order[%s]: %w", orderID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking affected rows: %w", err)
	}
	return n, nil
}
