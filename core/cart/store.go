package cart

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const cartColumns = `cart_id, user_id, created_at`

// insert creates the cart unless the user already has one.
func insert(ctx context.Context, db sqlx.ExtContext, c Cart) error {
	const q = `
	INSERT INTO carts (cart_id, user_id, created_at)
	VALUES (:cart_id, :user_id, :created_at)
	ON CONFLICT (user_id) DO NOTHING`

	if _, err := sqlx.NamedExecContext(ctx, db, q, c); err != nil {
		return fmt.Errorf("inserting cart: %w", err)
	}
	return nil
}

// FetchByUser returns the cart owned by userID or ErrNoCart.
func FetchByUser(ctx context.Context, db sqlx.QueryerContext, userID string) (Cart, error) {
	return fetchByUser(ctx, db, userID, "")
}

// LockByUser is FetchByUser holding an exclusive row lock on the cart until
// the transaction ends. Line mutations on the same cart wait for it.
func LockByUser(ctx context.Context, tx sqlx.QueryerContext, userID string) (Cart, error) {
	return fetchByUser(ctx, tx, userID, "FOR UPDATE")
}

func shareByUser(ctx context.Context, tx sqlx.QueryerContext, userID string) (Cart, error) {
	return fetchByUser(ctx, tx, userID, "FOR SHARE")
}

func fetchByUser(ctx context.Context, db sqlx.QueryerContext, userID string, lock string) (Cart, error) {
	q := `SELECT ` + cartColumns + ` FROM carts WHERE user_id = $1 ` + lock

	var c Cart
	if err := sqlx.GetContext(ctx, db, &c, q, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Cart{}, ErrNoCart
		}
		return Cart{}, fmt.Errorf("selecting cart of user[%s]: %w", userID, err)
	}
	return c, nil
}

// FetchPricedLines returns the lines of the cart with current catalog
// prices, oldest line first.
func FetchPricedLines(ctx context.Context, db sqlx.QueryerContext, cartID string) ([]PricedLine, error) {
	const q = `
	SELECT ci.product_id, p.name, p.price, ci.quantity
	FROM cart_items ci
	JOIN products p ON p.product_id = ci.product_id
	WHERE ci.cart_id = $1
	ORDER BY ci.created_at, ci.product_id`

	lines := []PricedLine{}
	if err := sqlx.SelectContext(ctx, db, &lines, q, cartID); err != nil {
		return nil, fmt.Errorf("selecting lines of cart[%s]: %w", cartID, err)
	}
	return lines, nil
}

// upsertLine sets the quantity of the line, creating it when missing.
func upsertLine(ctx context.Context, db sqlx.ExtContext, l Line) (created bool, err error) {
	const q = `
	INSERT INTO cart_items (cart_id, product_id, quantity, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (cart_id, product_id) DO UPDATE
	SET quantity = EXCLUDED.quantity, updated_at = EXCLUDED.updated_at
	RETURNING (xmax = 0)`

	row := db.QueryRowxContext(ctx, q, l.CartID, l.ProductID, l.Quantity, l.CreatedAt, l.UpdatedAt)
	if err := row.Scan(&created); err != nil {
		return false, fmt.Errorf("upserting product[%s] in cart[%s]: %w", l.ProductID, l.CartID, err)
	}
	return created, nil
}

func fetchLine(ctx context.Context, db sqlx.QueryerContext, cartID, productID string) (Line, error) {
	const q = `
	SELECT cart_id, product_id, quantity, created_at, updated_at
	FROM cart_items
	WHERE cart_id = $1 AND product_id = $2`

	var l Line
	if err := sqlx.GetContext(ctx, db, &l, q, cartID, productID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Line{}, ErrLineNotFound
		}
		return Line{}, fmt.Errorf("selecting product[%s] of cart[%s]: %w", productID, cartID, err)
	}
	return l, nil
}

// deleteLine removes the line only if the cart holding it belongs to userID.
func deleteLine(ctx context.Context, db sqlx.ExecerContext, userID, productID string) (int64, error) {
	const q = `
	DELETE FROM cart_items ci
	USING carts c
	WHERE ci.cart_id = c.cart_id
		AND c.user_id = $1
		AND ci.product_id = $2`

	res, err := db.ExecContext(ctx, q, userID, productID)
	if err != nil {
		return 0, fmt.Errorf("deleting product[%s] from cart of user[%s]: %w", productID, userID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking affected rows: %w", err)
	}
	return n, nil
}

// Clear deletes every line of the cart. It is meant to run inside the
// checkout transaction that turned those lines into an order.
func Clear(ctx context.Context, tx sqlx.ExecerContext, cartID string) error {
	const q = `DELETE FROM cart_items WHERE cart_id = $1`

	if _, err := tx.ExecContext(ctx, q, cartID); err != nil {
		return fmt.Errorf("clearing cart[%s]: %w", cartID, err)
	}
	return nil
}
