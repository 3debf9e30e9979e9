package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/irsalhamdi/e-commerce-shop/database"
	"github.com/jmoiron/sqlx"
)

func Create(ctx context.Context, db sqlx.ExtContext, p Product) error {
	const q = `
	INSERT INTO products
		(product_id, name, description, price, in_stock, created_at, updated_at)
	VALUES
		(:product_id, :name, :description, :price, :in_stock, :created_at, :updated_at)`

	if _, err := sqlx.NamedExecContext(ctx, db, q, p); err != nil {
		return fmt.Errorf("inserting product: %w", err)
	}
	return nil
}

func Update(ctx context.Context, db sqlx.ExtContext, p Product) error {
	const q = `
	UPDATE products SET
		name = :name,
		description = :description,
		price = :price,
		in_stock = :in_stock,
		updated_at = :updated_at,
		version = version + 1
	WHERE product_id = :product_id`

	res, err := sqlx.NamedExecContext(ctx, db, q, p)
	if err != nil {
		return fmt.Errorf("updating product[%s]: %w", p.ID, err)
	}
	return affectedOne(res, p.ID)
}

// Delete removes the product and the cart lines holding it. Products that
// appear in any order are protected and yield ErrInUse.
func Delete(ctx context.Context, db sqlx.ExtContext, id string) error {
	const q = `DELETE FROM products WHERE product_id = $1`

	res, err := db.ExecContext(ctx, q, id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return fmt.Errorf("deleting product[%s]: %w", id, ErrInUse)
		}
		return fmt.Errorf("deleting product[%s]: %w", id, err)
	}
	return affectedOne(res, id)
}

func Fetch(ctx context.Context, db sqlx.QueryerContext, id string) (Product, error) {
	const q = `
	SELECT product_id, name, description, price, in_stock, created_at, updated_at, version
	FROM products
	WHERE product_id = $1`

	var p Product
	if err := sqlx.GetContext(ctx, db, &p, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, fmt.Errorf("fetching product[%s]: %w", id, ErrNotFound)
		}
		return Product{}, fmt.Errorf("fetching product[%s]: %w", id, err)
	}
	return p, nil
}

func List(ctx context.Context, db sqlx.QueryerContext) ([]Product, error) {
	const q = `
	SELECT product_id, name, description, price, in_stock, created_at, updated_at, version
	FROM products
	ORDER BY created_at, product_id`

	ps := []Product{}
	if err := sqlx.SelectContext(ctx, db, &ps, q); err != nil {
		return nil, fmt.Errorf("selecting products: %w", err)
	}
	return ps, nil
}

func affectedOne(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("product[%s]: %w", id, ErrNotFound)
	}
	return nil
}
