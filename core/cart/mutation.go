package cart

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/irsalhamdi/e-commerce-shop/core/product"
	"github.com/irsalhamdi/e-commerce-shop/database"
	"github.com/irsalhamdi/e-commerce-shop/validate"
	"github.com/jmoiron/sqlx"
)

// GetOrCreate returns the cart of userID, creating an empty one on first
// access. Concurrent callers for the same user get the same cart.
func GetOrCreate(ctx context.Context, db sqlx.ExtContext, userID string) (Cart, error) {
	c := Cart{
		ID:        validate.GenerateID(),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	if err := insert(ctx, db, c); err != nil {
		return Cart{}, err
	}

	c, err := FetchByUser(ctx, db, userID)
	if err != nil {
		return Cart{}, fmt.Errorf("fetching cart of user[%s]: %w", userID, err)
	}
	return c, nil
}

// Show returns the cart of userID with its lines priced at the current
// catalog prices.
func Show(ctx context.Context, db sqlx.ExtContext, userID string) (View, error) {
	c, err := GetOrCreate(ctx, db, userID)
	if err != nil {
		return View{}, err
	}

	lines, err := FetchPricedLines(ctx, db, c.ID)
	if err != nil {
		return View{}, err
	}

	return newView(c, lines), nil
}

// SetLine sets the quantity of productID in the cart of userID to exactly
// quantity. Repeating the call converges on the same state. created reports
// whether the line did not exist before.
func SetLine(ctx context.Context, db *sqlx.DB, userID, productID string, quantity int) (l Line, created bool, err error) {
	if quantity < 1 || quantity > math.MaxInt32 {
		return Line{}, false, ErrInvalidQuantity
	}

	if err := validate.CheckID(productID); err != nil {
		return Line{}, false, fmt.Errorf("product[%s]: %w", productID, product.ErrNotFound)
	}

	err = database.Transaction(ctx, db, func(tx sqlx.ExtContext) error {
		if _, err := product.Fetch(ctx, tx, productID); err != nil {
			return err
		}

		if _, err := GetOrCreate(ctx, tx, userID); err != nil {
			return err
		}

		// Shared lock: setters of one cart run side by side, a checkout of
		// the cart excludes them.
		c, err := shareByUser(ctx, tx, userID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		created, err = upsertLine(ctx, tx, Line{
			CartID:    c.ID,
			ProductID: productID,
			Quantity:  quantity,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			if database.IsForeignKeyViolation(err) {
				return fmt.Errorf("product[%s]: %w", productID, product.ErrNotFound)
			}
			return err
		}

		l, err = fetchLine(ctx, tx, c.ID, productID)
		return err
	})
	if err != nil {
		return Line{}, false, fmt.Errorf("setting product[%s] in cart of user[%s]: %w", productID, userID, err)
	}

	return l, created, nil
}

// RemoveLine deletes productID from the cart of userID. ErrLineNotFound is
// returned when there is nothing to delete, including when the line belongs
// to somebody else's cart. Like SetLine it holds a shared lock on the cart,
// so a running checkout either sees the line gone or removes it first.
func RemoveLine(ctx context.Context, db *sqlx.DB, userID, productID string) error {
	if err := validate.CheckID(productID); err != nil {
		return ErrLineNotFound
	}

	err := database.Transaction(ctx, db, func(tx sqlx.ExtContext) error {
		if _, err := shareByUser(ctx, tx, userID); err != nil {
			if errors.Is(err, ErrNoCart) {
				return ErrLineNotFound
			}
			return err
		}

		n, err := deleteLine(ctx, tx, userID, productID)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrLineNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("removing product[%s] from cart of user[%s]: %w", productID, userID, err)
	}
	return nil
}

// IsNotFound reports whether err means the product or the line is absent.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrLineNotFound) || errors.Is(err, product.ErrNotFound)
}
