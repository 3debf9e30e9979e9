package order

import (
	"context"
	"fmt"
	"time"

	"github.com/irsalhamdi/e-commerce-shop/core/cart"
	"github.com/irsalhamdi/e-commerce-shop/database"
	"github.com/irsalhamdi/e-commerce-shop/validate"
	"github.com/jmoiron/sqlx"
)

// PlaceOrder turns the cart of userID into a PENDING order in a single
// transaction: the order, one item per cart line priced at the current
// catalog price, and the emptied cart are committed together or not at all.
//
// The cart row stays locked until commit, so a concurrent PlaceOrder for the
// same user waits and then finds the cart empty.
func PlaceOrder(ctx context.Context, db *sqlx.DB, userID string) (Order, error) {
	var ord Order

	err := database.Transaction(ctx, db, func(tx sqlx.ExtContext) error {
		c, err := cart.LockByUser(ctx, tx, userID)
		if err != nil {
			return err
		}

		lines, err := cart.FetchPricedLines(ctx, tx, c.ID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return cart.ErrEmpty
		}

		now := time.Now().UTC().Truncate(time.Microsecond)
		ord = Order{
			ID:         validate.GenerateID(),
			UserID:     userID,
			Status:     Pending,
			TotalPrice: cart.Total(lines),
			CreatedAt:  now,
			UpdatedAt:  now,
			Items:      make([]Item, 0, len(lines)),
		}

		if err := Create(ctx, tx, ord); err != nil {
			return err
		}

		for i, l := range lines {
			it := Item{
				ID:              validate.GenerateID(),
				OrderID:         ord.ID,
				ProductID:       l.ProductID,
				ProductName:     l.Name,
				Quantity:        l.Quantity,
				PriceAtPurchase: l.UnitPrice,
				Position:        i,
			}

			if err := CreateItem(ctx, tx, it); err != nil {
				return err
			}
			ord.Items = append(ord.Items, it)
		}

		return cart.Clear(ctx, tx, c.ID)
	})

	if err != nil {
		return Order{}, fmt.Errorf("placing order for user[%s]: %w", userID, err)
	}
	return ord, nil
}
