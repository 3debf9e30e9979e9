package order

import (
	"context"
	"fmt"
	"time"

	"github.com/irsalhamdi/e-commerce-shop/core/claims"
	"github.com/irsalhamdi/e-commerce-shop/validate"
	"github.com/jmoiron/sqlx"
)

// Notifier is told about orders that just became paid. It must not block
// and has no way to fail the transition.
type Notifier interface {
	OrderPaid(ord Order, to string)
}

// ConfirmPayment marks the order of clm.UserID as PAID. Confirming an order
// that is already PAID succeeds without side effects, so only the call that
// performed the PENDING→PAID edge notifies.
func ConfirmPayment(ctx context.Context, db sqlx.ExtContext, n Notifier, orderID string, clm claims.Claims) (Order, error) {
	ord, changed, err := Transition(ctx, db, orderID, clm.UserID, Paid)
	if err != nil {
		return Order{}, fmt.Errorf("confirming payment of order[%s]: %w", orderID, err)
	}

	if changed {
		n.OrderPaid(ord, clm.Email)
	}
	return ord, nil
}

// Transition moves the order of userID to status `to`. An order already in
// `to` is returned unchanged with changed == false. ErrInvalidTransition is
// returned when the current status has no edge to `to`.
func Transition(ctx context.Context, db sqlx.ExtContext, orderID, userID string, to Status) (ord Order, changed bool, err error) {
	if err := validate.CheckID(orderID); err != nil {
		return Order{}, false, ErrNotFound
	}

	from := sources(to)
	if len(from) == 0 {
		return Order{}, false, fmt.Errorf("status %s: %w", to, ErrInvalidTransition)
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	n, err := updateStatus(ctx, db, orderID, userID, from, to, now)
	if err != nil {
		return Order{}, false, err
	}

	ord, err = Fetch(ctx, db, orderID, userID)
	if err != nil {
		return Order{}, false, err
	}

	if n == 1 {
		return ord, true, nil
	}

	if ord.Status == to {
		return ord, false, nil
	}
	return Order{}, false, fmt.Errorf("order[%s] is %s: %w", orderID, ord.Status, ErrInvalidTransition)
}
