package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/irsalhamdi/e-commerce-shop/api/web"
	"github.com/irsalhamdi/e-commerce-shop/api/weberr"
	"github.com/irsalhamdi/e-commerce-shop/config"
	"github.com/irsalhamdi/e-commerce-shop/core/cart"
	"github.com/irsalhamdi/e-commerce-shop/core/claims"
	"github.com/irsalhamdi/e-commerce-shop/metrics"
	"github.com/irsalhamdi/e-commerce-shop/validate"
	"github.com/jmoiron/sqlx"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/webhook"
)

const (
	CodeNoCart    = "NoCart"
	CodeEmptyCart = "EmptyCart"
)

func HandlePlace(db *sqlx.DB, m *metrics.Metrics) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		ord, err := PlaceOrder(ctx, db, clm.UserID)
		if err != nil {
			switch {
			case errors.Is(err, cart.ErrNoCart):
				return weberr.NewCodeError(err, CodeNoCart, "you do not have a cart", http.StatusUnprocessableEntity)
			case errors.Is(err, cart.ErrEmpty):
				return weberr.NewCodeError(err, CodeEmptyCart, "your cart is empty", http.StatusUnprocessableEntity)
			default:
				return err
			}
		}
		m.OrderEvents.WithLabelValues("placed").Inc()

		return web.Respond(ctx, w, ord, http.StatusCreated)
	}
}

func HandleList(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		ords, err := List(ctx, db, clm.UserID)
		if err != nil {
			return fmt.Errorf("listing orders: %w", err)
		}

		return web.Respond(ctx, w, ords, http.StatusOK)
	}
}

func HandleShow(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.NotFound(err)
		}

		ord, err := Fetch(ctx, db, id, clm.UserID)
		if err != nil {
			return lifecycleError(err, id)
		}

		return web.Respond(ctx, w, ord, http.StatusOK)
	}
}

func HandleConfirmPayment(db *sqlx.DB, n Notifier, m *metrics.Metrics) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		var pc PaymentConfirm
		if err := web.Decode(w, r, &pc); err != nil {
			return weberr.Validation(err)
		}

		if err := validate.Check(pc); err != nil {
			return weberr.Validation(err)
		}

		ord, err := ConfirmPayment(ctx, db, countingNotifier{n, m}, pc.OrderID, clm)
		if err != nil {
			return lifecycleError(err, pc.OrderID)
		}

		return web.Respond(ctx, w, ord, http.StatusOK)
	}
}

// HandleStripeWebhook confirms payments reported by signed
// payment_intent.succeeded events. The payment intent metadata carries the
// order and its owner.
func HandleStripeWebhook(db *sqlx.DB, n Notifier, m *metrics.Metrics, cfg config.Stripe) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		b, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<16))
		if err != nil {
			return weberr.BadRequest(fmt.Errorf("cannot read the request body: %w", err))
		}

		sig := r.Header.Get("Stripe-Signature")
		if sig == "" {
			return weberr.BadRequest(errors.New("received stripe event is not signed"))
		}

		event, err := webhook.ConstructEvent(b, sig, cfg.WebhookSecret)
		if err != nil {
			return weberr.BadRequest(fmt.Errorf("cannot construct stripe event: %w", err))
		}

		if event.Type != "payment_intent.succeeded" {
			return web.Respond(ctx, w, nil, http.StatusNoContent)
		}

		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode stripe event: %w", err))
		}

		orderID := pi.Metadata["order_id"]
		clm := claims.Claims{
			UserID: pi.Metadata["user_id"],
			Email:  pi.Metadata["email"],
		}
		if orderID == "" || clm.UserID == "" {
			return weberr.BadRequest(fmt.Errorf("payment intent[%s] carries no order reference", pi.ID))
		}

		if _, err := ConfirmPayment(ctx, db, countingNotifier{n, m}, orderID, clm); err != nil {
			return lifecycleError(err, orderID, weberr.WithFields(map[string]interface{}{"payment_intent": pi.ID}))
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}

func lifecycleError(err error, orderID string, opts ...weberr.Opt) error {
	opts = append(opts, weberr.WithFields(map[string]interface{}{"order_id": orderID}))

	switch {
	case errors.Is(err, ErrNotFound):
		return weberr.NotFound(err, opts...)
	case errors.Is(err, ErrInvalidTransition):
		return weberr.Conflict(err, "the order cannot be paid in its current status", opts...)
	default:
		return weberr.Wrap(err, opts...)
	}
}

// countingNotifier counts paid orders before handing them on.
type countingNotifier struct {
	Notifier
	m *metrics.Metrics
}

func (c countingNotifier) OrderPaid(ord Order, to string) {
	c.m.OrderEvents.WithLabelValues("paid").Inc()
	c.Notifier.OrderPaid(ord, to)
}
