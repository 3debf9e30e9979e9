package order

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("order not found")

	// ErrInvalidTransition is returned when the order's current status has
	// no edge to the requested one.
	ErrInvalidTransition = errors.New("order status transition not allowed")
)

// Order is immutable once created except for Status.
type Order struct {
	ID         string          `json:"id" db:"order_id"`
	UserID     string          `json:"userId" db:"user_id"`
	Status     Status          `json:"status" db:"status"`
	TotalPrice decimal.Decimal `json:"totalPrice" db:"total_price"`
	CreatedAt  time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time       `json:"updatedAt" db:"updated_at"`
	Items      []Item          `json:"items" db:"-"`
}

// Item is the snapshot of one cart line taken when the order was placed.
type Item struct {
	ID              string          `json:"id" db:"order_item_id"`
	OrderID         string          `json:"-" db:"order_id"`
	ProductID       string          `json:"productId" db:"product_id"`
	ProductName     string          `json:"productName" db:"name"`
	Quantity        int             `json:"quantity" db:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"priceAtPurchase" db:"price_at_purchase"`
	Position        int             `json:"-" db:"position"`
}

type PaymentConfirm struct {
	OrderID string `json:"orderId" validate:"required"`
}
