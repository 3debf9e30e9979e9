package cart

import (
	"errors"
	"time"

	"github.com/irsalhamdi/e-commerce-shop/core/product"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidQuantity rejects quantities below one. Zero is not a
	// removal.
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")

	ErrNoCart       = errors.New("user has no cart")
	ErrEmpty        = errors.New("cart is empty")
	ErrLineNotFound = errors.New("item not found in cart")
)

type Cart struct {
	ID        string    `json:"id" db:"cart_id"`
	UserID    string    `json:"-" db:"user_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Line is one product of a cart. A product appears at most once per cart.
type Line struct {
	CartID    string    `json:"-" db:"cart_id"`
	ProductID string    `json:"productId" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// PricedLine is a line joined with the current catalog entry.
type PricedLine struct {
	ProductID string          `db:"product_id"`
	Name      string          `db:"name"`
	UnitPrice decimal.Decimal `db:"price"`
	Quantity  int             `db:"quantity"`
}

type LineView struct {
	Product  product.Summary `json:"product"`
	Quantity int             `json:"quantity"`
}

type View struct {
	ID         string          `json:"id"`
	Items      []LineView      `json:"items"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

type ItemSet struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=1"`
}

// Total is Σ unit price × quantity over lines.
func Total(lines []PricedLine) decimal.Decimal {
	tot := decimal.Zero
	for _, l := range lines {
		tot = tot.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return tot
}

func newView(c Cart, lines []PricedLine) View {
	items := make([]LineView, 0, len(lines))
	for _, l := range lines {
		items = append(items, LineView{
			Product: product.Summary{
				ID:    l.ProductID,
				Name:  l.Name,
				Price: l.UnitPrice,
			},
			Quantity: l.Quantity,
		})
	}

	return View{
		ID:         c.ID,
		Items:      items,
		TotalPrice: Total(lines),
	}
}
