package product

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("product not found")

	// ErrInUse is returned when deleting a product that order history
	// still references.
	ErrInUse = errors.New("product is referenced by orders")

	ErrInvalidPrice = errors.New("price must be a non-negative amount with at most two decimals")
)

type Product struct {
	ID          string          `json:"id" db:"product_id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	InStock     bool            `json:"inStock" db:"in_stock"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`
	Version     int             `json:"-" db:"version"`
}

// Summary is the product as shown inside carts and orders.
type Summary struct {
	ID    string          `json:"id" db:"product_id"`
	Name  string          `json:"name" db:"name"`
	Price decimal.Decimal `json:"price" db:"price"`
}

type ProductNew struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	InStock     *bool           `json:"inStock"`
}

type ProductUp struct {
	Name        *string          `json:"name" validate:"omitempty,min=1"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	InStock     *bool            `json:"inStock"`
}

// CheckPrice validates a catalog price.
func CheckPrice(p decimal.Decimal) error {
	if p.IsNegative() || !p.Equal(p.Round(2)) {
		return ErrInvalidPrice
	}
	return nil
}
