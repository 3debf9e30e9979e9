package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/irsalhamdi/e-commerce-shop/core/product"
	"github.com/shopspring/decimal"
)

var decimalEqual = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func TestTotal(t *testing.T) {
	tests := []struct {
		name  string
		lines []PricedLine
		want  string
	}{
		{"empty", nil, "0"},
		{"single", []PricedLine{{UnitPrice: decimal.RequireFromString("10.00"), Quantity: 2}}, "20.00"},
		{
			"exact cents",
			[]PricedLine{
				{UnitPrice: decimal.RequireFromString("0.10"), Quantity: 3},
				{UnitPrice: decimal.RequireFromString("19.99"), Quantity: 1},
			},
			"20.29",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Total(tt.lines)
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestNewView(t *testing.T) {
	c := Cart{ID: "c1", UserID: "u1"}
	lines := []PricedLine{
		{ProductID: "p1", Name: "Mug", UnitPrice: decimal.RequireFromString("10.00"), Quantity: 2},
	}

	want := View{
		ID: "c1",
		Items: []LineView{{
			Product:  product.Summary{ID: "p1", Name: "Mug", Price: decimal.RequireFromString("10")},
			Quantity: 2,
		}},
		TotalPrice: decimal.RequireFromString("20"),
	}

	if diff := cmp.Diff(want, newView(c, lines), decimalEqual); diff != "" {
		t.Fatalf("unexpected view (-want +got):\n%s", diff)
	}
}

func TestNewViewEmptyCartHasNoNilItems(t *testing.T) {
	v := newView(Cart{ID: "c1"}, nil)
	if v.Items == nil {
		t.Fatal("items must encode as an empty list")
	}
	if !v.TotalPrice.IsZero() {
		t.Fatalf("expected zero total, got %s", v.TotalPrice)
	}
}

func TestSetLineRejectsQuantityBeforeAnyWrite(t *testing.T) {
	// A nil db proves no storage is touched for invalid quantities.
	for _, q := range []int{0, -1, -100} {
		_, _, err := SetLine(context.Background(), nil, "u1", "7c1b3b8e-3c4f-4c59-9d0f-3f0b1a0e2f11", q)
		if !errors.Is(err, ErrInvalidQuantity) {
			t.Fatalf("quantity %d: expected ErrInvalidQuantity, got %v", q, err)
		}
	}
}

func TestSetLineRejectsMalformedProduct(t *testing.T) {
	_, _, err := SetLine(context.Background(), nil, "u1", "not-a-uuid", 1)
	if !errors.Is(err, product.ErrNotFound) {
		t.Fatalf("expected product.ErrNotFound, got %v", err)
	}
}

func TestRemoveLineRejectsMalformedProduct(t *testing.T) {
	if err := RemoveLine(context.Background(), nil, "u1", "not-a-uuid"); !errors.Is(err, ErrLineNotFound) {
		t.Fatalf("expected ErrLineNotFound, got %v", err)
	}
}
