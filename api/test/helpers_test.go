package test

import (
	"net/http"
	"testing"

	"github.com/irsalhamdi/e-commerce-shop/core/cart"
	"github.com/irsalhamdi/e-commerce-shop/core/claims"
	"github.com/irsalhamdi/e-commerce-shop/core/order"
	"github.com/irsalhamdi/e-commerce-shop/core/product"
	"github.com/shopspring/decimal"
)

func (env *TestEnv) createProductOK(t *testing.T, name, price string) product.Product {
	t.Helper()

	pn := map[string]any{"name": name, "description": name + " description", "price": price}

	var p product.Product
	if code := env.Do(t, &env.Admin, http.MethodPost, "/products", pn, &p); code != http.StatusCreated {
		t.Fatalf("creating product %s: status %d", name, code)
	}
	return p
}

func (env *TestEnv) setPriceOK(t *testing.T, productID, price string) {
	t.Helper()

	pu := map[string]any{"price": price}
	if code := env.Do(t, &env.Admin, http.MethodPut, "/products/"+productID, pu, nil); code != http.StatusOK {
		t.Fatalf("updating price of %s: status %d", productID, code)
	}
}

func (env *TestEnv) setItem(t *testing.T, clm *claims.Claims, productID string, qty int) (int, cart.View) {
	t.Helper()

	var v cart.View
	code := env.Do(t, clm, http.MethodPut, "/cart/items", map[string]any{"productId": productID, "quantity": qty}, &v)
	return code, v
}

func (env *TestEnv) showCartOK(t *testing.T, clm *claims.Claims) cart.View {
	t.Helper()

	var v cart.View
	if code := env.Do(t, clm, http.MethodGet, "/cart", nil, &v); code != http.StatusOK {
		t.Fatalf("showing cart: status %d", code)
	}
	return v
}

func (env *TestEnv) placeOrderOK(t *testing.T, clm *claims.Claims) order.Order {
	t.Helper()

	var ord order.Order
	if code := env.Do(t, clm, http.MethodPost, "/orders", nil, &ord); code != http.StatusCreated {
		t.Fatalf("placing order: status %d", code)
	}
	return ord
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
