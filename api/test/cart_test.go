package test

import (
	"context"
	"net/http"
	"testing"

	"github.com/irsalhamdi/e-commerce-shop/api/weberr"
	"github.com/irsalhamdi/e-commerce-shop/core/cart"
	"github.com/irsalhamdi/e-commerce-shop/core/product"
	"github.com/irsalhamdi/e-commerce-shop/validate"
	"golang.org/x/sync/errgroup"
)

func TestCart(t *testing.T) {
	env := NewTestEnv(t, "cart_test")

	mug := env.createProductOK(t, "mug", "10.00")
	tee := env.createProductOK(t, "tee", "7.50")

	t.Run("empty cart is created lazily", func(t *testing.T) {
		v := env.showCartOK(t, &env.Alice)
		if v.ID == "" || len(v.Items) != 0 || !v.TotalPrice.IsZero() {
			t.Fatalf("expected an empty cart, got %+v", v)
		}

		again := env.showCartOK(t, &env.Alice)
		if again.ID != v.ID {
			t.Fatalf("expected the same cart, got %s and %s", v.ID, again.ID)
		}
	})

	t.Run("set is idempotent", func(t *testing.T) {
		code, _ := env.setItem(t, &env.Alice, mug.ID, 3)
		if code != http.StatusCreated {
			t.Fatalf("first set: expected 201, got %d", code)
		}

		code, v := env.setItem(t, &env.Alice, mug.ID, 3)
		if code != http.StatusOK {
			t.Fatalf("second set: expected 200, got %d", code)
		}

		if len(v.Items) != 1 || v.Items[0].Quantity != 3 {
			t.Fatalf("expected one line with quantity 3, got %+v", v.Items)
		}
		if !v.TotalPrice.Equal(dec("30")) {
			t.Fatalf("expected total 30, got %s", v.TotalPrice)
		}
	})

	t.Run("set overwrites quantity", func(t *testing.T) {
		code, v := env.setItem(t, &env.Alice, mug.ID, 1)
		if code != http.StatusOK {
			t.Fatalf("expected 200, got %d", code)
		}
		if len(v.Items) != 1 || v.Items[0].Quantity != 1 {
			t.Fatalf("expected quantity 1, got %+v", v.Items)
		}
	})

	t.Run("invalid quantities", func(t *testing.T) {
		before := env.showCartOK(t, &env.Alice)

		for _, body := range []string{
			`{"productId":"` + tee.ID + `","quantity":0}`,
			`{"productId":"` + tee.ID + `","quantity":-2}`,
			`{"productId":"` + tee.ID + `","quantity":"abc"}`,
			`{"productId":"` + tee.ID + `","quantity":1.5}`,
		} {
			var er weberr.ErrorResponse
			code := env.Do(t, &env.Alice, http.MethodPut, "/cart/items", body, &er)
			if code != http.StatusBadRequest || er.Code != cart.CodeInvalidQuantity {
				t.Fatalf("%s: expected 400 %s, got %d %s", body, cart.CodeInvalidQuantity, code, er.Code)
			}
		}

		after := env.showCartOK(t, &env.Alice)
		if len(after.Items) != len(before.Items) {
			t.Fatalf("invalid quantities must not write, cart went from %d to %d lines", len(before.Items), len(after.Items))
		}
	})

	t.Run("unknown product", func(t *testing.T) {
		code, _ := env.setItem(t, &env.Alice, validate.GenerateID(), 1)
		if code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", code)
		}
	})

	t.Run("remove line", func(t *testing.T) {
		if code, _ := env.setItem(t, &env.Alice, tee.ID, 2); code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", code)
		}

		if code := env.Do(t, &env.Alice, http.MethodDelete, "/cart/items/"+tee.ID, nil, nil); code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", code)
		}
		if code := env.Do(t, &env.Alice, http.MethodDelete, "/cart/items/"+tee.ID, nil, nil); code != http.StatusNotFound {
			t.Fatalf("removing twice: expected 404, got %d", code)
		}
	})

	t.Run("lines are isolated per owner", func(t *testing.T) {
		if code := env.Do(t, &env.Bob, http.MethodDelete, "/cart/items/"+mug.ID, nil, nil); code != http.StatusNotFound {
			t.Fatalf("bob removing alice's line: expected 404, got %d", code)
		}

		v := env.showCartOK(t, &env.Alice)
		if len(v.Items) != 1 || v.Items[0].Product.ID != mug.ID {
			t.Fatalf("alice's line must survive, got %+v", v.Items)
		}

		if bob := env.showCartOK(t, &env.Bob); len(bob.Items) != 0 {
			t.Fatalf("bob must not see alice's lines, got %+v", bob.Items)
		}
	})

	t.Run("stock flag does not block carting", func(t *testing.T) {
		pn := map[string]any{"name": "sold out", "price": "2.00", "inStock": false}

		var p product.Product
		if code := env.Do(t, &env.Admin, http.MethodPost, "/products", pn, &p); code != http.StatusCreated || p.InStock {
			t.Fatalf("creating an out of stock product: status %d, in stock %v", code, p.InStock)
		}

		if code, _ := env.setItem(t, &env.Bob, p.ID, 1); code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", code)
		}
	})

	t.Run("anonymous callers are rejected", func(t *testing.T) {
		if code := env.Do(t, nil, http.MethodGet, "/cart", nil, nil); code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", code)
		}
	})
}

func TestCartConcurrentSet(t *testing.T) {
	env := NewTestEnv(t, "cart_concurrent_test")
	mug := env.createProductOK(t, "mug", "10.00")

	const N = 20
	g, _ := errgroup.WithContext(context.Background())
	for i := 0; i < N; i++ {
		g.Go(func() error {
			_, _, err := cart.SetLine(context.Background(), env.DB, env.Alice.UserID, mug.ID, 4)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent SetLine failed: %v", err)
	}

	if n := env.count(t, `SELECT count(*) FROM carts WHERE user_id = $1`, env.Alice.UserID); n != 1 {
		t.Fatalf("expected exactly one cart, got %d", n)
	}

	v := env.showCartOK(t, &env.Alice)
	if len(v.Items) != 1 || v.Items[0].Quantity != 4 {
		t.Fatalf("expected one line at quantity 4, got %+v", v.Items)
	}
}
