package order

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/irsalhamdi/e-commerce-shop/api/weberr"
	"github.com/irsalhamdi/e-commerce-shop/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestLifecycleError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", fmt.Errorf("confirming: %w", ErrNotFound), http.StatusNotFound},
		{"invalid transition", fmt.Errorf("confirming: %w", ErrInvalidTransition), http.StatusConflict},
		{"storage", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := lifecycleError(tt.err, "o1")
			if got := weberr.Status(err); got != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, got)
			}

			fields, ok := weberr.Fields(err)
			if !ok || fields["order_id"] != "o1" {
				t.Fatalf("expected order_id field, got %v", fields)
			}
		})
	}
}

type notifierFunc func(Order, string)

func (f notifierFunc) OrderPaid(ord Order, to string) { f(ord, to) }

func TestCountingNotifier(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	var got []string
	n := countingNotifier{notifierFunc(func(o Order, to string) { got = append(got, o.ID+"|"+to) }), m}

	n.OrderPaid(Order{ID: "o1"}, "a@b.c")

	if len(got) != 1 || got[0] != "o1|a@b.c" {
		t.Fatalf("expected the order to be handed on once, got %v", got)
	}
	if v := testutil.ToFloat64(m.OrderEvents.WithLabelValues("paid")); v != 1 {
		t.Fatalf("expected one paid event, got %v", v)
	}
}
