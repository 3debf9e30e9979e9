package email

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/irsalhamdi/e-commerce-shop/api/background"
	"github.com/irsalhamdi/e-commerce-shop/core/order"
	"github.com/irsalhamdi/e-commerce-shop/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (s *recordingSender) Send(ctx context.Context, to, subject, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, to+"|"+subject)
	return s.err
}

func testOrder() order.Order {
	return order.Order{
		ID:         "8d1f5a8e-8a53-4b3a-9d3b-3bd1f0c1a001",
		UserID:     "u1",
		Status:     order.Paid,
		TotalPrice: decimal.RequireFromString("20.00"),
		Items: []order.Item{{
			ProductID:       "p1",
			Quantity:        2,
			PriceAtPurchase: decimal.RequireFromString("10.00"),
		}},
	}
}

func newNotifier(t *testing.T, s Sender) (*Notifier, *background.Background, *metrics.Metrics) {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	bg := background.New(log, time.Second)
	m := metrics.New(prometheus.NewRegistry())
	return NewNotifier(log, bg, s, m), bg, m
}

func TestPaidMessage(t *testing.T) {
	subject, body, err := PaidMessage(testOrder())
	if err != nil {
		t.Fatal(err)
	}

	if subject != "Your Order Confirmation #8d1f5a8e-8a53-4b3a-9d3b-3bd1f0c1a001" {
		t.Fatalf("unexpected subject %q", subject)
	}
	for _, want := range []string{"has been paid", "2 x p1 @ 10.00", "Total: 20.00"} {
		if !strings.Contains(body, want) {
			t.Fatalf("body misses %q:\n%s", want, body)
		}
	}
}

func TestNotifierSends(t *testing.T) {
	s := &recordingSender{}
	n, bg, m := newNotifier(t, s)

	n.OrderPaid(testOrder(), "buyer@example.com")

	if err := bg.Shutdown(context.Background()); err != nil {
		t.Fatal(err)
	}

	if len(s.sent) != 1 || !strings.HasPrefix(s.sent[0], "buyer@example.com|") {
		t.Fatalf("expected one mail to the buyer, got %v", s.sent)
	}
	if got := testutil.ToFloat64(m.NotifyFailures); got != 0 {
		t.Fatalf("expected no failures, got %v", got)
	}
}

func TestNotifierFailureIsCountedNotReturned(t *testing.T) {
	s := &recordingSender{err: errors.New("connection refused")}
	n, bg, m := newNotifier(t, s)

	n.OrderPaid(testOrder(), "buyer@example.com")

	if err := bg.Shutdown(context.Background()); err != nil {
		t.Fatal(err)
	}

	if got := testutil.ToFloat64(m.NotifyFailures); got != 1 {
		t.Fatalf("expected one failure, got %v", got)
	}
}

func TestNotifierWithoutRecipient(t *testing.T) {
	s := &recordingSender{}
	n, bg, m := newNotifier(t, s)

	n.OrderPaid(testOrder(), "")

	if err := bg.Shutdown(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(s.sent) != 0 {
		t.Fatalf("nothing can be sent without an address, got %v", s.sent)
	}
	if got := testutil.ToFloat64(m.NotifyFailures); got != 1 {
		t.Fatalf("expected one failure, got %v", got)
	}
}

func TestCompose(t *testing.T) {
	msg := string(compose("shop@example.com", "buyer@example.com", "Hi", "line1\nline2", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)))

	for _, want := range []string{
		"From: shop@example.com\r\n",
		"To: buyer@example.com\r\n",
		"Subject: Hi\r\n",
		"\r\n\r\nline1\r\nline2",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message misses %q:\n%q", want, msg)
		}
	}
}
