package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestExposition(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.OrderEvents.WithLabelValues("placed").Inc()
	m.OrderEvents.WithLabelValues("placed").Inc()
	m.NotifyFailures.Inc()

	if got := testutil.ToFloat64(m.OrderEvents.WithLabelValues("placed")); got != 2 {
		t.Fatalf("expected 2 placed orders, got %v", got)
	}

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	b, err := io.ReadAll(w.Body)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `shop_order_events_total{event="placed"} 2`) {
		t.Fatalf("placed counter missing from exposition:\n%s", b)
	}
	if !strings.Contains(string(b), "shop_order_notify_failures_total 1") {
		t.Fatalf("failure counter missing from exposition:\n%s", b)
	}
}
