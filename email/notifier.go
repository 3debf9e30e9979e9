package email

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"text/template"

	"github.com/irsalhamdi/e-commerce-shop/api/background"
	"github.com/irsalhamdi/e-commerce-shop/core/order"
	"github.com/irsalhamdi/e-commerce-shop/metrics"
	"github.com/sirupsen/logrus"
)

var errNoRecipient = errors.New("no recipient address")

var paidTmpl = template.Must(template.New("paid").Parse(`Hello,

Thank you for your purchase! Your order #{{.ID}} has been paid and is being processed.

{{range .Items}}{{.Quantity}} x {{.ProductID}} @ {{.PriceAtPurchase.StringFixed 2}}
{{end}}
Total: {{.TotalPrice.StringFixed 2}}
`))

// Notifier sends order notifications in the background. Delivery failures
// are logged and counted, never reported to the caller.
type Notifier struct {
	log     logrus.FieldLogger
	bg      *background.Background
	sender  Sender
	metrics *metrics.Metrics
}

func NewNotifier(log logrus.FieldLogger, bg *background.Background, sender Sender, m *metrics.Metrics) *Notifier {
	return &Notifier{log: log, bg: bg, sender: sender, metrics: m}
}

// OrderPaid schedules the payment confirmation mail for ord.
func (n *Notifier) OrderPaid(ord order.Order, to string) {
	fields := logrus.Fields{
		"order_id": ord.ID,
		"user_id":  ord.UserID,
	}

	if to == "" {
		n.failed(fields, errNoRecipient)
		return
	}

	subject, body, err := PaidMessage(ord)
	if err != nil {
		n.failed(fields, err)
		return
	}

	send := func(ctx context.Context) error {
		return n.sender.Send(ctx, to, subject, body)
	}

	onErr := func(error) { n.count() }

	if err := n.bg.Go("order-paid-email", fields, send, onErr); err != nil {
		n.failed(fields, err)
	}
}

func (n *Notifier) failed(fields logrus.Fields, err error) {
	n.log.WithFields(fields).WithError(err).Error("order notification not sent")
	n.count()
}

func (n *Notifier) count() {
	if n.metrics != nil {
		n.metrics.NotifyFailures.Inc()
	}
}

// PaidMessage renders the subject and body of the payment confirmation.
func PaidMessage(ord order.Order) (subject string, body string, err error) {
	var b bytes.Buffer
	if err := paidTmpl.Execute(&b, ord); err != nil {
		return "", "", fmt.Errorf("rendering order[%s] mail: %w", ord.ID, err)
	}
	return fmt.Sprintf("Your Order Confirmation #%s", ord.ID), b.String(), nil
}
