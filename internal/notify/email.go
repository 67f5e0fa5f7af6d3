// Package notify sends order confirmation emails through SendGrid. Delivery
// is best-effort; callers log failures and move on.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"rentgear-storefront/internal/domain"
	"rentgear-storefront/internal/logger"
)

type EmailNotifier struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewEmailNotifier(apiKey, fromEmail, fromName string) *EmailNotifier {
	return &EmailNotifier{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

// OrderPlaced emails the checkout confirmation with the tracking number and
// the order breakdown.
func (n *EmailNotifier) OrderPlaced(ctx context.Context, email, name string, order domain.Order) error {
	from := mail.NewEmail(n.fromName, n.fromEmail)
	recipient := mail.NewEmail(name, email)
	subject := fmt.Sprintf("Order confirmed: %s", order.TrackingNumber)

	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\nYour rental order has been placed.\n\n", name)
	fmt.Fprintf(&b, "Tracking number: %s\n\n", order.TrackingNumber)
	for _, item := range order.Items {
		fmt.Fprintf(&b, "  %s: %d x %d %s(s)\n", item.Name, item.Quantity, item.RentalDuration, strings.ToLower(string(item.RentalType)))
	}
	fmt.Fprintf(&b, "\nSubtotal: %s\n", formatCents(order.SubtotalCents))
	if order.DeliveryFeeCents == 0 {
		fmt.Fprintf(&b, "Delivery: FREE\n")
	} else {
		fmt.Fprintf(&b, "Delivery: %s\n", formatCents(order.DeliveryFeeCents))
	}
	fmt.Fprintf(&b, "Tax: %s\n", formatCents(order.TaxCents))
	fmt.Fprintf(&b, "Total: %s\n", formatCents(order.TotalCents))
	fmt.Fprintf(&b, "\nDelivery to %s on %s.\n", order.DeliveryAddress, order.DeliveryDate)

	message := mail.NewSingleEmail(from, subject, recipient, b.String(), "")
	client := sendgrid.NewSendClient(n.apiKey)

	logger.ExternalServiceCall("sendgrid", "OrderPlaced", "order_id", order.ID)
	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		logger.ExternalServiceResult("sendgrid", "OrderPlaced", err)
		return fmt.Errorf("send order confirmation: %w", err)
	}
	if response.StatusCode >= 400 {
		err := fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
		logger.ExternalServiceResult("sendgrid", "OrderPlaced", err)
		return err
	}
	logger.ExternalServiceResult("sendgrid", "OrderPlaced", nil)
	return nil
}

func formatCents(cents int64) string {
	return fmt.Sprintf("₹%d.%02d", cents/100, cents%100)
}
