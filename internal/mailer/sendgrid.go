package mailer

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridMailer is the alternate notification provider for deployments
// that own a SendGrid account instead of an EmailJS one.
type SendGridMailer struct {
	client     *sendgrid.Client
	from       string
	adminEmail string
}

func NewSendGridMailer(apiKey, from, adminEmail string) *SendGridMailer {
	return &SendGridMailer{
		client:     sendgrid.NewSendClient(apiKey),
		from:       from,
		adminEmail: adminEmail,
	}
}

func (m *SendGridMailer) SendOrderNotification(ctx context.Context, n Notification) error {
	body := fmt.Sprintf(
		"New order received.\n\nCustomer: %s\nEmail: %s\nPhone: %s\nAddress: %s\n\nSubtotal: %.0f\nDelivery: %.0f\nTotal: %.0f\n\n%s\n",
		n.CustomerName, n.CustomerEmail, n.CustomerPhone, n.CustomerAddress,
		n.SubTotal, n.DeliveryCharge, n.TotalPrice, n.Summary(),
	)

	message := mail.NewSingleEmail(
		mail.NewEmail("Storefront", m.from),
		"New order received",
		mail.NewEmail("", m.adminEmail),
		body,
		fmt.Sprintf("<pre>%s</pre>", body),
	)

	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send error: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send failed: status=%d, body=%s", resp.StatusCode, resp.Body)
	}
	return nil
}
