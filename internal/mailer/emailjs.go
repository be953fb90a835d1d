package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const DefaultEmailJSEndpoint = "https://api.emailjs.com/api/v1.0/email/send"

// EmailJSClient posts templated emails through the EmailJS REST API. The
// call is keyed by a service id, a template id and a public client key.
type EmailJSClient struct {
	endpoint   string
	serviceID  string
	templateID string
	publicKey  string
	adminEmail string
	httpClient *http.Client
}

func NewEmailJSClient(endpoint, serviceID, templateID, publicKey, adminEmail string, timeout time.Duration) *EmailJSClient {
	if endpoint == "" {
		endpoint = DefaultEmailJSEndpoint
	}
	return &EmailJSClient{
		endpoint:   endpoint,
		serviceID:  serviceID,
		templateID: templateID,
		publicKey:  publicKey,
		adminEmail: adminEmail,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

type emailJSRequest struct {
	ServiceID      string         `json:"service_id"`
	TemplateID     string         `json:"template_id"`
	UserID         string         `json:"user_id"`
	TemplateParams map[string]any `json:"template_params"`
}

func (c *EmailJSClient) SendOrderNotification(ctx context.Context, n Notification) error {
	payload := emailJSRequest{
		ServiceID:  c.serviceID,
		TemplateID: c.templateID,
		UserID:     c.publicKey,
		TemplateParams: map[string]any{
			"customer_name":    n.CustomerName,
			"customer_email":   n.CustomerEmail,
			"customer_phone":   n.CustomerPhone,
			"customer_address": n.CustomerAddress,
			"order_subtotal":   n.SubTotal,
			"delivery_charge":  n.DeliveryCharge,
			"order_total":      n.TotalPrice,
			"order_details":    n.Summary(),
			"admin_email":      c.adminEmail,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// EmailJS error bodies are plain text.
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("send notification: status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	io.Copy(io.Discard, resp.Body)
	return nil
}
