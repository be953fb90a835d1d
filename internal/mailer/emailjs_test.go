package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trendline-shop/storefront/internal/domain"
)

func testNotification() Notification {
	return Notification{
		CustomerName:    "Ada Lovelace",
		CustomerEmail:   "ada@example.com",
		CustomerPhone:   "03001234567",
		CustomerAddress: "12 Analytical St",
		SubTotal:        1000,
		DeliveryCharge:  250,
		TotalPrice:      1250,
		Products: []domain.OrderProduct{
			{ProductID: "prodA", Size: "M", Quantity: 2},
			{ProductID: "prodB", Quantity: 1},
		},
	}
}

func TestNotification_Summary(t *testing.T) {
	got := testNotification().Summary()
	assert.Equal(t, "Product ID: prodA, Size: M, Quantity: 2\nProduct ID: prodB, Quantity: 1", got)
}

func TestEmailJS_SendsTemplateParams(t *testing.T) {
	var got emailJSRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte("OK"))
	}))
	defer server.Close()

	client := NewEmailJSClient(server.URL, "service_1", "template_1", "public_key", "admin@example.com", 5*time.Second)
	require.NoError(t, client.SendOrderNotification(context.Background(), testNotification()))

	assert.Equal(t, "service_1", got.ServiceID)
	assert.Equal(t, "template_1", got.TemplateID)
	assert.Equal(t, "public_key", got.UserID)
	assert.Equal(t, "Ada Lovelace", got.TemplateParams["customer_name"])
	assert.Equal(t, 1250.0, got.TemplateParams["order_total"])
	assert.Equal(t, "admin@example.com", got.TemplateParams["admin_email"])
	assert.Contains(t, got.TemplateParams["order_details"], "Product ID: prodA, Size: M, Quantity: 2")
}

func TestEmailJS_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("API calls are disabled for non-browser applications"))
	}))
	defer server.Close()

	client := NewEmailJSClient(server.URL, "service_1", "template_1", "public_key", "admin@example.com", 5*time.Second)
	err := client.SendOrderNotification(context.Background(), testNotification())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
	assert.Contains(t, err.Error(), "disabled for non-browser")
}
