package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, 250.0, cfg.DeliveryCharge)
	assert.Equal(t, 10*time.Second, cfg.UpstreamTimeout)
	assert.Empty(t, cfg.MailerProvider)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DELIVERY_CHARGE", "300")
	t.Setenv("MAILER_PROVIDER", "emailjs")
	t.Setenv("UPSTREAM_TIMEOUT", "2s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, 300.0, cfg.DeliveryCharge)
	assert.Equal(t, "emailjs", cfg.MailerProvider)
	assert.Equal(t, 2*time.Second, cfg.UpstreamTimeout)
}
