package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigMethods(t *testing.T) {
	t.Run("Addr returns formatted port", func(t *testing.T) {
		cfg := &Config{Port: 3000}
		assert.Equal(t, ":3000", cfg.Addr())
	})

	t.Run("WorkflowTimeout converts seconds to duration", func(t *testing.T) {
		cfg := &Config{WorkflowTimeoutSec: 60}
		assert.Equal(t, 60*time.Second, cfg.WorkflowTimeout())
	})

	t.Run("PendingTTL converts minutes to duration", func(t *testing.T) {
		cfg := &Config{PendingTTLMinutes: 30}
		assert.Equal(t, 30*time.Minute, cfg.PendingTTL())
	})
}

func TestLoad(t *testing.T) {
	t.Run("loads config with defaults", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/test")
		t.Setenv("REDIS_URL", "redis://localhost:6379")
		t.Setenv("WORKFLOW_WEBHOOK_URL", "https://n8n.example.com/webhook/facturacion")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 8080, cfg.Port)
		assert.Equal(t, "postgres://localhost/test", cfg.DatabaseURL)
		assert.Equal(t, "/tmp/uploads", cfg.UploadDir)
		assert.Equal(t, 60, cfg.WorkflowTimeoutSec)
		assert.Equal(t, 30, cfg.PendingTTLMinutes)
		assert.Equal(t, "info", cfg.LogLevel)
	})

	t.Run("fails without workflow webhook URL", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/test")
		t.Setenv("REDIS_URL", "redis://localhost:6379")
		t.Setenv("WORKFLOW_WEBHOOK_URL", "")

		_, err := Load()
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	t.Run("rejects short session secret in production", func(t *testing.T) {
		cfg := &Config{SessionSecret: "short"}
		assert.Error(t, cfg.Validate(true))
	})

	t.Run("rejects known weak secret in production", func(t *testing.T) {
		cfg := &Config{SessionSecret: "change-me"}
		assert.Error(t, cfg.Validate(true))
	})

	t.Run("accepts strong secret in production", func(t *testing.T) {
		cfg := &Config{
			SessionSecret:      "an-extremely-long-random-session-secret-value",
			WorkflowWebhookURL: "https://n8n.example.com/webhook",
			RedisURL:           "rediss://host:6380",
		}
		assert.NoError(t, cfg.Validate(true))
	})

	t.Run("no secret requirements outside production", func(t *testing.T) {
		cfg := &Config{}
		assert.NoError(t, cfg.Validate(false))
	})
}

func TestCatalogs(t *testing.T) {
	assert.True(t, IsValidCFDIUsage("G03"))
	assert.True(t, IsValidCFDIUsage("CP01"))
	assert.False(t, IsValidCFDIUsage("G99"))
	assert.False(t, IsValidCFDIUsage(""))

	assert.True(t, IsValidPaymentMethod("03"))
	assert.True(t, IsValidPaymentMethod("99"))
	assert.False(t, IsValidPaymentMethod("00"))
}
