package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()
	require.NotNil(t, cfg)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "abst", cfg.Database.Database)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 30, cfg.Engine.LookbackDays)
	assert.Equal(t, 300, cfg.Engine.CacheTTLSec)
	// notifier stays off without a webhook URL
	assert.False(t, cfg.Notify.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("ENGINE_LOOKBACK_DAYS", "7")
	t.Setenv("NOTIFY_WEBHOOK_URL", "http://alerts.local/hook")

	cfg := Load()
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, 7, cfg.Engine.LookbackDays)
	assert.True(t, cfg.Notify.Enabled)
	assert.Equal(t, "http://alerts.local/hook", cfg.Notify.WebhookURL)
}

func TestParseInt_Invalid(t *testing.T) {
	assert.Equal(t, 42, parseInt("not-a-number", 42))
	assert.Equal(t, 7, parseInt("7", 0))
}

func TestGetDSN(t *testing.T) {
	dc := DatabaseConfig{
		Host: "db", Port: 5432, User: "u", Password: "p",
		Database: "abst", SSLMode: "disable",
	}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=abst sslmode=disable", dc.GetDSN())
}
