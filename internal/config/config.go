package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config abst-data (HTTP API) configuration
type Config struct {
	HTTP struct {
		Addr string
	}
	Database DatabaseConfig
	Redis    struct {
		Addr     string
		Password string
		DB       int
	}
	Log struct {
		Level  string
		Format string
	}
	Engine EngineConfig
	Notify NotifyConfig
}

// DatabaseConfig PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MaxIdle  int
}

// GetDSN builds the lib/pq connection string.
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// EngineConfig recommendation engine tunables
type EngineConfig struct {
	LookbackDays int // ADL analysis window (default 30)
	CacheTTLSec  int // Redis cache TTL for engine outputs (default 300)
}

// NotifyConfig understaffed-shift webhook settings
type NotifyConfig struct {
	Enabled    bool
	WebhookURL string
	TimeoutSec int
}

func Load() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")

	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = parseInt(getEnv("DB_PORT", "5432"), 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "abst")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = parseInt(getEnv("DB_MAX_CONNS", "10"), 10)
	cfg.Database.MaxIdle = parseInt(getEnv("DB_MAX_IDLE", "5"), 5)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = 0

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	cfg.Engine.LookbackDays = parseInt(getEnv("ENGINE_LOOKBACK_DAYS", "30"), 30)
	cfg.Engine.CacheTTLSec = parseInt(getEnv("ENGINE_CACHE_TTL", "300"), 300)

	// Webhook alerts for understaffed shifts (disabled unless a URL is set)
	cfg.Notify.WebhookURL = getEnv("NOTIFY_WEBHOOK_URL", "")
	cfg.Notify.Enabled = getEnv("NOTIFY_ENABLED", "true") == "true" && cfg.Notify.WebhookURL != ""
	cfg.Notify.TimeoutSec = parseInt(getEnv("NOTIFY_TIMEOUT", "5"), 5)

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
