package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is centralized process configuration. Infra values live here and
// are passed as typed config into builders; business logic never reads the
// environment directly.
type Config struct {
	ServiceName string
	HTTPPort    string

	PostgresDSN       string
	ManualOrdersTable string
	SourceOrdersTable string
	StoreTimeout      time.Duration

	RedisAddr string
	RedisDB   int

	KafkaBrokers []string
	KafkaTopic   string

	AlertWebhookURL string

	// DebugListCap caps GET /manual-orders to the 50 most recent orders,
	// mirroring the dashboard's debug-build behavior.
	DebugListCap bool

	// Reconcile schedule: local hour in ReconcileTimezone, business days only.
	ReconcileHour     int
	ReconcileTimezone string

	OutboxPollInterval time.Duration
}

func Load() (Config, error) {
	cfg := Config{
		ServiceName:        getEnv("SERVICE_NAME", "sourcing-dashboard"),
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		PostgresDSN:        os.Getenv("POSTGRES_DSN"),
		ManualOrdersTable:  getEnv("MANUAL_ORDERS_TABLE", "manual_orders"),
		SourceOrdersTable:  getEnv("SOURCE_ORDERS_TABLE", "source_orders"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBrokers:       splitCSV(getEnv("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:         getEnv("KAFKA_TOPIC", "sourcing-order-lifecycle"),
		AlertWebhookURL:    os.Getenv("ALERT_WEBHOOK_URL"),
		DebugListCap:       envBool("DEBUG_LIST_CAP", false),
		ReconcileTimezone:  getEnv("RECONCILE_TZ", "America/New_York"),
		ReconcileHour:      23,
		StoreTimeout:       10 * time.Second,
		OutboxPollInterval: 15 * time.Second,
	}

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return Config{}, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	cfg.RedisDB = redisDB

	hour, err := getEnvInt("RECONCILE_HOUR", cfg.ReconcileHour)
	if err != nil {
		return Config{}, fmt.Errorf("invalid RECONCILE_HOUR: %w", err)
	}
	if hour < 0 || hour > 23 {
		return Config{}, fmt.Errorf("RECONCILE_HOUR must be in 0..23")
	}
	cfg.ReconcileHour = hour

	timeoutSec, err := getEnvInt("STORE_TIMEOUT_SEC", int(cfg.StoreTimeout.Seconds()))
	if err != nil {
		return Config{}, fmt.Errorf("invalid STORE_TIMEOUT_SEC: %w", err)
	}
	if timeoutSec <= 0 {
		return Config{}, fmt.Errorf("STORE_TIMEOUT_SEC must be > 0")
	}
	cfg.StoreTimeout = time.Duration(timeoutSec) * time.Second

	pollSec, err := getEnvInt("OUTBOX_POLL_SEC", int(cfg.OutboxPollInterval.Seconds()))
	if err != nil {
		return Config{}, fmt.Errorf("invalid OUTBOX_POLL_SEC: %w", err)
	}
	if pollSec <= 0 {
		return Config{}, fmt.Errorf("OUTBOX_POLL_SEC must be > 0")
	}
	cfg.OutboxPollInterval = time.Duration(pollSec) * time.Second

	if cfg.ManualOrdersTable == "" || cfg.SourceOrdersTable == "" {
		return Config{}, fmt.Errorf("collection names must not be empty")
	}
	if len(cfg.KafkaBrokers) == 0 {
		return Config{}, fmt.Errorf("KAFKA_BROKERS must not be empty")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
