package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port           string
	DatabaseURL    string
	RedisURL       string
	FrontendURL    string
	AllowedOrigins []string
	LogLevel       string

	JWTSecret     string
	AdminEmail    string
	AdminPassword string

	SMTPHost      string
	SMTPPort      int
	EmailUser     string
	EmailPass     string
	EmailFromName string
	OwnerEmail    string
	OwnerName     string

	OwnerWebhookURL   string
	OwnerWebhookKind  string
	OwnerWebhookToken string

	VAPIDPublicKey  string
	VAPIDPrivateKey string
	VAPIDSubject    string
	PushTTLSeconds  int

	NotifyTransport     string
	NotifyMaxAttempts   int
	NotifyRetryDelay    time.Duration
	NotifyRetryStrategy string
	NotifyVerifyTimeout time.Duration
	NotifySendTimeout   time.Duration
	NotifyWorkers       int
	NotifyQueueSize     int
	NotifyRatePerSecond float64

	PushgatewayURL string
	MetricsJobName string
}

func Load() (Config, error) {
	config := Config{
		Port:           getEnv("PORT", "5000"),
		DatabaseURL:    strings.TrimSpace(os.Getenv("DATABASE_URL")),
		RedisURL:       strings.TrimSpace(os.Getenv("REDIS_URL")),
		FrontendURL:    strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),
		AllowedOrigins: splitList(os.Getenv("ALLOWED_ORIGINS")),
		LogLevel:       getEnv("LOG_LEVEL", "info"),

		JWTSecret:     strings.TrimSpace(os.Getenv("JWT_SECRET")),
		AdminEmail:    strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL"))),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		SMTPHost:      getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:      getEnvInt("SMTP_PORT", 587),
		EmailUser:     strings.TrimSpace(os.Getenv("EMAIL_USER")),
		EmailPass:     os.Getenv("EMAIL_PASS"),
		EmailFromName: getEnv("EMAIL_FROM_NAME", "Kongyu Jesse Portfolio"),
		OwnerEmail:    strings.TrimSpace(firstNonEmpty(os.Getenv("OWNER_EMAIL"), os.Getenv("EMAIL_USER"))),
		OwnerName:     getEnv("OWNER_NAME", "Kongyu Jesse Ntani"),

		OwnerWebhookURL:   strings.TrimSpace(os.Getenv("OWNER_WEBHOOK_URL")),
		OwnerWebhookKind:  strings.ToLower(getEnv("OWNER_WEBHOOK_KIND", "webhook")),
		OwnerWebhookToken: strings.TrimSpace(os.Getenv("OWNER_WEBHOOK_TOKEN")),

		VAPIDPublicKey:  strings.TrimSpace(os.Getenv("VAPID_PUBLIC_KEY")),
		VAPIDPrivateKey: strings.TrimSpace(os.Getenv("VAPID_PRIVATE_KEY")),
		VAPIDSubject:    strings.TrimSpace(os.Getenv("VAPID_SUBJECT")),
		PushTTLSeconds:  getEnvInt("PUSH_TTL_SECONDS", 60*60*24),

		NotifyTransport:     strings.ToLower(getEnv("NOTIFY_TRANSPORT", "smtp")),
		NotifyMaxAttempts:   getEnvInt("NOTIFY_MAX_ATTEMPTS", 3),
		NotifyRetryDelay:    time.Duration(getEnvInt("NOTIFY_RETRY_DELAY_MS", 5000)) * time.Millisecond,
		NotifyRetryStrategy: strings.ToLower(getEnv("NOTIFY_RETRY_STRATEGY", "linear")),
		NotifyVerifyTimeout: time.Duration(getEnvInt("NOTIFY_VERIFY_TIMEOUT_SECONDS", 90)) * time.Second,
		NotifySendTimeout:   time.Duration(getEnvInt("NOTIFY_SEND_TIMEOUT_SECONDS", 90)) * time.Second,
		NotifyWorkers:       getEnvInt("NOTIFY_WORKERS", 4),
		NotifyQueueSize:     getEnvInt("NOTIFY_QUEUE_SIZE", 256),
		NotifyRatePerSecond: getEnvFloat("NOTIFY_RATE_PER_SECOND", 0),

		PushgatewayURL: strings.TrimSpace(os.Getenv("PROMETHEUS_PUSHGATEWAY_URL")),
		MetricsJobName: getEnv("PROMETHEUS_JOB_NAME", "portfolio-api"),
	}

	var missing []string
	if config.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if config.AdminEmail == "" {
		missing = append(missing, "ADMIN_EMAIL")
	}
	if config.AdminPassword == "" {
		missing = append(missing, "ADMIN_PASSWORD")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%s required", strings.Join(missing, ", "))
	}

	if config.NotifyTransport != "smtp" && config.NotifyTransport != "memory" {
		return Config{}, fmt.Errorf("NOTIFY_TRANSPORT must be smtp or memory, got %q", config.NotifyTransport)
	}
	switch config.OwnerWebhookKind {
	case "webhook", "discord", "ntfy":
	default:
		return Config{}, fmt.Errorf("OWNER_WEBHOOK_KIND must be webhook, discord or ntfy, got %q", config.OwnerWebhookKind)
	}
	if config.NotifyMaxAttempts < 0 {
		return Config{}, errors.New("NOTIFY_MAX_ATTEMPTS must not be negative")
	}
	if config.NotifyWorkers < 1 {
		config.NotifyWorkers = 1
	}
	if config.NotifyQueueSize < 1 {
		config.NotifyQueueSize = 128
	}
	if len(config.AllowedOrigins) == 0 {
		config.AllowedOrigins = []string{config.FrontendURL}
	}

	return config, nil
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func getEnvFloat(key string, fallback float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return value
}

func splitList(raw string) []string {
	var values []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimRight(strings.TrimSpace(part), "/"); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed != "" {
			return trimmed
		}
	}
	return ""
}
