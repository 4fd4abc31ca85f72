package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	for _, key := range []string{"PORT", "FRONTEND_URL", "ALLOWED_ORIGINS", "OWNER_EMAIL", "EMAIL_USER", "SMTP_HOST", "SMTP_PORT",
		"NOTIFY_TRANSPORT", "NOTIFY_MAX_ATTEMPTS", "NOTIFY_RETRY_DELAY_MS", "NOTIFY_RETRY_STRATEGY", "OWNER_WEBHOOK_KIND",
		"NOTIFY_VERIFY_TIMEOUT_SECONDS", "NOTIFY_SEND_TIMEOUT_SECONDS", "NOTIFY_WORKERS", "NOTIFY_RATE_PER_SECOND"} {
		t.Setenv(key, "")
	}
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ADMIN_EMAIL", " Admin@Example.com ")
	t.Setenv("ADMIN_PASSWORD", "hunter2")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("EMAIL_USER", "me@gmail.com")

	config, err := Load()
	require.NoError(t, err)
	require.Equal(t, "5000", config.Port)
	require.Equal(t, "admin@example.com", config.AdminEmail)
	require.Equal(t, "smtp.gmail.com", config.SMTPHost)
	require.Equal(t, 587, config.SMTPPort)
	require.Equal(t, "me@gmail.com", config.OwnerEmail)
	require.Equal(t, 3, config.NotifyMaxAttempts)
	require.Equal(t, 5*time.Second, config.NotifyRetryDelay)
	require.Equal(t, "linear", config.NotifyRetryStrategy)
	require.Equal(t, 90*time.Second, config.NotifyVerifyTimeout)
	require.Equal(t, 90*time.Second, config.NotifySendTimeout)
	require.Equal(t, []string{"http://localhost:3000"}, config.AllowedOrigins)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("ALLOWED_ORIGINS", "https://a.example/, https://b.example")
	t.Setenv("NOTIFY_MAX_ATTEMPTS", "5")
	t.Setenv("NOTIFY_RETRY_DELAY_MS", "10")
	t.Setenv("NOTIFY_RATE_PER_SECOND", "2.5")
	t.Setenv("NOTIFY_TRANSPORT", "MEMORY")
	t.Setenv("NOTIFY_WORKERS", "0")

	config, err := Load()
	require.NoError(t, err)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, config.AllowedOrigins)
	require.Equal(t, 5, config.NotifyMaxAttempts)
	require.Equal(t, 10*time.Millisecond, config.NotifyRetryDelay)
	require.Equal(t, 2.5, config.NotifyRatePerSecond)
	require.Equal(t, "memory", config.NotifyTransport)
	require.Equal(t, 1, config.NotifyWorkers)
}

func TestLoadRequiresSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("ADMIN_EMAIL", "")
	t.Setenv("ADMIN_PASSWORD", "")

	_, err := Load()
	require.EqualError(t, err, "JWT_SECRET, ADMIN_EMAIL, ADMIN_PASSWORD required")
}

func TestLoadRejectsUnknownTransport(t *testing.T) {
	setRequired(t)
	t.Setenv("NOTIFY_TRANSPORT", "carrier-pigeon")

	_, err := Load()
	require.Error(t, err)
}
