package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/redis/go-redis/v9"
	"github.com/vietddude/stylelog"

	"github.com/kongyujesse/portfolio-backend/internal/auth"
	"github.com/kongyujesse/portfolio-backend/internal/config"
	"github.com/kongyujesse/portfolio-backend/internal/httpapi"
	"github.com/kongyujesse/portfolio-backend/internal/metrics"
	"github.com/kongyujesse/portfolio-backend/internal/notify"
	"github.com/kongyujesse/portfolio-backend/internal/ratelimit"
	"github.com/kongyujesse/portfolio-backend/internal/service"
	"github.com/kongyujesse/portfolio-backend/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		stylelog.InitDefault()
		slog.Error("config error", "error", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	stylelog.InitDefault(&tint.Options{
		Level:      level,
		TimeFormat: time.RFC3339,
	})
	logger := slog.Default()

	ctx := context.Background()
	repository, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("store setup failed", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	m := metrics.New(cfg.PushgatewayURL, cfg.MetricsJobName)

	limiters, stopLimiters, err := buildLimiters(cfg, logger)
	if err != nil {
		logger.Error("rate limiter setup failed", "error", err)
		os.Exit(1)
	}
	defer stopLimiters()

	runner := notify.NewRunner(notify.RunnerConfig{
		WorkerCount: cfg.NotifyWorkers,
		QueueSize:   cfg.NotifyQueueSize,
	}, logger, m)
	runner.Start()

	notifier, err := buildNotifier(cfg, runner, repository, logger, m)
	if err != nil {
		logger.Error("notifier setup failed", "error", err)
		os.Exit(1)
	}

	authenticator := auth.New(cfg.JWTSecret, cfg.AdminEmail, cfg.AdminPassword, auth.DefaultTTL)
	appService := service.New(repository, notifier, authenticator, logger)
	router := httpapi.NewRouter(httpapi.Options{
		Service:        appService,
		Limiters:       limiters,
		Metrics:        m,
		Logger:         logger,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("portfolio api listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			os.Exit(1)
		}
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	<-signals

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", "error", err)
	}
	if err := runner.Stop(shutdownCtx); err != nil {
		logger.Warn("notification runner stopped with pending work", "error", err)
	}
	if err := m.Push(shutdownCtx); err != nil {
		logger.Warn("metrics push failed", "error", err)
	}
}

// openStore uses Postgres when DATABASE_URL is set and an in-memory store
// otherwise.
func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (store.Repository, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, using in-memory store")
		return store.NewMemory(), func() {}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	if err := store.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return store.NewPostgres(pool), pool.Close, nil
}

func buildLimiters(cfg config.Config, logger *slog.Logger) (httpapi.Limiters, func(), error) {
	if cfg.RedisURL != "" {
		options, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return httpapi.Limiters{}, nil, err
		}
		client := redis.NewClient(options)
		limiters := httpapi.Limiters{
			General:   ratelimit.NewRedis(client, ratelimit.General, logger),
			Messages:  ratelimit.NewRedis(client, ratelimit.Messages, logger),
			Subscribe: ratelimit.NewRedis(client, ratelimit.Subscribe, logger),
			Login:     ratelimit.NewRedis(client, ratelimit.Login, logger),
		}
		return limiters, func() { _ = client.Close() }, nil
	}

	memory := []*ratelimit.Memory{
		ratelimit.NewMemory(ratelimit.General),
		ratelimit.NewMemory(ratelimit.Messages),
		ratelimit.NewMemory(ratelimit.Subscribe),
		ratelimit.NewMemory(ratelimit.Login),
	}
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				for _, limiter := range memory {
					limiter.Sweep()
				}
			case <-done:
				return
			}
		}
	}()
	limiters := httpapi.Limiters{General: memory[0], Messages: memory[1], Subscribe: memory[2], Login: memory[3]}
	return limiters, func() { close(done) }, nil
}

func buildNotifier(cfg config.Config, runner *notify.Runner, repository store.Repository, logger *slog.Logger, m *metrics.Metrics) (*notify.Notifier, error) {
	templates, err := notify.NewTemplateStore()
	if err != nil {
		return nil, err
	}

	strategy, err := notify.ParseStrategy(cfg.NotifyRetryStrategy)
	if err != nil {
		return nil, err
	}
	executor := notify.NewExecutor(notify.Policy{
		MaxAttempts: cfg.NotifyMaxAttempts,
		Delay:       cfg.NotifyRetryDelay,
		Strategy:    strategy,
	}, cfg.NotifyRatePerSecond, logger, m)
	adapterConfig := notify.AdapterConfig{
		VerifyTimeout: cfg.NotifyVerifyTimeout,
		SendTimeout:   cfg.NotifySendTimeout,
	}
	dispatcher := func(transport notify.Transport) *notify.Dispatcher {
		return notify.NewDispatcher(notify.NewAdapter(transport, adapterConfig, logger, m), executor, logger, m)
	}

	var email notify.Transport
	if cfg.NotifyTransport == "memory" {
		email = notify.NewMemoryTransport("memory")
	} else {
		email = notify.NewSMTPTransport(notify.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.EmailUser,
			Password: cfg.EmailPass,
			FromName: cfg.EmailFromName,
		}, adapterConfig)
	}
	if err := email.Ready(); err != nil {
		logger.Warn("email channel not configured, notifications will be skipped", "channel", email.Name(), "error", err)
	}

	var options []notify.NotifierOption
	client := &http.Client{Timeout: cfg.NotifySendTimeout}
	if cfg.OwnerWebhookURL != "" {
		var alert notify.Transport
		switch cfg.OwnerWebhookKind {
		case "discord":
			alert = notify.NewDiscordTransport(client, cfg.OwnerWebhookURL)
		case "ntfy":
			alert = notify.NewNtfyTransport(client, cfg.OwnerWebhookURL, cfg.OwnerWebhookToken)
		default:
			alert = notify.NewWebhookTransport(client, cfg.OwnerWebhookURL, cfg.OwnerWebhookToken)
		}
		options = append(options, notify.WithOwnerAlerts(dispatcher(alert)))
	}
	if cfg.VAPIDPublicKey != "" && cfg.VAPIDPrivateKey != "" {
		options = append(options, notify.WithOwnerPush(dispatcher(notify.NewWebPushTransport(notify.WebPushConfig{
			VAPIDPublicKey:  cfg.VAPIDPublicKey,
			VAPIDPrivateKey: cfg.VAPIDPrivateKey,
			VAPIDSubject:    cfg.VAPIDSubject,
			TTLSeconds:      cfg.PushTTLSeconds,
			HTTPClient:      client,
		}))))
	}

	return notify.NewNotifier(notify.NotifierConfig{
		OwnerEmail:  cfg.OwnerEmail,
		OwnerName:   cfg.OwnerName,
		FrontendURL: cfg.FrontendURL,
	}, runner, templates, repository, dispatcher(email), logger, m, options...), nil
}
