package metrics

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Metrics holds the Prometheus series exported by the API process.
type Metrics struct {
	// Notification pipeline
	NotifyAttemptsTotal       *prometheus.CounterVec
	NotifyAttemptDurationSecs *prometheus.HistogramVec
	NotifyDeliveriesTotal     *prometheus.CounterVec
	NotifyExhaustedTotal      *prometheus.CounterVec
	NotifyNotConfiguredTotal  *prometheus.CounterVec
	NotifyTransitionsTotal    *prometheus.CounterVec
	FanOutRecipientsTotal     *prometheus.CounterVec

	// Background runner
	RunnerTasksTotal   *prometheus.CounterVec
	RunnerDroppedTotal *prometheus.CounterVec
	RunnerPanicsTotal  prometheus.Counter
	RunnerQueueDepth   prometheus.Gauge

	// HTTP surface
	HTTPRequestsTotal       *prometheus.CounterVec
	HTTPRequestDurationSecs *prometheus.HistogramVec
	RateLimitRejectedTotal  *prometheus.CounterVec

	registry *prometheus.Registry
	pusher   *push.Pusher
}

// New creates the series on a private registry. A non-empty pushgatewayURL
// also enables Push.
func New(pushgatewayURL, jobName string) *Metrics {
	m := &Metrics{
		NotifyAttemptsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_notify_attempts_total",
			Help: "Delivery attempts per channel and outcome",
		}, []string{"channel", "outcome"}),
		NotifyAttemptDurationSecs: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portfolio_notify_attempt_duration_seconds",
			Help:    "Duration of a single verify+send attempt",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 90},
		}, []string{"channel"}),
		NotifyDeliveriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_notify_deliveries_total",
			Help: "Terminal delivery results per channel",
		}, []string{"channel", "outcome"}),
		NotifyExhaustedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_notify_exhausted_total",
			Help: "Deliveries abandoned after every attempt failed",
		}, []string{"channel"}),
		NotifyNotConfiguredTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_notify_not_configured_total",
			Help: "Deliveries skipped because the channel is not configured",
		}, []string{"channel"}),
		NotifyTransitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_notify_transitions_total",
			Help: "Per-recipient delivery state transitions",
		}, []string{"state"}),
		FanOutRecipientsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_notify_fanout_recipients_total",
			Help: "Fan-out recipients by outcome",
		}, []string{"outcome"}),

		RunnerTasksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_runner_tasks_total",
			Help: "Background tasks accepted by name",
		}, []string{"task"}),
		RunnerDroppedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_runner_dropped_total",
			Help: "Background tasks dropped before running",
		}, []string{"reason"}),
		RunnerPanicsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "portfolio_runner_panics_total",
			Help: "Background tasks that panicked",
		}),
		RunnerQueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "portfolio_runner_queue_depth",
			Help: "Background tasks waiting for a worker",
		}),

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_http_requests_total",
			Help: "HTTP requests by route, method and status",
		}, []string{"route", "method", "status"}),
		HTTPRequestDurationSecs: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portfolio_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		RateLimitRejectedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_ratelimit_rejected_total",
			Help: "Requests rejected by a rate limiter",
		}, []string{"scope"}),
	}

	m.registry = prometheus.NewRegistry()
	m.registry.MustRegister(
		m.NotifyAttemptsTotal,
		m.NotifyAttemptDurationSecs,
		m.NotifyDeliveriesTotal,
		m.NotifyExhaustedTotal,
		m.NotifyNotConfiguredTotal,
		m.NotifyTransitionsTotal,
		m.FanOutRecipientsTotal,
		m.RunnerTasksTotal,
		m.RunnerDroppedTotal,
		m.RunnerPanicsTotal,
		m.RunnerQueueDepth,
		m.HTTPRequestsTotal,
		m.HTTPRequestDurationSecs,
		m.RateLimitRejectedTotal,
	)

	if pushgatewayURL != "" && jobName != "" {
		m.pusher = push.New(pushgatewayURL, jobName).Gatherer(m.registry)
	}

	return m
}

// Handler serves the private registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordAttempt records one verify+send attempt on a channel.
func (m *Metrics) RecordAttempt(channel string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.NotifyAttemptDurationSecs.WithLabelValues(channel).Observe(duration.Seconds())
	m.NotifyAttemptsTotal.WithLabelValues(channel, outcome(err)).Inc()
}

// RecordDelivery records the terminal result of one retry run.
func (m *Metrics) RecordDelivery(channel string, err error) {
	if m == nil {
		return
	}
	m.NotifyDeliveriesTotal.WithLabelValues(channel, outcome(err)).Inc()
}

func (m *Metrics) RecordExhausted(channel string) {
	if m == nil {
		return
	}
	m.NotifyExhaustedTotal.WithLabelValues(channel).Inc()
}

func (m *Metrics) RecordNotConfigured(channel string) {
	if m == nil {
		return
	}
	m.NotifyNotConfiguredTotal.WithLabelValues(channel).Inc()
}

func (m *Metrics) RecordTransition(state string) {
	if m == nil {
		return
	}
	m.NotifyTransitionsTotal.WithLabelValues(state).Inc()
}

func (m *Metrics) RecordFanOut(succeeded, failed int) {
	if m == nil {
		return
	}
	m.FanOutRecipientsTotal.WithLabelValues("success").Add(float64(succeeded))
	m.FanOutRecipientsTotal.WithLabelValues("failure").Add(float64(failed))
}

func (m *Metrics) RecordTaskAccepted(name string) {
	if m == nil {
		return
	}
	m.RunnerTasksTotal.WithLabelValues(name).Inc()
}

func (m *Metrics) RecordTaskDropped(reason string) {
	if m == nil {
		return
	}
	m.RunnerDroppedTotal.WithLabelValues(reason).Inc()
}

func (m *Metrics) RecordTaskPanic() {
	if m == nil {
		return
	}
	m.RunnerPanicsTotal.Inc()
}

func (m *Metrics) SetQueueDepth(depth int) {
	if m == nil {
		return
	}
	m.RunnerQueueDepth.Set(float64(depth))
}

// RecordHTTPRequest records a served request under its route pattern.
func (m *Metrics) RecordHTTPRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.HTTPRequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.HTTPRequestDurationSecs.WithLabelValues(route).Observe(duration.Seconds())
}

func (m *Metrics) RecordRateLimited(scope string) {
	if m == nil {
		return
	}
	m.RateLimitRejectedTotal.WithLabelValues(scope).Inc()
}

// Push sends the registry to the Pushgateway when one is configured.
func (m *Metrics) Push(ctx context.Context) error {
	if m == nil || m.pusher == nil {
		return nil
	}

	if err := m.pusher.PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics to pushgateway: %w", err)
	}
	slog.Debug("metrics pushed to pushgateway")
	return nil
}

func outcome(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
