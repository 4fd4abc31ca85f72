package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/kongyujesse/portfolio-backend/internal/metrics"
)

type Strategy int

const (
	StrategyFixed Strategy = iota
	StrategyLinear
)

func (strategy Strategy) String() string {
	if strategy == StrategyLinear {
		return "linear"
	}
	return "fixed"
}

// ParseStrategy accepts "fixed" or "linear".
func ParseStrategy(value string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "fixed":
		return StrategyFixed, nil
	case "linear", "":
		return StrategyLinear, nil
	default:
		return StrategyFixed, fmt.Errorf("unknown retry strategy %q", value)
	}
}

// Policy bounds a retry run. MaxAttempts counts every call including the
// first; zero means the operation is never called.
type Policy struct {
	MaxAttempts int
	Delay       time.Duration
	Strategy    Strategy
}

// DefaultPolicy is used for every channel unless configured otherwise.
var DefaultPolicy = Policy{MaxAttempts: 3, Delay: 5 * time.Second, Strategy: StrategyLinear}

// Backoff is the pause after the failed attempt with 1-based index attempt.
func (policy Policy) Backoff(attempt int) time.Duration {
	if policy.Delay <= 0 {
		return 0
	}
	if policy.Strategy == StrategyLinear {
		return policy.Delay * time.Duration(attempt)
	}
	return policy.Delay
}

type Result struct {
	Attempts int
	Elapsed  time.Duration
	Err      error
}

func (result Result) OK() bool {
	return result.Err == nil
}

// WithRetry calls op until it succeeds or policy.MaxAttempts calls have
// failed, sleeping between failures. A failed run carries an
// *ExhaustedRetriesError. Cancelling ctx ends the run early with ctx's error
// as the last error.
func WithRetry(ctx context.Context, policy Policy, op func(context.Context) error) Result {
	started := time.Now()
	remaining := max(policy.MaxAttempts, 0)
	if remaining == 0 {
		return Result{Elapsed: time.Since(started), Err: &ExhaustedRetriesError{Last: errNoAttempts}}
	}

	var attempts int
	var last error
	for remaining > 0 {
		attempts++
		last = op(ctx)
		if last == nil {
			return Result{Attempts: attempts, Elapsed: time.Since(started)}
		}
		remaining--
		if remaining == 0 {
			break
		}
		if err := sleep(ctx, policy.Backoff(attempts)); err != nil {
			last = err
			break
		}
	}

	return Result{Attempts: attempts, Elapsed: time.Since(started), Err: &ExhaustedRetriesError{Attempts: attempts, Last: last}}
}

func sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Executor applies a Policy to deliveries on one channel, optionally
// throttled by a shared rate limiter.
type Executor struct {
	policy  Policy
	limiter *rate.Limiter
	logger  Logger
	metrics *metrics.Metrics
}

// NewExecutor builds an Executor. perSecond <= 0 disables throttling.
func NewExecutor(policy Policy, perSecond float64, logger Logger, m *metrics.Metrics) *Executor {
	var limiter *rate.Limiter
	if perSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
	return &Executor{policy: policy, limiter: limiter, logger: orNop(logger), metrics: m}
}

func (executor *Executor) Policy() Policy {
	return executor.policy
}

// Run retries op on behalf of channel and logs every failed attempt.
func (executor *Executor) Run(ctx context.Context, channel string, envelope Envelope, op func(context.Context) error) Result {
	attempt := 0
	result := WithRetry(ctx, executor.policy, func(ctx context.Context) error {
		attempt++
		if executor.limiter != nil {
			if err := executor.limiter.Wait(ctx); err != nil {
				return fmt.Errorf("wait for send slot: %w", err)
			}
		}
		err := op(ctx)
		if err != nil {
			executor.logger.Warn("notify attempt failed",
				"channel", channel,
				"envelope", envelope.ID,
				"recipient", redact(envelope.Recipient),
				"attempt", attempt,
				"max_attempts", executor.policy.MaxAttempts,
				"error", err,
			)
		}
		return err
	})

	executor.metrics.RecordDelivery(channel, result.Err)
	if result.Err != nil {
		executor.metrics.RecordExhausted(channel)
	}
	return result
}
