package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func countingOp(failures int) (func(context.Context) error, *int) {
	calls := 0
	return func(context.Context) error {
		calls++
		if calls <= failures {
			return errBoom
		}
		return nil
	}, &calls
}

func TestWithRetryPermanentFailureUsesEveryAttempt(t *testing.T) {
	for _, maxAttempts := range []int{1, 2, 5} {
		op, calls := countingOp(1 << 30)
		result := WithRetry(context.Background(), Policy{MaxAttempts: maxAttempts}, op)

		require.Equal(t, maxAttempts, *calls)
		require.Equal(t, maxAttempts, result.Attempts)
		require.False(t, result.OK())

		var exhausted *ExhaustedRetriesError
		require.ErrorAs(t, result.Err, &exhausted)
		require.Equal(t, maxAttempts, exhausted.Attempts)
		require.ErrorIs(t, result.Err, errBoom)
	}
}

func TestWithRetryZeroAttemptsNeverCalls(t *testing.T) {
	op, calls := countingOp(0)
	result := WithRetry(context.Background(), Policy{MaxAttempts: 0, Delay: time.Hour}, op)

	require.Zero(t, *calls)
	require.Zero(t, result.Attempts)
	var exhausted *ExhaustedRetriesError
	require.ErrorAs(t, result.Err, &exhausted)
	require.Zero(t, exhausted.Attempts)
}

func TestWithRetryNegativeAttemptsTreatedAsZero(t *testing.T) {
	op, calls := countingOp(0)
	result := WithRetry(context.Background(), Policy{MaxAttempts: -3}, op)

	require.Zero(t, *calls)
	require.Error(t, result.Err)
}

func TestWithRetrySucceedsOnAttemptK(t *testing.T) {
	for k := 1; k <= 4; k++ {
		op, calls := countingOp(k - 1)
		result := WithRetry(context.Background(), Policy{MaxAttempts: 4}, op)

		require.NoError(t, result.Err)
		require.Equal(t, k, result.Attempts)
		require.Equal(t, k, *calls)
	}
}

func TestWithRetryFailTwiceThenSucceedWaitsBetweenAttempts(t *testing.T) {
	op, calls := countingOp(2)
	started := time.Now()
	result := WithRetry(context.Background(), Policy{MaxAttempts: 5, Delay: 10 * time.Millisecond, Strategy: StrategyFixed}, op)

	require.NoError(t, result.Err)
	require.Equal(t, 3, *calls)
	require.Equal(t, 3, result.Attempts)
	require.GreaterOrEqual(t, time.Since(started), 20*time.Millisecond)
	require.GreaterOrEqual(t, result.Elapsed, 20*time.Millisecond)
}

func TestWithRetryNoSleepAfterFinalAttempt(t *testing.T) {
	op, _ := countingOp(1 << 30)
	result := WithRetry(context.Background(), Policy{MaxAttempts: 1, Delay: time.Hour}, op)

	require.Error(t, result.Err)
	require.Less(t, result.Elapsed, time.Second)
}

func TestWithRetryCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	op, calls := countingOp(1 << 30)
	result := WithRetry(ctx, Policy{MaxAttempts: 5, Delay: time.Hour}, op)

	require.Equal(t, 1, *calls)
	require.ErrorIs(t, result.Err, context.DeadlineExceeded)
}

func TestPolicyBackoff(t *testing.T) {
	fixed := Policy{Delay: 5 * time.Second, Strategy: StrategyFixed}
	require.Equal(t, 5*time.Second, fixed.Backoff(1))
	require.Equal(t, 5*time.Second, fixed.Backoff(3))

	linear := Policy{Delay: 5 * time.Second, Strategy: StrategyLinear}
	require.Equal(t, 5*time.Second, linear.Backoff(1))
	require.Equal(t, 15*time.Second, linear.Backoff(3))

	require.Zero(t, Policy{Strategy: StrategyLinear}.Backoff(2))
}

func TestParseStrategy(t *testing.T) {
	strategy, err := ParseStrategy("Fixed")
	require.NoError(t, err)
	require.Equal(t, StrategyFixed, strategy)

	strategy, err = ParseStrategy("")
	require.NoError(t, err)
	require.Equal(t, StrategyLinear, strategy)

	_, err = ParseStrategy("exponential")
	require.Error(t, err)
}

func TestExecutorThrottlesAttempts(t *testing.T) {
	executor := NewExecutor(Policy{MaxAttempts: 3}, 50, nil, nil)
	op, calls := countingOp(2)

	started := time.Now()
	result := executor.Run(context.Background(), "memory", NewEnvelope("a@x.com", "s", "b"), op)

	require.NoError(t, result.Err)
	require.Equal(t, 3, *calls)
	// burst of one, then two waits of 20ms each
	require.GreaterOrEqual(t, time.Since(started), 35*time.Millisecond)
}
