package notify

import (
	"context"
	"errors"

	"github.com/kongyujesse/portfolio-backend/internal/metrics"
)

// Recipient is one fan-out target. Metadata carries per-recipient values
// such as unsubscribe tokens or push keys.
type Recipient struct {
	Address  string
	Metadata map[string]string
}

type RecipientFailure struct {
	Recipient string
	Attempts  int
	Err       error
}

// Summary is the outcome of a fan-out. Failures keeps recipient order.
type Summary struct {
	Succeeded int
	Failed    int
	Failures  []RecipientFailure
}

// Dispatcher delivers envelopes over one Adapter with the retry policy of its
// Executor.
type Dispatcher struct {
	adapter  *Adapter
	executor *Executor
	logger   Logger
	metrics  *metrics.Metrics
}

func NewDispatcher(adapter *Adapter, executor *Executor, logger Logger, m *metrics.Metrics) *Dispatcher {
	return &Dispatcher{adapter: adapter, executor: executor, logger: orNop(logger), metrics: m}
}

func (dispatcher *Dispatcher) Channel() string {
	return dispatcher.adapter.Name()
}

func (dispatcher *Dispatcher) Ready() error {
	return dispatcher.adapter.Ready()
}

// Dispatch runs one retry run for envelope. An unconfigured channel fails
// immediately without touching the transport.
func (dispatcher *Dispatcher) Dispatch(ctx context.Context, envelope Envelope) Result {
	channel := dispatcher.Channel()
	if err := dispatcher.Ready(); err != nil {
		dispatcher.metrics.RecordNotConfigured(channel)
		dispatcher.logger.Warn("notify skipped", "channel", channel, "envelope", envelope.ID, "error", err)
		return Result{Err: err}
	}

	result := dispatcher.executor.Run(ctx, channel, envelope, func(ctx context.Context) error {
		transition(dispatcher.logger, dispatcher.metrics, channel, envelope, StatePending)
		return dispatcher.adapter.Send(ctx, envelope)
	})

	if result.Err != nil {
		transition(dispatcher.logger, dispatcher.metrics, channel, envelope, StateAbandoned)
		dispatcher.logger.Error("notify delivery abandoned",
			"channel", channel,
			"envelope", envelope.ID,
			"recipient", redact(envelope.Recipient),
			"attempts", result.Attempts,
			"elapsed", result.Elapsed,
			"error", result.Err,
		)
		return result
	}

	dispatcher.logger.Info("notify delivered",
		"channel", channel,
		"envelope", envelope.ID,
		"recipient", redact(envelope.Recipient),
		"attempts", result.Attempts,
		"elapsed", result.Elapsed,
	)
	return result
}

// FanOut delivers to each recipient in order, one independent retry run per
// recipient. A failing recipient never stops the loop.
func (dispatcher *Dispatcher) FanOut(ctx context.Context, recipients []Recipient, build func(Recipient) Envelope) Summary {
	snapshot := append([]Recipient(nil), recipients...)
	summary := Summary{}
	channel := dispatcher.Channel()

	if err := dispatcher.Ready(); err != nil {
		dispatcher.metrics.RecordNotConfigured(channel)
		for _, recipient := range snapshot {
			summary.Failed++
			summary.Failures = append(summary.Failures, RecipientFailure{Recipient: recipient.Address, Err: err})
		}
		dispatcher.metrics.RecordFanOut(0, summary.Failed)
		dispatcher.logger.Warn("notify fan-out skipped", "channel", channel, "recipients", len(snapshot), "error", err)
		return summary
	}

	for _, recipient := range snapshot {
		if ctx.Err() != nil {
			summary.Failed++
			summary.Failures = append(summary.Failures, RecipientFailure{Recipient: recipient.Address, Err: ctx.Err()})
			continue
		}

		result := dispatcher.Dispatch(ctx, build(recipient))
		if result.Err != nil {
			summary.Failed++
			summary.Failures = append(summary.Failures, RecipientFailure{
				Recipient: recipient.Address,
				Attempts:  result.Attempts,
				Err:       result.Err,
			})
			continue
		}
		summary.Succeeded++
	}

	dispatcher.metrics.RecordFanOut(summary.Succeeded, summary.Failed)
	dispatcher.logger.Info("notify fan-out finished",
		"channel", channel,
		"recipients", len(snapshot),
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
	)
	return summary
}

// IsConfigurationError reports whether err came from a channel that is not
// configured.
func IsConfigurationError(err error) bool {
	var configErr *ConfigurationError
	return errors.As(err, &configErr)
}
