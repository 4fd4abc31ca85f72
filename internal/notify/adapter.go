package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kongyujesse/portfolio-backend/internal/metrics"
)

const (
	DefaultVerifyTimeout = 90 * time.Second
	DefaultSendTimeout   = 90 * time.Second
)

type AdapterConfig struct {
	VerifyTimeout time.Duration
	SendTimeout   time.Duration
}

func (config AdapterConfig) withDefaults() AdapterConfig {
	if config.VerifyTimeout <= 0 {
		config.VerifyTimeout = DefaultVerifyTimeout
	}
	if config.SendTimeout <= 0 {
		config.SendTimeout = DefaultSendTimeout
	}
	return config
}

// Adapter performs one verify-then-send attempt against a Transport. It does
// not retry.
type Adapter struct {
	transport Transport
	config    AdapterConfig
	logger    Logger
	metrics   *metrics.Metrics
}

func NewAdapter(transport Transport, config AdapterConfig, logger Logger, m *metrics.Metrics) *Adapter {
	return &Adapter{
		transport: transport,
		config:    config.withDefaults(),
		logger:    orNop(logger),
		metrics:   m,
	}
}

func (adapter *Adapter) Name() string {
	return adapter.transport.Name()
}

func (adapter *Adapter) Config() AdapterConfig {
	return adapter.config
}

// Ready returns a *ConfigurationError when the transport cannot be used.
func (adapter *Adapter) Ready() error {
	if err := adapter.transport.Ready(); err != nil {
		return &ConfigurationError{Channel: adapter.Name(), Err: err}
	}
	return nil
}

// Send opens a verified session under VerifyTimeout, then sends under
// SendTimeout. The session is closed once the send call has returned.
func (adapter *Adapter) Send(ctx context.Context, envelope Envelope) error {
	channel := adapter.Name()
	started := time.Now()

	transition(adapter.logger, adapter.metrics, channel, envelope, StateVerifying)
	session, err := adapter.open(ctx)
	if err != nil {
		transition(adapter.logger, adapter.metrics, channel, envelope, StateVerifyFailed)
		err = &VerificationError{Channel: channel, Err: err}
		adapter.metrics.RecordAttempt(channel, time.Since(started), err)
		return err
	}
	transition(adapter.logger, adapter.metrics, channel, envelope, StateVerified)
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			adapter.logger.Debug("notify session close failed", "channel", channel, "error", closeErr)
		}
	}()

	transition(adapter.logger, adapter.metrics, channel, envelope, StateSending)
	late, err := adapter.send(ctx, session, envelope)
	if err != nil {
		transition(adapter.logger, adapter.metrics, channel, envelope, StateSendFailed)
		err = &DeliveryError{Channel: channel, Err: err}
		adapter.metrics.RecordAttempt(channel, time.Since(started), err)
		return err
	}
	if late {
		adapter.logger.Warn("notify send finished after deadline", "channel", channel, "recipient", redact(envelope.Recipient), "timeout", adapter.config.SendTimeout)
	}

	transition(adapter.logger, adapter.metrics, channel, envelope, StateDelivered)
	adapter.metrics.RecordAttempt(channel, time.Since(started), nil)
	return nil
}

// send runs session.Send under SendTimeout. When the deadline passes the
// session is aborted if it supports it, and send still waits for the call to
// return: a send that completed anyway reports late with a nil error, any
// other outcome is the timeout.
func (adapter *Adapter) send(ctx context.Context, session Session, envelope Envelope) (late bool, err error) {
	stepCtx, cancel := context.WithTimeout(ctx, adapter.config.SendTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- session.Send(stepCtx, envelope)
	}()

	select {
	case err := <-done:
		return false, err
	case <-stepCtx.Done():
	}

	if aborter, ok := session.(Aborter); ok {
		if abortErr := aborter.Abort(); abortErr != nil {
			adapter.logger.Debug("notify session abort failed", "channel", adapter.Name(), "error", abortErr)
		}
	}
	if sendErr := <-done; sendErr == nil {
		return true, nil
	} else if !errors.Is(sendErr, context.DeadlineExceeded) && !errors.Is(sendErr, context.Canceled) {
		adapter.logger.Debug("notify send aborted", "channel", adapter.Name(), "error", sendErr)
	}
	return false, fmt.Errorf("timed out after %s: %w", adapter.config.SendTimeout, stepCtx.Err())
}

type openResult struct {
	session Session
	err     error
}

func (adapter *Adapter) open(ctx context.Context) (Session, error) {
	verifyCtx, cancel := context.WithTimeout(ctx, adapter.config.VerifyTimeout)
	defer cancel()

	done := make(chan openResult, 1)
	go func() {
		session, err := adapter.transport.Open(verifyCtx)
		done <- openResult{session: session, err: err}
	}()

	select {
	case result := <-done:
		return result.session, result.err
	case <-verifyCtx.Done():
		// A session that arrives after the deadline is closed unused.
		go func() {
			if result := <-done; result.session != nil {
				_ = result.session.Close()
			}
		}()
		return nil, fmt.Errorf("verification timed out after %s: %w", adapter.config.VerifyTimeout, verifyCtx.Err())
	}
}
