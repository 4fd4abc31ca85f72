package notify

import (
	"errors"
	"fmt"
)

var (
	ErrNotConfigured    = errors.New("notify: channel not configured")
	ErrQueueFull        = errors.New("notify: background queue full")
	ErrStopped          = errors.New("notify: runner stopped")
	ErrSubscriptionGone = errors.New("notify: push subscription gone")
	errNoAttempts       = errors.New("no attempts allowed")
)

// ConfigurationError means the channel cannot be used at all. It is raised
// before any connection is attempted.
type ConfigurationError struct {
	Channel string
	Err     error
}

func (err *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: configuration: %v", err.Channel, err.Err)
}

func (err *ConfigurationError) Unwrap() error { return err.Err }

// VerificationError means the connection or session check failed, so no
// send was attempted.
type VerificationError struct {
	Channel string
	Err     error
}

func (err *VerificationError) Error() string {
	return fmt.Sprintf("%s: verify: %v", err.Channel, err.Err)
}

func (err *VerificationError) Unwrap() error { return err.Err }

// DeliveryError means the send step failed or timed out after a successful
// verification.
type DeliveryError struct {
	Channel string
	Err     error
}

func (err *DeliveryError) Error() string {
	return fmt.Sprintf("%s: send: %v", err.Channel, err.Err)
}

func (err *DeliveryError) Unwrap() error { return err.Err }

// ExhaustedRetriesError is the terminal result of a retry run in which no
// attempt succeeded. Last is the final attempt's error.
type ExhaustedRetriesError struct {
	Attempts int
	Last     error
}

func (err *ExhaustedRetriesError) Error() string {
	return fmt.Sprintf("gave up after %d attempt(s): %v", err.Attempts, err.Last)
}

func (err *ExhaustedRetriesError) Unwrap() error { return err.Last }
