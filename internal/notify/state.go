package notify

import "github.com/kongyujesse/portfolio-backend/internal/metrics"

// State is a step of a single recipient's delivery.
//
//	PENDING -> VERIFYING -> VERIFIED -> SENDING -> DELIVERED
//	                     \-> VERIFY_FAILED        \-> SEND_FAILED
//
// A failed attempt returns to PENDING while attempts remain, otherwise the
// recipient ends in ABANDONED.
type State string

const (
	StatePending      State = "PENDING"
	StateVerifying    State = "VERIFYING"
	StateVerified     State = "VERIFIED"
	StateVerifyFailed State = "VERIFY_FAILED"
	StateSending      State = "SENDING"
	StateDelivered    State = "DELIVERED"
	StateSendFailed   State = "SEND_FAILED"
	StateAbandoned    State = "ABANDONED"
)

// Terminal reports whether no further transition can follow.
func (state State) Terminal() bool {
	return state == StateDelivered || state == StateAbandoned
}

func (state State) String() string {
	return string(state)
}

func transition(logger Logger, m *metrics.Metrics, channel string, envelope Envelope, state State) {
	logger.Debug("notify transition", "channel", channel, "envelope", envelope.ID, "recipient", redact(envelope.Recipient), "state", state)
	m.RecordTransition(string(state))
}
