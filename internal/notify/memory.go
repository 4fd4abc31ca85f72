package notify

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"
)

var errScriptedFailure = errors.New("scripted failure")

// MemoryTransport keeps delivered envelopes in memory. It backs the
// development "memory" transport and can be scripted to fail or stall.
type MemoryTransport struct {
	name string

	mu         sync.Mutex
	readyErr   error
	openErr    error
	failSends  int
	failFor    map[string]error
	delay      time.Duration
	opens      int
	sendCalls  map[string]int
	totalSends int
	delivered  []Envelope
	onDeliver  func(Envelope)
}

func NewMemoryTransport(name string) *MemoryTransport {
	if name == "" {
		name = "memory"
	}
	return &MemoryTransport{name: name, failFor: map[string]error{}, sendCalls: map[string]int{}}
}

func (transport *MemoryTransport) Name() string {
	return transport.name
}

func (transport *MemoryTransport) Ready() error {
	transport.mu.Lock()
	defer transport.mu.Unlock()
	return transport.readyErr
}

// SetReady makes Ready return err; nil restores a configured transport.
func (transport *MemoryTransport) SetReady(err error) {
	transport.mu.Lock()
	defer transport.mu.Unlock()
	transport.readyErr = err
}

// FailOpen makes every verification fail with err.
func (transport *MemoryTransport) FailOpen(err error) {
	transport.mu.Lock()
	defer transport.mu.Unlock()
	transport.openErr = err
}

// FailSends makes the next n sends fail regardless of recipient.
func (transport *MemoryTransport) FailSends(n int) {
	transport.mu.Lock()
	defer transport.mu.Unlock()
	transport.failSends = n
}

// FailRecipient makes every send to recipient fail.
func (transport *MemoryTransport) FailRecipient(recipient string, err error) {
	transport.mu.Lock()
	defer transport.mu.Unlock()
	if err == nil {
		err = errScriptedFailure
	}
	transport.failFor[recipient] = err
}

// SetDelay stalls every send by delay, honouring the send deadline.
func (transport *MemoryTransport) SetDelay(delay time.Duration) {
	transport.mu.Lock()
	defer transport.mu.Unlock()
	transport.delay = delay
}

// OnDeliver registers a callback invoked after each successful send.
func (transport *MemoryTransport) OnDeliver(callback func(Envelope)) {
	transport.mu.Lock()
	defer transport.mu.Unlock()
	transport.onDeliver = callback
}

func (transport *MemoryTransport) Open(ctx context.Context) (Session, error) {
	transport.mu.Lock()
	transport.opens++
	err := transport.openErr
	transport.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return sessionFunc(transport.send), nil
}

func (transport *MemoryTransport) send(ctx context.Context, envelope Envelope) error {
	transport.mu.Lock()
	transport.totalSends++
	transport.sendCalls[envelope.Recipient]++
	delay := transport.delay
	failErr, failRecipient := transport.failFor[envelope.Recipient]
	failScripted := transport.failSends > 0
	if failScripted {
		transport.failSends--
	}
	transport.mu.Unlock()

	if delay > 0 {
		if err := sleep(ctx, delay); err != nil {
			return err
		}
	}
	if failRecipient {
		return failErr
	}
	if failScripted {
		return errScriptedFailure
	}

	transport.mu.Lock()
	transport.delivered = append(transport.delivered, envelope)
	callback := transport.onDeliver
	transport.mu.Unlock()

	if callback != nil {
		callback(envelope)
	}
	return nil
}

// Opens counts verification attempts.
func (transport *MemoryTransport) Opens() int {
	transport.mu.Lock()
	defer transport.mu.Unlock()
	return transport.opens
}

// Sends counts send calls across all recipients.
func (transport *MemoryTransport) Sends() int {
	transport.mu.Lock()
	defer transport.mu.Unlock()
	return transport.totalSends
}

// SendsTo counts send calls for one recipient.
func (transport *MemoryTransport) SendsTo(recipient string) int {
	transport.mu.Lock()
	defer transport.mu.Unlock()
	return transport.sendCalls[recipient]
}

func (transport *MemoryTransport) Delivered() []Envelope {
	transport.mu.Lock()
	defer transport.mu.Unlock()
	return slices.Clone(transport.delivered)
}
