package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stallingTransport struct {
	stall time.Duration
}

func (stallingTransport) Name() string { return "stalling" }
func (stallingTransport) Ready() error { return nil }
func (transport stallingTransport) Open(context.Context) (Session, error) {
	time.Sleep(transport.stall)
	return sessionFunc(func(context.Context, Envelope) error { return nil }), nil
}

// deafTransport sends without watching ctx. When abortable, Abort cuts an
// in-flight send short the way closing a connection would.
type deafTransport struct {
	delay     time.Duration
	abortable bool

	mu            sync.Mutex
	deliveries    int
	sending       bool
	closedMidSend bool
	abort         chan struct{}
}

func (*deafTransport) Name() string { return "deaf" }
func (*deafTransport) Ready() error { return nil }

func (transport *deafTransport) Open(context.Context) (Session, error) {
	transport.mu.Lock()
	transport.abort = make(chan struct{})
	transport.mu.Unlock()
	if transport.abortable {
		return abortableSession{deafSession{transport}}, nil
	}
	return deafSession{transport}, nil
}

func (transport *deafTransport) Deliveries() int {
	transport.mu.Lock()
	defer transport.mu.Unlock()
	return transport.deliveries
}

type deafSession struct {
	transport *deafTransport
}

func (session deafSession) Send(context.Context, Envelope) error {
	transport := session.transport
	transport.mu.Lock()
	transport.sending = true
	abort := transport.abort
	transport.mu.Unlock()
	defer func() {
		transport.mu.Lock()
		transport.sending = false
		transport.mu.Unlock()
	}()

	select {
	case <-time.After(transport.delay):
	case <-abort:
		return errors.New("use of closed network connection")
	}
	transport.mu.Lock()
	transport.deliveries++
	transport.mu.Unlock()
	return nil
}

func (session deafSession) Close() error {
	session.transport.mu.Lock()
	defer session.transport.mu.Unlock()
	if session.transport.sending {
		session.transport.closedMidSend = true
	}
	return nil
}

type abortableSession struct {
	deafSession
}

func (session abortableSession) Abort() error {
	close(session.transport.abort)
	return nil
}

func TestAdapterSendDelivers(t *testing.T) {
	transport := NewMemoryTransport("memory")
	adapter := NewAdapter(transport, AdapterConfig{}, nil, nil)

	require.NoError(t, adapter.Send(context.Background(), NewEnvelope("a@x.com", "hello", "body")))
	require.Equal(t, 1, transport.Opens())
	require.Len(t, transport.Delivered(), 1)
	require.Equal(t, DefaultVerifyTimeout, adapter.Config().VerifyTimeout)
	require.Equal(t, DefaultSendTimeout, adapter.Config().SendTimeout)
}

func TestAdapterVerifyFailureSkipsSend(t *testing.T) {
	transport := NewMemoryTransport("memory")
	transport.FailOpen(errors.New("auth rejected"))
	adapter := NewAdapter(transport, AdapterConfig{}, nil, nil)

	err := adapter.Send(context.Background(), NewEnvelope("a@x.com", "hello", "body"))

	var verifyErr *VerificationError
	require.ErrorAs(t, err, &verifyErr)
	require.Equal(t, "memory", verifyErr.Channel)
	require.Zero(t, transport.Sends())
}

func TestAdapterSendFailureIsDeliveryError(t *testing.T) {
	transport := NewMemoryTransport("memory")
	transport.FailSends(1)
	adapter := NewAdapter(transport, AdapterConfig{}, nil, nil)

	err := adapter.Send(context.Background(), NewEnvelope("a@x.com", "hello", "body"))

	var deliveryErr *DeliveryError
	require.ErrorAs(t, err, &deliveryErr)
	require.Equal(t, 1, transport.Sends())
}

func TestAdapterSendTimeout(t *testing.T) {
	transport := NewMemoryTransport("memory")
	transport.SetDelay(time.Second)
	adapter := NewAdapter(transport, AdapterConfig{SendTimeout: 20 * time.Millisecond}, nil, nil)

	started := time.Now()
	err := adapter.Send(context.Background(), NewEnvelope("a@x.com", "hello", "body"))

	var deliveryErr *DeliveryError
	require.ErrorAs(t, err, &deliveryErr)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, time.Since(started), 500*time.Millisecond)
	require.Empty(t, transport.Delivered())
}

func TestAdapterLateSendIsNotRetried(t *testing.T) {
	transport := &deafTransport{delay: 50 * time.Millisecond}
	adapter := NewAdapter(transport, AdapterConfig{SendTimeout: 10 * time.Millisecond}, nil, nil)
	envelope := NewEnvelope("a@x.com", "hello", "body")

	result := WithRetry(context.Background(), Policy{MaxAttempts: 3}, func(ctx context.Context) error {
		return adapter.Send(ctx, envelope)
	})

	require.NoError(t, result.Err)
	require.Equal(t, 1, result.Attempts)
	require.Equal(t, 1, transport.Deliveries())
	require.False(t, transport.closedMidSend)
}

func TestAdapterSendTimeoutAbortsSession(t *testing.T) {
	transport := &deafTransport{delay: time.Second, abortable: true}
	adapter := NewAdapter(transport, AdapterConfig{SendTimeout: 10 * time.Millisecond}, nil, nil)
	envelope := NewEnvelope("a@x.com", "hello", "body")

	started := time.Now()
	result := WithRetry(context.Background(), Policy{MaxAttempts: 3}, func(ctx context.Context) error {
		return adapter.Send(ctx, envelope)
	})

	require.Less(t, time.Since(started), 500*time.Millisecond)
	require.Equal(t, 3, result.Attempts)
	var deliveryErr *DeliveryError
	require.ErrorAs(t, result.Err, &deliveryErr)
	require.ErrorIs(t, result.Err, context.DeadlineExceeded)
	require.Zero(t, transport.Deliveries())
	require.False(t, transport.closedMidSend)
}

func TestAdapterVerifyTimeoutWithUncooperativeTransport(t *testing.T) {
	adapter := NewAdapter(stallingTransport{stall: 300 * time.Millisecond}, AdapterConfig{VerifyTimeout: 20 * time.Millisecond}, nil, nil)

	started := time.Now()
	err := adapter.Send(context.Background(), NewEnvelope("a@x.com", "hello", "body"))

	var verifyErr *VerificationError
	require.ErrorAs(t, err, &verifyErr)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, time.Since(started), 250*time.Millisecond)
}

func TestAdapterReadyWrapsConfigurationError(t *testing.T) {
	transport := NewMemoryTransport("memory")
	transport.SetReady(ErrNotConfigured)
	adapter := NewAdapter(transport, AdapterConfig{}, nil, nil)

	err := adapter.Ready()
	var configErr *ConfigurationError
	require.ErrorAs(t, err, &configErr)
	require.ErrorIs(t, err, ErrNotConfigured)
	require.True(t, IsConfigurationError(err))
}

func TestEnvelopeCopiesAreIndependent(t *testing.T) {
	original := NewEnvelope("a@x.com", "subject", "body").WithMetadata(MetaEvent, "one")
	copied := original.WithRecipient("b@x.com").WithMetadata(MetaEvent, "two")

	require.Equal(t, "a@x.com", original.Recipient)
	require.Equal(t, "one", original.Meta(MetaEvent))
	require.Equal(t, "two", copied.Meta(MetaEvent))
	require.NotEqual(t, original.ID, copied.ID)
}

func TestRedact(t *testing.T) {
	require.Equal(t, "j***@example.com", redact("jane@example.com"))
	require.Equal(t, "https://fcm.googleapis.com", redact("https://fcm.googleapis.com/fcm/send/abc"))
	require.Equal(t, "unknown", redact(""))
}
