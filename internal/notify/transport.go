package notify

import (
	"context"
	"strings"
)

// Transport is one delivery channel. Ready checks configuration without I/O.
// Open connects and verifies the session; the returned Session delivers
// envelopes until closed.
type Transport interface {
	Name() string
	Ready() error
	Open(ctx context.Context) (Session, error)
}

type Session interface {
	Send(ctx context.Context, envelope Envelope) error
	Close() error
}

// Aborter is implemented by sessions whose Send can be interrupted from
// another goroutine, such as one blocked on a network connection that does
// not watch its context.
type Aborter interface {
	Abort() error
}

// sessionFunc adapts a stateless send function to Session.
type sessionFunc func(ctx context.Context, envelope Envelope) error

func (send sessionFunc) Send(ctx context.Context, envelope Envelope) error {
	return send(ctx, envelope)
}

func (sessionFunc) Close() error { return nil }

// redact keeps log lines free of full addresses and push endpoints.
func redact(recipient string) string {
	if recipient == "" {
		return "unknown"
	}
	if strings.HasPrefix(recipient, "https://") || strings.HasPrefix(recipient, "http://") {
		parts := strings.Split(recipient, "/")
		if len(parts) >= 3 {
			return parts[0] + "//" + parts[2]
		}
		return "unknown"
	}
	if at := strings.LastIndexByte(recipient, '@'); at > 0 {
		return recipient[:1] + "***" + recipient[at:]
	}
	return recipient
}
