package notify

import (
	"maps"

	"github.com/google/uuid"
)

// Envelope is one outbound message for one recipient. It is built per event
// and not modified afterwards.
type Envelope struct {
	ID        string
	Recipient string
	Subject   string
	Body      string
	Metadata  map[string]string
}

func NewEnvelope(recipient, subject, body string) Envelope {
	return Envelope{
		ID:        uuid.NewString(),
		Recipient: recipient,
		Subject:   subject,
		Body:      body,
	}
}

// WithRecipient returns a copy addressed to recipient under a fresh ID.
func (envelope Envelope) WithRecipient(recipient string) Envelope {
	envelope.ID = uuid.NewString()
	envelope.Recipient = recipient
	envelope.Metadata = maps.Clone(envelope.Metadata)
	return envelope
}

// WithMetadata returns a copy with key set to value.
func (envelope Envelope) WithMetadata(key, value string) Envelope {
	metadata := maps.Clone(envelope.Metadata)
	if metadata == nil {
		metadata = make(map[string]string, 1)
	}
	metadata[key] = value
	envelope.Metadata = metadata
	return envelope
}

// Meta reads a metadata value; missing keys yield "".
func (envelope Envelope) Meta(key string) string {
	return envelope.Metadata[key]
}

// Metadata keys understood by the transports.
const (
	MetaEvent      = "event"
	MetaURL        = "url"
	MetaReplyTo    = "reply_to"
	MetaPushP256DH = "push_p256dh"
	MetaPushAuth   = "push_auth"
)
