package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
)

type WebPushConfig struct {
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	VAPIDSubject    string
	TTLSeconds      int
	Topic           string
	// HTTPClient overrides the client used to reach push services.
	HTTPClient webpush.HTTPClient
}

// WebPushTransport sends browser push notifications. The envelope recipient
// is the subscription endpoint and its keys travel in metadata.
type WebPushTransport struct {
	config WebPushConfig
}

type pushPayload struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url,omitempty"`
	Event string `json:"event,omitempty"`
}

func NewWebPushTransport(config WebPushConfig) *WebPushTransport {
	if config.TTLSeconds <= 0 {
		config.TTLSeconds = 3600
	}
	if config.Topic == "" {
		config.Topic = "portfolio"
	}
	return &WebPushTransport{config: config}
}

func (transport *WebPushTransport) Name() string {
	return "webpush"
}

func (transport *WebPushTransport) Ready() error {
	if transport.config.VAPIDPublicKey == "" || transport.config.VAPIDPrivateKey == "" || transport.config.VAPIDSubject == "" {
		return fmt.Errorf("vapid keys are empty: %w", ErrNotConfigured)
	}
	return nil
}

func (transport *WebPushTransport) Open(context.Context) (Session, error) {
	return sessionFunc(transport.send), nil
}

// PushRecipient builds the fan-out recipient for a stored subscription.
func PushRecipient(endpoint, p256dh, auth string) Recipient {
	return Recipient{
		Address:  endpoint,
		Metadata: map[string]string{MetaPushP256DH: p256dh, MetaPushAuth: auth},
	}
}

func (transport *WebPushTransport) send(ctx context.Context, envelope Envelope) error {
	payload, err := json.Marshal(pushPayload{
		ID:    envelope.ID,
		Title: envelope.Subject,
		Body:  envelope.Body,
		URL:   envelope.Meta(MetaURL),
		Event: envelope.Meta(MetaEvent),
	})
	if err != nil {
		return fmt.Errorf("marshal push payload: %w", err)
	}

	subscription := &webpush.Subscription{
		Endpoint: envelope.Recipient,
		Keys: webpush.Keys{
			P256dh: envelope.Meta(MetaPushP256DH),
			Auth:   envelope.Meta(MetaPushAuth),
		},
	}
	options := &webpush.Options{
		HTTPClient:      transport.config.HTTPClient,
		Subscriber:      transport.config.VAPIDSubject,
		VAPIDPublicKey:  transport.config.VAPIDPublicKey,
		VAPIDPrivateKey: transport.config.VAPIDPrivateKey,
		TTL:             transport.config.TTLSeconds,
		Urgency:         webpush.UrgencyHigh,
		Topic:           transport.config.Topic,
	}

	response, err := webpush.SendNotificationWithContext(ctx, payload, subscription, options)
	if err != nil {
		return fmt.Errorf("push to %s: %w", redact(envelope.Recipient), err)
	}
	_, _ = io.Copy(io.Discard, response.Body)
	_ = response.Body.Close()

	switch {
	case response.StatusCode >= 200 && response.StatusCode <= 299:
		return nil
	case response.StatusCode == http.StatusGone || response.StatusCode == http.StatusNotFound:
		return fmt.Errorf("push to %s: status %d: %w", redact(envelope.Recipient), response.StatusCode, ErrSubscriptionGone)
	default:
		return fmt.Errorf("push to %s: status %d", redact(envelope.Recipient), response.StatusCode)
	}
}
