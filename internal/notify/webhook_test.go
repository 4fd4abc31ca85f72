package notify

import (
	"context"
	"crypto/ecdh"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/require"
)

func TestWebhookTransportPostsJSON(t *testing.T) {
	var received webhookPayload
	var authorization string
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		authorization = request.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(request.Body).Decode(&received))
		writer.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	transport := NewWebhookTransport(server.Client(), server.URL, " secret ")
	envelope := NewEnvelope("owner", "New message: hi", "Jane: hello").
		WithMetadata(MetaEvent, EventMessageCreated).
		WithMetadata(MetaURL, "https://site/admin#messages")

	adapter := NewAdapter(transport, AdapterConfig{}, nil, nil)
	require.NoError(t, adapter.Ready())
	require.NoError(t, adapter.Send(context.Background(), envelope))

	require.Equal(t, "Bearer secret", authorization)
	require.Equal(t, envelope.ID, received.EventID)
	require.Equal(t, EventMessageCreated, received.Event)
	require.Equal(t, "New message: hi", received.Subject)
	require.Equal(t, "https://site/admin#messages", received.URL)
}

func TestWebhookTransportNon2xxIsDeliveryError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		http.Error(writer, "nope", http.StatusBadGateway)
	}))
	defer server.Close()

	adapter := NewAdapter(NewWebhookTransport(server.Client(), server.URL, ""), AdapterConfig{}, nil, nil)
	err := adapter.Send(context.Background(), NewEnvelope("owner", "s", "b"))

	var deliveryErr *DeliveryError
	require.ErrorAs(t, err, &deliveryErr)
	require.Contains(t, err.Error(), "status 502")
}

func TestWebhookTransportsRequireURL(t *testing.T) {
	require.ErrorIs(t, NewWebhookTransport(nil, "  ", "").Ready(), ErrNotConfigured)
	require.ErrorIs(t, NewDiscordTransport(nil, "").Ready(), ErrNotConfigured)
	require.ErrorIs(t, NewNtfyTransport(nil, "", "").Ready(), ErrNotConfigured)
}

func TestNtfyTransportPublishesPlainText(t *testing.T) {
	var body []byte
	var headers http.Header
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		headers = request.Header.Clone()
		body, _ = io.ReadAll(request.Body)
		writer.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	envelope := NewEnvelope("owner", "New message: hi", "Jane: hello").
		WithMetadata(MetaURL, "https://site/admin#messages")
	adapter := NewAdapter(NewNtfyTransport(server.Client(), server.URL+"/portfolio", "tk"), AdapterConfig{}, nil, nil)
	require.NoError(t, adapter.Send(context.Background(), envelope))

	require.Equal(t, "Jane: hello", string(body))
	require.Equal(t, "New message: hi", headers.Get("Title"))
	require.Equal(t, "https://site/admin#messages", headers.Get("Click"))
	require.Equal(t, "Bearer tk", headers.Get("Authorization"))
	require.True(t, strings.HasPrefix(headers.Get("Content-Type"), "text/plain"))
}

func TestDiscordTransportTruncatesContent(t *testing.T) {
	var received discordPayload
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		require.NoError(t, json.NewDecoder(request.Body).Decode(&received))
		writer.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	adapter := NewAdapter(NewDiscordTransport(server.Client(), server.URL), AdapterConfig{}, nil, nil)
	require.NoError(t, adapter.Send(context.Background(), NewEnvelope("owner", "Subject", strings.Repeat("x", 3000))))

	require.True(t, strings.HasPrefix(received.Content, "**Subject**\n"))
	require.Len(t, []rune(received.Content), discordContentLimit)
}

func newPushKeys(t *testing.T) (string, string) {
	t.Helper()
	key, err := ecdh.P256().GenerateKey(rand.Reader)
	require.NoError(t, err)
	auth := make([]byte, 16)
	_, err = rand.Read(auth)
	require.NoError(t, err)
	return base64.RawURLEncoding.EncodeToString(key.PublicKey().Bytes()), base64.RawURLEncoding.EncodeToString(auth)
}

func newWebPushTransport(t *testing.T, client webpush.HTTPClient) *WebPushTransport {
	t.Helper()
	privateKey, publicKey, err := webpush.GenerateVAPIDKeys()
	require.NoError(t, err)
	return NewWebPushTransport(WebPushConfig{
		VAPIDPublicKey:  publicKey,
		VAPIDPrivateKey: privateKey,
		VAPIDSubject:    "mailto:owner@example.com",
		HTTPClient:      client,
	})
}

func TestWebPushTransportDelivers(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		hits++
		require.Equal(t, "aes128gcm", request.Header.Get("Content-Encoding"))
		writer.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	p256dh, auth := newPushKeys(t)
	recipient := PushRecipient(server.URL+"/push/1", p256dh, auth)
	dispatcher := newTestDispatcher(newWebPushTransport(t, server.Client()), Policy{MaxAttempts: 1})

	summary := dispatcher.FanOut(context.Background(), []Recipient{recipient}, func(recipient Recipient) Envelope {
		return NewEnvelope(recipient.Address, "New message", "hello").
			WithMetadata(MetaPushP256DH, recipient.Metadata[MetaPushP256DH]).
			WithMetadata(MetaPushAuth, recipient.Metadata[MetaPushAuth])
	})

	require.Equal(t, 1, summary.Succeeded)
	require.Equal(t, 1, hits)
}

func TestWebPushTransportGoneSubscription(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusGone)
	}))
	defer server.Close()

	p256dh, auth := newPushKeys(t)
	adapter := NewAdapter(newWebPushTransport(t, server.Client()), AdapterConfig{}, nil, nil)
	envelope := NewEnvelope(server.URL+"/push/1", "New message", "hello").
		WithMetadata(MetaPushP256DH, p256dh).
		WithMetadata(MetaPushAuth, auth)

	err := adapter.Send(context.Background(), envelope)
	require.ErrorIs(t, err, ErrSubscriptionGone)
}

func TestWebPushTransportRequiresVAPIDKeys(t *testing.T) {
	require.ErrorIs(t, NewWebPushTransport(WebPushConfig{}).Ready(), ErrNotConfigured)
}
