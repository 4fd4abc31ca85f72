package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// WebhookTransport posts a JSON document per envelope to a fixed URL.
type WebhookTransport struct {
	client *http.Client
	url    string
	token  string
}

type webhookPayload struct {
	EventID string `json:"event_id"`
	Event   string `json:"event,omitempty"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	URL     string `json:"url,omitempty"`
}

func NewWebhookTransport(client *http.Client, url, token string) *WebhookTransport {
	if client == nil {
		client = http.DefaultClient
	}
	return &WebhookTransport{client: client, url: strings.TrimSpace(url), token: strings.TrimSpace(token)}
}

func (transport *WebhookTransport) Name() string {
	return "webhook"
}

func (transport *WebhookTransport) Ready() error {
	if transport.url == "" {
		return fmt.Errorf("webhook url is empty: %w", ErrNotConfigured)
	}
	return nil
}

func (transport *WebhookTransport) Open(context.Context) (Session, error) {
	return sessionFunc(transport.send), nil
}

func (transport *WebhookTransport) send(ctx context.Context, envelope Envelope) error {
	payload, err := json.Marshal(webhookPayload{
		EventID: envelope.ID,
		Event:   envelope.Meta(MetaEvent),
		Subject: envelope.Subject,
		Body:    envelope.Body,
		URL:     envelope.Meta(MetaURL),
	})
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	headers := map[string]string{}
	if transport.token != "" {
		headers["Authorization"] = "Bearer " + transport.token
	}
	return postJSON(ctx, transport.client, transport.url, payload, headers)
}

// DiscordTransport posts the envelope to a Discord channel webhook.
type DiscordTransport struct {
	client     *http.Client
	webhookURL string
}

type discordPayload struct {
	Content string `json:"content"`
}

// discordContentLimit is the maximum message length Discord accepts.
const discordContentLimit = 2000

func NewDiscordTransport(client *http.Client, webhookURL string) *DiscordTransport {
	if client == nil {
		client = http.DefaultClient
	}
	return &DiscordTransport{client: client, webhookURL: strings.TrimSpace(webhookURL)}
}

func (transport *DiscordTransport) Name() string {
	return "discord"
}

func (transport *DiscordTransport) Ready() error {
	if transport.webhookURL == "" {
		return fmt.Errorf("discord webhook url is empty: %w", ErrNotConfigured)
	}
	return nil
}

func (transport *DiscordTransport) Open(context.Context) (Session, error) {
	return sessionFunc(transport.send), nil
}

func (transport *DiscordTransport) send(ctx context.Context, envelope Envelope) error {
	content := "**" + envelope.Subject + "**\n" + envelope.Body
	if link := envelope.Meta(MetaURL); link != "" {
		content += "\n" + link
	}
	if runes := []rune(content); len(runes) > discordContentLimit {
		content = string(runes[:discordContentLimit-1]) + "…"
	}

	payload, err := json.Marshal(discordPayload{Content: content})
	if err != nil {
		return fmt.Errorf("marshal discord payload: %w", err)
	}
	return postJSON(ctx, transport.client, transport.webhookURL, payload, nil)
}

// NtfyTransport publishes the envelope as a plain text message to an ntfy
// topic URL.
type NtfyTransport struct {
	client   *http.Client
	topicURL string
	token    string
}

func NewNtfyTransport(client *http.Client, topicURL, token string) *NtfyTransport {
	if client == nil {
		client = http.DefaultClient
	}
	return &NtfyTransport{client: client, topicURL: strings.TrimSpace(topicURL), token: strings.TrimSpace(token)}
}

func (transport *NtfyTransport) Name() string {
	return "ntfy"
}

func (transport *NtfyTransport) Ready() error {
	if transport.topicURL == "" {
		return fmt.Errorf("ntfy topic url is empty: %w", ErrNotConfigured)
	}
	return nil
}

func (transport *NtfyTransport) Open(context.Context) (Session, error) {
	return sessionFunc(transport.send), nil
}

func (transport *NtfyTransport) send(ctx context.Context, envelope Envelope) error {
	headers := map[string]string{
		"Content-Type": "text/plain; charset=utf-8",
		"Title":        envelope.Subject,
		"Priority":     "high",
	}
	if link := envelope.Meta(MetaURL); link != "" {
		headers["Click"] = link
	}
	if transport.token != "" {
		headers["Authorization"] = "Bearer " + transport.token
	}
	return post(ctx, transport.client, transport.topicURL, []byte(envelope.Body), headers)
}

func postJSON(ctx context.Context, client *http.Client, url string, payload []byte, headers map[string]string) error {
	merged := map[string]string{"Content-Type": "application/json"}
	for key, value := range headers {
		merged[key] = value
	}
	return post(ctx, client, url, payload, merged)
}

func post(ctx context.Context, client *http.Client, url string, payload []byte, headers map[string]string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", redact(url), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
