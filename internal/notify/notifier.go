package notify

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/kongyujesse/portfolio-backend/internal/domain"
	"github.com/kongyujesse/portfolio-backend/internal/metrics"
)

const (
	EventMessageCreated   = "message_created"
	EventSubscriberAdded  = "subscriber_added"
	EventProjectPublished = "project_published"
)

const inboxTask = "_inbox"

// Store is the persistence the notifier reads and updates from background
// tasks.
type Store interface {
	CreateNotification(ctx context.Context, notification domain.Notification) (domain.Notification, error)
	MarkMessageNotified(ctx context.Context, id string) error
	ListSubscribed(ctx context.Context) ([]domain.Subscriber, error)
	ListPushSubscriptions(ctx context.Context) ([]domain.PushSubscription, error)
	DeletePushSubscription(ctx context.Context, endpoint string) error
}

type NotifierConfig struct {
	OwnerEmail  string
	OwnerName   string
	FrontendURL string
}

// Notifier turns committed domain events into background deliveries. Every
// method returns immediately and never reports delivery failures.
type Notifier struct {
	config    NotifierConfig
	runner    *Runner
	templates *TemplateStore
	store     Store
	email     *Dispatcher
	alerts    []*Dispatcher
	push      *Dispatcher
	logger    Logger
	metrics   *metrics.Metrics
}

type NotifierOption func(*Notifier)

// WithOwnerAlerts adds chat or webhook channels that also receive contact
// message alerts.
func WithOwnerAlerts(dispatchers ...*Dispatcher) NotifierOption {
	return func(notifier *Notifier) {
		notifier.alerts = append(notifier.alerts, dispatchers...)
	}
}

// WithOwnerPush sends contact message alerts to the owner's registered
// browsers.
func WithOwnerPush(dispatcher *Dispatcher) NotifierOption {
	return func(notifier *Notifier) {
		notifier.push = dispatcher
	}
}

func NewNotifier(config NotifierConfig, runner *Runner, templates *TemplateStore, store Store, email *Dispatcher, logger Logger, m *metrics.Metrics, options ...NotifierOption) *Notifier {
	config.FrontendURL = strings.TrimRight(config.FrontendURL, "/")
	if config.OwnerName == "" {
		config.OwnerName = "Portfolio Owner"
	}
	notifier := &Notifier{
		config:    config,
		runner:    runner,
		templates: templates,
		store:     store,
		email:     email,
		logger:    orNop(logger),
		metrics:   m,
	}
	for _, option := range options {
		option(notifier)
	}
	return notifier
}

type contactAlertData struct {
	Message  domain.Message
	Lines    []string
	AdminURL string
}

type welcomeData struct {
	Owner          string
	UnsubscribeURL string
}

type projectData struct {
	Project        domain.Project
	Summary        string
	Owner          string
	Email          string
	ProjectsURL    string
	UnsubscribeURL string
}

// MessageCreated alerts the owner about a stored contact message. A
// successful email alert marks the message as notified.
func (notifier *Notifier) MessageCreated(message domain.Message) {
	notifier.record(EventMessageCreated, domain.Notification{
		Type:            domain.NotificationInfo,
		Title:           "New message from " + message.Name,
		Message:         message.Subject,
		RelatedEntity:   domain.EntityMessage,
		RelatedEntityID: message.ID,
	})

	notifier.submit(EventMessageCreated+"_email", func(ctx context.Context) {
		if notifier.config.OwnerEmail == "" {
			notifier.metrics.RecordNotConfigured(notifier.email.Channel())
			notifier.logger.Warn("contact alert skipped", "message", message.ID, "error", "owner email is empty")
			return
		}

		body, err := notifier.templates.Render(TemplateContactAlert, contactAlertData{
			Message:  message,
			Lines:    strings.Split(message.Message, "\n"),
			AdminURL: notifier.config.FrontendURL + "/admin#messages",
		})
		if err != nil {
			notifier.logger.Error("contact alert render failed", "message", message.ID, "error", err)
			return
		}

		envelope := NewEnvelope(notifier.config.OwnerEmail, "New Portfolio Message: "+message.Subject, body).
			WithMetadata(MetaEvent, EventMessageCreated).
			WithMetadata(MetaReplyTo, message.Email)
		if result := notifier.email.Dispatch(ctx, envelope); !result.OK() {
			return
		}
		if err := notifier.store.MarkMessageNotified(ctx, message.ID); err != nil {
			notifier.logger.Error("mark message notified failed", "message", message.ID, "error", err)
		}
	})

	if len(notifier.alerts) > 0 {
		notifier.submit(EventMessageCreated+"_alert", func(ctx context.Context) {
			envelope := notifier.ownerAlert(message)
			for _, dispatcher := range notifier.alerts {
				dispatcher.Dispatch(ctx, envelope)
			}
		})
	}

	if notifier.push != nil {
		notifier.submit(EventMessageCreated+"_push", func(ctx context.Context) {
			notifier.pushOwner(ctx, notifier.ownerAlert(message))
		})
	}
}

func (notifier *Notifier) ownerAlert(message domain.Message) Envelope {
	body := fmt.Sprintf("%s <%s>: %s", message.Name, message.Email, truncate(message.Message, 280))
	return NewEnvelope("owner", "New message: "+message.Subject, body).
		WithMetadata(MetaEvent, EventMessageCreated).
		WithMetadata(MetaURL, notifier.config.FrontendURL+"/admin#messages")
}

func (notifier *Notifier) pushOwner(ctx context.Context, alert Envelope) {
	subscriptions, err := notifier.store.ListPushSubscriptions(ctx)
	if err != nil {
		notifier.logger.Error("list push subscriptions failed", "error", err)
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	recipients := make([]Recipient, 0, len(subscriptions))
	for _, subscription := range subscriptions {
		recipients = append(recipients, PushRecipient(subscription.Endpoint, subscription.P256DH, subscription.Auth))
	}

	summary := notifier.push.FanOut(ctx, recipients, func(recipient Recipient) Envelope {
		envelope := alert.WithRecipient(recipient.Address)
		for key, value := range recipient.Metadata {
			envelope = envelope.WithMetadata(key, value)
		}
		return envelope
	})

	for _, failure := range summary.Failures {
		if !errors.Is(failure.Err, ErrSubscriptionGone) {
			continue
		}
		if err := notifier.store.DeletePushSubscription(ctx, failure.Recipient); err != nil {
			notifier.logger.Error("delete gone push subscription failed", "endpoint", redact(failure.Recipient), "error", err)
			continue
		}
		notifier.logger.Info("deleted gone push subscription", "endpoint", redact(failure.Recipient))
	}
}

// SubscriberAdded sends the welcome email to a new or returning subscriber.
func (notifier *Notifier) SubscriberAdded(subscriber domain.Subscriber) {
	notifier.record(EventSubscriberAdded, domain.Notification{
		Type:          domain.NotificationSuccess,
		Title:         "New newsletter subscriber",
		Message:       subscriber.Email,
		RelatedEntity: domain.EntitySystem,
	})

	notifier.submit(EventSubscriberAdded, func(ctx context.Context) {
		body, err := notifier.templates.Render(TemplateWelcome, welcomeData{
			Owner:          notifier.config.OwnerName,
			UnsubscribeURL: notifier.UnsubscribeURL(subscriber.UnsubscribeToken),
		})
		if err != nil {
			notifier.logger.Error("welcome render failed", "subscriber", subscriber.ID, "error", err)
			return
		}

		envelope := NewEnvelope(subscriber.Email, "Welcome to My Newsletter!", body).
			WithMetadata(MetaEvent, EventSubscriberAdded)
		notifier.email.Dispatch(ctx, envelope)
	})
}

// ProjectPublished announces a new project to every subscriber active when
// the task runs.
func (notifier *Notifier) ProjectPublished(project domain.Project) {
	notifier.record(EventProjectPublished, domain.Notification{
		Type:            domain.NotificationSuccess,
		Title:           "Project published",
		Message:         project.Title,
		RelatedEntity:   domain.EntityProject,
		RelatedEntityID: project.ID,
	})

	notifier.submit(EventProjectPublished, func(ctx context.Context) {
		subscribers, err := notifier.store.ListSubscribed(ctx)
		if err != nil {
			notifier.logger.Error("list subscribers failed", "project", project.ID, "error", err)
			return
		}
		if len(subscribers) == 0 {
			notifier.logger.Info("no subscribers to notify", "project", project.ID)
			return
		}

		recipients := make([]Recipient, 0, len(subscribers))
		for _, subscriber := range subscribers {
			recipients = append(recipients, Recipient{
				Address:  subscriber.Email,
				Metadata: map[string]string{"unsubscribe_token": subscriber.UnsubscribeToken},
			})
		}

		summary := project.ShortDescription
		if summary == "" {
			summary = project.Description
		}
		subject := "New Project: " + project.Title

		notifier.email.FanOut(ctx, recipients, func(recipient Recipient) Envelope {
			unsubscribeURL := notifier.UnsubscribeURL(recipient.Metadata["unsubscribe_token"])
			body, err := notifier.templates.Render(TemplateProjectAnnouncement, projectData{
				Project:        project,
				Summary:        summary,
				Owner:          notifier.config.OwnerName,
				Email:          recipient.Address,
				ProjectsURL:    notifier.config.FrontendURL + "/#projects",
				UnsubscribeURL: unsubscribeURL,
			})
			if err != nil {
				notifier.logger.Error("project announcement render failed", "project", project.ID, "error", err)
				body = fmt.Sprintf(`<p>%s</p><p><a href="%s">Unsubscribe</a></p>`, html.EscapeString(subject), html.EscapeString(unsubscribeURL))
			}
			return NewEnvelope(recipient.Address, subject, body).
				WithMetadata(MetaEvent, EventProjectPublished)
		})
	})
}

// UnsubscribeURL is the frontend link that unsubscribes token's owner.
func (notifier *Notifier) UnsubscribeURL(token string) string {
	return notifier.config.FrontendURL + "/unsubscribe?token=" + url.QueryEscape(token)
}

// record adds an entry to the admin inbox in the background.
func (notifier *Notifier) record(event string, notification domain.Notification) {
	notifier.submit(event+inboxTask, func(ctx context.Context) {
		if _, err := notifier.store.CreateNotification(ctx, notification); err != nil {
			notifier.logger.Error("inbox notification failed", "event", event, "error", err)
		}
	})
}

func (notifier *Notifier) submit(name string, task Task) {
	_ = notifier.runner.Go(name, task)
}

func truncate(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit-1]) + "…"
}
