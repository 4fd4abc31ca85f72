package service

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/kongyujesse/portfolio-backend/internal/domain"
	"github.com/kongyujesse/portfolio-backend/internal/store"
)

// Subscribe adds an email to the newsletter. The boolean reports whether a
// new subscriber was created rather than an old one resubscribed.
func (service *Service) Subscribe(ctx context.Context, email string) (domain.Subscriber, bool, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return domain.Subscriber{}, false, &domain.ValidationError{Message: "Email is required"}
	}
	if !domain.ValidEmail(email) {
		return domain.Subscriber{}, false, &domain.ValidationError{Message: "Please provide a valid email address"}
	}

	existing, found, err := service.repository.GetSubscriberByEmail(ctx, email)
	if err != nil {
		return domain.Subscriber{}, false, err
	}
	if found {
		if existing.Subscribed {
			return existing, false, ErrAlreadySubscribed
		}
		resubscribed, err := service.repository.SetSubscribed(ctx, existing.ID, true, service.now())
		if err != nil {
			return domain.Subscriber{}, false, translate(err)
		}
		service.logger.Info("newsletter resubscribe", "subscriber", resubscribed.ID)
		service.notifier.SubscriberAdded(resubscribed)
		return resubscribed, false, nil
	}

	token, err := domain.NewUnsubscribeToken()
	if err != nil {
		return domain.Subscriber{}, false, err
	}
	created, err := service.repository.CreateSubscriber(ctx, domain.Subscriber{
		Email:            email,
		Subscribed:       true,
		SubscriptionDate: service.now(),
		UnsubscribeToken: token,
	})
	if errors.Is(err, store.ErrDuplicate) {
		return domain.Subscriber{}, false, ErrAlreadySubscribed
	}
	if err != nil {
		return domain.Subscriber{}, false, err
	}
	service.logger.Info("newsletter subscribe", "subscriber", created.ID)
	service.notifier.SubscriberAdded(created)
	return created, true, nil
}

// Unsubscribe looks the subscriber up by token first, then by email.
func (service *Service) Unsubscribe(ctx context.Context, token, email string) error {
	token = strings.TrimSpace(token)
	email = domain.NormalizeEmail(email)
	if token == "" && email == "" {
		return ErrUnsubscribeTarget
	}

	var (
		subscriber domain.Subscriber
		found      bool
		err        error
	)
	if token != "" {
		subscriber, found, err = service.repository.GetSubscriberByToken(ctx, token)
	} else {
		subscriber, found, err = service.repository.GetSubscriberByEmail(ctx, email)
	}
	if err != nil {
		return err
	}
	if !found {
		return ErrSubscriberNotFound
	}

	if _, err := service.repository.SetSubscribed(ctx, subscriber.ID, false, subscriber.SubscriptionDate); err != nil {
		return translate(err)
	}
	service.logger.Info("newsletter unsubscribe", "subscriber", subscriber.ID)
	return nil
}

// ListSubscribers returns active subscribers, newest first.
func (service *Service) ListSubscribers(ctx context.Context) ([]domain.Subscriber, error) {
	subscribers, err := service.repository.ListSubscribed(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(subscribers, func(a, b domain.Subscriber) int {
		return b.SubscriptionDate.Compare(a.SubscriptionDate)
	})
	return subscribers, nil
}

func (service *Service) CountSubscribers(ctx context.Context) (int, error) {
	return service.repository.CountSubscribed(ctx)
}

// SubscribeOwnerDevice registers a browser of the site owner for contact
// message alerts.
func (service *Service) SubscribeOwnerDevice(ctx context.Context, subscription domain.PushSubscription) (bool, error) {
	subscription.Endpoint = strings.TrimSpace(subscription.Endpoint)
	subscription.P256DH = strings.TrimSpace(subscription.P256DH)
	subscription.Auth = strings.TrimSpace(subscription.Auth)
	if subscription.Endpoint == "" || subscription.P256DH == "" || subscription.Auth == "" {
		return false, ErrInvalidPush
	}
	return service.repository.UpsertPushSubscription(ctx, subscription)
}

func (service *Service) UnsubscribeOwnerDevice(ctx context.Context, endpoint string) error {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return ErrInvalidPush
	}
	return service.repository.DeletePushSubscription(ctx, endpoint)
}
