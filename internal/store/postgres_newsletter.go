package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kongyujesse/portfolio-backend/internal/domain"
)

const subscriberColumns = `id, email, subscribed, subscription_date, unsubscribe_token, created_at, updated_at`

func scanSubscriber(row scanner) (domain.Subscriber, error) {
	var subscriber domain.Subscriber
	err := row.Scan(
		&subscriber.ID, &subscriber.Email, &subscriber.Subscribed, &subscriber.SubscriptionDate,
		&subscriber.UnsubscribeToken, &subscriber.CreatedAt, &subscriber.UpdatedAt,
	)
	return subscriber, err
}

func (repository *Postgres) findSubscriber(ctx context.Context, column, value string) (domain.Subscriber, bool, error) {
	subscriber, err := scanSubscriber(repository.db.QueryRow(ctx, `SELECT `+subscriberColumns+` FROM subscribers WHERE `+column+` = $1`, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Subscriber{}, false, nil
		}
		return domain.Subscriber{}, false, err
	}
	return subscriber, true, nil
}

func (repository *Postgres) GetSubscriberByEmail(ctx context.Context, email string) (domain.Subscriber, bool, error) {
	return repository.findSubscriber(ctx, "email", email)
}

func (repository *Postgres) GetSubscriberByToken(ctx context.Context, token string) (domain.Subscriber, bool, error) {
	return repository.findSubscriber(ctx, "unsubscribe_token", token)
}

func (repository *Postgres) CreateSubscriber(ctx context.Context, subscriber domain.Subscriber) (domain.Subscriber, error) {
	row := repository.db.QueryRow(ctx, `
		INSERT INTO subscribers (id, email, subscribed, subscription_date, unsubscribe_token, created_at, updated_at)
		VALUES ($1, $2, TRUE, COALESCE($3::timestamptz, NOW()), $4, NOW(), NOW())
		RETURNING `+subscriberColumns,
		newID(), subscriber.Email, nullTime(subscriber.SubscriptionDate), subscriber.UnsubscribeToken,
	)
	created, err := scanSubscriber(row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Subscriber{}, ErrDuplicate
		}
		return domain.Subscriber{}, err
	}
	return created, nil
}

func (repository *Postgres) SetSubscribed(ctx context.Context, id string, subscribed bool, at time.Time) (domain.Subscriber, error) {
	row := repository.db.QueryRow(ctx, `
		UPDATE subscribers SET subscribed = $2, subscription_date = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING `+subscriberColumns,
		id, subscribed, at,
	)
	subscriber, err := scanSubscriber(row)
	if err != nil {
		return domain.Subscriber{}, notFound(err)
	}
	return subscriber, nil
}

func (repository *Postgres) ListSubscribed(ctx context.Context) ([]domain.Subscriber, error) {
	rows, err := repository.db.Query(ctx, `SELECT `+subscriberColumns+` FROM subscribers WHERE subscribed ORDER BY subscription_date ASC`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanSubscriber)
}

func (repository *Postgres) CountSubscribed(ctx context.Context) (int, error) {
	var count int
	err := repository.db.QueryRow(ctx, `SELECT COUNT(*) FROM subscribers WHERE subscribed`).Scan(&count)
	return count, err
}

// UpsertPushSubscription reports whether the endpoint was newly inserted.
func (repository *Postgres) UpsertPushSubscription(ctx context.Context, subscription domain.PushSubscription) (bool, error) {
	query := `
		INSERT INTO push_subscriptions (endpoint, p256dh, auth, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (endpoint)
		DO UPDATE SET p256dh = EXCLUDED.p256dh, auth = EXCLUDED.auth, updated_at = NOW()
		RETURNING (xmax = 0)
	`
	var inserted bool
	if err := repository.db.QueryRow(ctx, query, subscription.Endpoint, subscription.P256DH, subscription.Auth).Scan(&inserted); err != nil {
		return false, err
	}
	return inserted, nil
}

func (repository *Postgres) DeletePushSubscription(ctx context.Context, endpoint string) error {
	_, err := repository.db.Exec(ctx, `DELETE FROM push_subscriptions WHERE endpoint = $1`, endpoint)
	return err
}

func (repository *Postgres) ListPushSubscriptions(ctx context.Context) ([]domain.PushSubscription, error) {
	rows, err := repository.db.Query(ctx, `SELECT endpoint, p256dh, auth FROM push_subscriptions ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	return collect(rows, func(row scanner) (domain.PushSubscription, error) {
		var subscription domain.PushSubscription
		err := row.Scan(&subscription.Endpoint, &subscription.P256DH, &subscription.Auth)
		return subscription, err
	})
}
