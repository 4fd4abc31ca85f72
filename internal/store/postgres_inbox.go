package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/kongyujesse/portfolio-backend/internal/domain"
)

func (repository *Postgres) GetSiteContent(ctx context.Context) (domain.SiteContent, bool, error) {
	var document []byte
	var content domain.SiteContent
	err := repository.db.QueryRow(ctx, `SELECT document, updated_at FROM site_content WHERE singleton`).Scan(&document, &content.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.SiteContent{}, false, nil
		}
		return domain.SiteContent{}, false, err
	}
	updatedAt := content.UpdatedAt
	if err := json.Unmarshal(document, &content); err != nil {
		return domain.SiteContent{}, false, fmt.Errorf("decode site content: %w", err)
	}
	content.UpdatedAt = updatedAt
	return content.WithEmptySlices(), true, nil
}

func (repository *Postgres) SaveSiteContent(ctx context.Context, content domain.SiteContent) (domain.SiteContent, error) {
	content = content.WithEmptySlices()
	document, err := json.Marshal(content)
	if err != nil {
		return domain.SiteContent{}, err
	}

	query := `
		INSERT INTO site_content (singleton, document, updated_at)
		VALUES (TRUE, $1, NOW())
		ON CONFLICT (singleton)
		DO UPDATE SET document = EXCLUDED.document, updated_at = NOW()
		RETURNING updated_at
	`
	if err := repository.db.QueryRow(ctx, query, document).Scan(&content.UpdatedAt); err != nil {
		return domain.SiteContent{}, err
	}
	return content, nil
}

const notificationColumns = `id, type, title, message, read, related_entity, related_entity_id, created_at, updated_at`

func scanNotification(row scanner) (domain.Notification, error) {
	var notification domain.Notification
	err := row.Scan(
		&notification.ID, &notification.Type, &notification.Title, &notification.Message, &notification.Read,
		&notification.RelatedEntity, &notification.RelatedEntityID, &notification.CreatedAt, &notification.UpdatedAt,
	)
	return notification, err
}

func (repository *Postgres) CreateNotification(ctx context.Context, notification domain.Notification) (domain.Notification, error) {
	row := repository.db.QueryRow(ctx, `
		INSERT INTO notifications (id, type, title, message, related_entity, related_entity_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING `+notificationColumns,
		newID(), notification.Type, notification.Title, notification.Message, notification.RelatedEntity, notification.RelatedEntityID,
	)
	return scanNotification(row)
}

func (repository *Postgres) ListNotifications(ctx context.Context, limit int) ([]domain.Notification, error) {
	rows, err := repository.db.Query(ctx, `SELECT `+notificationColumns+` FROM notifications ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanNotification)
}

func (repository *Postgres) MarkNotificationRead(ctx context.Context, id string) (domain.Notification, error) {
	row := repository.db.QueryRow(ctx, `UPDATE notifications SET read = TRUE, updated_at = NOW() WHERE id = $1 RETURNING `+notificationColumns, id)
	notification, err := scanNotification(row)
	if err != nil {
		return domain.Notification{}, notFound(err)
	}
	return notification, nil
}

func (repository *Postgres) MarkAllNotificationsRead(ctx context.Context) (int, error) {
	tag, err := repository.db.Exec(ctx, `UPDATE notifications SET read = TRUE, updated_at = NOW() WHERE NOT read`)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
