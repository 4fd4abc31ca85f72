package store

import (
	"context"

	"github.com/kongyujesse/portfolio-backend/internal/domain"
)

const messageColumns = `id, name, email, subject, message, read, replied, notified, created_at, updated_at`

func scanMessage(row scanner) (domain.Message, error) {
	var message domain.Message
	err := row.Scan(
		&message.ID, &message.Name, &message.Email, &message.Subject, &message.Message,
		&message.Read, &message.Replied, &message.Notified, &message.CreatedAt, &message.UpdatedAt,
	)
	return message, err
}

func (repository *Postgres) CreateMessage(ctx context.Context, message domain.Message) (domain.Message, error) {
	row := repository.db.QueryRow(ctx, `
		INSERT INTO messages (id, name, email, subject, message, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING `+messageColumns,
		newID(), message.Name, message.Email, message.Subject, message.Message,
	)
	return scanMessage(row)
}

func (repository *Postgres) ListMessages(ctx context.Context) ([]domain.Message, error) {
	rows, err := repository.db.Query(ctx, `SELECT `+messageColumns+` FROM messages ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanMessage)
}

func (repository *Postgres) GetMessage(ctx context.Context, id string) (domain.Message, error) {
	message, err := scanMessage(repository.db.QueryRow(ctx, `SELECT `+messageColumns+` FROM messages WHERE id = $1`, id))
	if err != nil {
		return domain.Message{}, notFound(err)
	}
	return message, nil
}

func (repository *Postgres) MarkMessageRead(ctx context.Context, id string) (domain.Message, error) {
	row := repository.db.QueryRow(ctx, `UPDATE messages SET read = TRUE, updated_at = NOW() WHERE id = $1 RETURNING `+messageColumns, id)
	message, err := scanMessage(row)
	if err != nil {
		return domain.Message{}, notFound(err)
	}
	return message, nil
}

func (repository *Postgres) MarkMessageNotified(ctx context.Context, id string) error {
	return execOne(ctx, repository.db, `UPDATE messages SET notified = TRUE, updated_at = NOW() WHERE id = $1`, id)
}

func (repository *Postgres) DeleteMessage(ctx context.Context, id string) error {
	return execOne(ctx, repository.db, `DELETE FROM messages WHERE id = $1`, id)
}
