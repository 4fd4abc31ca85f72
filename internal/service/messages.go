package service

import (
	"context"

	"github.com/kongyujesse/portfolio-backend/internal/domain"
)

// CreateMessage stores a contact message and hands it to the notifier. The
// returned message is what was committed; alert delivery happens later.
func (service *Service) CreateMessage(ctx context.Context, message domain.Message) (domain.Message, error) {
	message = message.Normalize()
	if err := message.Validate(); err != nil {
		return domain.Message{}, err
	}

	created, err := service.repository.CreateMessage(ctx, message)
	if err != nil {
		return domain.Message{}, err
	}
	service.logger.Info("contact message stored", "message", created.ID, "email", created.Email)

	service.notifier.MessageCreated(created)
	return created, nil
}

func (service *Service) ListMessages(ctx context.Context) ([]domain.Message, error) {
	return service.repository.ListMessages(ctx)
}

func (service *Service) GetMessage(ctx context.Context, id string) (domain.Message, error) {
	message, err := service.repository.GetMessage(ctx, id)
	return message, translate(err)
}

func (service *Service) MarkMessageRead(ctx context.Context, id string) (domain.Message, error) {
	message, err := service.repository.MarkMessageRead(ctx, id)
	return message, translate(err)
}

func (service *Service) DeleteMessage(ctx context.Context, id string) error {
	return translate(service.repository.DeleteMessage(ctx, id))
}
