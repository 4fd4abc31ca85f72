package service

import (
	"context"

	"github.com/kongyujesse/portfolio-backend/internal/domain"
)

// GetSiteContent returns the landing page document, storing the default one
// on first read.
func (service *Service) GetSiteContent(ctx context.Context) (domain.SiteContent, error) {
	content, found, err := service.repository.GetSiteContent(ctx)
	if err != nil {
		return domain.SiteContent{}, err
	}
	if found {
		return content, nil
	}
	return service.repository.SaveSiteContent(ctx, domain.DefaultSiteContent())
}

func (service *Service) SaveSiteContent(ctx context.Context, content domain.SiteContent) (domain.SiteContent, error) {
	if err := content.Validate(); err != nil {
		return domain.SiteContent{}, err
	}
	saved, err := service.repository.SaveSiteContent(ctx, content)
	if err != nil {
		return domain.SiteContent{}, err
	}
	service.logger.Info("site content updated")
	return saved, nil
}

// ListNotifications returns the newest inbox entries.
func (service *Service) ListNotifications(ctx context.Context) ([]domain.Notification, error) {
	return service.repository.ListNotifications(ctx, domain.NotificationInboxLimit)
}

func (service *Service) CreateNotification(ctx context.Context, notification domain.Notification) (domain.Notification, error) {
	notification = notification.Normalize()
	if err := notification.Validate(); err != nil {
		return domain.Notification{}, err
	}
	return service.repository.CreateNotification(ctx, notification)
}

func (service *Service) MarkNotificationRead(ctx context.Context, id string) (domain.Notification, error) {
	notification, err := service.repository.MarkNotificationRead(ctx, id)
	return notification, translate(err)
}

func (service *Service) MarkAllNotificationsRead(ctx context.Context) (int, error) {
	return service.repository.MarkAllNotificationsRead(ctx)
}
