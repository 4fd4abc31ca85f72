package domain

import (
	"strings"
	"time"
)

const (
	NotificationInfo    = "info"
	NotificationSuccess = "success"
	NotificationWarning = "warning"
	NotificationError   = "error"
)

const (
	EntityProject     = "project"
	EntityCertificate = "certificate"
	EntityMessage     = "message"
	EntitySystem      = "system"
)

// NotificationInboxLimit caps how many notifications the inbox lists.
const NotificationInboxLimit = 50

// Notification is an entry in the admin's in-app inbox.
type Notification struct {
	ID              string    `json:"id"`
	Type            string    `json:"type"`
	Title           string    `json:"title"`
	Message         string    `json:"message"`
	Read            bool      `json:"read"`
	RelatedEntity   string    `json:"relatedEntity,omitempty"`
	RelatedEntityID string    `json:"relatedEntityId,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (notification Notification) Normalize() Notification {
	notification.Type = strings.ToLower(strings.TrimSpace(notification.Type))
	notification.Title = strings.TrimSpace(notification.Title)
	notification.Message = strings.TrimSpace(notification.Message)
	notification.RelatedEntity = strings.ToLower(strings.TrimSpace(notification.RelatedEntity))
	notification.RelatedEntityID = strings.TrimSpace(notification.RelatedEntityID)
	return notification
}

// Validate expects a normalized notification.
func (notification Notification) Validate() error {
	var fields []string
	if !oneOf(notification.Type, NotificationInfo, NotificationSuccess, NotificationWarning, NotificationError) {
		fields = append(fields, "type must be one of info, success, warning, error")
	}
	if notification.Title == "" {
		fields = append(fields, "title is required")
	}
	if notification.Message == "" {
		fields = append(fields, "message is required")
	}
	if notification.RelatedEntity != "" && !oneOf(notification.RelatedEntity, EntityProject, EntityCertificate, EntityMessage, EntitySystem) {
		fields = append(fields, "relatedEntity must be one of project, certificate, message, system")
	}
	if len(fields) > 0 {
		return invalid("Validation failed", fields...)
	}
	return nil
}
