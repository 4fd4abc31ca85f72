package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kongyujesse/portfolio-backend/internal/domain"
)

func (handlers *Handlers) getSiteContent(writer http.ResponseWriter, request *http.Request) {
	content, err := handlers.service.GetSiteContent(request.Context())
	if err != nil {
		handlers.writeError(writer, request, err, "get site content")
		return
	}
	writeJSON(writer, http.StatusOK, content)
}

// saveSiteContent decodes the body over the stored document, so sections and
// fields left out of the payload keep their current values.
func (handlers *Handlers) saveSiteContent(writer http.ResponseWriter, request *http.Request) {
	content, err := handlers.service.GetSiteContent(request.Context())
	if err != nil {
		handlers.writeError(writer, request, err, "get site content")
		return
	}
	if err := decode(request, &content); err != nil {
		writeMessage(writer, http.StatusBadRequest, "Invalid content payload")
		return
	}
	saved, err := handlers.service.SaveSiteContent(request.Context(), content)
	if err != nil {
		handlers.writeError(writer, request, err, "save site content")
		return
	}
	writeJSON(writer, http.StatusOK, saved)
}

func (handlers *Handlers) listNotifications(writer http.ResponseWriter, request *http.Request) {
	notifications, err := handlers.service.ListNotifications(request.Context())
	if err != nil {
		handlers.writeError(writer, request, err, "list notifications")
		return
	}
	writeJSON(writer, http.StatusOK, notifications)
}

func (handlers *Handlers) createNotification(writer http.ResponseWriter, request *http.Request) {
	var payload domain.Notification
	if err := decode(request, &payload); err != nil {
		writeMessage(writer, http.StatusBadRequest, "Invalid notification payload")
		return
	}
	notification, err := handlers.service.CreateNotification(request.Context(), payload)
	if err != nil {
		handlers.writeError(writer, request, err, "create notification")
		return
	}
	writeJSON(writer, http.StatusCreated, notification)
}

func (handlers *Handlers) markNotificationRead(writer http.ResponseWriter, request *http.Request) {
	notification, err := handlers.service.MarkNotificationRead(request.Context(), chi.URLParam(request, "id"))
	if err != nil {
		handlers.writeLookupError(writer, request, err, "Notification not found")
		return
	}
	writeJSON(writer, http.StatusOK, notification)
}

func (handlers *Handlers) markAllNotificationsRead(writer http.ResponseWriter, request *http.Request) {
	if _, err := handlers.service.MarkAllNotificationsRead(request.Context()); err != nil {
		handlers.writeError(writer, request, err, "mark notifications read")
		return
	}
	writeMessage(writer, http.StatusOK, "All notifications marked as read")
}
