package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kongyujesse/portfolio-backend/internal/domain"
	"github.com/kongyujesse/portfolio-backend/internal/service"
)

type messageRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// createMessage answers as soon as the message is stored. Owner alerts are
// delivered in the background and never change the response.
func (handlers *Handlers) createMessage(writer http.ResponseWriter, request *http.Request) {
	var payload messageRequest
	if err := decode(request, &payload); err != nil {
		writeMessage(writer, http.StatusBadRequest, "All fields are required: name, email, subject, message")
		return
	}

	message, err := handlers.service.CreateMessage(request.Context(), domain.Message{
		Name:    payload.Name,
		Email:   payload.Email,
		Subject: payload.Subject,
		Message: payload.Message,
	})
	if err != nil {
		handlers.writeError(writer, request, err, "create message")
		return
	}
	writeJSON(writer, http.StatusCreated, map[string]any{"message": "Message sent successfully", "data": message})
}

func (handlers *Handlers) listMessages(writer http.ResponseWriter, request *http.Request) {
	messages, err := handlers.service.ListMessages(request.Context())
	if err != nil {
		handlers.writeError(writer, request, err, "list messages")
		return
	}
	writeJSON(writer, http.StatusOK, messages)
}

func (handlers *Handlers) getMessage(writer http.ResponseWriter, request *http.Request) {
	message, err := handlers.service.GetMessage(request.Context(), chi.URLParam(request, "id"))
	if err != nil {
		handlers.writeLookupError(writer, request, err, "Message not found")
		return
	}
	writeJSON(writer, http.StatusOK, message)
}

func (handlers *Handlers) markMessageRead(writer http.ResponseWriter, request *http.Request) {
	message, err := handlers.service.MarkMessageRead(request.Context(), chi.URLParam(request, "id"))
	if err != nil {
		handlers.writeLookupError(writer, request, err, "Message not found")
		return
	}
	writeJSON(writer, http.StatusOK, message)
}

func (handlers *Handlers) deleteMessage(writer http.ResponseWriter, request *http.Request) {
	if err := handlers.service.DeleteMessage(request.Context(), chi.URLParam(request, "id")); err != nil {
		handlers.writeLookupError(writer, request, err, "Message not found")
		return
	}
	writeMessage(writer, http.StatusOK, "Message deleted successfully")
}

func (handlers *Handlers) writeLookupError(writer http.ResponseWriter, request *http.Request, err error, notFound string) {
	if errors.Is(err, service.ErrNotFound) {
		writeMessage(writer, http.StatusNotFound, notFound)
		return
	}
	handlers.writeError(writer, request, err, request.Method+" "+request.URL.Path)
}
