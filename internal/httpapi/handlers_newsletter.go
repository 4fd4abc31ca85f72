package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/kongyujesse/portfolio-backend/internal/domain"
	"github.com/kongyujesse/portfolio-backend/internal/service"
)

type subscribeRequest struct {
	Email string `json:"email"`
}

type unsubscribeRequest struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

type pushSubscription struct {
	Endpoint string `json:"endpoint"`
	Keys     struct {
		P256DH string `json:"p256dh"`
		Auth   string `json:"auth"`
	} `json:"keys"`
}

type pushUnsubscribeRequest struct {
	Endpoint     string            `json:"endpoint"`
	Subscription *pushSubscription `json:"subscription"`
}

func (handlers *Handlers) subscribe(writer http.ResponseWriter, request *http.Request) {
	var payload subscribeRequest
	if err := decode(request, &payload); err != nil {
		writeMessage(writer, http.StatusBadRequest, "Email is required")
		return
	}

	subscriber, created, err := handlers.service.Subscribe(request.Context(), payload.Email)
	if errors.Is(err, service.ErrAlreadySubscribed) {
		writeJSON(writer, http.StatusConflict, errorBody{
			Message: "This email is already subscribed to our newsletter",
			Code:    "ALREADY_SUBSCRIBED",
		})
		return
	}
	if err != nil {
		handlers.writeError(writer, request, err, "subscribe")
		return
	}

	status, message := http.StatusOK, "Successfully resubscribed to our newsletter!"
	if created {
		status, message = http.StatusCreated, "Successfully subscribed to our newsletter!"
	}
	writeJSON(writer, status, map[string]any{
		"message":    message,
		"subscriber": map[string]any{"email": subscriber.Email, "subscriptionDate": subscriber.SubscriptionDate},
	})
}

func (handlers *Handlers) unsubscribe(writer http.ResponseWriter, request *http.Request) {
	var payload unsubscribeRequest
	if err := decode(request, &payload); err != nil {
		writeMessage(writer, http.StatusBadRequest, "Unsubscribe token or email is required")
		return
	}

	err := handlers.service.Unsubscribe(request.Context(), payload.Token, payload.Email)
	switch {
	case errors.Is(err, service.ErrUnsubscribeTarget):
		writeMessage(writer, http.StatusBadRequest, "Unsubscribe token or email is required")
	case errors.Is(err, service.ErrSubscriberNotFound):
		writeMessage(writer, http.StatusNotFound, "Subscriber not found")
	case err != nil:
		handlers.writeError(writer, request, err, "unsubscribe")
	default:
		writeMessage(writer, http.StatusOK, "Successfully unsubscribed from our newsletter")
	}
}

func (handlers *Handlers) listSubscribers(writer http.ResponseWriter, request *http.Request) {
	subscribers, err := handlers.service.ListSubscribers(request.Context())
	if err != nil {
		handlers.writeError(writer, request, err, "list subscribers")
		return
	}
	writeJSON(writer, http.StatusOK, subscribers)
}

func (handlers *Handlers) countSubscribers(writer http.ResponseWriter, request *http.Request) {
	count, err := handlers.service.CountSubscribers(request.Context())
	if err != nil {
		handlers.writeError(writer, request, err, "count subscribers")
		return
	}
	writeJSON(writer, http.StatusOK, map[string]int{"count": count})
}

func (handlers *Handlers) subscribePush(writer http.ResponseWriter, request *http.Request) {
	var payload pushSubscription
	if err := decode(request, &payload); err != nil {
		writeMessage(writer, http.StatusBadRequest, "Invalid push subscription")
		return
	}

	created, err := handlers.service.SubscribeOwnerDevice(request.Context(), domain.PushSubscription{
		Endpoint: payload.Endpoint,
		P256DH:   payload.Keys.P256DH,
		Auth:     payload.Keys.Auth,
	})
	if errors.Is(err, service.ErrInvalidPush) {
		writeMessage(writer, http.StatusBadRequest, "Invalid push subscription")
		return
	}
	if err != nil {
		handlers.writeError(writer, request, err, "push subscribe")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(writer, status, map[string]string{"status": "active"})
}

func (handlers *Handlers) unsubscribePush(writer http.ResponseWriter, request *http.Request) {
	var payload pushUnsubscribeRequest
	if err := decode(request, &payload); err != nil {
		writeMessage(writer, http.StatusBadRequest, "Push endpoint is required")
		return
	}

	endpoint := strings.TrimSpace(payload.Endpoint)
	if endpoint == "" && payload.Subscription != nil {
		endpoint = payload.Subscription.Endpoint
	}
	err := handlers.service.UnsubscribeOwnerDevice(request.Context(), endpoint)
	if errors.Is(err, service.ErrInvalidPush) {
		writeMessage(writer, http.StatusBadRequest, "Push endpoint is required")
		return
	}
	if err != nil {
		handlers.writeError(writer, request, err, "push unsubscribe")
		return
	}
	writeJSON(writer, http.StatusOK, map[string]string{"status": "inactive"})
}
