package service

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/kongyujesse/portfolio-backend/internal/auth"
	"github.com/kongyujesse/portfolio-backend/internal/domain"
	"github.com/kongyujesse/portfolio-backend/internal/store"
)

var (
	ErrNotFound           = errors.New("service: not found")
	ErrAlreadySubscribed  = errors.New("service: already subscribed")
	ErrSubscriberNotFound = errors.New("service: subscriber not found")
	ErrUnsubscribeTarget  = errors.New("service: unsubscribe token or email required")
	ErrActiveResume       = errors.New("service: resume is active")
	ErrInvalidPush        = errors.New("service: push endpoint and keys required")
)

// Notifier receives committed domain events. Implementations must return
// without waiting for delivery.
type Notifier interface {
	MessageCreated(message domain.Message)
	SubscriberAdded(subscriber domain.Subscriber)
	ProjectPublished(project domain.Project)
}

type Service struct {
	repository    store.Repository
	notifier      Notifier
	authenticator *auth.Authenticator
	logger        *slog.Logger
	now           func() time.Time
}

func New(repository store.Repository, notifier Notifier, authenticator *auth.Authenticator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repository:    repository,
		notifier:      notifier,
		authenticator: authenticator,
		logger:        logger,
		now:           time.Now,
	}
}

func (service *Service) Login(email, password string) (string, time.Time, error) {
	token, expires, err := service.authenticator.Login(strings.TrimSpace(email), password)
	if err != nil {
		service.logger.Warn("admin login rejected", "email", email)
		return "", time.Time{}, err
	}
	service.logger.Info("admin login", "email", email)
	return token, expires, nil
}

func (service *Service) Verify(token string) (auth.Claims, error) {
	return service.authenticator.Verify(token)
}

// translate maps repository sentinels to the errors callers match on.
func translate(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
