package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kongyujesse/portfolio-backend/internal/auth"
	"github.com/kongyujesse/portfolio-backend/internal/domain"
	"github.com/kongyujesse/portfolio-backend/internal/store"
)

type recordingNotifier struct {
	mu          sync.Mutex
	messages    []domain.Message
	subscribers []domain.Subscriber
	projects    []domain.Project
}

func (notifier *recordingNotifier) MessageCreated(message domain.Message) {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	notifier.messages = append(notifier.messages, message)
}

func (notifier *recordingNotifier) SubscriberAdded(subscriber domain.Subscriber) {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	notifier.subscribers = append(notifier.subscribers, subscriber)
}

func (notifier *recordingNotifier) ProjectPublished(project domain.Project) {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	notifier.projects = append(notifier.projects, project)
}

func newTestService(t *testing.T) (*Service, *store.Memory, *recordingNotifier) {
	t.Helper()
	repository := store.NewMemory()
	notifier := &recordingNotifier{}
	authenticator := auth.New("test-secret", "owner@example.com", "hunter22", time.Hour)
	return New(repository, notifier, authenticator, nil), repository, notifier
}

func validMessage() domain.Message {
	return domain.Message{
		Name:    "  Ada Lovelace ",
		Email:   " ADA@Example.com ",
		Subject: "Project inquiry",
		Message: "I would like to talk about a project.",
	}
}

func TestCreateMessageStoresThenNotifies(t *testing.T) {
	service, repository, notifier := newTestService(t)

	created, err := service.CreateMessage(context.Background(), validMessage())
	require.NoError(t, err)
	require.Equal(t, "Ada Lovelace", created.Name)
	require.Equal(t, "ada@example.com", created.Email)

	stored, err := repository.GetMessage(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, stored.ID)

	require.Len(t, notifier.messages, 1)
	require.Equal(t, created.ID, notifier.messages[0].ID)
}

func TestCreateMessageRejectsInvalidWithoutNotifying(t *testing.T) {
	service, repository, notifier := newTestService(t)

	message := validMessage()
	message.Email = "not-an-email"
	_, err := service.CreateMessage(context.Background(), message)

	var validation *domain.ValidationError
	require.ErrorAs(t, err, &validation)
	require.Empty(t, notifier.messages)

	messages, err := repository.ListMessages(context.Background())
	require.NoError(t, err)
	require.Empty(t, messages)
}

func TestMessageLookupsMapNotFound(t *testing.T) {
	service, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := service.GetMessage(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = service.MarkMessageRead(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, service.DeleteMessage(ctx, "missing"), ErrNotFound)
}

func TestSubscribeLifecycle(t *testing.T) {
	service, _, notifier := newTestService(t)
	ctx := context.Background()

	subscriber, created, err := service.Subscribe(ctx, " Reader@Example.com")
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, "reader@example.com", subscriber.Email)
	require.Len(t, subscriber.UnsubscribeToken, 64)

	_, _, err = service.Subscribe(ctx, "reader@example.com")
	require.ErrorIs(t, err, ErrAlreadySubscribed)

	require.NoError(t, service.Unsubscribe(ctx, subscriber.UnsubscribeToken, ""))
	count, err := service.CountSubscribers(ctx)
	require.NoError(t, err)
	require.Zero(t, count)

	resubscribed, created, err := service.Subscribe(ctx, "reader@example.com")
	require.NoError(t, err)
	require.False(t, created)
	require.True(t, resubscribed.Subscribed)
	require.Equal(t, subscriber.ID, resubscribed.ID)

	require.Len(t, notifier.subscribers, 2)
}

func TestSubscribeValidation(t *testing.T) {
	service, _, notifier := newTestService(t)

	_, _, err := service.Subscribe(context.Background(), "   ")
	var validation *domain.ValidationError
	require.ErrorAs(t, err, &validation)
	require.Equal(t, "Email is required", validation.Message)

	_, _, err = service.Subscribe(context.Background(), "nope")
	require.ErrorAs(t, err, &validation)
	require.Equal(t, "Please provide a valid email address", validation.Message)
	require.Empty(t, notifier.subscribers)
}

func TestUnsubscribeTargets(t *testing.T) {
	service, _, _ := newTestService(t)
	ctx := context.Background()

	require.ErrorIs(t, service.Unsubscribe(ctx, "", " "), ErrUnsubscribeTarget)
	require.ErrorIs(t, service.Unsubscribe(ctx, "unknown", ""), ErrSubscriberNotFound)

	_, _, err := service.Subscribe(ctx, "reader@example.com")
	require.NoError(t, err)
	require.NoError(t, service.Unsubscribe(ctx, "", "READER@example.com"))

	subscribers, err := service.ListSubscribers(ctx)
	require.NoError(t, err)
	require.Empty(t, subscribers)
}

func TestListSubscribersNewestFirst(t *testing.T) {
	service, _, _ := newTestService(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		service.now = func() time.Time { return base.Add(time.Duration(i) * time.Hour) }
		_, _, err := service.Subscribe(ctx, email)
		require.NoError(t, err)
	}

	subscribers, err := service.ListSubscribers(ctx)
	require.NoError(t, err)
	require.Len(t, subscribers, 3)
	require.Equal(t, "c@example.com", subscribers[0].Email)
	require.Equal(t, "a@example.com", subscribers[2].Email)
}

func TestCreateProjectPublishes(t *testing.T) {
	service, _, notifier := newTestService(t)

	project, err := service.CreateProject(context.Background(), domain.Project{
		Title:            "Portfolio",
		Description:      "A personal site",
		ShortDescription: "Site",
		Image:            "/images/site.png",
		GithubURL:        "https://github.com/example/site",
		Category:         "fullstack",
	})
	require.NoError(t, err)
	require.Equal(t, domain.ProjectStatusInProgress, project.Status)
	require.Len(t, notifier.projects, 1)
	require.Equal(t, project.ID, notifier.projects[0].ID)

	_, err = service.CreateProject(context.Background(), domain.Project{Title: "Half"})
	require.Error(t, err)
	require.Len(t, notifier.projects, 1)
}

func TestUpdateProjectNotFound(t *testing.T) {
	service, _, _ := newTestService(t)

	_, err := service.UpdateProject(context.Background(), "missing", domain.Project{
		GithubURL: "https://github.com/example/site",
		Category:  "backend",
	})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestReplaceSkillsValidatesAll(t *testing.T) {
	service, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := service.ReplaceSkills(ctx, []domain.Skill{{Name: "Go", Category: "backend", Level: 90}})
	require.NoError(t, err)

	_, err = service.ReplaceSkills(ctx, []domain.Skill{
		{Name: "Rust", Category: "backend", Level: 70},
		{Name: "Juggling", Category: "circus", Level: 10},
	})
	require.Error(t, err)

	skills, err := service.ListSkills(ctx, domain.SkillFilter{})
	require.NoError(t, err)
	require.Len(t, skills, 1)
	require.Equal(t, "Go", skills[0].Name)
}

func TestGetAboutSeedsDefault(t *testing.T) {
	service, repository, _ := newTestService(t)

	about, err := service.GetAbout(context.Background())
	require.NoError(t, err)
	require.Equal(t, domain.DefaultAbout().Title, about.Title)

	_, found, err := repository.GetAbout(context.Background())
	require.NoError(t, err)
	require.True(t, found)
}

func TestDeleteActiveResumeRefused(t *testing.T) {
	service, _, _ := newTestService(t)
	ctx := context.Background()

	resume, err := service.CreateResume(ctx, domain.Resume{FileName: "cv.pdf", FileURL: "https://cdn.example.com/cv.pdf"})
	require.NoError(t, err)
	require.False(t, resume.IsActive)
	require.Equal(t, "Professional Resume", resume.Title)

	_, err = service.ActivateResume(ctx, resume.ID)
	require.NoError(t, err)
	require.ErrorIs(t, service.DeleteResume(ctx, resume.ID), ErrActiveResume)

	other, err := service.CreateResume(ctx, domain.Resume{FileName: "old.pdf", FileURL: "https://cdn.example.com/old.pdf"})
	require.NoError(t, err)
	require.NoError(t, service.DeleteResume(ctx, other.ID))
	require.ErrorIs(t, service.DeleteResume(ctx, "missing"), ErrNotFound)
}

func TestOwnerDeviceSubscription(t *testing.T) {
	service, repository, _ := newTestService(t)
	ctx := context.Background()

	_, err := service.SubscribeOwnerDevice(ctx, domain.PushSubscription{Endpoint: "https://push.example.com/1"})
	require.ErrorIs(t, err, ErrInvalidPush)

	created, err := service.SubscribeOwnerDevice(ctx, domain.PushSubscription{Endpoint: "https://push.example.com/1", P256DH: "key", Auth: "secret"})
	require.NoError(t, err)
	require.True(t, created)

	require.NoError(t, service.UnsubscribeOwnerDevice(ctx, "https://push.example.com/1"))
	subscriptions, err := repository.ListPushSubscriptions(ctx)
	require.NoError(t, err)
	require.Empty(t, subscriptions)
}

func TestLogin(t *testing.T) {
	service, _, _ := newTestService(t)

	token, expires, err := service.Login(" owner@example.com ", "hunter22")
	require.NoError(t, err)
	require.True(t, expires.After(time.Now()))

	claims, err := service.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "owner@example.com", claims.Email)

	_, _, err = service.Login("owner@example.com", "wrong")
	require.True(t, errors.Is(err, auth.ErrInvalidCredentials))
}

func TestSiteContentSeedsDefaultThenValidates(t *testing.T) {
	service, repository, _ := newTestService(t)
	ctx := context.Background()

	content, err := service.GetSiteContent(ctx)
	require.NoError(t, err)
	require.Equal(t, domain.DefaultSiteContent().Hero.Title, content.Hero.Title)
	_, found, err := repository.GetSiteContent(ctx)
	require.NoError(t, err)
	require.True(t, found)

	content.Hero.Title = ""
	_, err = service.SaveSiteContent(ctx, content)
	var validation *domain.ValidationError
	require.ErrorAs(t, err, &validation)

	content.Hero.Title = "Jesse Ntani"
	saved, err := service.SaveSiteContent(ctx, content)
	require.NoError(t, err)
	require.Equal(t, "Jesse Ntani", saved.Hero.Title)
}

func TestNotificationInbox(t *testing.T) {
	service, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := service.CreateNotification(ctx, domain.Notification{Type: "alert", Title: "x", Message: "y"})
	var validation *domain.ValidationError
	require.ErrorAs(t, err, &validation)

	created, err := service.CreateNotification(ctx, domain.Notification{Type: " Warning ", Title: " Disk ", Message: "almost full", RelatedEntity: "System"})
	require.NoError(t, err)
	require.Equal(t, domain.NotificationWarning, created.Type)
	require.Equal(t, "Disk", created.Title)
	require.Equal(t, domain.EntitySystem, created.RelatedEntity)

	_, err = service.MarkNotificationRead(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	read, err := service.MarkNotificationRead(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, read.Read)

	marked, err := service.MarkAllNotificationsRead(ctx)
	require.NoError(t, err)
	require.Zero(t, marked)

	inbox, err := service.ListNotifications(ctx)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
}
