package store

import (
	"context"
	"errors"
	"time"

	"github.com/kongyujesse/portfolio-backend/internal/domain"
)

var (
	ErrNotFound  = errors.New("store: record not found")
	ErrDuplicate = errors.New("store: duplicate record")
)

type ProjectRepository interface {
	ListProjects(ctx context.Context, filter domain.ProjectFilter) ([]domain.Project, error)
	GetProject(ctx context.Context, id string) (domain.Project, error)
	CreateProject(ctx context.Context, project domain.Project) (domain.Project, error)
	UpdateProject(ctx context.Context, id string, project domain.Project) (domain.Project, error)
	DeleteProject(ctx context.Context, id string) error
	ReorderProjects(ctx context.Context, ids []string) error
}

type SkillRepository interface {
	ListSkills(ctx context.Context, filter domain.SkillFilter) ([]domain.Skill, error)
	ReplaceSkills(ctx context.Context, skills []domain.Skill) ([]domain.Skill, error)
	CreateSkill(ctx context.Context, skill domain.Skill) (domain.Skill, error)
}

type CertificateRepository interface {
	ListCertificates(ctx context.Context, featured *bool) ([]domain.Certificate, error)
	CreateCertificate(ctx context.Context, certificate domain.Certificate) (domain.Certificate, error)
	UpdateCertificate(ctx context.Context, id string, certificate domain.Certificate) (domain.Certificate, error)
	DeleteCertificate(ctx context.Context, id string) error
}

type AboutRepository interface {
	GetAbout(ctx context.Context) (domain.About, bool, error)
	SaveAbout(ctx context.Context, about domain.About) (domain.About, error)
}

// SiteContentRepository keeps the landing page document. Get reports false
// until the first save.
type SiteContentRepository interface {
	GetSiteContent(ctx context.Context) (domain.SiteContent, bool, error)
	SaveSiteContent(ctx context.Context, content domain.SiteContent) (domain.SiteContent, error)
}

type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification domain.Notification) (domain.Notification, error)
	// ListNotifications returns the newest limit notifications first.
	ListNotifications(ctx context.Context, limit int) ([]domain.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) (domain.Notification, error)
	MarkAllNotificationsRead(ctx context.Context) (int, error)
}

type ResumeRepository interface {
	GetActiveResume(ctx context.Context) (domain.Resume, error)
	GetResume(ctx context.Context, id string) (domain.Resume, error)
	ListResumes(ctx context.Context) ([]domain.Resume, error)
	CreateResume(ctx context.Context, resume domain.Resume) (domain.Resume, error)
	ActivateResume(ctx context.Context, id string) (domain.Resume, error)
	DeleteResume(ctx context.Context, id string) error
}

type MessageRepository interface {
	CreateMessage(ctx context.Context, message domain.Message) (domain.Message, error)
	ListMessages(ctx context.Context) ([]domain.Message, error)
	GetMessage(ctx context.Context, id string) (domain.Message, error)
	MarkMessageRead(ctx context.Context, id string) (domain.Message, error)
	MarkMessageNotified(ctx context.Context, id string) error
	DeleteMessage(ctx context.Context, id string) error
}

type SubscriberRepository interface {
	GetSubscriberByEmail(ctx context.Context, email string) (domain.Subscriber, bool, error)
	GetSubscriberByToken(ctx context.Context, token string) (domain.Subscriber, bool, error)
	CreateSubscriber(ctx context.Context, subscriber domain.Subscriber) (domain.Subscriber, error)
	SetSubscribed(ctx context.Context, id string, subscribed bool, at time.Time) (domain.Subscriber, error)
	ListSubscribed(ctx context.Context) ([]domain.Subscriber, error)
	CountSubscribed(ctx context.Context) (int, error)
}

type PushRepository interface {
	UpsertPushSubscription(ctx context.Context, subscription domain.PushSubscription) (bool, error)
	DeletePushSubscription(ctx context.Context, endpoint string) error
	ListPushSubscriptions(ctx context.Context) ([]domain.PushSubscription, error)
}

// Repository is the persistence collaborator used by the service layer.
type Repository interface {
	ProjectRepository
	SkillRepository
	CertificateRepository
	AboutRepository
	SiteContentRepository
	NotificationRepository
	ResumeRepository
	MessageRepository
	SubscriberRepository
	PushRepository
}
