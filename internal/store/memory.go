package store

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/kongyujesse/portfolio-backend/internal/domain"
)

// Memory is a process-local Repository used when no database is configured
// and in tests. Records are kept in insertion order.
type Memory struct {
	mu           sync.RWMutex
	now          func() time.Time
	projects     []domain.Project
	skills       []domain.Skill
	certificates []domain.Certificate
	about        *domain.About
	content      *domain.SiteContent
	inbox        []domain.Notification
	resumes      []domain.Resume
	messages     []domain.Message
	subscribers  []domain.Subscriber
	push         []domain.PushSubscription
}

func NewMemory() *Memory {
	return &Memory{now: time.Now}
}

func indexOf[T any](items []T, match func(T) bool) int {
	return slices.IndexFunc(items, match)
}

func (memory *Memory) ListProjects(_ context.Context, filter domain.ProjectFilter) ([]domain.Project, error) {
	memory.mu.RLock()
	defer memory.mu.RUnlock()

	result := make([]domain.Project, 0, len(memory.projects))
	for _, project := range memory.projects {
		if filter.Match(project) {
			result = append(result, project)
		}
	}
	slices.SortStableFunc(result, func(a, b domain.Project) int {
		if c := cmp.Compare(a.Order, b.Order); c != 0 {
			return c
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return result, nil
}

func (memory *Memory) GetProject(_ context.Context, id string) (domain.Project, error) {
	memory.mu.RLock()
	defer memory.mu.RUnlock()

	index := indexOf(memory.projects, func(project domain.Project) bool { return project.ID == id })
	if index < 0 {
		return domain.Project{}, ErrNotFound
	}
	return memory.projects[index], nil
}

func (memory *Memory) CreateProject(_ context.Context, project domain.Project) (domain.Project, error) {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	now := memory.now()
	project.ID = newID()
	project.Images = nonNil(project.Images)
	project.Technologies = nonNil(project.Technologies)
	project.CreatedAt, project.UpdatedAt = now, now
	memory.projects = append(memory.projects, project)
	return project, nil
}

func (memory *Memory) UpdateProject(_ context.Context, id string, project domain.Project) (domain.Project, error) {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	index := indexOf(memory.projects, func(existing domain.Project) bool { return existing.ID == id })
	if index < 0 {
		return domain.Project{}, ErrNotFound
	}
	project.ID = id
	project.Images = nonNil(project.Images)
	project.Technologies = nonNil(project.Technologies)
	project.CreatedAt = memory.projects[index].CreatedAt
	project.UpdatedAt = memory.now()
	memory.projects[index] = project
	return project, nil
}

func (memory *Memory) DeleteProject(_ context.Context, id string) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	index := indexOf(memory.projects, func(project domain.Project) bool { return project.ID == id })
	if index < 0 {
		return ErrNotFound
	}
	memory.projects = slices.Delete(memory.projects, index, index+1)
	return nil
}

func (memory *Memory) ReorderProjects(_ context.Context, ids []string) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	now := memory.now()
	for order, id := range ids {
		index := indexOf(memory.projects, func(project domain.Project) bool { return project.ID == id })
		if index < 0 {
			continue
		}
		memory.projects[index].Order = order
		memory.projects[index].UpdatedAt = now
	}
	return nil
}

func (memory *Memory) ListSkills(_ context.Context, filter domain.SkillFilter) ([]domain.Skill, error) {
	memory.mu.RLock()
	defer memory.mu.RUnlock()

	result := make([]domain.Skill, 0, len(memory.skills))
	for _, skill := range memory.skills {
		if filter.Match(skill) {
			result = append(result, skill)
		}
	}
	slices.SortStableFunc(result, func(a, b domain.Skill) int {
		if c := cmp.Compare(a.Order, b.Order); c != 0 {
			return c
		}
		return cmp.Compare(a.Category, b.Category)
	})
	return result, nil
}

func (memory *Memory) ReplaceSkills(_ context.Context, skills []domain.Skill) ([]domain.Skill, error) {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	now := memory.now()
	replaced := make([]domain.Skill, 0, len(skills))
	for index, skill := range skills {
		skill.ID = newID()
		skill.Order = index
		skill.CreatedAt, skill.UpdatedAt = now, now
		replaced = append(replaced, skill)
	}
	memory.skills = replaced
	return slices.Clone(replaced), nil
}

func (memory *Memory) CreateSkill(_ context.Context, skill domain.Skill) (domain.Skill, error) {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	now := memory.now()
	skill.ID = newID()
	skill.CreatedAt, skill.UpdatedAt = now, now
	memory.skills = append(memory.skills, skill)
	return skill, nil
}

func (memory *Memory) ListCertificates(_ context.Context, featured *bool) ([]domain.Certificate, error) {
	memory.mu.RLock()
	defer memory.mu.RUnlock()

	result := make([]domain.Certificate, 0, len(memory.certificates))
	for _, certificate := range memory.certificates {
		if featured != nil && certificate.Featured != *featured {
			continue
		}
		result = append(result, certificate)
	}
	slices.SortStableFunc(result, func(a, b domain.Certificate) int {
		if c := cmp.Compare(a.Order, b.Order); c != 0 {
			return c
		}
		return b.IssueDate.Compare(a.IssueDate)
	})
	return result, nil
}

func (memory *Memory) CreateCertificate(_ context.Context, certificate domain.Certificate) (domain.Certificate, error) {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	now := memory.now()
	certificate.ID = newID()
	certificate.Skills = nonNil(certificate.Skills)
	certificate.CreatedAt, certificate.UpdatedAt = now, now
	memory.certificates = append(memory.certificates, certificate)
	return certificate, nil
}

func (memory *Memory) UpdateCertificate(_ context.Context, id string, certificate domain.Certificate) (domain.Certificate, error) {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	index := indexOf(memory.certificates, func(existing domain.Certificate) bool { return existing.ID == id })
	if index < 0 {
		return domain.Certificate{}, ErrNotFound
	}
	certificate.ID = id
	certificate.Skills = nonNil(certificate.Skills)
	certificate.CreatedAt = memory.certificates[index].CreatedAt
	certificate.UpdatedAt = memory.now()
	memory.certificates[index] = certificate
	return certificate, nil
}

func (memory *Memory) DeleteCertificate(_ context.Context, id string) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	index := indexOf(memory.certificates, func(certificate domain.Certificate) bool { return certificate.ID == id })
	if index < 0 {
		return ErrNotFound
	}
	memory.certificates = slices.Delete(memory.certificates, index, index+1)
	return nil
}

func (memory *Memory) GetAbout(_ context.Context) (domain.About, bool, error) {
	memory.mu.RLock()
	defer memory.mu.RUnlock()

	if memory.about == nil {
		return domain.About{}, false, nil
	}
	return *memory.about, true, nil
}

func (memory *Memory) SaveAbout(_ context.Context, about domain.About) (domain.About, error) {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	about.UpdatedAt = memory.now()
	memory.about = &about
	return about, nil
}

func (memory *Memory) GetSiteContent(_ context.Context) (domain.SiteContent, bool, error) {
	memory.mu.RLock()
	defer memory.mu.RUnlock()

	if memory.content == nil {
		return domain.SiteContent{}, false, nil
	}
	return *memory.content, true, nil
}

func (memory *Memory) SaveSiteContent(_ context.Context, content domain.SiteContent) (domain.SiteContent, error) {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	content = content.WithEmptySlices()
	content.UpdatedAt = memory.now()
	memory.content = &content
	return content, nil
}

func (memory *Memory) CreateNotification(_ context.Context, notification domain.Notification) (domain.Notification, error) {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	now := memory.now()
	notification.ID = newID()
	notification.Read = false
	notification.CreatedAt, notification.UpdatedAt = now, now
	memory.inbox = append(memory.inbox, notification)
	return notification, nil
}

func (memory *Memory) ListNotifications(_ context.Context, limit int) ([]domain.Notification, error) {
	memory.mu.RLock()
	defer memory.mu.RUnlock()

	result := slices.Clone(memory.inbox)
	slices.Reverse(result)
	slices.SortStableFunc(result, func(a, b domain.Notification) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (memory *Memory) MarkNotificationRead(_ context.Context, id string) (domain.Notification, error) {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	index := indexOf(memory.inbox, func(notification domain.Notification) bool { return notification.ID == id })
	if index < 0 {
		return domain.Notification{}, ErrNotFound
	}
	memory.inbox[index].Read = true
	memory.inbox[index].UpdatedAt = memory.now()
	return memory.inbox[index], nil
}

func (memory *Memory) MarkAllNotificationsRead(_ context.Context) (int, error) {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	now := memory.now()
	marked := 0
	for index := range memory.inbox {
		if !memory.inbox[index].Read {
			memory.inbox[index].Read = true
			memory.inbox[index].UpdatedAt = now
			marked++
		}
	}
	return marked, nil
}

func (memory *Memory) GetActiveResume(_ context.Context) (domain.Resume, error) {
	memory.mu.RLock()
	defer memory.mu.RUnlock()

	index := indexOf(memory.resumes, func(resume domain.Resume) bool { return resume.IsActive })
	if index < 0 {
		return domain.Resume{}, ErrNotFound
	}
	return memory.resumes[index], nil
}

func (memory *Memory) GetResume(_ context.Context, id string) (domain.Resume, error) {
	memory.mu.RLock()
	defer memory.mu.RUnlock()

	index := indexOf(memory.resumes, func(resume domain.Resume) bool { return resume.ID == id })
	if index < 0 {
		return domain.Resume{}, ErrNotFound
	}
	return memory.resumes[index], nil
}

func (memory *Memory) ListResumes(_ context.Context) ([]domain.Resume, error) {
	memory.mu.RLock()
	defer memory.mu.RUnlock()

	result := slices.Clone(memory.resumes)
	slices.Reverse(result)
	return nonNilSlice(result), nil
}

func (memory *Memory) CreateResume(_ context.Context, resume domain.Resume) (domain.Resume, error) {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	now := memory.now()
	resume.ID = newID()
	resume.CreatedAt, resume.UpdatedAt = now, now
	memory.resumes = append(memory.resumes, resume)
	return resume, nil
}

func (memory *Memory) ActivateResume(_ context.Context, id string) (domain.Resume, error) {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	target := indexOf(memory.resumes, func(resume domain.Resume) bool { return resume.ID == id })
	if target < 0 {
		return domain.Resume{}, ErrNotFound
	}
	now := memory.now()
	for index := range memory.resumes {
		if memory.resumes[index].IsActive {
			memory.resumes[index].IsActive = false
			memory.resumes[index].UpdatedAt = now
		}
	}
	memory.resumes[target].IsActive = true
	memory.resumes[target].UpdatedAt = now
	return memory.resumes[target], nil
}

func (memory *Memory) DeleteResume(_ context.Context, id string) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	index := indexOf(memory.resumes, func(resume domain.Resume) bool { return resume.ID == id })
	if index < 0 {
		return ErrNotFound
	}
	memory.resumes = slices.Delete(memory.resumes, index, index+1)
	return nil
}

func (memory *Memory) CreateMessage(_ context.Context, message domain.Message) (domain.Message, error) {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	now := memory.now()
	message.ID = newID()
	message.Read, message.Replied, message.Notified = false, false, false
	message.CreatedAt, message.UpdatedAt = now, now
	memory.messages = append(memory.messages, message)
	return message, nil
}

func (memory *Memory) ListMessages(_ context.Context) ([]domain.Message, error) {
	memory.mu.RLock()
	defer memory.mu.RUnlock()

	result := slices.Clone(memory.messages)
	slices.Reverse(result)
	return nonNilSlice(result), nil
}

func (memory *Memory) GetMessage(_ context.Context, id string) (domain.Message, error) {
	memory.mu.RLock()
	defer memory.mu.RUnlock()

	index := indexOf(memory.messages, func(message domain.Message) bool { return message.ID == id })
	if index < 0 {
		return domain.Message{}, ErrNotFound
	}
	return memory.messages[index], nil
}

func (memory *Memory) MarkMessageRead(_ context.Context, id string) (domain.Message, error) {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	index := indexOf(memory.messages, func(message domain.Message) bool { return message.ID == id })
	if index < 0 {
		return domain.Message{}, ErrNotFound
	}
	memory.messages[index].Read = true
	memory.messages[index].UpdatedAt = memory.now()
	return memory.messages[index], nil
}

func (memory *Memory) MarkMessageNotified(_ context.Context, id string) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	index := indexOf(memory.messages, func(message domain.Message) bool { return message.ID == id })
	if index < 0 {
		return ErrNotFound
	}
	memory.messages[index].Notified = true
	memory.messages[index].UpdatedAt = memory.now()
	return nil
}

func (memory *Memory) DeleteMessage(_ context.Context, id string) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	index := indexOf(memory.messages, func(message domain.Message) bool { return message.ID == id })
	if index < 0 {
		return ErrNotFound
	}
	memory.messages = slices.Delete(memory.messages, index, index+1)
	return nil
}

func (memory *Memory) findSubscriber(match func(domain.Subscriber) bool) (domain.Subscriber, bool) {
	memory.mu.RLock()
	defer memory.mu.RUnlock()

	index := indexOf(memory.subscribers, match)
	if index < 0 {
		return domain.Subscriber{}, false
	}
	return memory.subscribers[index], true
}

func (memory *Memory) GetSubscriberByEmail(_ context.Context, email string) (domain.Subscriber, bool, error) {
	subscriber, ok := memory.findSubscriber(func(subscriber domain.Subscriber) bool { return subscriber.Email == email })
	return subscriber, ok, nil
}

func (memory *Memory) GetSubscriberByToken(_ context.Context, token string) (domain.Subscriber, bool, error) {
	subscriber, ok := memory.findSubscriber(func(subscriber domain.Subscriber) bool {
		return token != "" && subscriber.UnsubscribeToken == token
	})
	return subscriber, ok, nil
}

func (memory *Memory) CreateSubscriber(_ context.Context, subscriber domain.Subscriber) (domain.Subscriber, error) {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	exists := slices.ContainsFunc(memory.subscribers, func(existing domain.Subscriber) bool {
		return existing.Email == subscriber.Email || existing.UnsubscribeToken == subscriber.UnsubscribeToken
	})
	if exists {
		return domain.Subscriber{}, ErrDuplicate
	}

	now := memory.now()
	subscriber.ID = newID()
	subscriber.Subscribed = true
	if subscriber.SubscriptionDate.IsZero() {
		subscriber.SubscriptionDate = now
	}
	subscriber.CreatedAt, subscriber.UpdatedAt = now, now
	memory.subscribers = append(memory.subscribers, subscriber)
	return subscriber, nil
}

func (memory *Memory) SetSubscribed(_ context.Context, id string, subscribed bool, at time.Time) (domain.Subscriber, error) {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	index := indexOf(memory.subscribers, func(subscriber domain.Subscriber) bool { return subscriber.ID == id })
	if index < 0 {
		return domain.Subscriber{}, ErrNotFound
	}
	memory.subscribers[index].Subscribed = subscribed
	memory.subscribers[index].SubscriptionDate = at
	memory.subscribers[index].UpdatedAt = memory.now()
	return memory.subscribers[index], nil
}

func (memory *Memory) ListSubscribed(_ context.Context) ([]domain.Subscriber, error) {
	memory.mu.RLock()
	defer memory.mu.RUnlock()

	result := make([]domain.Subscriber, 0, len(memory.subscribers))
	for _, subscriber := range memory.subscribers {
		if subscriber.Subscribed {
			result = append(result, subscriber)
		}
	}
	slices.SortStableFunc(result, func(a, b domain.Subscriber) int {
		return a.SubscriptionDate.Compare(b.SubscriptionDate)
	})
	return result, nil
}

func (memory *Memory) CountSubscribed(ctx context.Context) (int, error) {
	subscribed, err := memory.ListSubscribed(ctx)
	return len(subscribed), err
}

func (memory *Memory) UpsertPushSubscription(_ context.Context, subscription domain.PushSubscription) (bool, error) {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	index := indexOf(memory.push, func(existing domain.PushSubscription) bool { return existing.Endpoint == subscription.Endpoint })
	if index >= 0 {
		memory.push[index] = subscription
		return false, nil
	}
	memory.push = append(memory.push, subscription)
	return true, nil
}

func (memory *Memory) DeletePushSubscription(_ context.Context, endpoint string) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	memory.push = slices.DeleteFunc(memory.push, func(subscription domain.PushSubscription) bool {
		return subscription.Endpoint == endpoint
	})
	return nil
}

func (memory *Memory) ListPushSubscriptions(_ context.Context) ([]domain.PushSubscription, error) {
	memory.mu.RLock()
	defer memory.mu.RUnlock()

	return nonNilSlice(slices.Clone(memory.push)), nil
}

func nonNilSlice[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

var (
	_ Repository = (*Memory)(nil)
	_ Repository = (*Postgres)(nil)
)
