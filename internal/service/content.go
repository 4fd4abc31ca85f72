package service

import (
	"context"

	"github.com/kongyujesse/portfolio-backend/internal/domain"
)

func (service *Service) ListProjects(ctx context.Context, filter domain.ProjectFilter) ([]domain.Project, error) {
	return service.repository.ListProjects(ctx, filter)
}

func (service *Service) GetProject(ctx context.Context, id string) (domain.Project, error) {
	project, err := service.repository.GetProject(ctx, id)
	return project, translate(err)
}

// CreateProject stores a project and announces it to newsletter subscribers.
func (service *Service) CreateProject(ctx context.Context, project domain.Project) (domain.Project, error) {
	if err := project.ValidateCreate(); err != nil {
		return domain.Project{}, err
	}
	created, err := service.repository.CreateProject(ctx, project)
	if err != nil {
		return domain.Project{}, err
	}
	service.logger.Info("project created", "project", created.ID, "title", created.Title)

	service.notifier.ProjectPublished(created)
	return created, nil
}

func (service *Service) UpdateProject(ctx context.Context, id string, project domain.Project) (domain.Project, error) {
	if err := project.ValidateUpdate(); err != nil {
		return domain.Project{}, err
	}
	updated, err := service.repository.UpdateProject(ctx, id, project)
	return updated, translate(err)
}

func (service *Service) DeleteProject(ctx context.Context, id string) error {
	return translate(service.repository.DeleteProject(ctx, id))
}

// ReorderProjects assigns each project its index in ids as display order.
func (service *Service) ReorderProjects(ctx context.Context, ids []string) error {
	return translate(service.repository.ReorderProjects(ctx, ids))
}

func (service *Service) ListSkills(ctx context.Context, filter domain.SkillFilter) ([]domain.Skill, error) {
	return service.repository.ListSkills(ctx, filter)
}

// ReplaceSkills swaps the whole skill list; nothing is written unless every
// skill is valid.
func (service *Service) ReplaceSkills(ctx context.Context, skills []domain.Skill) ([]domain.Skill, error) {
	for _, skill := range skills {
		if err := skill.Validate(); err != nil {
			return nil, err
		}
	}
	return service.repository.ReplaceSkills(ctx, skills)
}

func (service *Service) CreateSkill(ctx context.Context, skill domain.Skill) (domain.Skill, error) {
	if err := skill.Validate(); err != nil {
		return domain.Skill{}, err
	}
	skill.Order = 0
	return service.repository.CreateSkill(ctx, skill)
}

func (service *Service) ListCertificates(ctx context.Context, featured *bool) ([]domain.Certificate, error) {
	return service.repository.ListCertificates(ctx, featured)
}

func (service *Service) CreateCertificate(ctx context.Context, certificate domain.Certificate) (domain.Certificate, error) {
	if err := certificate.Validate(); err != nil {
		return domain.Certificate{}, err
	}
	return service.repository.CreateCertificate(ctx, certificate)
}

func (service *Service) UpdateCertificate(ctx context.Context, id string, certificate domain.Certificate) (domain.Certificate, error) {
	if err := certificate.Validate(); err != nil {
		return domain.Certificate{}, err
	}
	updated, err := service.repository.UpdateCertificate(ctx, id, certificate)
	return updated, translate(err)
}

func (service *Service) DeleteCertificate(ctx context.Context, id string) error {
	return translate(service.repository.DeleteCertificate(ctx, id))
}

// GetAbout returns the saved about document, storing the default one on first
// read.
func (service *Service) GetAbout(ctx context.Context) (domain.About, error) {
	about, found, err := service.repository.GetAbout(ctx)
	if err != nil {
		return domain.About{}, err
	}
	if found {
		return about, nil
	}
	return service.repository.SaveAbout(ctx, domain.DefaultAbout())
}

func (service *Service) SaveAbout(ctx context.Context, about domain.About) (domain.About, error) {
	if err := about.Validate(); err != nil {
		return domain.About{}, err
	}
	return service.repository.SaveAbout(ctx, about)
}

func (service *Service) GetActiveResume(ctx context.Context) (domain.Resume, error) {
	resume, err := service.repository.GetActiveResume(ctx)
	return resume, translate(err)
}

func (service *Service) ListResumes(ctx context.Context) ([]domain.Resume, error) {
	return service.repository.ListResumes(ctx)
}

// CreateResume records an already uploaded file. New resumes start inactive.
func (service *Service) CreateResume(ctx context.Context, resume domain.Resume) (domain.Resume, error) {
	resume = resume.WithDefaults()
	if err := resume.Validate(); err != nil {
		return domain.Resume{}, err
	}
	return service.repository.CreateResume(ctx, resume)
}

func (service *Service) ActivateResume(ctx context.Context, id string) (domain.Resume, error) {
	resume, err := service.repository.ActivateResume(ctx, id)
	return resume, translate(err)
}

func (service *Service) DeleteResume(ctx context.Context, id string) error {
	resume, err := service.repository.GetResume(ctx, id)
	if err != nil {
		return translate(err)
	}
	if resume.IsActive {
		return ErrActiveResume
	}
	return translate(service.repository.DeleteResume(ctx, id))
}
