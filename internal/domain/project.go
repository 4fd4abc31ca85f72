package domain

import "time"

const (
	ProjectStatusCompleted  = "completed"
	ProjectStatusInProgress = "in-progress"
	ProjectStatusPlanned    = "planned"
)

var projectCategories = []string{"frontend", "backend", "fullstack", "mobile", "design"}

type Project struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	ShortDescription string    `json:"shortDescription"`
	Image            string    `json:"image"`
	Images           []string  `json:"images"`
	Technologies     []string  `json:"technologies"`
	Category         string    `json:"category"`
	LiveURL          string    `json:"liveUrl,omitempty"`
	GithubURL        string    `json:"githubUrl"`
	Featured         bool      `json:"featured"`
	Order            int       `json:"order"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// ProjectFilter narrows a project listing; empty fields match everything.
type ProjectFilter struct {
	Category string
	Featured *bool
	Status   string
}

func (filter ProjectFilter) Match(project Project) bool {
	if filter.Category != "" && filter.Category != "all" && project.Category != filter.Category {
		return false
	}
	if filter.Featured != nil && project.Featured != *filter.Featured {
		return false
	}
	if filter.Status != "" && project.Status != filter.Status {
		return false
	}
	return true
}

func ValidProjectStatus(status string) bool {
	return oneOf(status, ProjectStatusCompleted, ProjectStatusInProgress, ProjectStatusPlanned)
}

// ValidateCreate applies the creation rules and fills the default status.
func (project *Project) ValidateCreate() error {
	if project.Title == "" || project.Description == "" || project.ShortDescription == "" || project.Image == "" || project.GithubURL == "" {
		return invalid("Missing required fields: title, description, shortDescription, image, githubUrl")
	}
	if project.Status == "" {
		project.Status = ProjectStatusInProgress
	}
	return project.validateEnums()
}

func (project *Project) ValidateUpdate() error {
	if project.GithubURL == "" {
		return invalid("GitHub URL is required")
	}
	if project.Status == "" {
		project.Status = ProjectStatusCompleted
	}
	return project.validateEnums()
}

func (project *Project) validateEnums() error {
	if !ValidProjectStatus(project.Status) {
		return invalid("Invalid status. Must be one of: completed, in-progress, planned")
	}
	if project.Category == "" || !oneOf(project.Category, projectCategories...) {
		return invalid("Invalid category. Must be one of: frontend, backend, fullstack, mobile, design")
	}
	return nil
}
