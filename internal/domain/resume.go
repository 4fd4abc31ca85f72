package domain

import "time"

type Resume struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	FileName    string    `json:"fileName"`
	FileURL     string    `json:"fileUrl"`
	FileSize    int64     `json:"fileSize"`
	Version     string    `json:"version"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// WithDefaults fills the optional fields the same way the upload form does.
func (resume Resume) WithDefaults() Resume {
	if resume.Title == "" {
		resume.Title = "Professional Resume"
	}
	if resume.Version == "" {
		resume.Version = "1.0"
	}
	if resume.Description == "" {
		resume.Description = "Professional Resume"
	}
	resume.IsActive = false
	return resume
}

func (resume Resume) Validate() error {
	if resume.FileURL == "" {
		return invalid("No resume file or file data provided")
	}
	if resume.FileName == "" {
		return invalid("Missing required fields: fileName, fileUrl")
	}
	return nil
}
