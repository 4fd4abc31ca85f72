package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestValidEmail(t *testing.T) {
	cases := map[string]bool{
		"jane@example.com":         true,
		"jane.doe@mail.example.io": true,
		"j-d@example.co":           true,
		"jane@example":             false,
		"jane.example.com":         false,
		"":                         false,
		"jane@example.comm":        false,
	}
	for email, want := range cases {
		require.Equal(t, want, ValidEmail(email), email)
	}
}

func TestMessageValidate(t *testing.T) {
	message := Message{
		Name:    " Jane ",
		Email:   " JANE@Example.com ",
		Subject: " Hello there ",
		Message: " I would like to talk. ",
	}.Normalize()
	require.Equal(t, "jane@example.com", message.Email)
	require.Equal(t, "Jane", message.Name)
	require.NoError(t, message.Validate())

	missing := message
	missing.Subject = ""
	var validation *ValidationError
	require.ErrorAs(t, missing.Validate(), &validation)
	require.Equal(t, "All fields are required: name, email, subject, message", validation.Message)

	short := message
	short.Name = "J"
	short.Message = "short"
	require.ErrorAs(t, short.Validate(), &validation)
	require.Equal(t, "Validation failed", validation.Message)
	require.Len(t, validation.Fields, 2)

	long := message
	long.Message = strings.Repeat("x", 2001)
	require.Error(t, long.Validate())
}

func TestProjectValidation(t *testing.T) {
	project := Project{
		Title:            "Site",
		Description:      "A site",
		ShortDescription: "Site",
		Image:            "/site.png",
		GithubURL:        "https://github.com/example/site",
		Category:         "frontend",
	}
	require.NoError(t, project.ValidateCreate())
	require.Equal(t, ProjectStatusInProgress, project.Status)

	update := Project{GithubURL: "https://github.com/example/site", Category: "backend"}
	require.NoError(t, update.ValidateUpdate())
	require.Equal(t, ProjectStatusCompleted, update.Status)

	update.Status = "abandoned"
	require.Error(t, update.ValidateUpdate())

	noCategory := Project{GithubURL: "https://github.com/example/site", Category: "games"}
	require.Error(t, noCategory.ValidateUpdate())
}

func TestProjectFilter(t *testing.T) {
	featured := true
	project := Project{Category: "mobile", Featured: true, Status: ProjectStatusPlanned}

	require.True(t, ProjectFilter{}.Match(project))
	require.True(t, ProjectFilter{Category: "all"}.Match(project))
	require.True(t, ProjectFilter{Category: "mobile", Featured: &featured}.Match(project))
	require.False(t, ProjectFilter{Category: "design"}.Match(project))
	require.False(t, ProjectFilter{Status: ProjectStatusCompleted}.Match(project))
}

func TestSkillValidate(t *testing.T) {
	require.NoError(t, Skill{Name: "Go", Category: "backend", Level: 100}.Validate())
	require.Error(t, Skill{Name: "Go", Category: "backend", Level: 101}.Validate())
	require.Error(t, Skill{Name: "Go", Category: "devops", Level: 50}.Validate())
	require.Error(t, Skill{Category: "backend", Level: 50}.Validate())
}

func TestCertificateAndResumeValidate(t *testing.T) {
	certificate := Certificate{Name: "CKA", Issuer: "CNCF", Image: "/cka.png"}
	require.Error(t, certificate.Validate())
	certificate.IssueDate = time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	require.NoError(t, certificate.Validate())

	resume := Resume{FileName: "cv.pdf", FileURL: "https://cdn.example.com/cv.pdf", IsActive: true}.WithDefaults()
	require.False(t, resume.IsActive)
	require.Equal(t, "1.0", resume.Version)
	require.NoError(t, resume.Validate())
	require.Error(t, Resume{FileName: "cv.pdf"}.Validate())
}

func TestAboutDefaultIsValid(t *testing.T) {
	about := DefaultAbout()
	require.NoError(t, about.Validate())
	require.Len(t, about.Stats, 3)
	require.Len(t, about.Services, 3)
}

func TestNewUnsubscribeToken(t *testing.T) {
	first, err := NewUnsubscribeToken()
	require.NoError(t, err)
	second, err := NewUnsubscribeToken()
	require.NoError(t, err)

	require.Len(t, first, 64)
	require.NotEqual(t, first, second)
}

func TestSiteContentValidation(t *testing.T) {
	content := DefaultSiteContent()
	require.NoError(t, content.Validate())
	require.NotNil(t, content.Hero.TypingTexts)
	require.NotNil(t, content.SEO.Keywords)

	content.Hero.Subtitle = " "
	content.About.Image = ""
	var validation *ValidationError
	require.ErrorAs(t, content.Validate(), &validation)
	require.Equal(t, []string{"hero.subtitle is required", "about.image is required"}, validation.Fields)

	content = DefaultSiteContent()
	content.Contact.Email = "not-an-email"
	require.ErrorAs(t, content.Validate(), &validation)
	require.Equal(t, "Please provide a valid email address", validation.Message)
}

func TestNotificationValidation(t *testing.T) {
	notification := Notification{Type: " SUCCESS ", Title: " Done ", Message: " ok ", RelatedEntity: " Project "}.Normalize()
	require.NoError(t, notification.Validate())
	require.Equal(t, NotificationSuccess, notification.Type)
	require.Equal(t, EntityProject, notification.RelatedEntity)

	var validation *ValidationError
	require.ErrorAs(t, Notification{Type: "debug", RelatedEntity: "user"}.Validate(), &validation)
	require.Len(t, validation.Fields, 4)
}
