package notify

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kongyujesse/portfolio-backend/internal/domain"
)

func TestTemplateStoreRendersBuiltins(t *testing.T) {
	store, err := NewTemplateStore()
	require.NoError(t, err)

	alert, err := store.Render(TemplateContactAlert, contactAlertData{
		Message: domain.Message{
			Name:      "Jane <script>",
			Email:     "jane@example.com",
			Subject:   "Hello there",
			Message:   "line one\nline two",
			CreatedAt: time.Date(2026, 1, 2, 15, 4, 0, 0, time.UTC),
		},
		Lines:    []string{"line one", "line two"},
		AdminURL: "https://site.example/admin#messages",
	})
	require.NoError(t, err)
	require.Contains(t, alert, "<!DOCTYPE html>")
	require.Contains(t, alert, "Jane &lt;script&gt;")
	require.NotContains(t, alert, "<script>")
	require.Contains(t, alert, "<p>line two</p>")
	require.Contains(t, alert, "Jan 2, 2026 15:04 UTC")

	welcome, err := store.Render(TemplateWelcome, welcomeData{Owner: "Jesse", UnsubscribeURL: "https://site.example/unsubscribe?token=abc"})
	require.NoError(t, err)
	require.Contains(t, welcome, `href="https://site.example/unsubscribe?token=abc"`)

	announcement, err := store.Render(TemplateProjectAnnouncement, projectData{
		Project:        domain.Project{Title: "Atlas", Technologies: []string{"Go", "Postgres"}, GithubURL: "https://github.com/x/atlas"},
		Summary:        "A map",
		Email:          "reader@example.com",
		ProjectsURL:    "https://site.example/#projects",
		UnsubscribeURL: "https://site.example/unsubscribe?token=t1",
	})
	require.NoError(t, err)
	require.Contains(t, announcement, "<h2>Atlas</h2>")
	require.Contains(t, announcement, "Go, Postgres")
	require.NotContains(t, announcement, "Live Demo")
	require.Contains(t, announcement, "reader@example.com")
}

func TestTemplateStoreRegisterAndMissing(t *testing.T) {
	store, err := NewTemplateStore()
	require.NoError(t, err)

	_, err = store.Render("unknown", nil)
	require.Error(t, err)

	require.NoError(t, store.Register("custom", `{{define "body"}}<p>{{.}}</p>{{end}}`))
	out, err := store.Render("custom", "hi")
	require.NoError(t, err)
	require.True(t, strings.Contains(out, "<p>hi</p>"))

	require.Error(t, store.Register("broken", `{{define "body"}}{{.Unclosed{{end}}`))
}
