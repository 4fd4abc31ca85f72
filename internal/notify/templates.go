package notify

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
	"sync"
)

const (
	TemplateContactAlert        = "contact_alert"
	TemplateWelcome             = "welcome"
	TemplateProjectAnnouncement = "project_announcement"
)

//go:embed templates/*.html
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"join": strings.Join,
}

// TemplateStore renders the HTML bodies of outbound email. Every template
// is rendered inside the shared layout.
type TemplateStore struct {
	mu        sync.RWMutex
	layout    *template.Template
	templates map[string]*template.Template
}

// NewTemplateStore loads the built-in templates.
func NewTemplateStore() (*TemplateStore, error) {
	layout, err := template.New("layout").Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	store := &TemplateStore{layout: layout, templates: make(map[string]*template.Template)}
	for _, name := range []string{TemplateContactAlert, TemplateWelcome, TemplateProjectAnnouncement} {
		body, err := templateFS.ReadFile("templates/" + name + ".html")
		if err != nil {
			return nil, fmt.Errorf("read template %s: %w", name, err)
		}
		if err := store.Register(name, string(body)); err != nil {
			return nil, err
		}
	}
	return store, nil
}

// Register adds or replaces a template. body must define a "body" block.
func (store *TemplateStore) Register(name, body string) error {
	layout, err := store.layout.Clone()
	if err != nil {
		return fmt.Errorf("clone layout for %s: %w", name, err)
	}
	tmpl, err := layout.Parse(body)
	if err != nil {
		return fmt.Errorf("parse template %s: %w", name, err)
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	store.templates[name] = tmpl
	return nil
}

func (store *TemplateStore) Render(name string, data any) (string, error) {
	store.mu.RLock()
	tmpl, ok := store.templates[name]
	store.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("template %s not found", name)
	}

	var out strings.Builder
	if err := tmpl.ExecuteTemplate(&out, "layout", data); err != nil {
		return "", fmt.Errorf("render template %s: %w", name, err)
	}
	return out.String(), nil
}
