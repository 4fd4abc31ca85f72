package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kongyujesse/portfolio-backend/internal/domain"
	"github.com/kongyujesse/portfolio-backend/internal/service"
)

type reorderRequest struct {
	Projects []struct {
		ID       string `json:"id"`
		LegacyID string `json:"_id"`
	} `json:"projects"`
}

type skillsRequest struct {
	Skills []domain.Skill `json:"skills"`
}

type certificateRequest struct {
	Name          string   `json:"name"`
	Issuer        string   `json:"issuer"`
	IssueDate     string   `json:"issueDate"`
	CredentialURL string   `json:"credentialUrl"`
	Image         string   `json:"image"`
	Description   string   `json:"description"`
	Skills        []string `json:"skills"`
	Featured      bool     `json:"featured"`
	Order         int      `json:"order"`
}

func (payload certificateRequest) certificate() domain.Certificate {
	return domain.Certificate{
		Name:          strings.TrimSpace(payload.Name),
		Issuer:        strings.TrimSpace(payload.Issuer),
		IssueDate:     parseDate(payload.IssueDate),
		CredentialURL: payload.CredentialURL,
		Image:         payload.Image,
		Description:   payload.Description,
		Skills:        payload.Skills,
		Featured:      payload.Featured,
		Order:         payload.Order,
	}
}

// parseDate accepts RFC 3339 timestamps and plain dates. Anything else is the
// zero time, which validation rejects.
func parseDate(value string) time.Time {
	value = strings.TrimSpace(value)
	for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// queryFlag mirrors the listing filters of the site: any non-empty value
// filters, and only "true" means true.
func queryFlag(request *http.Request, name string) *bool {
	value := request.URL.Query().Get(name)
	if value == "" {
		return nil
	}
	flag := value == "true"
	return &flag
}

func (handlers *Handlers) listProjects(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()
	projects, err := handlers.service.ListProjects(request.Context(), domain.ProjectFilter{
		Category: query.Get("category"),
		Featured: queryFlag(request, "featured"),
		Status:   query.Get("status"),
	})
	if err != nil {
		handlers.writeError(writer, request, err, "list projects")
		return
	}
	writeJSON(writer, http.StatusOK, projects)
}

func (handlers *Handlers) getProject(writer http.ResponseWriter, request *http.Request) {
	project, err := handlers.service.GetProject(request.Context(), chi.URLParam(request, "id"))
	if err != nil {
		handlers.writeLookupError(writer, request, err, "Project not found")
		return
	}
	writeJSON(writer, http.StatusOK, project)
}

func (handlers *Handlers) createProject(writer http.ResponseWriter, request *http.Request) {
	var payload domain.Project
	if err := decode(request, &payload); err != nil {
		writeMessage(writer, http.StatusBadRequest, "Invalid project payload")
		return
	}
	project, err := handlers.service.CreateProject(request.Context(), payload)
	if err != nil {
		handlers.writeError(writer, request, err, "create project")
		return
	}
	writeJSON(writer, http.StatusCreated, project)
}

func (handlers *Handlers) updateProject(writer http.ResponseWriter, request *http.Request) {
	var payload domain.Project
	if err := decode(request, &payload); err != nil {
		writeMessage(writer, http.StatusBadRequest, "Invalid project payload")
		return
	}
	project, err := handlers.service.UpdateProject(request.Context(), chi.URLParam(request, "id"), payload)
	if err != nil {
		handlers.writeLookupError(writer, request, err, "Project not found")
		return
	}
	writeJSON(writer, http.StatusOK, project)
}

func (handlers *Handlers) deleteProject(writer http.ResponseWriter, request *http.Request) {
	if err := handlers.service.DeleteProject(request.Context(), chi.URLParam(request, "id")); err != nil {
		handlers.writeLookupError(writer, request, err, "Project not found")
		return
	}
	writeMessage(writer, http.StatusOK, "Project deleted successfully")
}

func (handlers *Handlers) reorderProjects(writer http.ResponseWriter, request *http.Request) {
	var payload reorderRequest
	if err := decode(request, &payload); err != nil {
		writeMessage(writer, http.StatusBadRequest, "Projects must be an array")
		return
	}
	ids := make([]string, 0, len(payload.Projects))
	for _, project := range payload.Projects {
		ids = append(ids, firstNonEmpty(project.ID, project.LegacyID))
	}
	if err := handlers.service.ReorderProjects(request.Context(), ids); err != nil {
		handlers.writeLookupError(writer, request, err, "Project not found")
		return
	}
	writeMessage(writer, http.StatusOK, "Project order updated successfully")
}

func (handlers *Handlers) listSkills(writer http.ResponseWriter, request *http.Request) {
	skills, err := handlers.service.ListSkills(request.Context(), domain.SkillFilter{
		Category: request.URL.Query().Get("category"),
		Featured: queryFlag(request, "featured"),
	})
	if err != nil {
		handlers.writeError(writer, request, err, "list skills")
		return
	}
	writeJSON(writer, http.StatusOK, skills)
}

func (handlers *Handlers) replaceSkills(writer http.ResponseWriter, request *http.Request) {
	var payload skillsRequest
	if err := decode(request, &payload); err != nil || payload.Skills == nil {
		writeMessage(writer, http.StatusBadRequest, "Skills must be an array")
		return
	}
	skills, err := handlers.service.ReplaceSkills(request.Context(), payload.Skills)
	if err != nil {
		handlers.writeError(writer, request, err, "replace skills")
		return
	}
	writeJSON(writer, http.StatusOK, skills)
}

func (handlers *Handlers) createSkill(writer http.ResponseWriter, request *http.Request) {
	var payload domain.Skill
	if err := decode(request, &payload); err != nil {
		writeMessage(writer, http.StatusBadRequest, "Missing required fields: name, category, level")
		return
	}
	skill, err := handlers.service.CreateSkill(request.Context(), payload)
	if err != nil {
		handlers.writeError(writer, request, err, "create skill")
		return
	}
	writeJSON(writer, http.StatusCreated, skill)
}

func (handlers *Handlers) listCertificates(writer http.ResponseWriter, request *http.Request) {
	certificates, err := handlers.service.ListCertificates(request.Context(), queryFlag(request, "featured"))
	if err != nil {
		handlers.writeError(writer, request, err, "list certificates")
		return
	}
	writeJSON(writer, http.StatusOK, certificates)
}

func (handlers *Handlers) createCertificate(writer http.ResponseWriter, request *http.Request) {
	var payload certificateRequest
	if err := decode(request, &payload); err != nil {
		writeMessage(writer, http.StatusBadRequest, "Missing required fields: name, issuer, issueDate, image")
		return
	}
	certificate, err := handlers.service.CreateCertificate(request.Context(), payload.certificate())
	if err != nil {
		handlers.writeError(writer, request, err, "create certificate")
		return
	}
	writeJSON(writer, http.StatusCreated, certificate)
}

func (handlers *Handlers) updateCertificate(writer http.ResponseWriter, request *http.Request) {
	var payload certificateRequest
	if err := decode(request, &payload); err != nil {
		writeMessage(writer, http.StatusBadRequest, "Missing required fields: name, issuer, issueDate, image")
		return
	}
	certificate, err := handlers.service.UpdateCertificate(request.Context(), chi.URLParam(request, "id"), payload.certificate())
	if err != nil {
		handlers.writeLookupError(writer, request, err, "Certificate not found")
		return
	}
	writeJSON(writer, http.StatusOK, certificate)
}

func (handlers *Handlers) deleteCertificate(writer http.ResponseWriter, request *http.Request) {
	if err := handlers.service.DeleteCertificate(request.Context(), chi.URLParam(request, "id")); err != nil {
		handlers.writeLookupError(writer, request, err, "Certificate not found")
		return
	}
	writeMessage(writer, http.StatusOK, "Certificate deleted successfully")
}

func (handlers *Handlers) getAbout(writer http.ResponseWriter, request *http.Request) {
	about, err := handlers.service.GetAbout(request.Context())
	if err != nil {
		handlers.writeError(writer, request, err, "get about")
		return
	}
	writeJSON(writer, http.StatusOK, about)
}

func (handlers *Handlers) saveAbout(writer http.ResponseWriter, request *http.Request) {
	var payload domain.About
	if err := decode(request, &payload); err != nil {
		writeMessage(writer, http.StatusBadRequest, "Invalid about payload")
		return
	}
	about, err := handlers.service.SaveAbout(request.Context(), payload)
	if err != nil {
		handlers.writeError(writer, request, err, "save about")
		return
	}
	writeJSON(writer, http.StatusOK, about)
}

func (handlers *Handlers) getActiveResume(writer http.ResponseWriter, request *http.Request) {
	resume, err := handlers.service.GetActiveResume(request.Context())
	if err != nil {
		handlers.writeLookupError(writer, request, err, "No active resume found")
		return
	}
	writeJSON(writer, http.StatusOK, resume)
}

func (handlers *Handlers) listResumes(writer http.ResponseWriter, request *http.Request) {
	resumes, err := handlers.service.ListResumes(request.Context())
	if err != nil {
		handlers.writeError(writer, request, err, "list resumes")
		return
	}
	writeJSON(writer, http.StatusOK, resumes)
}

func (handlers *Handlers) createResume(writer http.ResponseWriter, request *http.Request) {
	var payload domain.Resume
	if err := decode(request, &payload); err != nil {
		writeMessage(writer, http.StatusBadRequest, "No resume file or file data provided")
		return
	}
	resume, err := handlers.service.CreateResume(request.Context(), payload)
	if err != nil {
		handlers.writeError(writer, request, err, "create resume")
		return
	}
	writeJSON(writer, http.StatusCreated, resume)
}

func (handlers *Handlers) activateResume(writer http.ResponseWriter, request *http.Request) {
	resume, err := handlers.service.ActivateResume(request.Context(), chi.URLParam(request, "id"))
	if err != nil {
		handlers.writeLookupError(writer, request, err, "Resume not found")
		return
	}
	writeJSON(writer, http.StatusOK, resume)
}

func (handlers *Handlers) deleteResume(writer http.ResponseWriter, request *http.Request) {
	err := handlers.service.DeleteResume(request.Context(), chi.URLParam(request, "id"))
	if errors.Is(err, service.ErrActiveResume) {
		writeMessage(writer, http.StatusBadRequest, "Cannot delete active resume")
		return
	}
	if err != nil {
		handlers.writeLookupError(writer, request, err, "Resume not found")
		return
	}
	writeMessage(writer, http.StatusOK, "Resume deleted successfully")
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed != "" {
			return trimmed
		}
	}
	return ""
}
