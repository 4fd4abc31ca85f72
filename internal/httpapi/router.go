package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kongyujesse/portfolio-backend/internal/metrics"
	"github.com/kongyujesse/portfolio-backend/internal/ratelimit"
	"github.com/kongyujesse/portfolio-backend/internal/service"
)

// Limiters holds one limiter per rate limited route group. Nil limiters
// allow everything.
type Limiters struct {
	General   ratelimit.Limiter
	Messages  ratelimit.Limiter
	Subscribe ratelimit.Limiter
	Login     ratelimit.Limiter
}

type Options struct {
	Service        *service.Service
	Limiters       Limiters
	Metrics        *metrics.Metrics
	Logger         *slog.Logger
	AllowedOrigins []string
}

type Handlers struct {
	service  *service.Service
	limiters Limiters
	metrics  *metrics.Metrics
	logger   *slog.Logger
	origins  map[string]bool
}

func NewRouter(options Options) http.Handler {
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}
	handlers := &Handlers{
		service:  options.Service,
		limiters: options.Limiters,
		metrics:  options.Metrics,
		logger:   logger,
		origins:  make(map[string]bool, len(options.AllowedOrigins)),
	}
	for _, origin := range options.AllowedOrigins {
		handlers.origins[origin] = true
	}

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(handlers.instrument)
	router.Use(handlers.cors)

	router.Get("/healthz", handlers.healthz)
	router.Method(http.MethodGet, "/metrics", options.Metrics.Handler())

	router.Route("/api", func(r chi.Router) {
		r.Use(handlers.rateLimit("general", handlers.limiters.General))
		r.Use(middleware.RequestSize(10 << 20))

		r.With(handlers.rateLimit("login", handlers.limiters.Login)).Post("/auth/login", handlers.login)
		r.With(handlers.requireAuth).Get("/auth/verify", handlers.verify)

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", handlers.listProjects)
			r.Get("/{id}", handlers.getProject)
			r.Group(func(r chi.Router) {
				r.Use(handlers.requireAuth)
				r.Post("/", handlers.createProject)
				r.Patch("/order", handlers.reorderProjects)
				r.Put("/{id}", handlers.updateProject)
				r.Delete("/{id}", handlers.deleteProject)
			})
		})

		r.Route("/skills", func(r chi.Router) {
			r.Get("/", handlers.listSkills)
			r.With(handlers.requireAuth).Put("/", handlers.replaceSkills)
			r.With(handlers.requireAuth).Post("/", handlers.createSkill)
		})

		r.Route("/certificates", func(r chi.Router) {
			r.Get("/", handlers.listCertificates)
			r.Group(func(r chi.Router) {
				r.Use(handlers.requireAuth)
				r.Post("/", handlers.createCertificate)
				r.Put("/{id}", handlers.updateCertificate)
				r.Delete("/{id}", handlers.deleteCertificate)
			})
		})

		r.Get("/about", handlers.getAbout)
		r.With(handlers.requireAuth).Put("/about", handlers.saveAbout)

		r.Get("/content", handlers.getSiteContent)
		r.With(handlers.requireAuth).Put("/content", handlers.saveSiteContent)

		r.Route("/notifications", func(r chi.Router) {
			r.Use(handlers.requireAuth)
			r.Get("/", handlers.listNotifications)
			r.Post("/", handlers.createNotification)
			r.Patch("/read-all", handlers.markAllNotificationsRead)
			r.Patch("/{id}/read", handlers.markNotificationRead)
		})

		r.Route("/resume", func(r chi.Router) {
			r.Get("/", handlers.getActiveResume)
			r.Group(func(r chi.Router) {
				r.Use(handlers.requireAuth)
				r.Get("/all", handlers.listResumes)
				r.Post("/", handlers.createResume)
				r.Patch("/{id}/activate", handlers.activateResume)
				r.Delete("/{id}", handlers.deleteResume)
			})
		})

		r.Route("/messages", func(r chi.Router) {
			r.With(handlers.rateLimit("messages", handlers.limiters.Messages)).Post("/", handlers.createMessage)
			r.Group(func(r chi.Router) {
				r.Use(handlers.requireAuth)
				r.Get("/", handlers.listMessages)
				r.Get("/{id}", handlers.getMessage)
				r.Patch("/{id}/read", handlers.markMessageRead)
				r.Delete("/{id}", handlers.deleteMessage)
			})
		})

		r.Route("/newsletter", func(r chi.Router) {
			r.With(handlers.rateLimit("subscribe", handlers.limiters.Subscribe)).Post("/subscribe", handlers.subscribe)
			r.Post("/unsubscribe", handlers.unsubscribe)
			r.With(handlers.requireAuth).Get("/subscribers", handlers.listSubscribers)
			r.Get("/count", handlers.countSubscribers)
		})

		r.Route("/push", func(r chi.Router) {
			r.Use(handlers.requireAuth)
			r.Post("/subscribe", handlers.subscribePush)
			r.Post("/unsubscribe", handlers.unsubscribePush)
		})
	})

	return router
}

func (handlers *Handlers) healthz(writer http.ResponseWriter, _ *http.Request) {
	writer.WriteHeader(http.StatusOK)
	_, _ = writer.Write([]byte("ok"))
}
