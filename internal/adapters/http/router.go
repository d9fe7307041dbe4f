package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wblproducoes/mvc08/internal/application"
)

// Handler is the HTTP adapter entrypoint. Keeping only the application
// dependency here preserves clean adapter boundaries.
type Handler struct {
	service      *application.Service
	cookieName   string
	secureCookie bool
	readyCheck   func() error
}

// Options tunes the transport-level behavior of the handler.
type Options struct {
	CookieName   string
	SecureCookie bool
	// ReadyCheck reports backing-store health for /readyz. Nil means always
	// ready.
	ReadyCheck func() error
}

// NewHandler constructs an HTTP handler bound to the application service.
func NewHandler(service *application.Service, opts Options) *Handler {
	if opts.CookieName == "" {
		opts.CookieName = "mvc08_session"
	}
	return &Handler{
		service:      service,
		cookieName:   opts.CookieName,
		secureCookie: opts.SecureCookie,
		readyCheck:   opts.ReadyCheck,
	}
}

// NewRouter registers the HTTP routes and middleware stack.
// Centralizing routes here keeps auth and error behavior consistent across endpoints.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.healthz)
	r.Get("/readyz", handler.readyz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", handler.login)
		r.Post("/auth/password/reset-request", handler.passwordResetRequest)
		r.Post("/auth/password/reset", handler.passwordReset)

		r.Group(func(r chi.Router) {
			r.Use(handler.sessionAuth)
			r.Get("/session", handler.currentSession)

			r.Group(func(r chi.Router) {
				r.Use(handler.verifyCSRF)
				r.Post("/auth/logout", handler.logout)

				r.Route("/users", func(r chi.Router) {
					r.Get("/", handler.listUsers)
					r.Post("/", handler.createUser)
					r.Get("/{id}", handler.getUser)
					r.Put("/{id}", handler.updateUser)
					r.Delete("/{id}", handler.deleteUser)
					r.Put("/{id}/password", handler.changePassword)
					r.Post("/{id}/restore", handler.restoreUser)
					r.Delete("/{id}/purge", handler.purgeUser)
				})

				r.Get("/status", handler.listStatuses)
				r.Get("/status/{id}", handler.getStatus)
				r.Get("/levels", handler.listLevels)
				r.Get("/levels/{id}", handler.getLevel)
				r.Get("/genders", handler.listGenders)
				r.Get("/genders/{id}", handler.getGender)

				r.Get("/access-logs", handler.listAccessLogs)
				r.Get("/access-logs/{id}", handler.getAccessLog)
			})
		})
	})

	return r
}
