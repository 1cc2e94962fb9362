// Package web is the console's own HTTP surface: routing, guards, and views.
package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/wardroomhq/wardroom/internal/authz"
	"github.com/wardroomhq/wardroom/internal/web/handlers"
	"github.com/wardroomhq/wardroom/internal/web/middleware"
)

type RouterConfig struct {
	Auth      *handlers.AuthHandler
	Dashboard *handlers.DashboardHandler
	Users     *handlers.UsersHandler
	Projects  *handlers.ProjectsHandler
	Guard     *middleware.Guard
	Log       zerolog.Logger
	Secure    func(http.Handler) http.Handler
	// LoginRateLimit fronts the anonymous auth forms only.
	LoginRateLimit func(http.Handler) http.Handler
	Metrics        bool // expose /metrics
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimid.RequestID)
	r.Use(chimid.RealIP)
	r.Use(loggerMiddleware(cfg.Log))
	r.Use(chimid.Recoverer)
	if cfg.Metrics {
		r.Use(middleware.PrometheusMiddleware)
	}
	if cfg.Secure != nil {
		r.Use(cfg.Secure)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if cfg.Metrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	// Anonymous area: sign-in and invitation acceptance.
	r.Group(func(r chi.Router) {
		if cfg.LoginRateLimit != nil {
			r.Use(cfg.LoginRateLimit)
		}
		r.Get("/login", cfg.Auth.ShowLogin)
		r.Post("/login", cfg.Auth.Login)
		r.Get("/register", cfg.Auth.ShowRegister)
		r.Post("/register", cfg.Auth.Register)
	})

	// Authenticated area: the presence gate wraps everything, capability
	// gates wrap individual views inside it.
	r.Group(func(r chi.Router) {
		r.Use(cfg.Guard.RequireSession)

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/dashboard", http.StatusFound)
		})
		r.Get("/dashboard", cfg.Dashboard.Show)
		r.Post("/logout", cfg.Auth.Logout)

		r.Get("/projects", cfg.Projects.List)
		r.Post("/projects", cfg.Projects.Create)
		r.Post("/projects/{id}", cfg.Projects.Update)
		r.Post("/projects/{id}/delete", cfg.Projects.Delete)

		r.Group(func(r chi.Router) {
			r.Use(cfg.Guard.RequireCapability(authz.Policy.CanViewUsers))
			r.Get("/users", cfg.Users.List)
			r.Post("/users/{id}/role", cfg.Users.UpdateRole)
			r.Post("/users/{id}/status", cfg.Users.UpdateStatus)
		})
		r.Group(func(r chi.Router) {
			r.Use(cfg.Guard.RequireCapability(authz.Policy.CanCreateInvite))
			r.Post("/invites", cfg.Auth.CreateInvite)
		})
	})

	return r
}

func loggerMiddleware(log zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := chimid.GetReqID(r.Context())
			log.Info().
				Str("request_id", reqID).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("request")
			next.ServeHTTP(w, r)
		})
	}
}
