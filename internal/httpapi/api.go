// Package httpapi is the HTTP surface: routing, authentication middleware,
// request handlers and the realtime endpoint.
package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"tracklog.org/internal/audit"
	"tracklog.org/internal/bus"
	"tracklog.org/internal/config"
	"tracklog.org/internal/mail"
	"tracklog.org/internal/obs"
	"tracklog.org/internal/store"
	"tracklog.org/internal/token"
)

const maxBodyBytes = 1 << 20

// API wires the handlers to their dependencies.
type API struct {
	cfg      *config.Config
	codec    *token.Codec
	store    *store.Store
	bus      *bus.Bus
	recorder *audit.Recorder
	mailer   mail.Mailer
	ready    func(context.Context) error
	version  string
}

func New(cfg *config.Config, codec *token.Codec, st *store.Store, b *bus.Bus, rec *audit.Recorder, mailer mail.Mailer, ready func(context.Context) error, version string) *API {
	return &API{
		cfg:      cfg,
		codec:    codec,
		store:    st,
		bus:      b,
		recorder: rec,
		mailer:   mailer,
		ready:    ready,
		version:  version,
	}
}

// Handler assembles the middleware stack and the route tree.
func (a *API) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(LoggingJSON)
	r.Use(obs.Instrument)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   a.cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           600,
	}))
	r.Use(func(next http.Handler) http.Handler {
		return RateLimit(next, a.cfg.RateLimitBurst, a.cfg.RateLimitRPS)
	})
	r.Use(func(next http.Handler) http.Handler {
		return MaxBodyBytes(next, maxBodyBytes)
	})

	r.Get("/healthz", a.handleHealthz)
	r.Get("/readyz", a.handleReady)
	r.Method(http.MethodGet, "/metrics", obs.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", a.handleLogin)
			r.Post("/register", a.handleRegister)
			r.Post("/join", a.handleJoin)
			r.Post("/forgot-password", a.handleForgotPassword)
			r.Post("/reset-password", a.handleResetPassword)
		})

		r.Get("/invitations/{token}", a.handleGetInvitation)

		r.Group(func(r chi.Router) {
			r.Use(a.RequireAuth)

			r.Route("/users", func(r chi.Router) {
				r.Get("/", a.handleListUsers)
				r.Patch("/me/password", a.handleUpdatePassword)
				r.With(AdminOnly).Post("/", a.handleCreateUser)
				r.With(AdminOnly).Delete("/{id}", a.handleDeleteUser)
			})

			r.With(AdminOnly).Post("/invitations", a.handleCreateInvitation)

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", a.handleListTasks)
				r.Post("/", a.handleCreateTask)
				r.Post("/time-logs", a.handleAddTimeLog)
				r.Patch("/time-logs/{id}", a.handleUpdateTimeLog)
				r.Delete("/time-logs/{id}", a.handleDeleteTimeLog)
				r.With(AdminOnly).Get("/report", a.handleTaskReport)
				r.Patch("/{id}", a.handleUpdateTask)
				r.Delete("/{id}", a.handleDeleteTask)
			})

			r.Route("/reports", func(r chi.Router) {
				r.Get("/", a.handleListReports)
				r.Post("/", a.handleCreateReport)
				r.Get("/{id}", a.handleGetReport)
				r.Patch("/{id}", a.handleUpdateReport)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", a.handleListNotifications)
				r.Patch("/read-all", a.handleMarkAllNotificationsRead)
				r.Patch("/{id}/read", a.handleMarkNotificationRead)
			})

			r.Get("/logs", a.handleListLogs)

			r.Route("/analytics", func(r chi.Router) {
				r.Get("/personal", a.handlePersonalAnalytics)
				r.Get("/users/{id}", a.handleUserAnalytics)
			})

			r.Route("/display-groups", func(r chi.Router) {
				r.Get("/", a.handleListDisplayGroups)
				r.Post("/", a.handleCreateDisplayGroup)
				r.Patch("/{id}", a.handleUpdateDisplayGroup)
				r.Delete("/{id}", a.handleDeleteDisplayGroup)
			})
		})
	})

	r.With(a.RequireAuth).Get("/ws", a.handleWS)

	return r
}

func (a *API) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "tracklog-api",
		"version": a.version,
	})
}

func (a *API) handleReady(w http.ResponseWriter, r *http.Request) {
	if a.ready != nil {
		if err := a.ready(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"status": "not_ready",
				"error":  err.Error(),
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}

// publish fans an event out to the actor's organization.
func (a *API) publish(orgID int64, event string, payload any) {
	a.bus.Publish(bus.Event{OrganizationID: orgID, Event: event, Payload: payload})
}
