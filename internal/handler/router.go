package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taskmanager/taskmanager-go/internal/middleware"
	"github.com/taskmanager/taskmanager-go/internal/service"
)

// Deps are the collaborators the router is built from. RateLimiter,
// Metrics, MetricsHandler and Denylist are optional.
type Deps struct {
	Auth          *service.AuthService
	Users         *service.UserService
	Tasks         *service.TaskService
	Notifications *service.NotificationService

	Tokens   middleware.TokenParser
	Denylist middleware.Denylist

	HealthChecks   map[string]HealthCheck
	Metrics        *middleware.Metrics
	MetricsHandler http.Handler
	RateLimiter    *middleware.RateLimiter
	CORSOrigins    []string
	Logger         *slog.Logger
}

// NewRouter builds the HTTP API. Register, login, refresh, health and
// metrics are public; every other route sits behind the access gate.
func NewRouter(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	authHandler := NewAuthHandler(d.Auth)
	userHandler := NewUserHandler(d.Users)
	taskHandler := NewTaskHandler(d.Tasks)
	notificationHandler := NewNotificationHandler(d.Notifications)
	healthHandler := NewHealthHandler(d.HealthChecks)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer)
	if d.Metrics != nil {
		r.Use(d.Metrics.Handler)
	}
	r.Use(middleware.CORS(d.CORSOrigins))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse("not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse("method not allowed"))
	})

	r.Get("/api/health", healthHandler.HandleHealth)
	if d.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", d.MetricsHandler)
	}

	r.Group(func(r chi.Router) {
		if d.RateLimiter != nil {
			r.Use(d.RateLimiter.Handler)
		}
		r.Post("/api/auth/register", authHandler.HandleRegister)
		r.Post("/api/auth/login", authHandler.HandleLogin)
		r.Post("/api/auth/refresh", authHandler.HandleRefresh)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(d.Tokens, d.Denylist))

		r.Post("/api/auth/logout", authHandler.HandleLogout)
		r.Get("/api/auth/me", authHandler.HandleMe)

		r.Get("/api/users", userHandler.HandleList)
		r.Post("/api/users", userHandler.HandleCreate)
		r.Get("/api/users/{username}", userHandler.HandleGet)

		r.Get("/api/tasks", taskHandler.HandleList)
		r.Get("/api/tasks/{id}", taskHandler.HandleGet)
		r.Get("/api/tasks/getTasksByUserId/{userId}", taskHandler.HandleListByUser)
		r.Post("/api/tasks/createTask/{username}", taskHandler.HandleCreate)
		r.Put("/api/tasks/updateTask/{taskId}", taskHandler.HandleUpdate)
		r.Delete("/api/tasks/deleteTask/{id}", taskHandler.HandleDelete)

		r.Get("/api/notifications", notificationHandler.HandleUnread)
		r.Post("/api/notifications/mark-read", notificationHandler.HandleMarkRead)
	})

	return r
}
