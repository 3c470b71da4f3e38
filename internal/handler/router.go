package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/jobportal/jobportal-go/internal/middleware"
	"github.com/jobportal/jobportal-go/internal/service"
)

// RouterConfig wires the services into the HTTP API.
type RouterConfig struct {
	Auth           *service.AuthService
	Jobs           *service.JobService
	Applications   *service.ApplicationService
	Logger         *slog.Logger
	AllowedOrigins []string

	// AuthRPS and AuthBurst limit register/login requests per client IP.
	AuthRPS   float64
	AuthBurst int

	// TrustProxy takes the client IP from X-Forwarded-For / X-Real-IP. Enable
	// it only behind a proxy that overwrites those headers.
	TrustProxy bool
}

// NewRouter builds the API router. ctx bounds the rate limiter's background
// cleanup.
func NewRouter(ctx context.Context, cfg RouterConfig) http.Handler {
	authHandler := NewAuthHandler(cfg.Auth, cfg.Logger)
	jobHandler := NewJobHandler(cfg.Jobs, cfg.Applications, cfg.Logger)
	appHandler := NewApplicationHandler(cfg.Applications, cfg.Logger)

	authenticate := middleware.Authenticate(cfg.Auth, cfg.Logger)
	ownJob := middleware.RequireOwnership(jobHandler.LoadOwned, cfg.Logger)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	if cfg.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", HandleRoot)
	r.Get("/health", HandleHealth)

	r.Route("/api/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(ctx, cfg.AuthRPS, cfg.AuthBurst))
			r.Post("/register", authHandler.HandleRegister)
			r.Post("/login", authHandler.HandleLogin)
		})
		r.With(authenticate).Get("/profile", authHandler.HandleProfile)
	})

	r.Route("/api/jobs", func(r chi.Router) {
		r.Get("/", jobHandler.HandleList)
		r.Get("/{id}", jobHandler.HandleGet)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/", jobHandler.HandleCreate)
			r.With(ownJob).Put("/{id}", jobHandler.HandleUpdate)
			r.With(ownJob).Delete("/{id}", jobHandler.HandleDelete)
			r.With(ownJob).Get("/{id}/applications", jobHandler.HandleListApplications)
		})
	})

	r.Route("/api/applications", func(r chi.Router) {
		r.Use(authenticate)
		r.Post("/", appHandler.HandleSubmit)
		r.Get("/my", appHandler.HandleListMine)
		r.With(middleware.RequireOwnership(appHandler.LoadForJobOwner, cfg.Logger)).
			Patch("/{id}/status", appHandler.HandleUpdateStatus)
		r.With(middleware.RequireOwnership(appHandler.LoadForApplicant, cfg.Logger)).
			Delete("/{id}", appHandler.HandleWithdraw)
		r.With(middleware.RequireOwnership(appHandler.LoadForReader, cfg.Logger)).
			Get("/{id}/resume", appHandler.HandleResume)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse("not found"))
	})

	return r
}
