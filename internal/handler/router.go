package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/roster/roster/internal/metrics"
	"github.com/roster/roster/internal/middleware"
)

// RouterConfig wires handlers and middleware into a router.
type RouterConfig struct {
	Health *HealthHandler
	Users  *UserHandler
	Logger *slog.Logger

	Recorder metrics.Recorder
	// Metrics serves /metrics when non-nil.
	Metrics http.Handler

	Limiter          middleware.RateLimiter
	RateLimitEnabled bool
	RateLimitRPS     int
	RateLimitBurst   int

	CORSAllowedOrigins []string
	IsDevelopment      bool
	MaxBodySize        int64
}

// NewRouter builds the API router.
func NewRouter(cfg RouterConfig) *chi.Mux {
	recorder := cfg.Recorder
	if recorder == nil {
		recorder = metrics.NewNoop()
	}

	h := New()
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger, recorder))
	r.Use(middleware.Recoverer(cfg.Logger))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment}))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins
	r.Use(middleware.CORS(corsCfg))

	if cfg.MaxBodySize > 0 {
		r.Use(middleware.MaxBodySize(cfg.MaxBodySize))
	}

	rateLimit := middleware.RateLimit(middleware.RateLimitConfig{
		Logger:   cfg.Logger,
		Limiter:  cfg.Limiter,
		Recorder: recorder,
		Enabled:  cfg.RateLimitEnabled,
		RPS:      cfg.RateLimitRPS,
		Burst:    cfg.RateLimitBurst,
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", cfg.Health.Health)
		r.Get("/users", cfg.Users.List)
		r.With(rateLimit).Post("/users", cfg.Users.Create)
	})

	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}
