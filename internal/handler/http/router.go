package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/DogWalkGo/internal/domain"
	"github.com/utafrali/DogWalkGo/internal/service"
	"github.com/utafrali/DogWalkGo/internal/session"
	"github.com/utafrali/DogWalkGo/pkg/health"
	"github.com/utafrali/DogWalkGo/pkg/middleware"
)

// RouterConfig carries everything the router wires together.
type RouterConfig struct {
	ServiceName string
	AuthService *service.AuthService
	DogService  *service.DogService
	WalkService *service.WalkService
	Sessions    *session.Manager
	Pages       *PageHandler
	Health      *health.Handler
	Registry    *prometheus.Registry
	HTTPMetrics *middleware.HTTPMetrics
	CORSOrigins []string
	PprofCIDRs  []string
	Logger      *slog.Logger

	// Per-IP limit on credential endpoints; a zero Limit disables it.
	AuthRateLimit middleware.RateLimitConfig
}

// NewRouter creates a chi router with all dog walking routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	logger := cfg.Logger

	// Global middleware
	r.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.CORSOrigins)))
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	if cfg.HTTPMetrics != nil {
		r.Use(cfg.HTTPMetrics.Middleware)
	}
	r.Use(middleware.Tracing(cfg.ServiceName))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Authenticate(cfg.Sessions))

	// Health check endpoints
	r.Get("/health/live", cfg.Health.LivenessHandler())
	r.Get("/health/ready", cfg.Health.ReadinessHandler())
	r.Handle("/metrics", promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{Registry: cfg.Registry}))

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, cfg.PprofCIDRs, logger)

	authHandler := NewAuthHandler(cfg.AuthService, cfg.Sessions, logger)
	dogHandler := NewDogHandler(cfg.DogService, logger)
	walkHandler := NewWalkHandler(cfg.WalkService, logger)

	authLimit := middleware.RateLimit(cfg.AuthRateLimit, logger)

	// Pages and the form login
	r.Get("/", cfg.Pages.Index)
	r.With(authLimit).Post("/login", authHandler.Login)
	r.Get("/logout", authHandler.Logout)
	r.Post("/logout", authHandler.Logout)

	r.Group(func(r chi.Router) {
		r.Use(middleware.NoStore)
		r.Use(middleware.RequireAuthenticated(middleware.PageChallenge))

		r.With(middleware.RequireRole(domain.RoleOwner)).Get("/owner-dashboard", cfg.Pages.OwnerDashboard)
		r.With(middleware.RequireRole(domain.RoleWalker)).Get("/walker-dashboard", cfg.Pages.WalkerDashboard)
	})

	// JSON API
	r.Route("/api", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/dogs", dogHandler.List)
		r.Get("/walkrequests/open", walkHandler.ListOpen)
		r.Get("/walkers/summary", walkHandler.Summary)
		r.With(authLimit).Post("/users/register", authHandler.Register)

		r.Group(func(r chi.Router) {
			r.Use(middleware.NoStore)
			r.Use(middleware.RequireAuthenticated(middleware.APIChallenge))

			r.Get("/users/me", authHandler.Me)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(domain.RoleOwner))

				r.Get("/my-dogs", dogHandler.ListMine)
				r.Post("/dogs", dogHandler.Create)
				r.Post("/walkrequests", walkHandler.Create)
				r.Post("/walkrequests/{id}/ratings", walkHandler.Rate)
			})

			r.With(middleware.RequireRole(domain.RoleWalker)).Post("/walkrequests/{id}/apply", walkHandler.Apply)
		})
	})

	return r
}
