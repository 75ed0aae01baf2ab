package routes

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/AnshRaj112/feedback-notes/internal/handlers"
	"github.com/AnshRaj112/feedback-notes/internal/middleware"
)

// SetupRoutes mounts the site. Session middleware must already be on r.
func SetupRoutes(r chi.Router, h *handlers.Handler) {
	r.Get("/", h.Home)

	// Auth routes
	r.Get("/register", h.ShowRegister)
	r.Post("/register", h.Register)
	r.Get("/login", h.ShowLogin)
	r.Post("/login", h.Login)
	r.Get("/logout", h.Logout)

	// User routes
	r.Get("/users/{username}", h.ShowUser)
	r.Post("/users/{username}/delete", h.DeleteUser)
	r.Get("/users/{username}/feedback/add", h.AddFeedback)
	r.Post("/users/{username}/feedback/add", h.AddFeedback)

	// Feedback routes
	r.Get("/feedback/{id:[0-9]+}/update", h.UpdateFeedback)
	r.Post("/feedback/{id:[0-9]+}/update", h.UpdateFeedback)
	r.Get("/feedback/{id:[0-9]+}/delete", h.DeleteFeedback)
	r.Post("/feedback/{id:[0-9]+}/delete", h.DeleteFeedback)
}

// Options configures the middleware chain built by NewRouter.
type Options struct {
	AllowedOrigins []string
	Production     bool
	AllowedHost    string
	TrustProxy     bool

	// Redis backs the shared login rate limit; nil disables it.
	Redis         *redis.Client
	LoginAttempts int
	LoginWindow   time.Duration
}

// NewRouter builds the full HTTP stack: request ids, access log, recovery,
// CORS, rate limits, sessions and the site routes.
func NewRouter(h *handlers.Handler, sessions *middleware.Sessions, opts Options) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(opts.AllowedOrigins))

	// Production: SecurityHeaders → HostCheck → GlobalRateLimit → LoginRateLimit
	if opts.Production {
		for _, mw := range middleware.ProductionSecurity(opts.AllowedHost, opts.TrustProxy) {
			r.Use(mw)
		}
	}
	if opts.Redis != nil {
		r.Use(middleware.RedisRateLimit(opts.Redis, opts.LoginAttempts, opts.LoginWindow, opts.TrustProxy))
	}

	// Health check (no session)
	r.Get("/health", h.Health)

	r.Group(func(r chi.Router) {
		r.Use(sessions.Middleware)
		SetupRoutes(r, h)
	})

	return r
}
