package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/kawaclinic/appointment-desk/internal/http/handlers"
	httpmiddleware "github.com/kawaclinic/appointment-desk/internal/http/middleware"
	"github.com/kawaclinic/appointment-desk/internal/refresh"
	"github.com/kawaclinic/appointment-desk/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	BookingsHandler    *handlers.BookingsHandler
	RefreshHub         *refresh.Hub
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", cfg.BookingsHandler.HealthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/bookings", func(r chi.Router) {
		r.Post("/", cfg.BookingsHandler.Create)
		r.Get("/upcoming", cfg.BookingsHandler.Upcoming)
		r.Get("/archived", cfg.BookingsHandler.Archived)
	})

	if cfg.RefreshHub != nil {
		r.Get("/ws", cfg.RefreshHub.HandleWebSocket)
	}

	return r
}
