// Package api provides the REST API server for the Parley chat-server backend.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	v1 "github.com/parleychat/parley-server/internal/api/v1"
	"github.com/parleychat/parley-server/internal/service"
)

// ServerOption configures the API server
type ServerOption func(*serverConfig)

// serverConfig holds the server configuration
type serverConfig struct {
	middlewares []func(http.Handler) http.Handler
	dataDir     string
}

// WithMiddlewares adds middleware to the server
func WithMiddlewares(mw ...func(http.Handler) http.Handler) ServerOption {
	return func(cfg *serverConfig) {
		cfg.middlewares = append(cfg.middlewares, mw...)
	}
}

// WithDataDir sets the directory uploaded assets are stored under
func WithDataDir(dir string) ServerOption {
	return func(cfg *serverConfig) {
		cfg.dataDir = dir
	}
}

// NewServer creates and configures the HTTP router with the given service and options
func NewServer(svc service.ServerService, opts ...ServerOption) *chi.Mux {
	cfg := &serverConfig{
		middlewares: []func(http.Handler) http.Handler{},
		dataDir:     "./data",
	}

	for _, opt := range opts {
		opt(cfg)
	}

	r := chi.NewRouter()

	for _, mw := range cfg.middlewares {
		r.Use(mw)
	}

	// Health check routes live at the root, outside the versioned API
	r.Mount("/", v1.HealthRouter(svc))

	// Versioned API routes
	r.Mount("/api/v1", v1.Router(svc, cfg.dataDir))

	return r
}

// LoggingMiddleware logs HTTP requests
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		slog.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
