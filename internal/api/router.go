// Package api serves URL resolution over HTTP.
package api

import (
	"context"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"vlivedl/internal/media"
)

// Resolver turns a URL into a result.
type Resolver interface {
	Resolve(ctx context.Context, rawURL string) (*media.Result, error)
}

// NewRouter creates the HTTP router with all routes configured.
func NewRouter(resolver Resolver, log zerolog.Logger) *chi.Mux {
	h := &handler{resolver: resolver, log: log}

	r := chi.NewRouter()
	r.Use(middleware.CleanPath)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(2 * time.Minute))

	r.Get("/health", h.health)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/resolve", h.resolve)
	})
	return r
}
