// Package handlers exposes tracked matches over HTTP.
package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/internal/middleware"
)

// RouterOptions configures cross-cutting router behaviour.
type RouterOptions struct {
	CORSOrigins    []string
	RequestTimeout time.Duration
}

// NewRouter mounts every route. ws may be nil when live updates are disabled.
func NewRouter(h *Handler, ws *WebSocketHandler, opts RouterOptions, logger *slog.Logger) http.Handler {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 90 * time.Second
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimiddleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-API-Key"},
		ExposedHeaders: []string{"Link"},
		MaxAge:         300,
	}))

	if ws != nil {
		// hijacked connections must not sit behind the request timeout
		r.Get("/ws", ws.HandleWebSocket)
		r.Get("/ws/metrics", ws.HandleMetrics)
	}

	r.Group(func(r chi.Router) {
		r.Use(chimiddleware.Timeout(opts.RequestTimeout))

		r.Get("/", h.Home)
		r.Get("/health", h.HealthCheck)

		r.Route("/api", func(r chi.Router) {
			r.Get("/matches", h.ListMatches)

			r.Route("/match/{matchID}", func(r chi.Router) {
				r.Get("/", h.GetMatch)
				r.Post("/refresh", h.RefreshMatch)
				r.Get("/commentary", h.GetCommentary)
				r.Get("/scorecard", h.GetScorecard)
				r.Post("/snapshot", h.CreateSnapshot)
				r.Get("/debug", h.GetDebugInfo)
			})
		})
	})

	return r
}
