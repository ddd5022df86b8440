package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"dental-calls-go/internal/logger"
	"dental-calls-go/internal/metrics"
)

// CORS allows the read-only dashboard endpoints from the given origins.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	})
	return c.Handler
}

// NewRouter wires middleware and routes.
func NewRouter(h *Handler, log *logger.Logger, m *metrics.Metrics, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(logger.Middleware(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(CORS(allowedOrigins))
	if m != nil {
		r.Use(m.Middleware)
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}

	r.Get("/healthz", h.Health)
	r.Get("/", h.Page)
	r.Route("/api", func(r chi.Router) {
		r.Get("/summary", h.Summary)
		r.Get("/calls", h.Calls)
		r.Get("/options", h.Options)
		r.Get("/export.xlsx", h.Export)
	})

	return r
}
