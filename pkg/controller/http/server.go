package http

import (
	"context"
	"encoding/json"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/stabdash/frontend"
	"github.com/secmon-lab/stabdash/pkg/domain/interfaces"
)

// Server represents the HTTP server
type Server struct {
	*http.Server
	router    chi.Router
	dashboard interfaces.Dashboard
	charts    interfaces.ChartRenderer
	pages     *template.Template
}

// Option configures optional server routes
type Option func(*options)

type options struct {
	metrics http.Handler
}

// WithMetricsHandler serves h at /metrics
func WithMetricsHandler(h http.Handler) Option {
	return func(o *options) { o.metrics = h }
}

// NewServer creates a new HTTP server
func NewServer(
	ctx context.Context,
	addr string,
	dashboard interfaces.Dashboard,
	charts interfaces.ChartRenderer,
	opts ...Option,
) (*Server, error) {
	if dashboard == nil {
		return nil, goerr.New("dashboard use case is required")
	}
	if charts == nil {
		return nil, goerr.New("chart renderer is required")
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	pages, err := frontend.Templates()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse page templates")
	}
	static, err := frontend.GetHTTPFS()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open static assets")
	}

	router := chi.NewRouter()
	server := &Server{
		Server: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
		router:    router,
		dashboard: dashboard,
		charts:    charts,
		pages:     pages,
	}

	// Apply global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	router.Get("/health", handleHealth)
	if o.metrics != nil {
		router.Handle("/metrics", o.metrics)
	}

	router.Get("/", server.handleIndex)
	router.Get("/{pipeline}", server.handleDashboard)
	router.Get("/charts/{pipeline}/{column}.svg", server.handleChart)

	router.Route("/api", func(r chi.Router) {
		r.Get("/{pipeline}/view", server.handleViewJSON)
		r.Get("/{pipeline}/rows.csv", server.handleRowsCSV)
		r.Post("/cache/reload", server.handleReload)
	})

	router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(static)))

	ctxlog.From(ctx).Info("HTTP routes configured", "addr", addr, "metrics", o.metrics != nil)
	return server, nil
}

// handleHealth handles health check requests
func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "stabdash",
	})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		ctxlog.From(r.Context()).Error("Failed to encode JSON response", "error", err)
	}
}

// writeError writes an error response
func writeError(w http.ResponseWriter, r *http.Request, err error, status int) {
	writeJSON(w, r, status, map[string]string{
		"error": errorMessage(err),
	})
}
