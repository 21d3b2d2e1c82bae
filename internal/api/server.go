package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/filingsight/internal/analysis"
	"github.com/dgallion1/filingsight/internal/config"
	"github.com/dgallion1/filingsight/internal/mdrender"
	"github.com/dgallion1/filingsight/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// StatsSource reports the generation model and its recent calls.
type StatsSource interface {
	Model() string
	Stats() *analysis.GenerationStats
}

// Server is the HTTP API server for filingsight.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	renderer     *mdrender.Renderer
	stats        StatsSource
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server. stats may be nil.
func NewServer(orch *pipeline.Orchestrator, renderer *mdrender.Renderer, stats StatsSource, log *slog.Logger, cfg config.Config) *Server {
	if renderer == nil {
		renderer = mdrender.New()
	}
	s := &Server{
		orchestrator: orch,
		renderer:     renderer,
		stats:        stats,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints when an API key is configured.
	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Post("/api/analyze", s.handleAnalyze)
		r.Get("/api/analyze/{jobID}/status", s.handleAnalyzeStatus)
		r.Get("/api/analyze/{jobID}", s.handleAnalyzeResult)
		r.Get("/api/analyze/{jobID}/html", s.handleAnalyzeHTML)

		r.Post("/api/render", s.handleRender)
		r.Post("/api/resolve", s.handleResolve)

		r.Get("/api/stats/llm", s.handleGenerationStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"queue_depth": s.orchestrator.QueueDepth(),
		"jobs":        s.orchestrator.JobCount(),
	})
}
