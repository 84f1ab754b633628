// Package server exposes the analysis pipeline over HTTP.
//
// Synchronous endpoints run an operation in the request and return its
// result; the jobs endpoints accept the same payloads, run them in the
// background, and let clients poll for the result. All errors are JSON
// objects carrying the structured error code.
//
//	POST /v1/relax           relax stream centerlines
//	POST /v1/cross-sections  generate perpendicular transects
//	POST /v1/minima          detect local low points
//	POST /v1/jobs            submit any operation asynchronously
//	GET  /v1/jobs/{id}       poll job state and result
//	GET  /healthz            liveness probe
package server

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgroleau/thalweg/pkg/job"
	"github.com/dgroleau/thalweg/pkg/pipeline"
)

// Server wires the pipeline runner and job store into an HTTP handler.
type Server struct {
	runner *pipeline.Runner
	jobs   job.Store
	logger *log.Logger
}

// New creates a server. A nil job store falls back to in-memory jobs.
func New(runner *pipeline.Runner, jobs job.Store, logger *log.Logger) *Server {
	if jobs == nil {
		jobs = job.NewMemoryStore()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, jobs: jobs, logger: logger}
}

// Router builds the chi handler with all routes registered.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Minute))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/relax", s.handleRelax)
		r.Post("/cross-sections", s.handleCrossSections)
		r.Post("/minima", s.handleMinima)
		r.Post("/jobs", s.handleSubmitJob)
		r.Get("/jobs/{id}", s.handleGetJob)
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
