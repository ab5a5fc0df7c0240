// Package server exposes the diagram pipeline over HTTP for the
// interactive viewer.
//
// The API is read-mostly JSON: the layout and item endpoints serve the
// current state of the balance sheets on disk, the simulate endpoint runs
// playthroughs on demand, and the runs endpoints page through the
// archive when a run store is configured.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sproutworks/furrow/pkg/pipeline"
	"github.com/sproutworks/furrow/pkg/sim"
	"github.com/sproutworks/furrow/pkg/store"
)

// Default timeouts for the HTTP server.
const (
	readTimeout     = 15 * time.Second
	writeTimeout    = 60 * time.Second
	shutdownTimeout = 10 * time.Second
	requestTimeout  = 55 * time.Second
)

// Config holds everything the server needs to run.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// SheetsDir is the balance sheet directory served by the API.
	SheetsDir string

	// ConstantsPath optionally points at a TOML constants override file.
	ConstantsPath string

	// Personas are the selectable player archetypes for /api/simulate.
	// Empty means the built-in defaults.
	Personas []sim.Persona

	// Runs is the optional simulation archive. When nil, the runs
	// endpoints answer 503.
	Runs *store.RunStore

	Logger *log.Logger
}

// Server is the viewer API server.
type Server struct {
	cfg      Config
	runner   *pipeline.Runner
	personas []sim.Persona
	logger   *log.Logger
}

// New assembles a server around the given pipeline runner.
func New(cfg Config, runner *pipeline.Runner) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	personas := cfg.Personas
	if len(personas) == 0 {
		personas = sim.DefaultPersonas()
	}
	return &Server{
		cfg:      cfg,
		runner:   runner,
		personas: personas,
		logger:   cfg.Logger,
	}
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/items", s.handleItems)
		r.Get("/layout", s.handleLayout)
		r.Get("/render", s.handleRender)
		r.Get("/personas", s.handlePersonas)
		r.Post("/simulate", s.handleSimulate)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)
	})

	return r
}

// ListenAndServe runs the server until the context is cancelled, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Router(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("viewer api listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// logRequests is a minimal structured access log.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// baseOptions is the pipeline configuration shared by every request.
func (s *Server) baseOptions() pipeline.Options {
	return pipeline.Options{
		SheetsDir:     s.cfg.SheetsDir,
		ConstantsPath: s.cfg.ConstantsPath,
		Logger:        s.logger,
	}
}
