// Package server serves live previews of an assembled local file.
//
// Every request re-runs the load and resolve stages from disk, so edits to
// the records, the blueprint or any content layer show up on reload.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/localfile/pkg/errors"
	"github.com/matzehuels/localfile/pkg/pipeline"
)

const shutdownTimeout = 10 * time.Second

// Server renders the dashboard, section editor, report and workspace views.
type Server struct {
	router chi.Router
	runner *pipeline.Runner
	opts   pipeline.Options
	logger *log.Logger
}

// New creates a server that assembles with opts on every request.
// opts.Formats and opts.Section are ignored.
func New(runner *pipeline.Runner, opts pipeline.Options, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	opts.Logger = logger
	s := &Server{runner: runner, opts: opts, logger: logger}
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
	r.Use(RequestLogger(s.logger))

	r.Get("/health", s.handleHealth)
	r.Get("/", s.handlePage(pipeline.FormatDashboard))
	r.Get("/report", s.handlePage(pipeline.FormatReport))
	r.Get("/workspace", s.handlePage(pipeline.FormatCombined))
	r.Get("/editor", s.handlePage(pipeline.FormatHTML))
	r.Get("/sections/{key}", s.handleSection)
	r.Get("/api/sections", s.handleSections)

	s.router = r
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return errors.Wrap(errors.ErrCodeNetwork, err, "serve on %s", addr)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down preview server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handlePage(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, r, format, s.opts)
	}
}

func (s *Server) handleSection(w http.ResponseWriter, r *http.Request) {
	opts := s.opts
	opts.Section = chi.URLParam(r, "key")
	s.render(w, r, pipeline.FormatSection, opts)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, format string, opts pipeline.Options) {
	res, err := s.runner.Assemble(r.Context(), opts)
	if err != nil {
		s.fail(w, err)
		return
	}
	if format == pipeline.FormatSection && !res.Document.Sections.Has(opts.Section) {
		s.fail(w, errors.New(errors.ErrCodeSectionNotFound, "no section %q in blueprint", opts.Section))
		return
	}
	page, err := s.runner.RenderFormat(r.Context(), res.Document, format, opts)
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

type sectionsResponse struct {
	RunID      string         `json:"run_id"`
	Entity     string         `json:"entity"`
	FiscalYear string         `json:"fiscal_year,omitempty"`
	Complete   int            `json:"complete"`
	Total      int            `json:"total"`
	Unresolved []string       `json:"unresolved"`
	Warnings   []string       `json:"warnings"`
	Sections   json.Marshaler `json:"sections"`
}

func (s *Server) handleSections(w http.ResponseWriter, r *http.Request) {
	res, err := s.runner.Assemble(r.Context(), s.opts)
	if err != nil {
		s.fail(w, err)
		return
	}
	doc := res.Document
	resp := sectionsResponse{
		RunID:      res.RunID,
		Entity:     doc.Entity.ID,
		FiscalYear: doc.FiscalYear(""),
		Complete:   res.Stats.Complete,
		Total:      res.Stats.Sections,
		Unresolved: doc.Sections.UnresolvedKeys(),
		Warnings:   res.Warnings,
		Sections:   doc.Sections,
	}
	if resp.Unresolved == nil {
		resp.Unresolved = []string{}
	}
	if resp.Warnings == nil {
		resp.Warnings = []string{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	status := statusFor(errors.GetCode(err))
	if status >= http.StatusInternalServerError {
		s.logger.Error("preview failed", "error", err)
	}
	jsonError(w, errors.UserMessage(err), status)
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeSectionNotFound, errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidBlueprint:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
