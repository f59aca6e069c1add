// Package server serves a display over HTTP for previewing in a browser.
//
// Routes:
//
//	GET  /              page with the display and a date list per chart
//	GET  /display.svg   the display in its current state
//	GET  /display.png   the same, rasterized (needs rsvg-convert)
//	GET  /panels        JSON: panels with charts, their dates and selection
//	POST /click         select a date: panel=N&date=YYYY-MM-DD
//
// Clicks mutate the display, so every handler that reads or changes it runs
// under one lock.
package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/mapvis/pkg/buildinfo"
	"github.com/matzehuels/mapvis/pkg/errors"
	"github.com/matzehuels/mapvis/pkg/observability"
	"github.com/matzehuels/mapvis/pkg/pipeline"
	"github.com/matzehuels/mapvis/pkg/scene"
)

// Server is an http.Handler over one display.
type Server struct {
	runner  *pipeline.Runner
	display *pipeline.Display
	opts    pipeline.Options
	logger  *log.Logger
	router  chi.Router

	mu sync.Mutex
}

// New creates a server. The display must not be used elsewhere while the
// server runs.
func New(runner *pipeline.Runner, d *pipeline.Display, opts pipeline.Options, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner:  runner,
		display: d,
		opts:    opts,
		logger:  logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.SetHeader("Server", buildinfo.UserAgent()))
	r.Use(observe)
	r.Get("/", s.handleIndex)
	r.Get("/display.svg", s.handleArtifact(pipeline.FormatSVG, "image/svg+xml"))
	r.Get("/display.png", s.handleArtifact(pipeline.FormatPNG, "image/png"))
	r.Get("/panels", s.handlePanels)
	r.Post("/click", s.handleClick)
	s.router = r

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// observe reports requests to the server hooks.
func observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.Server()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, time.Since(start))
	})
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleArtifact(format, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		data, hit, err := s.runner.Render(r.Context(), s.display, format, s.opts)
		s.mu.Unlock()
		if err != nil {
			s.fail(w, err)
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("X-Cache", cacheStatus(hit))
		w.Write(data)
	}
}

// Panel describes one chart panel in the /panels response.
type Panel struct {
	Panel    int      `json:"panel"`
	Name     string   `json:"name"`
	Dates    []string `json:"dates"`
	Selected string   `json:"selected,omitempty"`
}

func (s *Server) panels() []Panel {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Panel, 0, len(s.display.Inspectors))
	for _, i := range s.display.Panels() {
		in := s.display.Inspectors[i]
		p := Panel{Panel: i, Name: in.Name}
		for _, d := range in.Dates() {
			p.Dates = append(p.Dates, d.Format(scene.DateLayout))
		}
		if sel := in.Selected(); !sel.IsZero() {
			p.Selected = sel.Format(scene.DateLayout)
		}
		out = append(out, p)
	}
	return out
}

func (s *Server) handlePanels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.panels())
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.fail(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse form"))
		return
	}
	panel, err := strconv.Atoi(r.FormValue("panel"))
	if err != nil {
		s.fail(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "panel %q", r.FormValue("panel")))
		return
	}
	date, err := time.Parse(scene.DateLayout, r.FormValue("date"))
	if err != nil {
		s.fail(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "date %q", r.FormValue("date")))
		return
	}

	s.mu.Lock()
	err = s.display.ClickDay(r.Context(), panel, date)
	s.mu.Unlock()
	if err != nil {
		s.fail(w, err)
		return
	}
	s.logger.Info("selected date", "panel", panel, "date", r.FormValue("date"))

	// Plain form posts come back to the page; scripts get 204.
	if r.Header.Get("Accept") == "application/json" {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// =============================================================================
// Responses
// =============================================================================

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, errorResponse{
		Code:    string(errors.GetCode(err)),
		Message: errors.UserMessage(err),
	})
}

// StatusFor maps an error code to an HTTP status.
func StatusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidColor,
		errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidScene:
		return http.StatusBadRequest
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func cacheStatus(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}
