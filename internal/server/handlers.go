package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sproutworks/furrow/pkg/errors"
	"github.com/sproutworks/furrow/pkg/graphio"
	"github.com/sproutworks/furrow/pkg/pipeline"
	"github.com/sproutworks/furrow/pkg/sim"
)

// errorResponse is the JSON body of every non-2xx answer.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// handleItems serves the loaded balance collection.
func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.runner.Load(r.Context(), s.baseOptions())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count": items.Len(),
		"items": items.Items(),
	})
}

// handleLayout serves the computed layout as a graph document.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts := s.baseOptions()
	opts.Categories = queryList(r, "categories")
	opts.Refresh = r.URL.Query().Get("refresh") == "true"

	items, err := s.runner.Load(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	res, consts, err := s.runner.ComputeLayout(r.Context(), items, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := graphio.WriteJSON(graphio.NewDocument(res, consts), &buf); err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// handleRender serves a rendered artifact. Format and theme come from
// query parameters; the default is a light-themed SVG.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeErrorStatus(w, http.StatusBadRequest, err)
		return
	}

	opts := s.baseOptions()
	opts.Categories = queryList(r, "categories")
	opts.Formats = []string{format}
	opts.Theme = q.Get("theme")
	opts.ShowEdges = q.Get("edges") != "false"
	opts.LaneNames = q.Get("lanes") != "false"
	opts.Refresh = q.Get("refresh") == "true"
	if opts.Theme != "" {
		if err := pipeline.ValidateTheme(opts.Theme); err != nil {
			s.writeErrorStatus(w, http.StatusBadRequest, err)
			return
		}
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

func (s *Server) handlePersonas(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"personas": s.personas})
}

// simulateRequest is the POST body of /api/simulate.
type simulateRequest struct {
	Persona string `json:"persona"`
	Ticks   int    `json:"ticks,omitempty"`
	Seed    int64  `json:"seed,omitempty"`
	Refresh bool   `json:"refresh,omitempty"`
}

// handleSimulate runs a playthrough for a named persona and optionally
// archives the result.
func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeErrorStatus(w, http.StatusBadRequest,
			errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}

	persona, err := sim.FindPersona(s.personas, req.Persona)
	if err != nil {
		s.writeError(w, err)
		return
	}

	items, err := s.runner.Load(r.Context(), s.baseOptions())
	if err != nil {
		s.writeError(w, err)
		return
	}

	run, cached, err := s.runner.Simulate(r.Context(), items, pipeline.SimOptions{
		Persona:  persona,
		MaxTicks: req.Ticks,
		Seed:     req.Seed,
		Refresh:  req.Refresh,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	if s.cfg.Runs != nil && !cached {
		if err := s.cfg.Runs.Save(r.Context(), run); err != nil {
			s.logger.Warn("archiving run failed", "run", run.ID, "err", err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"run":    run,
		"cached": cached,
	})
}

// handleListRuns pages through the archive, newest first.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Runs == nil {
		s.writeErrorStatus(w, http.StatusServiceUnavailable,
			errors.New(errors.ErrCodeUnsupported, "run archive not configured"))
		return
	}

	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	runs, err := s.cfg.Runs.List(r.Context(), q.Get("persona"), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Runs == nil {
		s.writeErrorStatus(w, http.StatusServiceUnavailable,
			errors.New(errors.ErrCodeUnsupported, "run archive not configured"))
		return
	}

	run, err := s.cfg.Runs.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// writeError maps structured error codes onto HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	s.writeErrorStatus(w, statusFor(err), err)
}

func (s *Server) writeErrorStatus(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorResponse{
		Error: errors.UserMessage(err),
		Code:  string(errors.GetCode(err)),
	})
}

func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidSheet, errors.ErrCodeInvalidItem,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidConstants, errors.ErrCodeInvalidPersona,
		errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeItemNotFound, errors.ErrCodeFileNotFound,
		errors.ErrCodeRunNotFound, errors.ErrCodePersonaNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func contentType(format string) string {
	switch format {
	case pipeline.FormatSVG:
		return "image/svg+xml"
	case pipeline.FormatJSON:
		return "application/json"
	default:
		return "text/plain; charset=utf-8"
	}
}

// queryList splits a comma-separated query parameter, dropping empties.
func queryList(r *http.Request, key string) []string {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
