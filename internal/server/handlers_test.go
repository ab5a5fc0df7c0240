package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/sproutworks/furrow/pkg/pipeline"
	"github.com/sproutworks/furrow/pkg/sim"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	dir := t.TempDir()
	crops := "id,name,type,prerequisites,cost,value,seconds\n" +
		"wheat,Wheat,crop,,5,3,60\n" +
		"flour,Flour,recipe,wheat,30,10,60\n"
	if err := os.WriteFile(filepath.Join(dir, "crops.csv"), []byte(crops), 0o644); err != nil {
		t.Fatal(err)
	}

	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(nil, nil, logger)
	return New(Config{
		Addr:      ":0",
		SheetsDir: dir,
		Logger:    logger,
	}, runner)
}

func doRequest(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := doRequest(t, testServer(t), http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestItems(t *testing.T) {
	rec := doRequest(t, testServer(t), http.MethodGet, "/api/items", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}

	var body struct {
		Count int `json:"count"`
		Items []struct {
			ID string `json:"ID"`
		} `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Count != 2 || len(body.Items) != 2 {
		t.Errorf("count = %d, items = %d, want 2", body.Count, len(body.Items))
	}
}

func TestLayout(t *testing.T) {
	rec := doRequest(t, testServer(t), http.MethodGet, "/api/layout", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}

	var doc struct {
		Version int `json:"version"`
		Nodes   []struct {
			ID string `json:"id"`
		} `json:"nodes"`
		Edges []any `json:"edges"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Version != 1 || len(doc.Nodes) != 2 || len(doc.Edges) != 1 {
		t.Errorf("document = %+v", doc)
	}
}

func TestRenderSVG(t *testing.T) {
	rec := doRequest(t, testServer(t), http.MethodGet, "/api/render?format=svg&theme=dark", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), `id="node-wheat"`) {
		t.Error("svg missing wheat node")
	}
}

func TestRender_BadFormat(t *testing.T) {
	rec := doRequest(t, testServer(t), http.MethodGet, "/api/render?format=gif", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Error == "" {
		t.Error("empty error message")
	}
}

func TestRender_BadTheme(t *testing.T) {
	rec := doRequest(t, testServer(t), http.MethodGet, "/api/render?theme=sepia", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestPersonas(t *testing.T) {
	rec := doRequest(t, testServer(t), http.MethodGet, "/api/personas", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body struct {
		Personas []sim.Persona `json:"personas"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Personas) != len(sim.DefaultPersonas()) {
		t.Errorf("got %d personas", len(body.Personas))
	}
}

func TestSimulate(t *testing.T) {
	rec := doRequest(t, testServer(t), http.MethodPost, "/api/simulate",
		`{"persona":"optimizer","ticks":100,"seed":3}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}

	var body struct {
		Run    sim.Run `json:"run"`
		Cached bool    `json:"cached"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Run.Persona != "optimizer" {
		t.Errorf("persona = %q", body.Run.Persona)
	}
	if body.Run.Ticks == 0 {
		t.Error("run has no ticks")
	}
}

func TestSimulate_UnknownPersona(t *testing.T) {
	rec := doRequest(t, testServer(t), http.MethodPost, "/api/simulate", `{"persona":"ghost"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404: %s", rec.Code, rec.Body)
	}
}

func TestSimulate_BadBody(t *testing.T) {
	rec := doRequest(t, testServer(t), http.MethodPost, "/api/simulate", "{not json")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestRuns_Unconfigured(t *testing.T) {
	s := testServer(t)
	for _, target := range []string{"/api/runs", "/api/runs/abc"} {
		rec := doRequest(t, s, http.MethodGet, target, "")
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("%s: status = %d, want 503", target, rec.Code)
		}
	}
}

func TestItems_MissingDir(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	s := New(Config{
		SheetsDir: "/nonexistent/sheets",
		Logger:    logger,
	}, pipeline.NewRunner(nil, nil, logger))

	rec := doRequest(t, s, http.MethodGet, "/api/items", "")
	if rec.Code == http.StatusOK {
		t.Error("missing sheet dir answered 200")
	}
}
