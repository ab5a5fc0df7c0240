package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/sproutworks/furrow/pkg/balance"
	"github.com/sproutworks/furrow/pkg/cache"
	"github.com/sproutworks/furrow/pkg/sim"
)

func writeSheets(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	crops := "id,name,type,prerequisites,cost,value,seconds\n" +
		"wheat,Wheat,crop,,5,3,60\n" +
		"flour,Flour,recipe,wheat,30,10,60\n"
	ores := "id,name,cost\niron,Iron Ore,15\n"
	if err := os.WriteFile(filepath.Join(dir, "crops.csv"), []byte(crops), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ores.csv"), []byte(ores), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func testRunner(t *testing.T) *Runner {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	logger := log.NewWithOptions(io.Discard, log.Options{})
	return NewRunner(fc, nil, logger)
}

func TestExecute(t *testing.T) {
	r := testRunner(t)
	opts := Options{
		SheetsDir: writeSheets(t),
		Formats:   []string{FormatSVG, FormatDOT, FormatJSON},
		ShowEdges: true,
	}

	result, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.Stats.ItemCount != 3 {
		t.Errorf("ItemCount = %d, want 3", result.Stats.ItemCount)
	}
	if result.Stats.NodeCount != 3 || result.Stats.EdgeCount != 1 {
		t.Errorf("nodes/edges = %d/%d, want 3/1", result.Stats.NodeCount, result.Stats.EdgeCount)
	}
	if result.ItemsHash == "" {
		t.Error("missing items hash")
	}

	svg := string(result.Artifacts[FormatSVG])
	if !strings.Contains(svg, `id="node-wheat"`) {
		t.Error("svg artifact missing wheat node")
	}
	dot := string(result.Artifacts[FormatDOT])
	if !strings.Contains(dot, `"wheat" -> "flour";`) {
		t.Error("dot artifact missing edge")
	}
	if !strings.Contains(string(result.Artifacts[FormatJSON]), `"version": 1`) {
		t.Error("json artifact missing version")
	}

	if result.CacheInfo.LayoutHit || result.CacheInfo.RenderHit {
		t.Error("first run reported cache hits")
	}
}

func TestExecute_CacheHits(t *testing.T) {
	r := testRunner(t)
	opts := Options{SheetsDir: writeSheets(t)}

	first, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}

	second, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.LayoutHit {
		t.Error("second run missed the layout cache")
	}
	if !second.CacheInfo.RenderHit {
		t.Error("second run missed the render cache")
	}
	if string(first.Artifacts[FormatSVG]) != string(second.Artifacts[FormatSVG]) {
		t.Error("cached artifact differs from computed one")
	}

	// Cached layout preserves geometry.
	for _, n := range first.Layout.Nodes {
		got, ok := second.Layout.Node(n.ID)
		if !ok || got.Position != n.Position {
			t.Errorf("node %s position lost through cache: %+v", n.ID, got)
		}
	}
}

func TestExecute_RefreshBypassesCache(t *testing.T) {
	r := testRunner(t)
	opts := Options{SheetsDir: writeSheets(t)}

	if _, err := r.Execute(context.Background(), opts); err != nil {
		t.Fatal(err)
	}

	opts = Options{SheetsDir: opts.SheetsDir, Refresh: true}
	result, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if result.CacheInfo.LayoutHit || result.CacheInfo.RenderHit {
		t.Error("refresh run still hit the cache")
	}
}

func TestExecute_InvalidOptions(t *testing.T) {
	r := testRunner(t)
	tests := []struct {
		name string
		opts Options
	}{
		{"missing sheets dir", Options{}},
		{"bad format", Options{SheetsDir: "x", Formats: []string{"gif"}}},
		{"bad theme", Options{SheetsDir: "x", Theme: "sepia"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := r.Execute(context.Background(), tt.opts); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestItemsHash_OrderInsensitive(t *testing.T) {
	r := testRunner(t)
	dir := writeSheets(t)

	items, err := r.Load(context.Background(), Options{SheetsDir: dir})
	if err != nil {
		t.Fatal(err)
	}
	base := itemsHash(items)

	// Same rows, different file split: hash sorts by id first.
	dir2 := t.TempDir()
	sheet := "id,name,type,prerequisites,cost,value,seconds\n" +
		"flour,Flour,recipe,wheat,30,10,60\n" +
		"wheat,Wheat,crop,,5,3,60\n"
	ores := "id,name,cost\niron,Iron Ore,15\n"
	if err := os.WriteFile(filepath.Join(dir2, "crops.csv"), []byte(sheet), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir2, "ores.csv"), []byte(ores), 0o644); err != nil {
		t.Fatal(err)
	}
	items2, err := r.Load(context.Background(), Options{SheetsDir: dir2})
	if err != nil {
		t.Fatal(err)
	}
	if itemsHash(items2) != base {
		t.Error("row order changed the items hash")
	}

	// Editing a value does change it.
	all := items.Items()
	all[0].Cost++
	edited, _ := collectionOf(t, all)
	if itemsHash(edited) == base {
		t.Error("edited value kept the same hash")
	}
}

func collectionOf(t *testing.T, items []balance.Item) (*balance.Collection, error) {
	t.Helper()
	col := balance.NewCollection()
	for _, it := range items {
		if err := col.Add(it); err != nil {
			return nil, err
		}
	}
	return col, nil
}

func TestRunnerSimulate_Caching(t *testing.T) {
	r := testRunner(t)
	items, err := r.Load(context.Background(), Options{SheetsDir: writeSheets(t)})
	if err != nil {
		t.Fatal(err)
	}

	opts := SimOptions{
		Persona: sim.Persona{Name: "tester", Efficiency: 1, Strategy: sim.StrategyCheapest},
		Seed:    7,
	}
	first, hit, err := r.Simulate(context.Background(), items, opts)
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("first simulation reported a cache hit")
	}

	second, hit, err := r.Simulate(context.Background(), items, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !hit {
		t.Error("second simulation missed the cache")
	}
	if second.ID != first.ID {
		t.Error("cached run is not the stored one")
	}

	// A different seed is a different run.
	opts.Seed = 8
	third, hit, err := r.Simulate(context.Background(), items, opts)
	if err != nil {
		t.Fatal(err)
	}
	if hit || third.ID == first.ID {
		t.Error("seed change did not miss the cache")
	}
}

func TestNewRunner_Defaults(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	if r.Cache == nil || r.Keyer == nil || r.Logger == nil {
		t.Error("nil arguments not defaulted")
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
