package layout

import (
	"testing"

	"github.com/sproutworks/furrow/pkg/balance"
)

func TestBuildEdges_EmitsPrerequisitePairs(t *testing.T) {
	items := []balance.Item{
		{ID: "wheat"},
		{ID: "water"},
		{ID: "flour", Prerequisites: []string{"wheat", "water"}},
	}
	diags := NewDiagnostics()
	edges := buildEdges(items, newTierIndex(items, diags), diags)

	if len(edges) != 2 {
		t.Fatalf("got %d edges, want 2", len(edges))
	}
	want := map[string]bool{"wheat->flour": true, "water->flour": true}
	for _, e := range edges {
		if !want[e.ID] {
			t.Errorf("unexpected edge %s", e.ID)
		}
		if e.Target != "flour" {
			t.Errorf("edge %s: target = %s, want flour", e.ID, e.Target)
		}
	}
}

func TestBuildEdges_SkipsDanglingSilently(t *testing.T) {
	items := []balance.Item{
		{ID: "cart", Prerequisites: []string{"missing_id"}},
	}
	diags := NewDiagnostics()
	tiers := newTierIndex(items, diags)
	before := diags.Len()

	edges := buildEdges(items, tiers, diags)
	if len(edges) != 0 {
		t.Errorf("got %d edges, want 0", len(edges))
	}
	// The dangling reference was already reported during tier
	// resolution; edge building adds nothing.
	if diags.Len() != before {
		t.Errorf("edge building added %d diagnostics, want 0", diags.Len()-before)
	}
}

func TestBuildEdges_DropsSameTierEdge(t *testing.T) {
	// A broken cycle leaves both items on tier 0; the would-be edges
	// point sideways and are dropped with a diagnostic.
	items := []balance.Item{
		{ID: "chicken", Prerequisites: []string{"egg"}},
		{ID: "egg", Prerequisites: []string{"chicken"}},
	}
	diags := NewDiagnostics()
	edges := buildEdges(items, newTierIndex(items, diags), diags)

	if len(edges) != 0 {
		t.Errorf("got %d edges, want 0", len(edges))
	}
	if got := len(diags.WithCode(CodeEdgeDropped)); got != 2 {
		t.Errorf("got %d edge_dropped diagnostics, want 2", got)
	}
}

func TestBuildEdges_MultiTierSpan(t *testing.T) {
	// An edge may legally span several tiers when the prerequisite sits
	// far to the left.
	items := []balance.Item{
		{ID: "a"},
		{ID: "b", Prerequisites: []string{"a"}},
		{ID: "c", Prerequisites: []string{"b"}},
		{ID: "d", Prerequisites: []string{"c", "a"}},
	}
	diags := NewDiagnostics()
	edges := buildEdges(items, newTierIndex(items, diags), diags)

	if len(edges) != 4 {
		t.Fatalf("got %d edges, want 4", len(edges))
	}
	found := false
	for _, e := range edges {
		if e.ID == "a->d" {
			found = true
		}
	}
	if !found {
		t.Error("long-span edge a->d missing")
	}
}
