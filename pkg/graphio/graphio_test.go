package graphio

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/sproutworks/furrow/pkg/balance"
	"github.com/sproutworks/furrow/pkg/layout"
)

func buildDocument(t *testing.T) Document {
	t.Helper()
	builder, err := layout.New(layout.DefaultConstants())
	if err != nil {
		t.Fatal(err)
	}
	result := builder.Build([]balance.Item{
		{ID: "wheat", Name: "Wheat", SourceFile: "crops.csv"},
		{ID: "flour", Name: "Flour", SourceFile: "crops.csv", Prerequisites: []string{"wheat"}},
		{ID: "iron", Name: "Iron Ore", SourceFile: "ores.csv"},
	})
	return NewDocument(result, builder.Constants())
}

func TestRoundTrip(t *testing.T) {
	doc := buildDocument(t)

	var buf bytes.Buffer
	if err := WriteJSON(doc, &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}

	// The embedded balance item is deliberately not serialized; compare
	// the geometric fields only.
	want := make([]layout.Node, len(doc.Nodes))
	copy(want, doc.Nodes)
	for i := range want {
		want[i].Item = balance.Item{}
	}
	if !reflect.DeepEqual(got.Nodes, want) {
		t.Error("nodes changed across round trip")
	}
	if !reflect.DeepEqual(got.Edges, doc.Edges) {
		t.Error("edges changed across round trip")
	}
	if !reflect.DeepEqual(got.Lanes, doc.Lanes) {
		t.Error("lanes changed across round trip")
	}
}

func TestExportDeterministic(t *testing.T) {
	doc := buildDocument(t)

	var a, b bytes.Buffer
	if err := WriteJSON(doc, &a); err != nil {
		t.Fatal(err)
	}
	if err := WriteJSON(doc, &b); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("repeated export is not byte-identical")
	}
}

func TestNewDocument_LanesInStackingOrder(t *testing.T) {
	doc := buildDocument(t)

	order := layout.LaneOrder()
	if len(doc.Lanes) != len(order) {
		t.Fatalf("got %d lanes, want %d", len(doc.Lanes), len(order))
	}
	for i, b := range doc.Lanes {
		if b.Lane != order[i] {
			t.Errorf("lane %d = %s, want %s", i, b.Lane, order[i])
		}
	}
}

func TestNewDocument_DropsDebugDiagnostics(t *testing.T) {
	doc := buildDocument(t)
	for _, e := range doc.Diagnostics {
		if e.Level < layout.LevelInfo {
			t.Errorf("debug event leaked into export: %+v", e)
		}
	}
}

func TestReadJSON_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed", `{"version": 1,`},
		{"unknown version", `{"version": 99, "nodes": [], "edges": []}`},
		{"empty node id", `{"version": 1, "nodes": [{"id": ""}], "edges": []}`},
		{"duplicate node id", `{"version": 1, "nodes": [{"id": "a"}, {"id": "a"}], "edges": []}`},
		{"unknown edge source", `{"version": 1, "nodes": [{"id": "a"}], "edges": [{"id": "x->a", "source": "x", "target": "a"}]}`},
		{"unknown edge target", `{"version": 1, "nodes": [{"id": "a"}], "edges": [{"id": "a->x", "source": "a", "target": "x"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadJSON(strings.NewReader(tt.input)); err == nil {
				t.Error("expected error")
			}
		})
	}
}
