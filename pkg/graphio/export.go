package graphio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sproutworks/furrow/pkg/layout"
)

// FormatVersion is the current document format version. Bumped only for
// incompatible changes; additive fields keep the version.
const FormatVersion = 1

// Document is the serialized form of one computed layout.
type Document struct {
	Version   int               `json:"version"`
	Constants layout.Constants  `json:"constants"`
	Lanes     []layout.Boundary `json:"lanes"`
	Nodes     []layout.Node     `json:"nodes"`
	Edges     []layout.Edge     `json:"edges"`

	Recoveries  []layout.Recovery `json:"recoveries,omitempty"`
	Diagnostics []layout.Event    `json:"diagnostics,omitempty"`
}

// NewDocument assembles a document from a layout result and the constants
// it was built with. Lanes are emitted in stacking order; nodes and edges
// keep the engine's deterministic output order.
func NewDocument(result layout.Result, c layout.Constants) Document {
	doc := Document{
		Version:    FormatVersion,
		Constants:  c,
		Nodes:      result.Nodes,
		Edges:      result.Edges,
		Recoveries: result.Recoveries,
	}
	for _, lane := range layout.LaneOrder() {
		if b, ok := result.Boundaries[lane]; ok {
			doc.Lanes = append(doc.Lanes, b)
		}
	}
	if result.Diagnostics != nil {
		// Debug events are build tracing, not diagram state.
		doc.Diagnostics = result.Diagnostics.AtLevel(layout.LevelInfo)
	}
	return doc
}

// WriteJSON encodes a document as indented JSON and writes it to w.
// The output can be re-imported with [ReadJSON] for round-trip processing.
func WriteJSON(doc Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a document to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(doc Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(doc, f)
}
