package graphio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// ReadJSON decodes a layout document from r.
//
// ReadJSON returns an error if:
//   - The JSON is malformed or invalid
//   - The document version is unknown
//   - A node id appears twice
//   - An edge references a node not present in the document
//
// Errors are wrapped with context describing which node or edge caused the
// problem. The returned document is independent of r and can be used freely
// after ReadJSON returns. ReadJSON does not close r.
func ReadJSON(r io.Reader) (Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("decode: %w", err)
	}

	if doc.Version != FormatVersion {
		return Document{}, fmt.Errorf("unsupported document version %d (want %d)", doc.Version, FormatVersion)
	}

	ids := make(map[string]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		if n.ID == "" {
			return Document{}, fmt.Errorf("node with empty id")
		}
		if ids[n.ID] {
			return Document{}, fmt.Errorf("node %s: duplicate id", n.ID)
		}
		ids[n.ID] = true
	}
	for _, e := range doc.Edges {
		if !ids[e.Source] {
			return Document{}, fmt.Errorf("edge %s: unknown source %s", e.ID, e.Source)
		}
		if !ids[e.Target] {
			return Document{}, fmt.Errorf("edge %s: unknown target %s", e.ID, e.Target)
		}
	}

	return doc, nil
}

// ImportJSON reads a JSON file at path and returns the decoded document.
//
// ImportJSON opens the file, decodes it using [ReadJSON], and closes the
// file. Errors wrap the underlying cause with the file path for context.
func ImportJSON(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	doc, err := ReadJSON(f)
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
