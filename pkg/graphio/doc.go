// Package graphio provides JSON import and export for computed layouts.
//
// # Overview
//
// This package serializes the output of the layout engine to a stable JSON
// document. The format is designed for:
//
//   - Feeding the web viewer, which draws the diagram client-side
//   - Integration with external tools that consume diagram data
//   - Caching of computed layouts for faster re-rendering
//   - Round-trip preservation: export, re-import, and render identically
//
// # JSON Format
//
// The document has a version marker, the geometry constants the layout was
// computed with, the ordered lane bands, and the positioned nodes and edges:
//
//	{
//	  "version": 1,
//	  "constants": {"node_width": 120, ...},
//	  "lanes": [
//	    {"lane": "farm", "start_y": 30, "end_y": 110, ...}
//	  ],
//	  "nodes": [
//	    {"id": "wheat", "lane": "farm", "tier": 0, "position": {"x": 210, "y": 70}}
//	  ],
//	  "edges": [
//	    {"id": "wheat->flour", "source": "wheat", "target": "flour"}
//	  ]
//	}
//
// Recovery audit records and diagnostic events are included when present,
// so a consumer can explain degraded placements without re-running the
// engine.
//
// # Determinism
//
// Export order follows the engine's deterministic output order: lanes in
// stacking order, nodes grouped by lane and tier, edges in emission order.
// Exporting the same layout twice produces byte-identical documents, which
// makes the export safe to content-hash for caching.
//
// # Import
//
// Use [ImportJSON] to read a document from a file path, or [ReadJSON] to
// read from any io.Reader. Both validate the structural invariants (unique
// node ids, edge endpoints present, known document version) and wrap errors
// with context about the offending node or edge.
package graphio
