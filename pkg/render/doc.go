// Package render groups the diagram renderers for swim-lane layouts.
//
// # Overview
//
// Renderers turn a computed layout into visual outputs. There is one
// renderer family today:
//
//   - Swim-lane diagrams (in [swimlane] subpackage)
//
// # Swim-Lane Diagrams
//
// The [swimlane] subpackage renders a layout as horizontal feature lanes
// with one node per unlockable item. It produces SVG directly and a
// Graphviz DOT export for tooling that works on node-link graphs.
//
//	svg := swimlane.RenderSVG(result, consts, swimlane.WithTheme(swimlane.Dark()))
//	dot := swimlane.ToDOT(result, swimlane.DOTOptions{Clustered: true})
//	img, err := swimlane.RenderDOT(ctx, dot)
//
// [swimlane]: github.com/sproutworks/furrow/pkg/render/swimlane
package render
