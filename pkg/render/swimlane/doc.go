// Package swimlane renders computed layouts as SVG swim-lane diagrams.
//
// The renderer is a pure function of the layout result and the constants
// it was built with: same input, byte-identical SVG. Lanes are drawn as
// horizontal bands with a label column on the left, nodes as rounded
// boxes at their solved positions, and prerequisite edges as curves
// between tier columns.
//
// Visual styling lives in a [Theme]; the geometry never changes with the
// theme. For a classic node-link view of the progression graph, see
// [ToDOT] and [RenderDOT], which delegate the geometry to Graphviz
// instead of the swim-lane solver.
package swimlane
