// Package layout computes deterministic swim-lane diagrams for progression
// graphs.
//
// The engine takes a flat collection of balance items, each referencing its
// prerequisites by id, and produces a non-overlapping 2D layout: every item
// is assigned to a category lane (a vertical band) and a tier (a horizontal
// column equal to its prerequisite depth), then resolved to exact pixel
// coordinates. Lanes that cannot fit their population at ideal spacing are
// recovered through an escalating set of strategies (compression,
// redistribution, emergency spacing) rather than failing the build.
//
// # Pipeline
//
// A build runs the components in a fixed order:
//
//  1. Tier calculation: topological depth from prerequisites (cycle-guarded)
//  2. Lane assignment: source-file mapping, keyword rules, catch-all
//  3. Lane height estimation: worst-case tier population per lane
//  4. Boundary calculation: absolute vertical bands in lane order
//  5. Position solving: per lane+tier group, overcrowding-aware
//  6. Edge building: prerequisite edges with valid geometry only
//
// The entry point is [Builder]: construct one with [New] (which validates
// the layout constants and fails fast on bad configuration) and call
// [Builder.Build]. Builds are synchronous and single-threaded; per-build
// memoization caches are reset at the start of every build so repeated
// builds never leak state.
//
// # Error handling
//
// Data-quality problems in the input (dangling prerequisite ids, cyclic
// prerequisites, overcrowded lanes, missing boundaries) never fail a build.
// The engine always returns a best-effort, internally consistent layout and
// records every anomaly and recovery in a [Diagnostics] collector returned
// with the result. Use [Validate] to run the full consistency battery over
// a produced layout in tests and debug builds.
package layout
