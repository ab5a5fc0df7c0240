// Package pkg provides the core libraries for Furrow progression diagrams.
//
// # Overview
//
// Furrow turns the balance sheets of an idle game into deterministic
// swim-lane diagrams: every unlockable item is placed in a feature lane
// at the prerequisite depth where a player first reaches it. The pkg
// directory is organized into four main areas:
//
//  1. [balance] and [layout] - Domain logic (sheet loading, lane assignment, positioning)
//  2. [render] - Visualization (swim-lane SVG, Graphviz DOT)
//  3. [sim] - Progression simulation and pacing analysis
//  4. [pipeline], [cache], [store] - Orchestration and infrastructure
//
// # Architecture
//
// The typical data flow through Furrow:
//
//	CSV balance sheets
//	         |
//	    [balance] package (load + validate items)
//	         |
//	    [layout] package (lanes, tiers, positions)
//	         |
//	    [render/swimlane] package (SVG / DOT / JSON output)
//
// The simulation path reads the same item collection:
//
//	[balance] -> [sim] (persona playthrough) -> [sim/report] (bottlenecks)
//
// # Quick Start
//
// Load sheets and render a diagram:
//
//	import (
//	    "github.com/sproutworks/furrow/pkg/balance"
//	    "github.com/sproutworks/furrow/pkg/layout"
//	    "github.com/sproutworks/furrow/pkg/render/swimlane"
//	)
//
//	// 1. Load the sheets
//	items, _ := balance.LoadDir("./balance")
//
//	// 2. Compute the layout
//	builder, _ := layout.New(layout.DefaultConstants())
//	result := builder.Build(items.Items())
//
//	// 3. Render to SVG
//	svg := swimlane.RenderSVG(result, layout.DefaultConstants())
//
// # Main Packages
//
// ## Domain Logic
//
// [balance] - CSV balance sheet loading. Parses item rows, validates
// identifiers and prerequisite references, and builds the item
// collection every other package consumes.
//
// [layout] - The swim-lane layout engine. Assigns items to lanes,
// resolves prerequisite tiers, partitions vertical space into lane
// boundaries, and recovers from overcrowded lanes. Deterministic for a
// given item set and constants.
//
// [graphio] - Serialization of layout results as versioned JSON
// documents, for caching and for the viewer API.
//
// ## Visualization
//
// [render/swimlane] - Swim-lane SVG rendering plus a Graphviz DOT
// export with per-lane clusters.
//
// ## Simulation
//
// [sim] - Tick-based progression simulation. Personas model how a
// player banks income and which affordable unlock they buy next.
//
// [sim/report] - Bottleneck analysis over a finished run: how long the
// player waited for each unlock and when each lane opened up.
//
// ## Orchestration and Infrastructure
//
// [pipeline] - The load, layout, render pipeline used by the CLI and
// the API server. Ensures consistent behavior across entry points and
// handles content-addressed caching.
//
// [cache] - Cache backends: filesystem for the CLI, Redis for shared
// deployments, and a null cache for tests.
//
// [store] - Optional MongoDB archive for simulation runs.
//
// [errors] - Structured error codes shared across packages, mapped to
// HTTP statuses by the server.
//
// [observability] - Hook points the pipeline and simulator call at
// stage boundaries.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/layout/...   # Specific package
//	go test -run Example       # Examples only
//
// [balance]: https://pkg.go.dev/github.com/sproutworks/furrow/pkg/balance
// [layout]: https://pkg.go.dev/github.com/sproutworks/furrow/pkg/layout
// [graphio]: https://pkg.go.dev/github.com/sproutworks/furrow/pkg/graphio
// [render]: https://pkg.go.dev/github.com/sproutworks/furrow/pkg/render
// [render/swimlane]: https://pkg.go.dev/github.com/sproutworks/furrow/pkg/render/swimlane
// [sim]: https://pkg.go.dev/github.com/sproutworks/furrow/pkg/sim
// [sim/report]: https://pkg.go.dev/github.com/sproutworks/furrow/pkg/sim/report
// [pipeline]: https://pkg.go.dev/github.com/sproutworks/furrow/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/sproutworks/furrow/pkg/cache
// [store]: https://pkg.go.dev/github.com/sproutworks/furrow/pkg/store
// [errors]: https://pkg.go.dev/github.com/sproutworks/furrow/pkg/errors
// [observability]: https://pkg.go.dev/github.com/sproutworks/furrow/pkg/observability
package pkg
