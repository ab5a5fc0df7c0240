package layout

import (
	"sort"
	"time"

	"github.com/sproutworks/furrow/pkg/balance"
)

// Result is the complete output of one layout build. All derived data is
// created fresh per build and never mutated afterwards; callers may share a
// Result across goroutines.
type Result struct {
	Nodes       []Node           `json:"nodes"`
	Edges       []Edge           `json:"edges"`
	LaneHeights map[Lane]float64 `json:"lane_heights"`
	Boundaries  map[Lane]Boundary `json:"lane_boundaries"`

	// Recoveries is the audit trail of every position adjusted away from
	// ideal spacing.
	Recoveries []Recovery `json:"recoveries,omitempty"`

	// Diagnostics collects the typed events of the build. Never nil.
	Diagnostics *Diagnostics `json:"-"`

	// Duration is the wall-clock time of the build. Advisory; builds
	// exceeding Constants.SlowBuild are flagged in Diagnostics.
	Duration time.Duration `json:"-"`
}

// Node returns the positioned node with the given item id and true, or a
// zero node and false when absent.
func (r Result) Node(id string) (Node, bool) {
	for _, n := range r.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Builder computes swim-lane layouts. A Builder owns the per-build
// memoization caches (lane assignment, tier index); they are explicit state
// reset at the start of every build, never ambient package state, so
// repeated or interleaved builds cannot leak results between runs.
//
// A Builder is safe for sequential reuse. It is not safe for concurrent
// builds; the engine is deliberately single-threaded.
type Builder struct {
	consts Constants

	// categories restricts the build to items carrying at least one of
	// these tags. Empty means all items are in scope.
	categories []string

	// Per-build state, replaced by reset.
	assign *assigner
	tiers  *tierIndex
	diags  *Diagnostics
}

// Option configures a Builder.
type Option func(*Builder)

// WithCategories restricts layout to items carrying at least one of the
// given category tags.
func WithCategories(tags ...string) Option {
	return func(b *Builder) { b.categories = append(b.categories, tags...) }
}

// New creates a Builder with the given constants, which are validated
// immediately: invalid geometry is the engine's only unrecoverable failure
// mode and is rejected here, at configuration time, never per item.
func New(consts Constants, opts ...Option) (*Builder, error) {
	if err := consts.Validate(); err != nil {
		return nil, err
	}
	b := &Builder{consts: consts}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Constants returns the geometry contract the builder was created with.
func (b *Builder) Constants() Constants { return b.consts }

// Build computes a layout for the given items.
//
// The input is never mutated. Data-quality problems (dangling or cyclic
// prerequisites, overcrowded lanes) never fail the build: the result is
// always a complete, best-effort layout with a diagnostic trail. Calling
// Build twice with the same items produces identical positions and edges.
func (b *Builder) Build(items []balance.Item) Result {
	start := time.Now()
	b.reset()

	scoped := b.scope(items)

	// Deterministic processing order regardless of input order.
	sort.Slice(scoped, func(i, j int) bool { return scoped[i].ID < scoped[j].ID })

	b.tiers = newTierIndex(scoped, b.diags)

	heights := laneHeights(scoped, b.assign, b.tiers, b.consts)
	boundaries := laneBoundaries(heights, b.consts)
	nodes, recoveries := solvePositions(scoped, b.assign, b.tiers, boundaries, b.consts, b.diags)
	edges := buildEdges(scoped, b.tiers, b.diags)

	result := Result{
		Nodes:       nodes,
		Edges:       edges,
		LaneHeights: heights,
		Boundaries:  boundaries,
		Recoveries:  recoveries,
		Diagnostics: b.diags,
		Duration:    time.Since(start),
	}

	if b.consts.SlowBuild > 0 && result.Duration > b.consts.SlowBuild {
		b.diags.record(Event{
			Level:   LevelWarn,
			Code:    CodeSlowBuild,
			Message: "layout build took " + result.Duration.String(),
		})
	}

	return result
}

// reset replaces the per-build caches. Called at the start of every build.
func (b *Builder) reset() {
	b.diags = NewDiagnostics()
	b.assign = newAssigner(b.diags)
	b.tiers = nil
}

// scope filters the input down to in-scope categories and copies it so the
// caller's slice is never reordered.
func (b *Builder) scope(items []balance.Item) []balance.Item {
	out := make([]balance.Item, 0, len(items))
	for _, it := range items {
		if len(b.categories) == 0 {
			out = append(out, it)
			continue
		}
		for _, tag := range b.categories {
			if it.HasCategory(tag) {
				out = append(out, it)
				break
			}
		}
	}
	return out
}
