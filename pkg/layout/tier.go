package layout

import (
	"github.com/sproutworks/furrow/pkg/balance"
)

// tierIndex computes and memoizes the topological depth (tier) of every
// item. Tier 0 means no effective prerequisites; otherwise an item sits one
// tier to the right of its deepest prerequisite.
//
// The index is rebuilt for every layout build. Memoization matters: lane
// grouping re-queries sibling tiers repeatedly, and without the memo the
// build degrades to quadratic time on realistic item sets.
type tierIndex struct {
	items map[string]balance.Item
	memo  map[string]int

	// cyclic holds every prerequisite edge that participates in a
	// reference cycle, keyed by "from\x00to". Such edges contribute
	// nothing to depth, which defensively breaks the cycle: all members
	// of a mutual-reference group collapse to the depth given by their
	// prerequisites outside the group.
	cyclic map[[2]string]bool

	diags *Diagnostics
}

// newTierIndex builds the index for one item set. Cycle detection runs
// once, up front, so that tier resolution afterwards is a plain memoized
// DFS with no order sensitivity: the result for an item is the same no
// matter which item is queried first.
func newTierIndex(items []balance.Item, diags *Diagnostics) *tierIndex {
	t := &tierIndex{
		items:  make(map[string]balance.Item, len(items)),
		memo:   make(map[string]int, len(items)),
		cyclic: make(map[[2]string]bool),
		diags:  diags,
	}
	for _, it := range items {
		t.items[it.ID] = it
	}
	t.markCycles()
	return t
}

// tier returns the topological depth of the item with the given id.
// Unknown ids resolve to 0. The value is deterministic for a fixed item
// set: repeated calls, in any order, return the same depth.
func (t *tierIndex) tier(id string) int {
	if v, ok := t.memo[id]; ok {
		return v
	}
	return t.resolve(id, make(map[string]bool))
}

// resolve walks prerequisites depth-first. The visiting set is a defensive
// guard: markCycles has already neutralized every cyclic edge, so the set
// should never be hit, but a bug there must degrade to depth 0 rather than
// recurse forever.
func (t *tierIndex) resolve(id string, visiting map[string]bool) int {
	if v, ok := t.memo[id]; ok {
		return v
	}
	it, ok := t.items[id]
	if !ok {
		return 0
	}
	if visiting[id] {
		return 0
	}
	visiting[id] = true
	defer delete(visiting, id)

	depth := 0
	for _, prereq := range it.Prerequisites {
		if t.cyclic[[2]string{id, prereq}] {
			// Cycle member: this edge contributes 0 to the max.
			continue
		}
		if _, known := t.items[prereq]; !known {
			// Dangling reference: contributes 0, logged once when
			// first resolved (memoization prevents repeats).
			t.diags.warnf(CodeDanglingPrereq, id,
				"prerequisite %q not found in item set, treated as tier 0", prereq)
			continue
		}
		if d := t.resolve(prereq, visiting) + 1; d > depth {
			depth = d
		}
	}

	t.memo[id] = depth
	return depth
}

// markCycles finds every prerequisite edge inside a strongly connected
// component of the reference graph (including self-references) and records
// it as cyclic. Iterative Tarjan keeps large, deep item sets off the Go
// call stack.
func (t *tierIndex) markCycles() {
	ids := make([]string, 0, len(t.items))
	for id := range t.items {
		ids = append(ids, id)
	}

	index := make(map[string]int, len(t.items))
	lowlink := make(map[string]int, len(t.items))
	onStack := make(map[string]bool, len(t.items))
	component := make(map[string]int, len(t.items)) // id -> SCC number
	var stack []string
	next := 0
	sccnum := 0

	type frame struct {
		id    string
		edge  int // next prerequisite to consider
		succs []string
	}

	for _, root := range ids {
		if _, seen := index[root]; seen {
			continue
		}

		frames := []frame{{id: root, succs: t.prereqsOf(root)}}
		index[root] = next
		lowlink[root] = next
		next++
		stack = append(stack, root)
		onStack[root] = true

		for len(frames) > 0 {
			f := &frames[len(frames)-1]

			if f.edge < len(f.succs) {
				succ := f.succs[f.edge]
				f.edge++
				if _, seen := index[succ]; !seen {
					index[succ] = next
					lowlink[succ] = next
					next++
					stack = append(stack, succ)
					onStack[succ] = true
					frames = append(frames, frame{id: succ, succs: t.prereqsOf(succ)})
				} else if onStack[succ] {
					if index[succ] < lowlink[f.id] {
						lowlink[f.id] = index[succ]
					}
				}
				continue
			}

			if lowlink[f.id] == index[f.id] {
				for {
					top := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					onStack[top] = false
					component[top] = sccnum
					if top == f.id {
						break
					}
				}
				sccnum++
			}

			frames = frames[:len(frames)-1]
			if len(frames) > 0 {
				parent := &frames[len(frames)-1]
				if lowlink[f.id] < lowlink[parent.id] {
					lowlink[parent.id] = lowlink[f.id]
				}
			}
		}
	}

	// Edges that stay inside one component close a cycle: two distinct
	// items share a component only when they are mutually reachable.
	// Self-loops always do.
	for id, it := range t.items {
		for _, prereq := range it.Prerequisites {
			if prereq == id || (t.contains(prereq) && component[prereq] == component[id]) {
				t.cyclic[[2]string{id, prereq}] = true
				t.diags.warnf(CodeCyclicPrereq, id,
					"cyclic prerequisite %s -> %s ignored for depth", id, prereq)
			}
		}
	}
}

func (t *tierIndex) contains(id string) bool {
	_, ok := t.items[id]
	return ok
}

func (t *tierIndex) prereqsOf(id string) []string {
	it, ok := t.items[id]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(it.Prerequisites))
	for _, p := range it.Prerequisites {
		if t.contains(p) {
			out = append(out, p)
		}
	}
	return out
}

// maxTier returns the highest tier across the given items, or 0 when the
// set is empty.
func (t *tierIndex) maxTier(items []balance.Item) int {
	max := 0
	for _, it := range items {
		if tier := t.tier(it.ID); tier > max {
			max = tier
		}
	}
	return max
}
