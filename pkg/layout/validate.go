package layout

import (
	"fmt"
	"math"
)

// Validation tolerances. Positions are float math over a handful of
// additions, so equality checks allow a small slack.
const (
	posTolerance     = 0.01 // tier alignment, boundary compliance
	spacingTolerance = 0.5  // minimum spacing shortfall worth reporting
)

// CheckResult is the outcome of one independent validator check.
type CheckResult struct {
	Name   string   `json:"name"`
	Passed bool     `json:"passed"`
	Issues []string `json:"issues,omitempty"`
}

// Report aggregates all validator checks for one layout result.
type Report struct {
	Checks []CheckResult `json:"checks"`
}

// Passed reports whether every check passed.
func (r Report) Passed() bool {
	for _, c := range r.Checks {
		if !c.Passed {
			return false
		}
	}
	return true
}

// Failed returns the checks that found issues.
func (r Report) Failed() []CheckResult {
	var out []CheckResult
	for _, c := range r.Checks {
		if !c.Passed {
			out = append(out, c)
		}
	}
	return out
}

// Validate runs the full consistency battery over a layout result.
//
// The validator is read-only: it never mutates the result, only reports on
// it. It is meant for development builds and as an automated regression
// harness; production callers can skip it entirely. Each check is
// independent - one failing does not stop the others.
func Validate(result Result, c Constants) Report {
	emergency := emergencyGroups(result)
	return Report{Checks: []CheckResult{
		checkBoundaryCompliance(result, c),
		checkLaneHeights(result, c),
		checkTierAlignment(result, c),
		checkLaneContainment(result, c),
		checkMinimumSpacing(result, c, emergency),
		checkEdgeGeometry(result, c),
		checkEdgeEndpoints(result),
	}}
}

// emergencyGroups collects the lane+tier groups that went through
// emergency recovery; the spacing check relaxes for them.
func emergencyGroups(result Result) map[groupKey]bool {
	out := make(map[groupKey]bool)
	for _, rec := range result.Recoveries {
		if rec.Strategy == StrategyEmergency {
			out[groupKey{lane: rec.Lane, tier: rec.Tier}] = true
		}
	}
	return out
}

// checkBoundaryCompliance verifies every node sits inside its lane's
// buffered region, except nodes explicitly flagged out-of-bounds by
// emergency recovery, which must still be inside the lane's outer envelope.
func checkBoundaryCompliance(result Result, c Constants) CheckResult {
	check := CheckResult{Name: "boundary_compliance", Passed: true}
	half := c.NodeHeight / 2

	for _, n := range result.Nodes {
		b, ok := result.Boundaries[n.Lane]
		if !ok {
			check.fail("node %s: no boundary for lane %s", n.ID, n.Lane)
			continue
		}
		y := n.Position.Y
		if n.WithinBounds {
			if y < b.StartY+c.LaneBuffer+half-posTolerance || y > b.EndY-c.LaneBuffer-half+posTolerance {
				check.fail("node %s: y=%.2f outside buffered bounds [%.2f, %.2f] of lane %s",
					n.ID, y, b.StartY+c.LaneBuffer+half, b.EndY-c.LaneBuffer-half, n.Lane)
			}
			continue
		}
		// Emergency overflow: outer envelope still binds.
		if y < b.StartY+half-posTolerance || y > b.EndY-half+posTolerance {
			check.fail("node %s: y=%.2f outside outer envelope [%.2f, %.2f] of lane %s",
				n.ID, y, b.StartY, b.EndY, n.Lane)
		}
	}
	return check
}

// checkLaneHeights verifies each lane's declared height covers its
// worst-case tier population at ideal spacing.
func checkLaneHeights(result Result, c Constants) CheckResult {
	check := CheckResult{Name: "lane_height_sufficiency", Passed: true}

	population := make(map[groupKey]int)
	for _, n := range result.Nodes {
		population[groupKey{lane: n.Lane, tier: n.Tier}]++
	}

	worst := make(map[Lane]int)
	for key, count := range population {
		if count > worst[key.lane] {
			worst[key.lane] = count
		}
	}

	for lane, count := range worst {
		needed := laneHeightFor(count, c)
		declared, ok := result.LaneHeights[lane]
		if !ok {
			check.fail("lane %s: %d nodes but no declared height", lane, count)
			continue
		}
		if declared < needed-posTolerance {
			check.fail("lane %s: declared height %.2f below required %.2f for worst tier of %d nodes",
				lane, declared, needed, count)
		}
	}
	return check
}

// checkTierAlignment verifies the defining alignment invariant: all nodes
// in the same tier share one X, regardless of lane.
func checkTierAlignment(result Result, c Constants) CheckResult {
	check := CheckResult{Name: "tier_alignment", Passed: true}

	tierX := make(map[int]float64)
	for _, n := range result.Nodes {
		x, seen := tierX[n.Tier]
		if !seen {
			tierX[n.Tier] = n.Position.X
			continue
		}
		if math.Abs(n.Position.X-x) > posTolerance {
			check.fail("node %s: tier %d at x=%.2f, expected %.2f", n.ID, n.Tier, n.Position.X, x)
		}
	}

	for tier, x := range tierX {
		if want := c.tierX(tier); math.Abs(x-want) > posTolerance {
			check.fail("tier %d: x=%.2f does not match constants (%.2f)", tier, x, want)
		}
	}
	return check
}

// checkLaneContainment verifies tier positioning never pushes a node
// outside its lane band entirely (vertical/horizontal non-interference).
func checkLaneContainment(result Result, c Constants) CheckResult {
	check := CheckResult{Name: "lane_containment", Passed: true}
	half := c.NodeHeight / 2

	for _, n := range result.Nodes {
		b, ok := result.Boundaries[n.Lane]
		if !ok {
			continue // reported by boundary_compliance
		}
		if n.Position.Y+half < b.StartY-posTolerance || n.Position.Y-half > b.EndY+posTolerance {
			check.fail("node %s: entirely outside lane %s band [%.2f, %.2f]",
				n.ID, n.Lane, b.StartY, b.EndY)
		}
		if n.Position.X < c.minX()-posTolerance {
			check.fail("node %s: x=%.2f overlaps lane label band", n.ID, n.Position.X)
		}
	}
	return check
}

// checkMinimumSpacing verifies no two nodes in the same lane and tier sit
// closer than the absolute minimum spacing, unless that group went through
// emergency recovery (in which case the relaxation is already logged).
func checkMinimumSpacing(result Result, c Constants, emergency map[groupKey]bool) CheckResult {
	check := CheckResult{Name: "minimum_spacing", Passed: true}

	groups := make(map[groupKey][]Node)
	for _, n := range result.Nodes {
		key := groupKey{lane: n.Lane, tier: n.Tier}
		groups[key] = append(groups[key], n)
	}

	for key, nodes := range groups {
		if emergency[key] {
			continue
		}
		for i := 0; i < len(nodes); i++ {
			for j := i + 1; j < len(nodes); j++ {
				gap := math.Abs(nodes[i].Position.Y-nodes[j].Position.Y) - c.NodeHeight
				if gap < c.MinSpacing-spacingTolerance {
					check.fail("nodes %s and %s in lane %s tier %d: gap %.2f below minimum %.2f",
						nodes[i].ID, nodes[j].ID, key.lane, key.tier, gap, c.MinSpacing)
				}
			}
		}
	}
	return check
}

// checkEdgeGeometry verifies every edge points strictly rightwards with a
// sane, bounded length.
func checkEdgeGeometry(result Result, c Constants) CheckResult {
	check := CheckResult{Name: "edge_geometry", Passed: true}

	byID := make(map[string]Node, len(result.Nodes))
	maxTier := 0
	for _, n := range result.Nodes {
		byID[n.ID] = n
		if n.Tier > maxTier {
			maxTier = n.Tier
		}
	}
	maxLength := float64(maxTier) * c.TierWidth

	for _, e := range result.Edges {
		src, okS := byID[e.Source]
		dst, okD := byID[e.Target]
		if !okS || !okD {
			continue // reported by edge_endpoints
		}
		dx := dst.Position.X - src.Position.X
		if dx <= 0 {
			check.fail("edge %s: source not strictly left of target (dx=%.2f)", e.ID, dx)
			continue
		}
		if dx < c.TierWidth-posTolerance {
			check.fail("edge %s: span %.2f shorter than one tier width", e.ID, dx)
		}
		if maxLength > 0 && dx > maxLength+posTolerance {
			check.fail("edge %s: span %.2f exceeds diagram width %.2f", e.ID, dx, maxLength)
		}
	}
	return check
}

// checkEdgeEndpoints verifies every edge references nodes present in the
// result (no dangling edges).
func checkEdgeEndpoints(result Result) CheckResult {
	check := CheckResult{Name: "edge_endpoints", Passed: true}

	ids := make(map[string]bool, len(result.Nodes))
	for _, n := range result.Nodes {
		ids[n.ID] = true
	}
	for _, e := range result.Edges {
		if !ids[e.Source] {
			check.fail("edge %s: unknown source %s", e.ID, e.Source)
		}
		if !ids[e.Target] {
			check.fail("edge %s: unknown target %s", e.ID, e.Target)
		}
	}
	return check
}

func (c *CheckResult) fail(format string, args ...any) {
	c.Passed = false
	c.Issues = append(c.Issues, fmt.Sprintf(format, args...))
}
