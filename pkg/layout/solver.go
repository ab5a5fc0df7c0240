package layout

import (
	"math"
	"sort"
	"strconv"

	"github.com/sproutworks/furrow/pkg/balance"
)

// Position is a node center point in diagram coordinates.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is one positioned item. Derived data: rebuilt on every layout pass,
// with no persistent identity across builds beyond the item id.
type Node struct {
	Item     balance.Item `json:"-"`
	ID       string       `json:"id"`
	Lane     Lane         `json:"lane"`
	Tier     int          `json:"tier"`
	Position Position     `json:"position"`

	// WithinBounds is false only for nodes that emergency recovery had
	// to push outside the lane's buffered region. Such nodes still sit
	// inside the lane's outer envelope.
	WithinBounds bool `json:"within_bounds"`
}

// Recovery is the audit trail for a node whose position had to be adjusted
// away from ideal spacing. Callers use it to explain why the diagram
// differs from the ideal layout.
type Recovery struct {
	ItemID      string   `json:"item_id"`
	Lane        Lane     `json:"lane"`
	Tier        int      `json:"tier"`
	Boundary    Boundary `json:"boundary"`
	Strategy    Strategy `json:"strategy"`
	Reason      string   `json:"reason"`
	Original    Position `json:"original"`
	Final       Position `json:"final"`
	Adjustments []string `json:"adjustments,omitempty"`
}

// groupKey identifies one lane+tier group.
type groupKey struct {
	lane Lane
	tier int
}

// solvePositions computes final coordinates for every item.
//
// X is purely tier-based: every node in a tier shares the same X across all
// lanes, which is the defining alignment invariant of the diagram. Y comes
// from the overcrowding-aware group placement, clamped into the lane's
// buffered bounds for every strategy except emergency.
//
// Items are grouped by lane+tier and each group is sorted by item id before
// placement, so output order and coordinates are deterministic for a fixed
// input set.
func solvePositions(items []balance.Item, assign *assigner, tiers *tierIndex,
	boundaries map[Lane]Boundary, c Constants, diags *Diagnostics) ([]Node, []Recovery) {

	groups := make(map[groupKey][]balance.Item)
	for _, it := range items {
		key := groupKey{lane: assign.lane(it), tier: tiers.tier(it.ID)}
		groups[key] = append(groups[key], it)
	}

	keys := make([]groupKey, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].lane != keys[j].lane {
			return laneIndex(keys[i].lane) < laneIndex(keys[j].lane)
		}
		return keys[i].tier < keys[j].tier
	})

	nodes := make([]Node, 0, len(items))
	var recoveries []Recovery

	for _, key := range keys {
		group := groups[key]
		sort.Slice(group, func(i, j int) bool { return group[i].ID < group[j].ID })

		b, ok := boundaries[key.lane]
		if !ok {
			// Never expected: every known lane gets a boundary. A
			// position is still produced from a fabricated band.
			b = emergencyBoundary(key.lane, c)
			diags.group(LevelCritical, CodeMissingBoundary, key.lane, key.tier,
				"no boundary for lane %s, synthesized emergency band [%.1f, %.1f]",
				key.lane, b.StartY, b.EndY)
		}

		placed, recs := solveGroup(key, group, b, c, diags)
		nodes = append(nodes, placed...)
		recoveries = append(recoveries, recs...)
	}

	return nodes, recoveries
}

// solveGroup positions one lane+tier group.
func solveGroup(key groupKey, group []balance.Item, b Boundary, c Constants,
	diags *Diagnostics) ([]Node, []Recovery) {

	n := len(group)
	analysis := analyzeGroup(key.lane, key.tier, n, b, c)
	logAnalysis(analysis, diags)

	ideal := spacedPlacement(n, b, c, c.IdealPadding, StrategyNone)
	placed := placeGroup(analysis.Strategy, n, b, c)
	if placed.applied == StrategyEmergency && analysis.Strategy != StrategyEmergency {
		diags.group(LevelCritical, CodeOvercrowding, key.lane, key.tier,
			"%s strategy could not fit %d nodes, escalated to emergency spacing",
			analysis.Strategy, n)
	}

	x := c.tierX(key.tier)
	nodes := make([]Node, n)
	var recoveries []Recovery

	for i, it := range group {
		y := placed.ys[i]
		within := placed.within[i]
		if placed.applied != StrategyEmergency {
			corrected, moved := clampToBuffered(y, b, c)
			if moved {
				// Placement bug, not a data problem: correct and
				// log rather than emit an out-of-bounds position.
				diags.warnf(CodeRecovery, it.ID,
					"position %.1f outside lane %s bounds, clamped to %.1f", y, key.lane, corrected)
			}
			y, within = corrected, true
		}

		nodes[i] = Node{
			Item:         it,
			ID:           it.ID,
			Lane:         key.lane,
			Tier:         key.tier,
			Position:     Position{X: x, Y: y},
			WithinBounds: within,
		}

		if placed.applied != StrategyNone {
			recoveries = append(recoveries, recoveryFor(it.ID, key, b, placed.applied,
				analysis, Position{X: x, Y: ideal.ys[i]}, Position{X: x, Y: y}, within))
		}
	}

	return nodes, recoveries
}

// clampToBuffered forces y into the lane's buffered region. The second
// return reports whether a correction was needed.
func clampToBuffered(y float64, b Boundary, c Constants) (float64, bool) {
	half := c.NodeHeight / 2
	min := b.StartY + c.LaneBuffer + half
	max := b.EndY - c.LaneBuffer - half
	if max < min {
		// Lane too small for even one node; pin to center.
		return b.CenterY, y != b.CenterY
	}
	if y < min {
		return min, true
	}
	if y > max {
		return max, true
	}
	return y, false
}

// recoveryFor assembles the audit record for one adjusted node.
func recoveryFor(itemID string, key groupKey, b Boundary, applied Strategy,
	a Analysis, original, final Position, within bool) Recovery {

	rec := Recovery{
		ItemID:   itemID,
		Lane:     key.lane,
		Tier:     key.tier,
		Boundary: b,
		Strategy: applied,
		Original: original,
		Final:    final,
	}

	switch applied {
	case StrategyCompress:
		rec.Reason = "lane overcrowded, spacing compressed"
		rec.Adjustments = append(rec.Adjustments, "reduced inter-node spacing")
	case StrategyRedistribute:
		rec.Reason = "lane overcrowded, redistribution degraded to tight compression"
		rec.Adjustments = append(rec.Adjustments, "reduced inter-node spacing aggressively")
	case StrategyEmergency:
		rec.Reason = "lane critically overcrowded, emergency spacing applied"
		rec.Adjustments = append(rec.Adjustments, "placed at absolute minimum spacing")
		if !within {
			rec.Adjustments = append(rec.Adjustments, "position outside buffered lane bounds")
		}
	}
	if a.Ratio > 0 {
		rec.Adjustments = append(rec.Adjustments,
			"space ratio "+formatRatio(a.Ratio))
	}
	return rec
}

// logAnalysis records the overcrowding diagnostic for a group, once per
// group, at a level matching its severity.
func logAnalysis(a Analysis, diags *Diagnostics) {
	if a.Severity == SeverityNone {
		return
	}
	level := LevelWarn
	if a.Severity == SeverityCritical {
		level = LevelCritical
	}
	diags.group(level, CodeOvercrowding, a.Lane, a.Tier,
		"%d nodes need %.1fpx of %.1fpx available (ratio %s, severity %s, strategy %s)",
		a.NodeCount, a.RequiredSpace, a.AvailableSpace,
		formatRatio(a.Ratio), a.Severity, a.Strategy)
}

func formatRatio(r float64) string {
	if math.IsInf(r, 1) || r > 1e12 {
		return "inf"
	}
	return strconv.FormatFloat(r, 'f', 2, 64)
}
