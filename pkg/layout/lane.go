package layout

// Lane is one of the fixed vertical bands of the diagram. Each lane maps to
// a game subsystem; the catch-all [LaneGeneral] absorbs anything the
// assignment heuristics cannot classify.
type Lane string

// The known lanes. LaneOrder below defines their vertical stacking.
const (
	LaneFarm      Lane = "farm"
	LaneMining    Lane = "mining"
	LaneCombat    Lane = "combat"
	LaneTools     Lane = "tools"
	LaneAdventure Lane = "adventure"
	LaneTower     Lane = "tower"
	LaneVendors   Lane = "vendors"
	LaneGeneral   Lane = "general"
)

// laneOrder is the single source of truth for vertical stacking. The order
// is significant: boundaries are accumulated by walking it top to bottom,
// so reordering it moves every band in the diagram.
var laneOrder = []Lane{
	LaneFarm,
	LaneMining,
	LaneCombat,
	LaneTools,
	LaneAdventure,
	LaneTower,
	LaneVendors,
	LaneGeneral,
}

// LaneOrder returns the lanes in their fixed vertical stacking order,
// top to bottom. The returned slice is a copy.
func LaneOrder() []Lane {
	out := make([]Lane, len(laneOrder))
	copy(out, laneOrder)
	return out
}

// laneIndex returns the position of the lane in the stacking order, or the
// index of [LaneGeneral] if the lane is unknown. Used to fabricate
// emergency boundaries for lanes that somehow missed boundary calculation.
func laneIndex(l Lane) int {
	for i, known := range laneOrder {
		if known == l {
			return i
		}
	}
	return len(laneOrder) - 1
}

// KnownLane reports whether l is one of the fixed lanes.
func KnownLane(l Lane) bool {
	for _, known := range laneOrder {
		if known == l {
			return true
		}
	}
	return false
}
