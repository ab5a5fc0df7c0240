package layout

import "github.com/sproutworks/furrow/pkg/balance"

// Boundary is the absolute vertical pixel band owned by one lane.
// Boundaries for all lanes partition a single vertical axis:
// boundary[i].EndY + LanePadding == boundary[i+1].StartY.
type Boundary struct {
	Lane    Lane    `json:"lane"`
	StartY  float64 `json:"start_y"`
	EndY    float64 `json:"end_y"`
	CenterY float64 `json:"center_y"`
	Height  float64 `json:"height"`

	// UsableHeight excludes the top and bottom lane buffers; it is the
	// space actually available for node placement.
	UsableHeight float64 `json:"usable_height"`
}

// contains reports whether a node centered at y with the given height fits
// inside the buffered (usable) region of the boundary.
func (b Boundary) contains(y, nodeHeight, buffer float64) bool {
	half := nodeHeight / 2
	return y >= b.StartY+buffer+half && y <= b.EndY-buffer-half
}

// laneHeights computes the pixel height each lane needs, keyed by lane.
//
// For every lane the estimator finds the tier with the maximum node count
// and sizes the lane for that single worst case - not the sum of all tiers,
// because tiers render in separate columns and only compete for vertical
// space within the same tier:
//
//	0 nodes:  MinLaneHeight
//	1 node:   NodeHeight + 2*LaneBuffer, floored at MinLaneHeight
//	N nodes:  N*NodeHeight + (N-1)*IdealPadding + 2*LaneBuffer, floored
//
// Every known lane gets an entry, including empty ones, so boundary
// calculation always produces the full stack.
func laneHeights(items []balance.Item, assign *assigner, tiers *tierIndex, c Constants) map[Lane]float64 {
	// lane -> tier -> node count
	population := make(map[Lane]map[int]int, len(laneOrder))
	for _, it := range items {
		lane := assign.lane(it)
		if population[lane] == nil {
			population[lane] = make(map[int]int)
		}
		population[lane][tiers.tier(it.ID)]++
	}

	heights := make(map[Lane]float64, len(laneOrder))
	for _, lane := range laneOrder {
		worst := 0
		for _, count := range population[lane] {
			if count > worst {
				worst = count
			}
		}
		heights[lane] = laneHeightFor(worst, c)
	}
	return heights
}

// laneHeightFor returns the required height for a lane whose most crowded
// tier holds n nodes.
func laneHeightFor(n int, c Constants) float64 {
	if n == 0 {
		return c.MinLaneHeight
	}
	h := float64(n)*c.NodeHeight + float64(n-1)*c.IdealPadding + 2*c.LaneBuffer
	if h < c.MinLaneHeight {
		return c.MinLaneHeight
	}
	return h
}

// laneBoundaries converts lane heights into absolute, non-overlapping
// vertical bands by walking the lanes in fixed stacking order and
// accumulating y. The first lane starts one LanePadding unit from the top.
// Deterministic and order-dependent: changing the lane order changes every
// boundary.
func laneBoundaries(heights map[Lane]float64, c Constants) map[Lane]Boundary {
	boundaries := make(map[Lane]Boundary, len(laneOrder))
	y := c.LanePadding
	for _, lane := range laneOrder {
		h := heights[lane]
		boundaries[lane] = boundaryAt(lane, y, h, c)
		y += h + c.LanePadding
	}
	return boundaries
}

// boundaryAt builds the boundary for a lane starting at the given y.
func boundaryAt(lane Lane, startY, height float64, c Constants) Boundary {
	usable := height - 2*c.LaneBuffer
	if usable < 0 {
		usable = 0
	}
	return Boundary{
		Lane:         lane,
		StartY:       startY,
		EndY:         startY + height,
		CenterY:      startY + height/2,
		Height:       height,
		UsableHeight: usable,
	}
}

// emergencyBoundary fabricates a boundary for a lane that somehow has none.
// The band is derived from the lane's stacking index so a position can
// still be produced instead of failing the build. This state is never
// expected; the caller logs it as critical.
func emergencyBoundary(lane Lane, c Constants) Boundary {
	slot := float64(laneIndex(lane))
	startY := c.LanePadding + slot*(c.MinLaneHeight+c.LanePadding)
	return boundaryAt(lane, startY, c.MinLaneHeight, c)
}
