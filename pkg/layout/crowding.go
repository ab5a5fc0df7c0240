package layout

import (
	"fmt"
	"math"
)

// Severity classifies how badly a lane+tier group exceeds its available
// space.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityMild
	SeverityModerate
	SeveritySevere
	SeverityCritical
)

// String returns the lowercase severity name.
func (s Severity) String() string {
	switch s {
	case SeverityNone:
		return "none"
	case SeverityMild:
		return "mild"
	case SeverityModerate:
		return "moderate"
	case SeveritySevere:
		return "severe"
	case SeverityCritical:
		return "critical"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// Strategy is the closed set of placement strategies for a lane+tier group.
// The variant is chosen by [strategyFor] from the analysis alone and applied
// by [placeGroup]; keeping choice and application as separate pure functions
// makes each strategy unit-testable against synthetic crowding scenarios.
type Strategy int

const (
	// StrategyNone distributes nodes evenly at ideal padding or wider.
	StrategyNone Strategy = iota
	// StrategyCompress shrinks inter-node spacing, never below MinSpacing.
	StrategyCompress
	// StrategyRedistribute retries compression at a more aggressive
	// target. Conceptually nodes would move to adjacent lanes; the
	// engine degrades to tighter compression instead.
	StrategyRedistribute
	// StrategyEmergency places nodes back-to-back at MinSpacing,
	// accepting that some may leave the buffered bounds.
	StrategyEmergency
)

// String returns the lowercase strategy name.
func (s Strategy) String() string {
	switch s {
	case StrategyNone:
		return "none"
	case StrategyCompress:
		return "compress"
	case StrategyRedistribute:
		return "redistribute"
	case StrategyEmergency:
		return "emergency"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// Analysis describes the space situation of one lane+tier group. Transient:
// computed per group during a build and recorded on diagnostics only when
// the group is overcrowded.
type Analysis struct {
	Lane           Lane     `json:"lane"`
	Tier           int      `json:"tier"`
	NodeCount      int      `json:"node_count"`
	RequiredSpace  float64  `json:"required_space"`
	AvailableSpace float64  `json:"available_space"`
	Ratio          float64  `json:"ratio"`
	Severity       Severity `json:"severity"`
	Strategy       Strategy `json:"strategy"` // recommended action
}

// analyzeGroup measures a lane+tier group of n nodes against the lane's
// usable height. Required space is n*NodeHeight + (n-1)*IdealPadding; the
// ratio of required to available drives severity and strategy. An empty or
// single-node group is never overcrowded unless the lane itself is smaller
// than one node.
func analyzeGroup(lane Lane, tier, n int, b Boundary, c Constants) Analysis {
	a := Analysis{
		Lane:           lane,
		Tier:           tier,
		NodeCount:      n,
		AvailableSpace: b.UsableHeight,
	}
	if n > 0 {
		a.RequiredSpace = float64(n)*c.NodeHeight + float64(n-1)*c.IdealPadding
	}

	switch {
	case a.RequiredSpace == 0:
		a.Ratio = 0
	case a.AvailableSpace <= 0:
		a.Ratio = math.Inf(1)
	default:
		a.Ratio = a.RequiredSpace / a.AvailableSpace
	}

	a.Severity = severityFor(a.Ratio)
	a.Strategy = strategyFor(a)
	return a
}

// severityFor grades a required/available ratio.
func severityFor(ratio float64) Severity {
	switch {
	case ratio <= 1.0:
		return SeverityNone
	case ratio <= 1.25:
		return SeverityMild
	case ratio <= 1.5:
		return SeverityModerate
	case ratio <= 2.0:
		return SeveritySevere
	default:
		return SeverityCritical
	}
}

// strategyFor selects the placement strategy for an analyzed group. Pure:
// the decision depends only on the ratio bands.
//
//	ratio <= 1.0        none
//	1.0 < ratio <= 1.5  compress
//	1.5 < ratio <= 2.0  redistribute
//	ratio > 2.0         emergency
func strategyFor(a Analysis) Strategy {
	switch {
	case a.Ratio <= 1.0:
		return StrategyNone
	case a.Ratio <= 1.5:
		return StrategyCompress
	case a.Ratio <= 2.0:
		return StrategyRedistribute
	default:
		return StrategyEmergency
	}
}

// redistributeAggression tightens the spacing ceiling when redistribution
// degrades to compression.
const redistributeAggression = 0.5

// placement is the outcome of applying a strategy to a lane+tier group.
type placement struct {
	// ys holds the node center Y coordinates, one per node, in group
	// order (top to bottom).
	ys []float64
	// within flags, per node, whether the final Y respects the lane's
	// buffered bounds. Only emergency placement produces false entries.
	within []bool
	// applied is the strategy that actually produced the positions.
	// Compression escalates to StrategyEmergency when even MinSpacing
	// cannot fit the group.
	applied Strategy
}

// placeGroup applies a strategy to a group of n nodes inside boundary b.
// Pure: same inputs produce the same placement. The returned Ys are sorted
// top to bottom; the caller maps them onto nodes in deterministic id order.
func placeGroup(strategy Strategy, n int, b Boundary, c Constants) placement {
	if n == 0 {
		return placement{applied: strategy}
	}

	switch strategy {
	case StrategyNone:
		return spacedPlacement(n, b, c, evenGap(n, b, c), StrategyNone)

	case StrategyCompress:
		gap := compressGap(n, b, c, c.IdealPadding)
		if !fits(n, gap, b, c) {
			return emergencyPlacement(n, b, c)
		}
		return spacedPlacement(n, b, c, gap, StrategyCompress)

	case StrategyRedistribute:
		ceiling := c.IdealPadding * redistributeAggression
		if ceiling < c.MinSpacing {
			ceiling = c.MinSpacing
		}
		gap := compressGap(n, b, c, ceiling)
		if !fits(n, gap, b, c) {
			return emergencyPlacement(n, b, c)
		}
		return spacedPlacement(n, b, c, gap, StrategyRedistribute)

	default:
		return emergencyPlacement(n, b, c)
	}
}

// evenGap is the spacing for an uncrowded group: at least IdealPadding,
// wider when the lane has room to spare.
func evenGap(n int, b Boundary, c Constants) float64 {
	if n <= 1 {
		return c.IdealPadding
	}
	gap := (b.UsableHeight - float64(n)*c.NodeHeight) / float64(n-1)
	if gap < c.IdealPadding {
		return c.IdealPadding
	}
	return gap
}

// compressGap is the spacing that exactly fills the usable height, clamped
// into [MinSpacing, ceiling].
func compressGap(n int, b Boundary, c Constants, ceiling float64) float64 {
	if n <= 1 {
		return c.IdealPadding
	}
	gap := (b.UsableHeight - float64(n)*c.NodeHeight) / float64(n-1)
	if gap < c.MinSpacing {
		return c.MinSpacing
	}
	if gap > ceiling {
		return ceiling
	}
	return gap
}

// fits reports whether n nodes at the given gap fit the usable height.
func fits(n int, gap float64, b Boundary, c Constants) bool {
	return blockHeight(n, gap, c) <= b.UsableHeight+epsilon
}

// blockHeight is the total vertical extent of n nodes at the given gap.
func blockHeight(n int, gap float64, c Constants) float64 {
	if n <= 0 {
		return 0
	}
	return float64(n)*c.NodeHeight + float64(n-1)*gap
}

// spacedPlacement centers a block of n nodes at the given gap on the lane
// center. A single node lands exactly on CenterY. All positions respect the
// buffered bounds by construction (callers only use it with fitting gaps).
func spacedPlacement(n int, b Boundary, c Constants, gap float64, applied Strategy) placement {
	p := placement{
		ys:      make([]float64, n),
		within:  make([]bool, n),
		applied: applied,
	}
	top := b.CenterY - blockHeight(n, gap, c)/2 + c.NodeHeight/2
	step := c.NodeHeight + gap
	for i := 0; i < n; i++ {
		p.ys[i] = top + float64(i)*step
		p.within[i] = true
	}
	return p
}

// emergencyPlacement is the last resort: nodes back-to-back at MinSpacing,
// centered on the lane, then clamped into the lane's outer envelope.
// Clamped nodes are flagged out-of-bounds; when the envelope itself is too
// small the clamp may squeeze spacing below MinSpacing, which the caller
// must surface as a critical diagnostic.
func emergencyPlacement(n int, b Boundary, c Constants) placement {
	p := placement{
		ys:      make([]float64, n),
		within:  make([]bool, n),
		applied: StrategyEmergency,
	}
	top := b.CenterY - blockHeight(n, c.MinSpacing, c)/2 + c.NodeHeight/2
	step := c.NodeHeight + c.MinSpacing

	half := c.NodeHeight / 2
	outerMin := b.StartY + half
	outerMax := b.EndY - half
	for i := 0; i < n; i++ {
		y := top + float64(i)*step
		p.within[i] = b.contains(y, c.NodeHeight, c.LaneBuffer)
		if y < outerMin {
			y = outerMin
		} else if y > outerMax {
			y = outerMax
		}
		p.ys[i] = y
	}
	return p
}

// epsilon absorbs float rounding in fit comparisons.
const epsilon = 1e-9
