package layout

import (
	"strings"
	"testing"
)

// validResult builds a small clean layout for the validator to inspect.
func validResult(t *testing.T) (Result, Constants) {
	t.Helper()
	c := DefaultConstants()
	heights := map[Lane]float64{}
	for _, lane := range LaneOrder() {
		heights[lane] = c.MinLaneHeight
	}
	boundaries := laneBoundaries(heights, c)

	farm := boundaries[LaneFarm]
	mining := boundaries[LaneMining]
	return Result{
		Nodes: []Node{
			{ID: "wheat", Lane: LaneFarm, Tier: 0,
				Position: Position{X: c.tierX(0), Y: farm.CenterY}, WithinBounds: true},
			{ID: "flour", Lane: LaneFarm, Tier: 1,
				Position: Position{X: c.tierX(1), Y: farm.CenterY}, WithinBounds: true},
			{ID: "iron", Lane: LaneMining, Tier: 0,
				Position: Position{X: c.tierX(0), Y: mining.CenterY}, WithinBounds: true},
		},
		Edges: []Edge{
			{ID: "wheat->flour", Source: "wheat", Target: "flour"},
		},
		LaneHeights: heights,
		Boundaries:  boundaries,
		Diagnostics: NewDiagnostics(),
	}, c
}

func failedCheck(report Report, name string) (CheckResult, bool) {
	for _, chk := range report.Failed() {
		if chk.Name == name {
			return chk, true
		}
	}
	return CheckResult{}, false
}

func TestValidate_CleanResultPasses(t *testing.T) {
	res, c := validResult(t)
	report := Validate(res, c)
	if !report.Passed() {
		for _, chk := range report.Failed() {
			t.Errorf("%s: %v", chk.Name, chk.Issues)
		}
	}
}

func TestValidate_BoundaryViolation(t *testing.T) {
	res, c := validResult(t)
	res.Nodes[0].Position.Y = res.Boundaries[LaneFarm].StartY // well above buffered region

	report := Validate(res, c)
	chk, found := failedCheck(report, "boundary_compliance")
	if !found {
		t.Fatal("boundary violation not detected")
	}
	if !strings.Contains(chk.Issues[0], "wheat") {
		t.Errorf("issue does not name the offending node: %q", chk.Issues[0])
	}
}

func TestValidate_OutOfBoundsNodeUsesOuterEnvelope(t *testing.T) {
	res, c := validResult(t)
	b := res.Boundaries[LaneFarm]

	// A node flagged by emergency recovery may sit in the buffer zone,
	// but never outside the band itself.
	res.Nodes[0].WithinBounds = false
	res.Nodes[0].Position.Y = b.StartY + c.NodeHeight/2
	if report := Validate(res, c); !report.Passed() {
		t.Error("flagged node at band edge should pass the outer-envelope check")
	}

	res.Nodes[0].Position.Y = b.StartY - 1
	if report := Validate(res, c); report.Passed() {
		t.Error("node outside the band escaped the outer-envelope check")
	}
}

func TestValidate_TierMisalignment(t *testing.T) {
	res, c := validResult(t)
	res.Nodes[2].Position.X += 5 // iron drifts off the tier-0 column

	report := Validate(res, c)
	if _, found := failedCheck(report, "tier_alignment"); !found {
		t.Error("tier misalignment not detected")
	}
}

func TestValidate_SpacingViolation(t *testing.T) {
	res, c := validResult(t)
	// Overlap flour onto wheat's tier and position.
	res.Nodes[1].Tier = 0
	res.Nodes[1].Position = res.Nodes[0].Position
	res.Edges = nil

	report := Validate(res, c)
	if _, found := failedCheck(report, "minimum_spacing"); !found {
		t.Error("overlapping nodes not detected")
	}
}

func TestValidate_SpacingRelaxedForEmergencyGroups(t *testing.T) {
	res, c := validResult(t)
	res.Nodes[1].Tier = 0
	res.Nodes[1].Position = res.Nodes[0].Position
	res.Edges = nil
	res.Recoveries = []Recovery{{
		ItemID:   "flour",
		Lane:     LaneFarm,
		Tier:     0,
		Strategy: StrategyEmergency,
	}}

	report := Validate(res, c)
	if _, found := failedCheck(report, "minimum_spacing"); found {
		t.Error("spacing check not relaxed for emergency-recovered group")
	}
}

func TestValidate_LaneHeightInsufficient(t *testing.T) {
	res, c := validResult(t)
	res.LaneHeights[LaneFarm] = 10

	report := Validate(res, c)
	if _, found := failedCheck(report, "lane_height_sufficiency"); !found {
		t.Error("undersized lane height not detected")
	}
}

func TestValidate_BackwardsEdge(t *testing.T) {
	res, c := validResult(t)
	res.Edges = []Edge{{ID: "flour->wheat", Source: "flour", Target: "wheat"}}

	report := Validate(res, c)
	if _, found := failedCheck(report, "edge_geometry"); !found {
		t.Error("backwards edge not detected")
	}
}

func TestValidate_DanglingEdge(t *testing.T) {
	res, c := validResult(t)
	res.Edges = append(res.Edges, Edge{ID: "ghost->wheat", Source: "ghost", Target: "wheat"})

	report := Validate(res, c)
	if _, found := failedCheck(report, "edge_endpoints"); !found {
		t.Error("edge with unknown endpoint not detected")
	}
}

func TestValidate_LabelBandOverlap(t *testing.T) {
	res, c := validResult(t)
	res.Nodes[0].Position.X = c.LabelWidth / 2
	res.Edges = nil

	report := Validate(res, c)
	if _, found := failedCheck(report, "lane_containment"); !found {
		t.Error("label band overlap not detected")
	}
}
