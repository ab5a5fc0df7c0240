package layout

import (
	"math"
	"testing"
)

func TestSeverityFor(t *testing.T) {
	tests := []struct {
		ratio float64
		want  Severity
	}{
		{0, SeverityNone},
		{1.0, SeverityNone},
		{1.1, SeverityMild},
		{1.25, SeverityMild},
		{1.3, SeverityModerate},
		{1.5, SeverityModerate},
		{1.7, SeveritySevere},
		{2.0, SeveritySevere},
		{2.01, SeverityCritical},
		{math.Inf(1), SeverityCritical},
	}
	for _, tt := range tests {
		if got := severityFor(tt.ratio); got != tt.want {
			t.Errorf("severityFor(%v) = %s, want %s", tt.ratio, got, tt.want)
		}
	}
}

func TestStrategyFor(t *testing.T) {
	tests := []struct {
		ratio float64
		want  Strategy
	}{
		{0.5, StrategyNone},
		{1.0, StrategyNone},
		{1.2, StrategyCompress},
		{1.5, StrategyCompress},
		{1.8, StrategyRedistribute},
		{2.0, StrategyRedistribute},
		{3.0, StrategyEmergency},
		{math.Inf(1), StrategyEmergency},
	}
	for _, tt := range tests {
		if got := strategyFor(Analysis{Ratio: tt.ratio}); got != tt.want {
			t.Errorf("strategyFor(ratio=%v) = %s, want %s", tt.ratio, got, tt.want)
		}
	}
}

func TestAnalyzeGroup(t *testing.T) {
	c := DefaultConstants()

	t.Run("exact fit", func(t *testing.T) {
		// 10 nodes need 10*40 + 9*20 = 580; a 620-high lane offers
		// exactly 580 usable.
		b := boundaryAt(LaneFarm, 0, 620, c)
		a := analyzeGroup(LaneFarm, 0, 10, b, c)
		if a.Ratio != 1.0 {
			t.Errorf("Ratio = %v, want 1.0", a.Ratio)
		}
		if a.Severity != SeverityNone || a.Strategy != StrategyNone {
			t.Errorf("got %s/%s, want none/none", a.Severity, a.Strategy)
		}
	})

	t.Run("empty group", func(t *testing.T) {
		b := boundaryAt(LaneFarm, 0, 200, c)
		a := analyzeGroup(LaneFarm, 0, 0, b, c)
		if a.Ratio != 0 || a.Severity != SeverityNone {
			t.Errorf("empty group: ratio %v severity %s, want 0/none", a.Ratio, a.Severity)
		}
	})

	t.Run("no usable space", func(t *testing.T) {
		b := Boundary{Lane: LaneFarm, UsableHeight: 0}
		a := analyzeGroup(LaneFarm, 0, 2, b, c)
		if !math.IsInf(a.Ratio, 1) {
			t.Errorf("Ratio = %v, want +Inf", a.Ratio)
		}
		if a.Strategy != StrategyEmergency {
			t.Errorf("Strategy = %s, want emergency", a.Strategy)
		}
	})
}

func TestPlaceGroup_SingleNodeCentered(t *testing.T) {
	c := DefaultConstants()
	b := boundaryAt(LaneFarm, 100, 200, c)

	p := placeGroup(StrategyNone, 1, b, c)
	if len(p.ys) != 1 {
		t.Fatalf("got %d positions, want 1", len(p.ys))
	}
	if got, want := p.ys[0], b.CenterY; got != want {
		t.Errorf("single node y = %v, want lane center %v", got, want)
	}
	if !p.within[0] {
		t.Error("single node flagged out of bounds")
	}
}

func TestPlaceGroup_EvenExpandsToFill(t *testing.T) {
	c := DefaultConstants()
	// 2 nodes in a roomy lane: usable 260, gap = (260-80)/1 = 180.
	b := boundaryAt(LaneFarm, 0, 300, c)

	p := placeGroup(StrategyNone, 2, b, c)
	if got := p.ys[1] - p.ys[0]; got != c.NodeHeight+180 {
		t.Errorf("step = %v, want %v", got, c.NodeHeight+180)
	}
	mid := (p.ys[0] + p.ys[1]) / 2
	if mid != b.CenterY {
		t.Errorf("block center = %v, want %v", mid, b.CenterY)
	}
}

func TestPlaceGroup_CompressShrinksGap(t *testing.T) {
	c := DefaultConstants()
	// 5 nodes need 5*40 + 4*20 = 280 at ideal; give them usable 240,
	// so gap = (240-200)/4 = 10.
	b := boundaryAt(LaneFarm, 0, 280, c)

	p := placeGroup(StrategyCompress, 5, b, c)
	if p.applied != StrategyCompress {
		t.Fatalf("applied = %s, want compress", p.applied)
	}
	for i := 1; i < len(p.ys); i++ {
		gap := p.ys[i] - p.ys[i-1] - c.NodeHeight
		if math.Abs(gap-10) > spacingTolerance {
			t.Errorf("gap %d = %v, want 10", i, gap)
		}
		if gap < c.MinSpacing-spacingTolerance {
			t.Errorf("gap %d = %v below MinSpacing", i, gap)
		}
	}
	for i, ok := range p.within {
		if !ok {
			t.Errorf("node %d flagged out of bounds under compression", i)
		}
	}
}

func TestPlaceGroup_RedistributeTighterThanCompress(t *testing.T) {
	c := DefaultConstants()
	// Plenty of room so both strategies hit their ceilings: compress at
	// IdealPadding, redistribute at IdealPadding/2.
	b := boundaryAt(LaneFarm, 0, 500, c)

	pc := placeGroup(StrategyCompress, 3, b, c)
	pr := placeGroup(StrategyRedistribute, 3, b, c)

	gapC := pc.ys[1] - pc.ys[0] - c.NodeHeight
	gapR := pr.ys[1] - pr.ys[0] - c.NodeHeight
	if gapC != c.IdealPadding {
		t.Errorf("compress gap = %v, want %v", gapC, c.IdealPadding)
	}
	if gapR != c.IdealPadding*redistributeAggression {
		t.Errorf("redistribute gap = %v, want %v", gapR, c.IdealPadding*redistributeAggression)
	}
	if pr.applied != StrategyRedistribute {
		t.Errorf("applied = %s, want redistribute", pr.applied)
	}
}

func TestPlaceGroup_CompressEscalatesToEmergency(t *testing.T) {
	c := DefaultConstants()
	// 5 nodes at MinSpacing need 5*40 + 4*4 = 216; usable is only 160.
	b := boundaryAt(LaneFarm, 0, 200, c)

	p := placeGroup(StrategyCompress, 5, b, c)
	if p.applied != StrategyEmergency {
		t.Errorf("applied = %s, want emergency escalation", p.applied)
	}
}

func TestPlaceGroup_EmergencyClampsToEnvelope(t *testing.T) {
	c := DefaultConstants()
	// Band [0, 200]: outer envelope for node centers is [20, 180].
	// 6 nodes at MinSpacing span 6*40 + 5*4 = 260, overflowing the band.
	b := boundaryAt(LaneFarm, 0, 200, c)

	p := placeGroup(StrategyEmergency, 6, b, c)
	if p.applied != StrategyEmergency {
		t.Fatalf("applied = %s, want emergency", p.applied)
	}

	half := c.NodeHeight / 2
	outOfBounds := 0
	for i, y := range p.ys {
		if y < b.StartY+half || y > b.EndY-half {
			t.Errorf("node %d at y=%v escapes the outer envelope [%v, %v]",
				i, y, b.StartY+half, b.EndY-half)
		}
		if !p.within[i] {
			outOfBounds++
		}
	}
	if outOfBounds == 0 {
		t.Error("expected some nodes flagged out of the buffered bounds")
	}
}

func TestPlaceGroup_EmptyGroup(t *testing.T) {
	p := placeGroup(StrategyNone, 0, Boundary{}, DefaultConstants())
	if len(p.ys) != 0 || len(p.within) != 0 {
		t.Errorf("empty group produced %d positions", len(p.ys))
	}
}

func TestSeverityAndStrategyStrings(t *testing.T) {
	if got := SeverityModerate.String(); got != "moderate" {
		t.Errorf("Severity string = %q, want %q", got, "moderate")
	}
	if got := StrategyRedistribute.String(); got != "redistribute" {
		t.Errorf("Strategy string = %q, want %q", got, "redistribute")
	}
}
