package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/sproutworks/furrow/pkg/balance"
	"github.com/sproutworks/furrow/pkg/sim"
)

func testCollection(t *testing.T) *balance.Collection {
	t.Helper()
	col := balance.NewCollection()
	items := []balance.Item{
		{ID: "wheat", Name: "Wheat", Type: "crop", SourceFile: "crops.csv"},
		{ID: "flour", Name: "Flour", Type: "crop", SourceFile: "crops.csv"},
		{ID: "pickaxe", Name: "Iron Pickaxe", Type: "tool", SourceFile: "tools.csv"},
	}
	for _, it := range items {
		if err := col.Add(it); err != nil {
			t.Fatal(err)
		}
	}
	return col
}

func testRun() sim.Run {
	return sim.Run{
		ID:        "run-1",
		Persona:   "casual",
		Ticks:     200,
		Completed: true,
		StartedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Unlocks: []sim.Unlock{
			{ItemID: "wheat", Tick: 5, Cost: 5},
			{ItemID: "pickaxe", Tick: 45, Cost: 20},
			{ItemID: "flour", Tick: 190, Cost: 80},
		},
	}
}

func TestAnalyze_Severity(t *testing.T) {
	rep := Analyze(testRun(), testCollection(t))

	if len(rep.Bottlenecks) != 3 {
		t.Fatalf("got %d bottlenecks, want 3", len(rep.Bottlenecks))
	}

	// Sorted by wait, longest first: flour waited 145, pickaxe 40, wheat 5.
	got := rep.Bottlenecks
	if got[0].ItemID != "flour" || got[0].Wait != 145 || got[0].Grade != SeverityMajor {
		t.Errorf("worst = %+v, want flour wait 145 major", got[0])
	}
	if got[1].ItemID != "pickaxe" || got[1].Wait != 40 || got[1].Grade != SeverityModerate {
		t.Errorf("second = %+v, want pickaxe wait 40 moderate", got[1])
	}
	if got[2].ItemID != "wheat" || got[2].Grade != SeverityMinor {
		t.Errorf("third = %+v, want wheat minor", got[2])
	}
}

func TestAnalyze_Lanes(t *testing.T) {
	rep := Analyze(testRun(), testCollection(t))

	if len(rep.Lanes) != 2 {
		t.Fatalf("got %d lanes, want 2 (farm, mining): %+v", len(rep.Lanes), rep.Lanes)
	}
	// Ordered by first unlock: farm (wheat at 5) before mining (pickaxe
	// at 45, assigned by keyword since tools.csv is no known sheet).
	farm, mining := rep.Lanes[0], rep.Lanes[1]
	if farm.Lane != "farm" || farm.FirstTick != 5 || farm.LastTick != 190 || farm.Unlocks != 2 {
		t.Errorf("farm timing = %+v", farm)
	}
	if farm.TotalItems != 2 {
		t.Errorf("farm TotalItems = %d, want 2", farm.TotalItems)
	}
	if mining.Lane != "mining" || mining.FirstTick != 45 || mining.Unlocks != 1 {
		t.Errorf("mining timing = %+v", mining)
	}
}

func TestAnalyze_UnknownItem(t *testing.T) {
	run := testRun()
	run.Unlocks = append(run.Unlocks, sim.Unlock{ItemID: "ghost", Tick: 195})

	rep := Analyze(run, testCollection(t))
	for _, b := range rep.Bottlenecks {
		if b.ItemID == "ghost" {
			if b.Lane != "" {
				t.Errorf("unknown item assigned lane %q", b.Lane)
			}
			return
		}
	}
	t.Error("unknown item missing from report")
}

func TestReport_Worst(t *testing.T) {
	rep := Analyze(testRun(), testCollection(t))
	worst, ok := rep.Worst()
	if !ok || worst.ItemID != "flour" {
		t.Errorf("Worst() = %+v, %v; want flour", worst, ok)
	}

	quick := sim.Run{Unlocks: []sim.Unlock{{ItemID: "wheat", Tick: 3}}}
	rep = Analyze(quick, testCollection(t))
	if _, ok := rep.Worst(); ok {
		t.Error("minor-only run reported a worst bottleneck")
	}
}

func TestWriteMarkdown(t *testing.T) {
	rep := Analyze(testRun(), testCollection(t))

	var buf bytes.Buffer
	if err := rep.WriteMarkdown(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	for _, want := range []string{
		"# Progression report",
		"Persona: casual",
		"Worst bottleneck: **flour**",
		"| flour | farm | 190 |",
		"| pickaxe | mining | 45 |",
		"| farm | 5 | 190 | 2/2 |",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q\n%s", want, out)
		}
	}
}

func TestWriteJSON(t *testing.T) {
	rep := Analyze(testRun(), testCollection(t))

	var buf bytes.Buffer
	if err := rep.WriteJSON(&buf); err != nil {
		t.Fatal(err)
	}

	var round Report
	if err := json.Unmarshal(buf.Bytes(), &round); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if round.RunID != "run-1" || len(round.Bottlenecks) != 3 {
		t.Errorf("round trip lost data: %+v", round)
	}
}

func TestFormatTicks(t *testing.T) {
	tests := []struct {
		ticks int
		want  string
	}{
		{5, "5m"},
		{59, "59m"},
		{60, "1h0m0s"},
		{145, "2h25m0s"},
	}
	for _, tt := range tests {
		if got := formatTicks(tt.ticks); got != tt.want {
			t.Errorf("formatTicks(%d) = %q, want %q", tt.ticks, got, tt.want)
		}
	}
}
