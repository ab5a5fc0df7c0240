// Package report analyzes simulation runs for progression bottlenecks.
//
// A bottleneck is a stretch of ticks where the player could buy nothing
// and only waited for income. The analyzer ranks those waits by severity
// and renders the result as Markdown or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/sproutworks/furrow/pkg/balance"
	"github.com/sproutworks/furrow/pkg/layout"
	"github.com/sproutworks/furrow/pkg/sim"
)

// Severity grades how long a player waited before an unlock.
type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityModerate Severity = "moderate"
	SeverityMajor    Severity = "major"
)

// Wait thresholds in ticks. One tick is a simulated minute, so a major
// bottleneck means over two hours of idle play before the next unlock.
const (
	moderateWaitTicks = 30
	majorWaitTicks    = 120
)

// severityFor grades a wait of the given length.
func severityFor(wait int) Severity {
	switch {
	case wait > majorWaitTicks:
		return SeverityMajor
	case wait > moderateWaitTicks:
		return SeverityModerate
	default:
		return SeverityMinor
	}
}

// Bottleneck is one wait before an unlock.
type Bottleneck struct {
	ItemID string   `json:"item_id"`
	Lane   string   `json:"lane,omitempty"`
	Tick   int      `json:"tick"`
	Wait   int      `json:"wait_ticks"`
	Cost   float64  `json:"cost"`
	Grade  Severity `json:"severity"`
}

// LaneTiming summarizes when a progression lane opens up and finishes.
type LaneTiming struct {
	Lane       string `json:"lane"`
	FirstTick  int    `json:"first_unlock_tick"`
	LastTick   int    `json:"last_unlock_tick"`
	Unlocks    int    `json:"unlocks"`
	TotalItems int    `json:"total_items"`
}

// Report is the full analysis of one run.
type Report struct {
	RunID     string    `json:"run_id"`
	Persona   string    `json:"persona"`
	Ticks     int       `json:"ticks"`
	Completed bool      `json:"completed"`
	StartedAt time.Time `json:"started_at"`

	// Bottlenecks is sorted by wait length, longest first.
	Bottlenecks []Bottleneck `json:"bottlenecks"`
	// Lanes is ordered by first unlock tick.
	Lanes []LaneTiming `json:"lanes"`
}

// Worst returns the longest wait in the run, or false when nothing
// qualified above minor.
func (r Report) Worst() (Bottleneck, bool) {
	for _, b := range r.Bottlenecks {
		if b.Grade != SeverityMinor {
			return b, true
		}
	}
	return Bottleneck{}, false
}

// Analyze builds a report for the run. The collection supplies lane
// assignment for each unlocked item; items missing from it are reported
// without a lane.
func Analyze(run sim.Run, items *balance.Collection) Report {
	rep := Report{
		RunID:     run.ID,
		Persona:   run.Persona,
		Ticks:     run.Ticks,
		Completed: run.Completed,
		StartedAt: run.StartedAt,
	}

	lanes := make(map[string]*LaneTiming)

	prevTick := 0
	for _, u := range run.Unlocks {
		wait := u.Tick - prevTick
		prevTick = u.Tick

		var lane string
		if it, ok := items.Item(u.ItemID); ok {
			lane = string(layout.LaneFor(it))
		}

		rep.Bottlenecks = append(rep.Bottlenecks, Bottleneck{
			ItemID: u.ItemID,
			Lane:   lane,
			Tick:   u.Tick,
			Wait:   wait,
			Cost:   u.Cost,
			Grade:  severityFor(wait),
		})

		if lane == "" {
			continue
		}
		lt, ok := lanes[lane]
		if !ok {
			lt = &LaneTiming{Lane: lane, FirstTick: u.Tick}
			lanes[lane] = lt
		}
		lt.LastTick = u.Tick
		lt.Unlocks++
	}

	for _, it := range items.Items() {
		lane := string(layout.LaneFor(it))
		if lt, ok := lanes[lane]; ok {
			lt.TotalItems++
		}
	}

	sort.SliceStable(rep.Bottlenecks, func(i, j int) bool {
		return rep.Bottlenecks[i].Wait > rep.Bottlenecks[j].Wait
	})
	for _, lt := range lanes {
		rep.Lanes = append(rep.Lanes, *lt)
	}
	sort.Slice(rep.Lanes, func(i, j int) bool {
		if rep.Lanes[i].FirstTick != rep.Lanes[j].FirstTick {
			return rep.Lanes[i].FirstTick < rep.Lanes[j].FirstTick
		}
		return rep.Lanes[i].Lane < rep.Lanes[j].Lane
	})
	return rep
}

// WriteJSON writes the report as indented JSON.
func (r Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteMarkdown writes a human-readable summary.
func (r Report) WriteMarkdown(w io.Writer) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Progression report\n\n")
	fmt.Fprintf(&b, "- Run: `%s`\n", r.RunID)
	fmt.Fprintf(&b, "- Persona: %s\n", r.Persona)
	fmt.Fprintf(&b, "- Ticks: %d (%s simulated)\n", r.Ticks, formatTicks(r.Ticks))
	status := "incomplete"
	if r.Completed {
		status = "complete"
	}
	fmt.Fprintf(&b, "- Status: %s\n\n", status)

	if worst, ok := r.Worst(); ok {
		fmt.Fprintf(&b, "Worst bottleneck: **%s** waited %s (%s).\n\n",
			worst.ItemID, formatTicks(worst.Wait), worst.Grade)
	} else {
		fmt.Fprintf(&b, "No significant bottlenecks.\n\n")
	}

	fmt.Fprintf(&b, "## Bottlenecks\n\n")
	fmt.Fprintf(&b, "| Item | Lane | Unlock tick | Wait | Severity |\n")
	fmt.Fprintf(&b, "|------|------|-------------|------|----------|\n")
	for _, bn := range r.Bottlenecks {
		lane := bn.Lane
		if lane == "" {
			lane = "-"
		}
		fmt.Fprintf(&b, "| %s | %s | %d | %s | %s |\n",
			bn.ItemID, lane, bn.Tick, formatTicks(bn.Wait), bn.Grade)
	}

	fmt.Fprintf(&b, "\n## Lane timing\n\n")
	fmt.Fprintf(&b, "| Lane | First unlock | Last unlock | Unlocked |\n")
	fmt.Fprintf(&b, "|------|--------------|-------------|----------|\n")
	for _, lt := range r.Lanes {
		fmt.Fprintf(&b, "| %s | %d | %d | %d/%d |\n",
			lt.Lane, lt.FirstTick, lt.LastTick, lt.Unlocks, lt.TotalItems)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// formatTicks renders a tick count as a duration at one minute per tick.
func formatTicks(ticks int) string {
	d := time.Duration(ticks) * time.Minute
	if d < time.Hour {
		return fmt.Sprintf("%dm", ticks)
	}
	return d.Truncate(time.Minute).String()
}
