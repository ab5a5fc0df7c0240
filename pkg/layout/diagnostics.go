package layout

import "fmt"

// Level classifies the severity of a diagnostic event.
type Level int

const (
	// LevelDebug marks bookkeeping detail (assignment reasoning, cache
	// resets) that is only interesting when tracing a build.
	LevelDebug Level = iota
	// LevelInfo marks normal but notable outcomes.
	LevelInfo
	// LevelWarn marks recovered data-quality problems (dangling
	// references, dropped edges, compressed lanes).
	LevelWarn
	// LevelCritical marks conditions that compromised layout quality
	// (emergency spacing, fabricated boundaries).
	LevelCritical
)

// String returns the lowercase level name.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelCritical:
		return "critical"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Code identifies the category of a diagnostic event. Codes are stable
// strings so tests and callers can assert on them.
type Code string

// Diagnostic event codes emitted by the engine.
const (
	CodeLaneAssigned    Code = "lane_assigned"
	CodeDanglingPrereq  Code = "dangling_prerequisite"
	CodeCyclicPrereq    Code = "cyclic_prerequisite"
	CodeOvercrowding    Code = "overcrowding"
	CodeRecovery        Code = "position_recovery"
	CodeEdgeDropped     Code = "edge_dropped"
	CodeMissingBoundary Code = "missing_boundary"
	CodeSlowBuild       Code = "slow_build"
)

// Event is one structured diagnostic entry. ItemID, Lane, and Tier are
// populated when the event concerns a specific item or lane+tier group and
// left zero otherwise.
type Event struct {
	Level   Level  `json:"level"`
	Code    Code   `json:"code"`
	Message string `json:"message"`
	ItemID  string `json:"item_id,omitempty"`
	Lane    Lane   `json:"lane,omitempty"`
	Tier    int    `json:"tier,omitempty"`
}

// Diagnostics collects typed events during one layout build.
//
// The collector decouples the algorithm from any logging destination:
// callers can print the events, assert on them in tests, or drop them.
// Diagnostics is not safe for concurrent use, which matches the engine's
// single-threaded build model.
type Diagnostics struct {
	events []Event
}

// NewDiagnostics creates an empty collector.
func NewDiagnostics() *Diagnostics { return &Diagnostics{} }

// Events returns all collected events in emission order.
func (d *Diagnostics) Events() []Event {
	out := make([]Event, len(d.events))
	copy(out, d.events)
	return out
}

// AtLevel returns the events at or above the given level, in order.
func (d *Diagnostics) AtLevel(min Level) []Event {
	var out []Event
	for _, e := range d.events {
		if e.Level >= min {
			out = append(out, e)
		}
	}
	return out
}

// WithCode returns the events carrying the given code, in order.
func (d *Diagnostics) WithCode(code Code) []Event {
	var out []Event
	for _, e := range d.events {
		if e.Code == code {
			out = append(out, e)
		}
	}
	return out
}

// Has reports whether at least one event carries the given code.
func (d *Diagnostics) Has(code Code) bool {
	for _, e := range d.events {
		if e.Code == code {
			return true
		}
	}
	return false
}

// Len returns the number of collected events.
func (d *Diagnostics) Len() int { return len(d.events) }

func (d *Diagnostics) record(e Event) { d.events = append(d.events, e) }

func (d *Diagnostics) debugf(code Code, itemID string, format string, args ...any) {
	d.record(Event{Level: LevelDebug, Code: code, ItemID: itemID, Message: fmt.Sprintf(format, args...)})
}

func (d *Diagnostics) warnf(code Code, itemID string, format string, args ...any) {
	d.record(Event{Level: LevelWarn, Code: code, ItemID: itemID, Message: fmt.Sprintf(format, args...)})
}

func (d *Diagnostics) criticalf(code Code, itemID string, format string, args ...any) {
	d.record(Event{Level: LevelCritical, Code: code, ItemID: itemID, Message: fmt.Sprintf(format, args...)})
}

func (d *Diagnostics) group(level Level, code Code, lane Lane, tier int, format string, args ...any) {
	d.record(Event{Level: level, Code: code, Lane: lane, Tier: tier, Message: fmt.Sprintf(format, args...)})
}
