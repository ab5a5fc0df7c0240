// Package balance holds the game-balance data model consumed by the layout
// engine and the playthrough simulator.
//
// Items are immutable input rows: an item is identified by a stable string
// id, references other items through its prerequisite list, and carries the
// classification metadata (source file, type, categories) used for swim-lane
// assignment plus the numeric metadata (cost, value, duration) used by the
// simulator. Neither the layout engine nor the simulator ever mutates an
// item after loading.
package balance

import "slices"

// Item is a single unlockable entry from a balance sheet.
//
// The zero value is not usable - ID must be non-empty before adding to a
// Collection.
type Item struct {
	ID            string   // Unique identifier (stable across builds)
	Name          string   // Display name
	Type          string   // Entry type (crop, tool, recipe, upgrade, ...)
	Categories    []string // Free-form classification tags
	SourceFile    string   // Balance sheet the row was loaded from
	Prerequisites []string // IDs that must be unlocked first

	// Numeric metadata. Used by lane-assignment heuristics and the
	// simulator, never by positioning math.
	Cost    float64 // Purchase/unlock cost in base currency
	Value   float64 // Income or sale value per harvest
	Seconds float64 // Production or growth duration
}

// HasPrerequisites reports whether the item lists at least one prerequisite.
func (it Item) HasPrerequisites() bool { return len(it.Prerequisites) > 0 }

// HasCategory reports whether the item carries the given category tag.
func (it Item) HasCategory(tag string) bool { return slices.Contains(it.Categories, tag) }

// Clone returns a deep copy of the item. Slices are copied so the clone can
// be modified without affecting the original.
func (it Item) Clone() Item {
	out := it
	out.Categories = slices.Clone(it.Categories)
	out.Prerequisites = slices.Clone(it.Prerequisites)
	return out
}
