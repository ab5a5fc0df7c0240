package layout

import (
	"strings"

	"github.com/sproutworks/furrow/pkg/balance"
)

// sourceLanes maps known balance sheet files to their feature lane.
// Checked after the vendor file convention and before keyword matching.
var sourceLanes = map[string]Lane{
	"crops.csv":       LaneFarm,
	"animals.csv":     LaneFarm,
	"fields.csv":      LaneFarm,
	"ores.csv":        LaneMining,
	"caverns.csv":     LaneMining,
	"monsters.csv":    LaneCombat,
	"weapons.csv":     LaneCombat,
	"equipment.csv":   LaneTools,
	"workshop.csv":    LaneTools,
	"expeditions.csv": LaneAdventure,
	"quests.csv":      LaneAdventure,
	"tower.csv":       LaneTower,
	"floors.csv":      LaneTower,
}

// vendorFilePrefix is the file-naming convention for vendor stock sheets
// (vendor_blacksmith.csv, vendor_herbalist.csv, ...). Anything loaded from
// such a file lands in the vendors lane regardless of content.
const vendorFilePrefix = "vendor_"

// laneRule is one entry of the ordered keyword table. The first rule whose
// pattern appears in the item's name, type, or category strings wins, so
// more specific vocabularies must come before generic ones.
type laneRule struct {
	pattern string
	lane    Lane
}

// laneRules is the keyword fallback, tried in order after the source-file
// lookups. The table is data, not control flow, so tests can cover it rule
// by rule and new vocabularies slot in without touching the resolver.
var laneRules = []laneRule{
	// Farm vocabulary
	{"crop", LaneFarm},
	{"seed", LaneFarm},
	{"harvest", LaneFarm},
	{"plant", LaneFarm},
	{"animal", LaneFarm},
	{"barn", LaneFarm},
	{"field", LaneFarm},

	// Mining vocabulary
	{"ore", LaneMining},
	{"mine", LaneMining},
	{"pickaxe", LaneMining},
	{"gem", LaneMining},
	{"cavern", LaneMining},

	// Combat vocabulary
	{"weapon", LaneCombat},
	{"sword", LaneCombat},
	{"armor", LaneCombat},
	{"monster", LaneCombat},
	{"battle", LaneCombat},
	{"combat", LaneCombat},

	// Tool vocabulary
	{"tool", LaneTools},
	{"workshop", LaneTools},
	{"upgrade", LaneTools},
	{"machine", LaneTools},

	// Adventure vocabulary
	{"adventure", LaneAdventure},
	{"quest", LaneAdventure},
	{"expedition", LaneAdventure},
	{"explore", LaneAdventure},
	{"map", LaneAdventure},

	// Tower vocabulary
	{"tower", LaneTower},
	{"floor", LaneTower},
	{"ascend", LaneTower},

	// Vendor vocabulary
	{"vendor", LaneVendors},
	{"shop", LaneVendors},
	{"merchant", LaneVendors},
	{"trade", LaneVendors},
}

// assigner resolves the lane for each item and memoizes the result for the
// duration of one build. Assignment is invariant within a build and the
// keyword fallback is string matching over every rule, so the memo turns a
// repeated O(rules) scan into a map hit.
type assigner struct {
	memo  map[string]Lane
	diags *Diagnostics
}

func newAssigner(diags *Diagnostics) *assigner {
	return &assigner{memo: make(map[string]Lane), diags: diags}
}

// lane resolves the swim lane for the item. Resolution order:
//
//  1. Vendor file-naming convention (vendor_*.csv)
//  2. Source-file feature table
//  3. Ordered keyword rules over name, type, and categories
//  4. The general catch-all
//
// The winning rule is recorded once per item as a debug diagnostic.
func (a *assigner) lane(it balance.Item) Lane {
	if lane, ok := a.memo[it.ID]; ok {
		return lane
	}

	lane, reason := a.classify(it)
	a.memo[it.ID] = lane
	a.diags.debugf(CodeLaneAssigned, it.ID, "lane %s (%s)", lane, reason)
	return lane
}

func (a *assigner) classify(it balance.Item) (Lane, string) {
	source := strings.ToLower(it.SourceFile)

	if strings.HasPrefix(source, vendorFilePrefix) {
		return LaneVendors, "vendor file convention"
	}
	if lane, ok := sourceLanes[source]; ok {
		return lane, "source file " + source
	}

	haystack := assignmentText(it)
	for _, rule := range laneRules {
		if strings.Contains(haystack, rule.pattern) {
			return rule.lane, "keyword " + rule.pattern
		}
	}

	return LaneGeneral, "catch-all"
}

// LaneFor resolves the swim lane for a single item outside of a build,
// using the same resolution order as the layout engine. Callers doing
// repeated lookups during a build go through the memoizing assigner
// instead.
func LaneFor(it balance.Item) Lane {
	a := assigner{}
	lane, _ := a.classify(it)
	return lane
}

// assignmentText builds the lowercase search text for keyword matching.
func assignmentText(it balance.Item) string {
	parts := make([]string, 0, 2+len(it.Categories))
	parts = append(parts, it.Name, it.Type)
	parts = append(parts, it.Categories...)
	return strings.ToLower(strings.Join(parts, " "))
}
