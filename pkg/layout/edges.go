package layout

import "github.com/sproutworks/furrow/pkg/balance"

// Edge is one directed prerequisite arrow, drawn from the prerequisite to
// the item that requires it. Edges carry no weight; their emission order
// does not affect the produced graph's semantics.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// buildEdges emits a prerequisite edge for each item/prerequisite pair,
// but only where the geometry is valid: the prerequisite must sit strictly
// left of the dependent (tier(prereq) < tier(item)). Anything else - equal
// tiers from a broken cycle, a dangling reference, a tier irregularity -
// would draw a visually backwards arrow and is dropped with a diagnostic
// instead.
func buildEdges(items []balance.Item, tiers *tierIndex, diags *Diagnostics) []Edge {
	var edges []Edge
	for _, it := range items {
		itemTier := tiers.tier(it.ID)
		for _, prereq := range it.Prerequisites {
			if !tiers.contains(prereq) {
				// Already reported by tier calculation; no edge
				// to a node that does not exist.
				continue
			}
			if prereqTier := tiers.tier(prereq); prereqTier >= itemTier {
				diags.warnf(CodeEdgeDropped, it.ID,
					"edge %s -> %s dropped: prerequisite tier %d not left of item tier %d",
					prereq, it.ID, prereqTier, itemTier)
				continue
			}
			edges = append(edges, Edge{
				ID:     prereq + "->" + it.ID,
				Source: prereq,
				Target: it.ID,
			})
		}
	}
	return edges
}
