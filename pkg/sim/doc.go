// Package sim simulates playthroughs of the progression economy.
//
// The simulator advances time in fixed ticks. Each tick the simulated
// player earns income from every unlocked item that produces value, then
// tries to buy the next unlock its persona prefers among the items whose
// prerequisites are already owned. The run ends when everything is
// unlocked or the tick budget is exhausted.
//
// Personas model player archetypes: how efficiently they bank theoretical
// income and how they choose between affordable unlocks. Personas are
// defined in YAML files so designers can tune archetypes without a rebuild.
//
// Runs are deterministic: the same items, persona, and seed produce the
// same unlock sequence. Each run carries a UUID so archived results can be
// referenced individually.
package sim
