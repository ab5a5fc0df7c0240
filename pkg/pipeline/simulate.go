package pipeline

import (
	"context"
	"encoding/json"

	"github.com/sproutworks/furrow/pkg/balance"
	"github.com/sproutworks/furrow/pkg/cache"
	"github.com/sproutworks/furrow/pkg/sim"
)

// SimOptions configures a cached simulation run.
type SimOptions struct {
	Persona  sim.Persona
	MaxTicks int
	Seed     int64
	// Refresh bypasses the cache and replaces the stored run.
	Refresh bool
}

// Simulate runs one playthrough with caching. Runs are content-addressed
// by the item set, persona, tick budget, and seed; since the simulator is
// deterministic over those inputs, a cached run is indistinguishable from
// a fresh one apart from its timestamps.
func (r *Runner) Simulate(ctx context.Context, items *balance.Collection, opts SimOptions) (sim.Run, bool, error) {
	cacheKey := r.Keyer.SimKey(itemsHash(items), cache.SimKeyOpts{
		Persona: opts.Persona.Name,
		Ticks:   opts.MaxTicks,
		Seed:    opts.Seed,
	})

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached sim.Run
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached, true, nil
			}
		}
	}

	run, err := sim.Simulate(ctx, items.Items(), sim.Config{
		Persona:  opts.Persona,
		MaxTicks: opts.MaxTicks,
		Seed:     opts.Seed,
	})
	if err != nil {
		return run, false, err
	}

	if data, err := json.Marshal(run); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLSimulation)
	}
	return run, false, nil
}
