package sim

import (
	"context"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/sproutworks/furrow/pkg/balance"
	"github.com/sproutworks/furrow/pkg/observability"
)

// TickSeconds is the simulated wall-clock length of one tick.
const TickSeconds = 60.0

// baseIncomePerTick bootstraps a run: without it a player owning no
// productive items could never afford the first unlock.
const baseIncomePerTick = 1.0

// Config parameterizes one simulation run.
type Config struct {
	Persona Persona
	// MaxTicks bounds the run; DefaultMaxTicks when zero.
	MaxTicks int
	// Seed drives the random strategy and tie-breaking. Runs with equal
	// items, persona, and seed are identical.
	Seed int64
}

// DefaultMaxTicks is thirty simulated days at one-minute ticks.
const DefaultMaxTicks = 30 * 24 * 60

// Unlock records one purchase during a run.
type Unlock struct {
	ItemID string  `json:"item_id" bson:"item_id"`
	Tick   int     `json:"tick" bson:"tick"`
	Cost   float64 `json:"cost" bson:"cost"`
}

// Run is the complete result of one simulation.
type Run struct {
	ID        string    `json:"id" bson:"_id"`
	Persona   string    `json:"persona" bson:"persona"`
	Seed      int64     `json:"seed" bson:"seed"`
	StartedAt time.Time `json:"started_at" bson:"started_at"`

	Unlocks []Unlock `json:"unlocks" bson:"unlocks"`
	// Ticks is the number of ticks actually simulated.
	Ticks int `json:"ticks" bson:"ticks"`
	// Completed reports whether every item was unlocked within MaxTicks.
	Completed bool `json:"completed" bson:"completed"`
	// Balance is the currency left when the run ended.
	Balance float64 `json:"balance" bson:"balance"`
}

// UnlockTick returns the tick at which the item was unlocked and true, or
// 0 and false when the run never reached it.
func (r Run) UnlockTick(itemID string) (int, bool) {
	for _, u := range r.Unlocks {
		if u.ItemID == itemID {
			return u.Tick, true
		}
	}
	return 0, false
}

// Simulate runs one playthrough over the given items.
//
// The context is checked between ticks; cancellation returns the partial
// run with Completed false. The input is never mutated.
func Simulate(ctx context.Context, items []balance.Item, cfg Config) (Run, error) {
	if err := cfg.Persona.Validate(); err != nil {
		return Run{}, err
	}
	maxTicks := cfg.MaxTicks
	if maxTicks <= 0 {
		maxTicks = DefaultMaxTicks
	}

	run := Run{
		ID:        uuid.NewString(),
		Persona:   cfg.Persona.Name,
		Seed:      cfg.Seed,
		StartedAt: time.Now().UTC(),
	}
	start := time.Now()
	observability.Simulation().OnRunStart(ctx, run.ID, run.Persona, len(items))

	state := newRunState(items, cfg)
	for tick := 1; tick <= maxTicks; tick++ {
		select {
		case <-ctx.Done():
			run.Ticks = tick - 1
			observability.Simulation().OnRunComplete(ctx, run.ID, run.Ticks, time.Since(start), ctx.Err())
			return run, ctx.Err()
		default:
		}

		state.earn()
		for {
			bought, ok := state.buy()
			if !ok {
				break
			}
			run.Unlocks = append(run.Unlocks, Unlock{ItemID: bought.ID, Tick: tick, Cost: bought.Cost})
		}

		run.Ticks = tick
		if state.done() {
			run.Completed = true
			break
		}
	}

	run.Balance = state.balance
	observability.Simulation().OnRunComplete(ctx, run.ID, run.Ticks, time.Since(start), nil)
	return run, nil
}

// runState is the mutable world of one simulation.
type runState struct {
	persona Persona
	rng     *rand.Rand

	// locked holds the not-yet-purchased items, sorted by id for
	// deterministic candidate order.
	locked  []balance.Item
	owned   map[string]balance.Item
	balance float64

	// incomePerTick grows as purchases bring production online.
	incomePerTick float64
}

func newRunState(items []balance.Item, cfg Config) *runState {
	s := &runState{
		persona: cfg.Persona,
		rng:     rand.New(rand.NewSource(cfg.Seed)),
		locked:  make([]balance.Item, len(items)),
		owned:   make(map[string]balance.Item, len(items)),
	}
	copy(s.locked, items)
	sort.Slice(s.locked, func(i, j int) bool { return s.locked[i].ID < s.locked[j].ID })
	s.incomePerTick = baseIncomePerTick
	return s
}

func (s *runState) done() bool { return len(s.locked) == 0 }

// earn banks one tick of income.
func (s *runState) earn() {
	s.balance += s.incomePerTick
}

// buy attempts one purchase and reports whether it happened.
func (s *runState) buy() (balance.Item, bool) {
	candidates := s.affordable()
	if len(candidates) == 0 {
		return balance.Item{}, false
	}

	var pick balance.Item
	switch s.persona.Strategy {
	case StrategyBestValue:
		pick = bestValue(candidates)
	case StrategyRandom:
		pick = candidates[s.rng.Intn(len(candidates))]
	default:
		pick = cheapest(candidates)
	}

	s.balance -= pick.Cost
	s.owned[pick.ID] = pick
	for i, it := range s.locked {
		if it.ID == pick.ID {
			s.locked = append(s.locked[:i], s.locked[i+1:]...)
			break
		}
	}
	// Income grows as production comes online, scaled by how much of it
	// the persona actually banks.
	s.incomePerTick += productionRate(pick) * s.persona.Efficiency
	return pick, true
}

// affordable returns the locked items whose prerequisites are owned and
// whose cost fits the current balance, in id order.
func (s *runState) affordable() []balance.Item {
	var out []balance.Item
	for _, it := range s.locked {
		if it.Cost > s.balance {
			continue
		}
		if !s.prereqsOwned(it) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// prereqsOwned reports whether every prerequisite of the item is unlocked.
// References to unknown items are ignored, matching the layout engine's
// tolerance for dangling data.
func (s *runState) prereqsOwned(it balance.Item) bool {
	for _, id := range it.Prerequisites {
		if _, ok := s.owned[id]; ok {
			continue
		}
		if s.isKnown(id) {
			return false
		}
	}
	return true
}

func (s *runState) isKnown(id string) bool {
	if _, ok := s.owned[id]; ok {
		return true
	}
	for _, it := range s.locked {
		if it.ID == id {
			return true
		}
	}
	return false
}

func cheapest(items []balance.Item) balance.Item {
	best := items[0]
	for _, it := range items[1:] {
		if it.Cost < best.Cost {
			best = it
		}
	}
	return best
}

// bestValue prefers the highest income per unit cost; free items win
// outright.
func bestValue(items []balance.Item) balance.Item {
	best := items[0]
	bestScore := valueScore(best)
	for _, it := range items[1:] {
		if score := valueScore(it); score > bestScore {
			best, bestScore = it, score
		}
	}
	return best
}

func valueScore(it balance.Item) float64 {
	rate := productionRate(it)
	if it.Cost <= 0 {
		if rate > 0 {
			return rate * 1e9
		}
		return 0
	}
	return rate / it.Cost
}

// productionRate is the item's income per tick once owned.
func productionRate(it balance.Item) float64 {
	if it.Value <= 0 || it.Seconds <= 0 {
		return 0
	}
	return it.Value / it.Seconds * TickSeconds
}
