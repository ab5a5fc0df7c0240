// Package cache provides caching abstractions for the layout pipeline.
//
// Three artifact classes are cached, keyed by content hashes so a change in
// any input invalidates everything derived from it:
//
//   - Layouts: positioned nodes and edges, keyed by the item-set hash plus
//     the layout constants and category scope.
//   - Renders: SVG/DOT/PNG output, keyed by the layout hash plus format
//     and theme options.
//   - Simulations: playthrough runs, keyed by the item-set hash plus
//     persona and tick parameters.
//
// Backends: FileCache for CLI usage, RedisCache for the shared viewer
// service, NullCache to disable caching entirely.
package cache

import (
	"context"
	"time"
)

// Cache is the storage interface all backends implement.
//
// Get returns (data, true, nil) on a hit and (nil, false, nil) on a miss;
// errors are reserved for backend failures, never for absence.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default TTLs per artifact class. Layouts and renders are cheap to rebuild
// and derived purely from local files, so they expire quickly; simulation
// runs are expensive and content-addressed, so they live longer.
const (
	TTLLayout     = 24 * time.Hour
	TTLRender     = 24 * time.Hour
	TTLSimulation = 7 * 24 * time.Hour
)

// LayoutKeyOpts captures everything besides the item set that affects a
// layout result.
type LayoutKeyOpts struct {
	ConstantsHash string   // hash of the layout constants in effect
	Categories    []string // category scope filter, order-sensitive
}

// RenderKeyOpts captures the options that affect rendered output.
type RenderKeyOpts struct {
	Format string // svg, dot, png
	Theme  string // color theme name
}

// SimKeyOpts captures the parameters of a simulation run.
type SimKeyOpts struct {
	Persona string
	Ticks   int
	Seed    int64
}

// Keyer generates cache keys for the pipeline's artifact classes.
// Implementations must be deterministic: the same inputs always produce the
// same key.
type Keyer interface {
	LayoutKey(itemsHash string, opts LayoutKeyOpts) string
	RenderKey(layoutHash string, opts RenderKeyOpts) string
	SimKey(itemsHash string, opts SimKeyOpts) string
}

// DefaultKeyer is the standard key generation scheme.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// LayoutKey generates a key for layout caching.
func (k *DefaultKeyer) LayoutKey(itemsHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", itemsHash, opts)
}

// RenderKey generates a key for render artifact caching.
func (k *DefaultKeyer) RenderKey(layoutHash string, opts RenderKeyOpts) string {
	return hashKey("render", layoutHash, opts)
}

// SimKey generates a key for simulation run caching.
func (k *DefaultKeyer) SimKey(itemsHash string, opts SimKeyOpts) string {
	return hashKey("sim", itemsHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
