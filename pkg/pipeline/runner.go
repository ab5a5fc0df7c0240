package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sproutworks/furrow/pkg/balance"
	"github.com/sproutworks/furrow/pkg/cache"
	"github.com/sproutworks/furrow/pkg/layout"
	"github.com/sproutworks/furrow/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger; it doesn't
// store pipeline results. Multiple goroutines can safely share one Runner
// with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	items, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Items = items
	result.ItemsHash = itemsHash(items)
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.ItemCount = items.Len()

	r.Logger.Info("loaded balance sheets",
		"items", items.Len(),
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	res, consts, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, items, result.ItemsHash, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = res
	result.Constants = consts
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.NodeCount = len(res.Nodes)
	result.Stats.EdgeCount = len(res.Edges)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"nodes", len(res.Nodes),
		"edges", len(res.Edges),
		"recoveries", len(res.Recoveries),
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, res, consts, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load reads the balance sheets from opts.SheetsDir.
func (r *Runner) Load(ctx context.Context, opts Options) (*balance.Collection, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	start := time.Now()
	observability.Pipeline().OnLoadStart(ctx, opts.SheetsDir)

	items, err := balance.LoadDir(opts.SheetsDir)

	count := 0
	if items != nil {
		count = items.Len()
	}
	observability.Pipeline().OnLoadComplete(ctx, opts.SheetsDir, count, time.Since(start), err)
	return items, err
}

// ComputeLayout builds the swim-lane layout, consulting the cache first.
// It is a convenience wrapper around [Runner.ComputeLayoutWithCacheInfo].
func (r *Runner) ComputeLayout(ctx context.Context, items *balance.Collection, opts Options) (layout.Result, layout.Constants, error) {
	res, consts, _, err := r.ComputeLayoutWithCacheInfo(ctx, items, itemsHash(items), opts)
	return res, consts, err
}

// ComputeLayoutWithCacheInfo builds the layout with caching and reports
// whether it was a cache hit. An empty hash is computed from the items. A
// cached layout loses its diagnostics and duration; positions,
// boundaries, and recoveries round-trip intact.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, items *balance.Collection, hash string, opts Options) (layout.Result, layout.Constants, bool, error) {
	if hash == "" {
		hash = itemsHash(items)
	}
	consts, err := loadConstants(opts.ConstantsPath)
	if err != nil {
		return layout.Result{}, layout.Constants{}, false, err
	}

	cacheKey := r.Keyer.LayoutKey(hash, opts.LayoutKeyOpts(constantsHash(consts)))

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cached, err := decodeLayout(data); err == nil {
				return cached, consts, true, nil
			}
			// Corrupt entry; fall through to recompute.
		}
	}

	start := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, items.Len())

	builder, err := layout.New(consts, layout.WithCategories(opts.Categories...))
	if err != nil {
		observability.Pipeline().OnLayoutComplete(ctx, 0, 0, time.Since(start), err)
		return layout.Result{}, layout.Constants{}, false, err
	}
	res := builder.Build(items.Items())

	observability.Pipeline().OnLayoutComplete(ctx, len(res.Nodes), len(res.Recoveries), time.Since(start), nil)

	if data, err := encodeLayout(res, consts); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout)
	}
	return res, consts, false, nil
}

// Render produces the requested formats. It is a convenience wrapper
// around [Runner.RenderWithCacheInfo].
func (r *Runner) Render(ctx context.Context, res layout.Result, consts layout.Constants, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, res, consts, opts)
	return artifacts, err
}

// RenderWithCacheInfo renders all requested formats with caching and
// reports whether every artifact came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, res layout.Result, consts layout.Constants, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	layoutData, err := encodeLayout(res, consts)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	// Try to get all formats from cache.
	artifacts := make(map[string][]byte)
	allCached := !opts.Refresh
	if allCached {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.RenderKey(layoutHash, opts.RenderKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, cacheKey)
			if err != nil || !hit {
				allCached = false
				break
			}
			artifacts[format] = data
		}
	}
	if allCached && len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil
	}

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)

	rendered, err := renderFormats(res, consts, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.RenderKey(layoutHash, opts.RenderKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLRender)
	}
	return rendered, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
