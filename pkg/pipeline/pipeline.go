// Package pipeline provides the core load → layout → render pipeline.
//
// The CLI and the viewer server both execute diagram builds through this
// package so caching, logging, and option validation behave identically
// across entry points.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: read balance sheets from a directory into a collection
//  2. Layout: compute swim-lane positions for the progression graph
//  3. Render: generate output in various formats (SVG, DOT, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
// Layout and render results are cached by content hash, so editing one
// balance sheet invalidates exactly the artifacts derived from it.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    SheetsDir: "./balance",
//	    Formats:   []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sproutworks/furrow/pkg/balance"
	"github.com/sproutworks/furrow/pkg/cache"
	"github.com/sproutworks/furrow/pkg/layout"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// ValidThemes is the set of supported color themes.
var ValidThemes = map[string]bool{
	"light": true,
	"dark":  true,
}

// DefaultTheme is the color theme used when none is requested.
const DefaultTheme = "light"

// Options contains all configuration for the diagram pipeline.
// The struct serializes to JSON for viewer API requests.
type Options struct {
	// Load options
	SheetsDir  string   `json:"sheets_dir"`
	Categories []string `json:"categories,omitempty"`
	// Refresh bypasses the cache for every stage.
	Refresh bool `json:"refresh,omitempty"`

	// Layout options. ConstantsPath points at a TOML override file;
	// empty means defaults.
	ConstantsPath string `json:"constants_path,omitempty"`

	// Render options
	Formats   []string `json:"formats,omitempty"`
	Theme     string   `json:"theme,omitempty"`
	ShowEdges bool     `json:"show_edges,omitempty"`
	LaneNames bool     `json:"lane_names,omitempty"`
	Detailed  bool     `json:"detailed,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Items is the loaded balance collection.
	Items *balance.Collection

	// ItemsHash is the content hash of the loaded item set.
	ItemsHash string

	// Layout is the computed swim-lane layout.
	Layout layout.Result

	// Constants is the geometry the layout was built with.
	Constants layout.Constants

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ItemCount  int
	NodeCount  int
	EdgeCount  int
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // layout came from cache
	RenderHit bool // all artifacts came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, dot, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateTheme checks that a theme is valid.
func ValidateTheme(theme string) error {
	if !ValidThemes[theme] {
		return fmt.Errorf("invalid theme: %q (must be one of: light, dark)", theme)
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults for
// the full pipeline. Idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidateTheme(o.Theme); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks required fields for sheet loading.
func (o *Options) ValidateForLoad() error {
	if o.SheetsDir == "" {
		return fmt.Errorf("sheets_dir is required")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Theme == "" {
		o.Theme = DefaultTheme
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	return ValidateTheme(o.Theme)
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts(constantsHash string) cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		ConstantsHash: constantsHash,
		Categories:    o.Categories,
	}
}

// RenderKeyOpts returns cache key options for one rendered format.
func (o *Options) RenderKeyOpts(format string) cache.RenderKeyOpts {
	return cache.RenderKeyOpts{
		Format: format,
		Theme:  renderVariant(o, format),
	}
}

// renderVariant folds the boolean render switches into the theme
// component of the cache key, so toggling edges or labels invalidates
// only the affected format.
func renderVariant(o *Options, format string) string {
	v := o.Theme
	if o.ShowEdges {
		v += "+edges"
	}
	if o.LaneNames {
		v += "+lanes"
	}
	if o.Detailed && format == FormatDOT {
		v += "+detail"
	}
	return v
}
