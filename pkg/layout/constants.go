package layout

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// ErrInvalidConstants is returned by [Constants.Validate] (and therefore by
// [New]) when a layout constant is zero, negative, or inconsistent where it
// must not be. Bad constants are the one unrecoverable failure mode of the
// engine and are rejected at configuration time, never per item.
var ErrInvalidConstants = errors.New("invalid layout constants")

// Constants is the fixed geometry contract shared between the layout engine
// and any consuming renderer.
//
// Every component of the engine (height estimation, boundary calculation,
// overcrowding analysis, position solving, validation) reads the same
// Constants value. A mismatch between the value used for estimation and the
// value used for placement is the single most likely source of visual bugs,
// which is why the engine takes one Constants at construction and threads
// it everywhere instead of letting components carry their own copies.
//
// All lengths are in pixels.
type Constants struct {
	// NodeWidth and NodeHeight are the rendered size of one item box.
	NodeWidth  float64 `toml:"node_width" json:"node_width"`
	NodeHeight float64 `toml:"node_height" json:"node_height"`

	// IdealPadding is the preferred vertical gap between node edges
	// within one lane+tier group.
	IdealPadding float64 `toml:"ideal_padding" json:"ideal_padding"`

	// LanePadding is the vertical gap between consecutive lane bands.
	LanePadding float64 `toml:"lane_padding" json:"lane_padding"`

	// LaneBuffer is the space reserved at the top and bottom inside a
	// lane. A lane's usable height excludes both buffers.
	LaneBuffer float64 `toml:"lane_buffer" json:"lane_buffer"`

	// MinLaneHeight is the floor for any lane band, including empty ones.
	MinLaneHeight float64 `toml:"min_lane_height" json:"min_lane_height"`

	// TierWidth is the horizontal distance between consecutive tiers.
	TierWidth float64 `toml:"tier_width" json:"tier_width"`

	// MinSpacing is the absolute minimum vertical gap between node edges.
	// Compression never goes below it; emergency placement uses exactly
	// it. Zero is allowed (back-to-back placement).
	MinSpacing float64 `toml:"min_spacing" json:"min_spacing"`

	// LabelWidth is the horizontal band reserved for lane labels at the
	// left edge. No node X ever falls inside it.
	LabelWidth float64 `toml:"label_width" json:"label_width"`

	// SlowBuild is the advisory wall-clock threshold above which a build
	// is flagged as a performance concern. Not enforced.
	SlowBuild time.Duration `toml:"-" json:"-"`
}

// DefaultConstants returns the geometry used by the bundled viewer.
func DefaultConstants() Constants {
	return Constants{
		NodeWidth:     120,
		NodeHeight:    40,
		IdealPadding:  20,
		LanePadding:   30,
		LaneBuffer:    20,
		MinLaneHeight: 80,
		TierWidth:     200,
		MinSpacing:    4,
		LabelWidth:    150,
		SlowBuild:     300 * time.Millisecond,
	}
}

// Validate checks the constants for internal consistency.
// Returns an error wrapping [ErrInvalidConstants] describing the first
// violation found, or nil if the constants are usable.
func (c Constants) Validate() error {
	switch {
	case c.NodeWidth <= 0:
		return fmt.Errorf("%w: node width must be positive, got %v", ErrInvalidConstants, c.NodeWidth)
	case c.NodeHeight <= 0:
		return fmt.Errorf("%w: node height must be positive, got %v", ErrInvalidConstants, c.NodeHeight)
	case c.TierWidth <= 0:
		return fmt.Errorf("%w: tier width must be positive, got %v", ErrInvalidConstants, c.TierWidth)
	case c.MinLaneHeight <= 0:
		return fmt.Errorf("%w: minimum lane height must be positive, got %v", ErrInvalidConstants, c.MinLaneHeight)
	case c.IdealPadding < 0:
		return fmt.Errorf("%w: ideal padding must not be negative, got %v", ErrInvalidConstants, c.IdealPadding)
	case c.LanePadding < 0:
		return fmt.Errorf("%w: lane padding must not be negative, got %v", ErrInvalidConstants, c.LanePadding)
	case c.LaneBuffer < 0:
		return fmt.Errorf("%w: lane buffer must not be negative, got %v", ErrInvalidConstants, c.LaneBuffer)
	case c.MinSpacing < 0:
		return fmt.Errorf("%w: minimum spacing must not be negative, got %v", ErrInvalidConstants, c.MinSpacing)
	case c.MinSpacing > c.IdealPadding:
		return fmt.Errorf("%w: minimum spacing %v exceeds ideal padding %v", ErrInvalidConstants, c.MinSpacing, c.IdealPadding)
	case c.LabelWidth < 0:
		return fmt.Errorf("%w: label width must not be negative, got %v", ErrInvalidConstants, c.LabelWidth)
	}
	return nil
}

// minX returns the smallest valid node center X: nodes never overlap the
// lane label band.
func (c Constants) minX() float64 {
	return c.LabelWidth + c.NodeWidth/2
}

// tierX returns the center X shared by every node in the given tier.
func (c Constants) tierX(tier int) float64 {
	x := c.LabelWidth + float64(tier)*c.TierWidth + c.NodeWidth/2
	if min := c.minX(); x < min {
		return min
	}
	return x
}

// LoadConstants reads TOML overrides from path on top of the defaults.
// Keys not present in the file keep their default value, so a config file
// only needs to name the constants it changes. The merged result is
// validated before being returned.
func LoadConstants(path string) (Constants, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Constants{}, fmt.Errorf("read constants %s: %w", path, err)
	}

	c := DefaultConstants()
	if err := toml.Unmarshal(data, &c); err != nil {
		return Constants{}, fmt.Errorf("parse constants %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return Constants{}, err
	}
	return c, nil
}
